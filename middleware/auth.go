package middleware

import (
	"context"
	"errors"
	"staffpoint_go/config"
	"staffpoint_go/database"
	"staffpoint_go/models"
	"staffpoint_go/utils"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.AppConfig.JWTExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// JWTMiddleware validates JWT tokens
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.RespondError(c, utils.UnauthorizedError("Missing authorization header"))
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return utils.RespondError(c, utils.UnauthorizedError("Invalid authorization header format"))
		}

		// Reject tokens blacklisted at logout
		if rc := database.GetRedisClient(); rc != nil {
			if exists, _ := rc.Exists(context.Background(), "blacklist:jwt:"+tokenString).Result(); exists > 0 {
				return utils.RespondError(c, utils.UnauthorizedError("Token has been revoked"))
			}
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWTSecret), nil
		})

		if err != nil {
			// Expiry is a distinct code so clients can refresh instead
			// of re-prompting credentials.
			if errors.Is(err, jwt.ErrTokenExpired) {
				return utils.RespondError(c, &utils.AppError{
					Code:    utils.ErrCodeTokenExpired,
					Status:  fiber.StatusUnauthorized,
					Message: "Token expired",
				})
			}
			return utils.RespondError(c, utils.UnauthorizedError("Invalid token"))
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid {
			return utils.RespondError(c, utils.UnauthorizedError("Invalid token claims"))
		}

		// Verify user still exists and is active
		var user models.User
		if err := database.DB.Where("id = ? AND status = ?", claims.UserID, "active").First(&user).Error; err != nil {
			return utils.RespondError(c, utils.UnauthorizedError("User not found or inactive"))
		}

		c.Locals("user", &user)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// RequireRole middleware checks if user has required role
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*Claims)
		if !ok {
			return utils.RespondError(c, utils.UnauthorizedError("Missing user claims"))
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return utils.RespondError(c, &utils.AppError{
			Code:    utils.ErrCodeForbidden,
			Status:  fiber.StatusForbidden,
			Message: "Insufficient permissions",
		})
	}
}

// RequireAdmin middleware allows only admins
func RequireAdmin() fiber.Handler {
	return RequireRole("admin")
}

// RequireTrainerOrAdmin middleware allows trainers and admins
func RequireTrainerOrAdmin() fiber.Handler {
	return RequireRole("trainer", "admin")
}

// GetCurrentUser returns the current authenticated user
func GetCurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "User not found in context")
	}
	return user, nil
}

// GetCurrentClaims returns the current JWT claims
func GetCurrentClaims(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals("claims").(*Claims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Claims not found in context")
	}
	return claims, nil
}
