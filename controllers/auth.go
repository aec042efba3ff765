package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"staffpoint_go/database"
	"staffpoint_go/middleware"
	"staffpoint_go/models"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct{}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user and returns a JWT token
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	var user models.User
	if err := database.DB.Where("username = ? AND status = ?", req.Username, "active").First(&user).Error; err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("Invalid credentials"))
	}

	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("Invalid credentials"))
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to generate token", err))
	}

	database.DB.Preload("Employee").First(&user, user.ID)

	middleware.LogActivity(c, "LOGIN", "auth", user.ID, fiber.Map{
		"username": user.Username,
		"role":     user.Role,
	})

	return utils.Success(c, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"avatar":   user.Avatar,
			"employee": user.Employee,
		},
	})
}

// Logout invalidates the current JWT by blacklisting it in Redis
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.RespondError(c, utils.ValidationError("Missing authorization header"))
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return utils.RespondError(c, utils.ValidationError("Invalid authorization header format"))
	}

	// Blacklist for the maximum token lifetime. If Redis is down the
	// logout still succeeds; the token simply expires on its own.
	if rc := database.GetRedisClient(); rc != nil {
		key := "blacklist:jwt:" + tokenString
		if err := rc.Set(context.Background(), key, "1", 24*time.Hour).Err(); err != nil {
			middleware.LogActivity(c, "LOGOUT", "auth", 0, fiber.Map{"error": err.Error()})
		}
	}

	if user, err := middleware.GetCurrentUser(c); err == nil {
		middleware.LogActivity(c, "LOGOUT", "auth", user.ID, fiber.Map{"username": user.Username})
	}

	return utils.Success(c, fiber.Map{"message": "Logged out successfully"})
}

// GetProfile returns the current user's profile
func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	database.DB.Preload("Employee").First(user, user.ID)

	return utils.Success(c, fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"phone":    user.Phone,
		"role":     user.Role,
		"status":   user.Status,
		"avatar":   user.Avatar,
		"employee": user.Employee,
	})
}

// ChangePassword allows users to change their own password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	var req struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=6"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	if err := utils.CheckPassword(req.CurrentPassword, user.Password); err != nil {
		return utils.RespondError(c, utils.ValidationError("Current password is incorrect"))
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to hash password", err))
	}

	if err := database.DB.Model(user).Update("password", hashedPassword).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update password", err))
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, fiber.Map{"action": "password_change"})

	return utils.Success(c, fiber.Map{"message": "Password changed successfully"})
}

// GeneratePasswordResetToken generates a reset token for a user (admin only)
func (ac *AuthController) GeneratePasswordResetToken(c *fiber.Ctx) error {
	currentUser, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	var req struct {
		UserID uint `json:"user_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	var targetUser models.User
	if err := database.DB.First(&targetUser, req.UserID).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("User not found"))
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to generate reset token", err))
	}
	token := hex.EncodeToString(tokenBytes)
	expiresAt := time.Now().Add(1 * time.Hour)

	if err := database.DB.Model(&targetUser).Updates(map[string]interface{}{
		"password_reset_token":   token,
		"password_reset_expires": expiresAt,
	}).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to save reset token", err))
	}

	middleware.LogActivity(c, "CREATE", "password_reset_token", targetUser.ID, fiber.Map{
		"target_user":  targetUser.Username,
		"generated_by": currentUser.Username,
		"expires_at":   expiresAt,
	})

	return utils.Success(c, fiber.Map{
		"token":      token,
		"expires_at": expiresAt,
		"user": fiber.Map{
			"id":       targetUser.ID,
			"username": targetUser.Username,
			"email":    targetUser.Email,
		},
	})
}

// ResetPasswordByAdmin sets a user's password directly (admin only)
func (ac *AuthController) ResetPasswordByAdmin(c *fiber.Ctx) error {
	currentUser, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	var req struct {
		UserID      uint   `json:"user_id" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=6"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	var targetUser models.User
	if err := database.DB.First(&targetUser, req.UserID).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("User not found"))
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to hash password", err))
	}

	if err := database.DB.Model(&targetUser).Updates(map[string]interface{}{
		"password":                hashedPassword,
		"password_reset_by_admin": true,
		"password_reset_token":    nil,
		"password_reset_expires":  nil,
	}).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to reset password", err))
	}

	middleware.LogActivity(c, "UPDATE", "password_reset_admin", targetUser.ID, fiber.Map{
		"target_user": targetUser.Username,
		"reset_by":    currentUser.Username,
	})

	return utils.Success(c, fiber.Map{
		"message": "Password reset successfully",
		"user": fiber.Map{
			"id":       targetUser.ID,
			"username": targetUser.Username,
		},
	})
}

// ResetPasswordWithToken resets a password using a valid reset token
func (ac *AuthController) ResetPasswordWithToken(c *fiber.Ctx) error {
	var req struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=6"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	var user models.User
	if err := database.DB.Where("password_reset_token = ? AND password_reset_expires > ?",
		req.Token, time.Now()).First(&user).Error; err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid or expired reset token"))
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to hash password", err))
	}

	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"password":                hashedPassword,
		"password_reset_token":    nil,
		"password_reset_expires":  nil,
		"password_reset_by_admin": false,
	}).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to reset password", err))
	}

	middleware.LogActivity(c, "UPDATE", "password_reset_token", user.ID, fiber.Map{
		"username": user.Username,
		"method":   "token_reset",
	})

	return utils.Success(c, fiber.Map{"message": "Password reset successfully"})
}
