package controllers

import (
	"strconv"
	"strings"

	"staffpoint_go/config"
	"staffpoint_go/database"
	"staffpoint_go/middleware"
	"staffpoint_go/models"
	"staffpoint_go/storage"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserController struct{}

// CreateUserRequest represents the user creation body
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=6"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Role      string `json:"role" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

// GetUsers returns all users with pagination
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Preload("Employee").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch users", err))
	}

	return utils.Success(c, fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUser returns a specific user by ID
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid user ID"))
	}

	var user models.User
	if err := database.DB.Preload("Employee").First(&user, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("User not found"))
	}

	return utils.Success(c, user)
}

// CreateUser creates a new user with an attached employee profile
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	if !utils.IsValidRole(req.Role) {
		return utils.RespondError(c, utils.ValidationError("Invalid role. Must be: admin, staff, or trainer"))
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return utils.RespondError(c, utils.ConflictError("Username already exists"))
	}
	if req.Email != "" {
		if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			return utils.RespondError(c, utils.ConflictError("Email already exists"))
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to hash password", err))
	}

	user := models.User{
		Username: req.Username,
		Password: hashedPassword,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Status:   "active",
	}

	// User and employee profile are created atomically
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		employee := models.Employee{
			UserID:    user.ID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Position:  req.Position,
			IsActive:  true,
		}
		return tx.Create(&employee).Error
	})
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create user", err))
	}

	database.DB.Preload("Employee").First(&user, user.ID)

	middleware.LogActivity(c, "CREATE", "users", user.ID, fiber.Map{
		"username": user.Username,
		"role":     user.Role,
	})

	return utils.Created(c, user)
}

// UpdateUser updates a user's account fields
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid user ID"))
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("User not found"))
	}

	var req struct {
		Email  string `json:"email" validate:"omitempty,email"`
		Phone  string `json:"phone"`
		Role   string `json:"role"`
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Email != "" {
		var existing models.User
		if err := database.DB.Where("email = ? AND id != ?", req.Email, user.ID).First(&existing).Error; err == nil {
			return utils.RespondError(c, utils.ConflictError("Email already exists"))
		}
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Role != "" {
		if !utils.IsValidRole(req.Role) {
			return utils.RespondError(c, utils.ValidationError("Invalid role. Must be: admin, staff, or trainer"))
		}
		updates["role"] = req.Role
	}
	if req.Status != "" {
		if !utils.IsValidStatus(req.Status) {
			return utils.RespondError(c, utils.ValidationError("Invalid status. Must be: active, inactive, or suspended"))
		}
		updates["status"] = req.Status
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return utils.RespondError(c, utils.InternalError("Failed to update user", err))
		}
	}

	database.DB.Preload("Employee").First(&user, user.ID)

	middleware.LogActivity(c, "UPDATE", "users", user.ID, updates)

	return utils.Success(c, user)
}

// DeleteUser soft-deletes a user
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid user ID"))
	}

	currentUser, err := middleware.GetCurrentUser(c)
	if err == nil && currentUser.ID == uint(id) {
		return utils.RespondError(c, utils.DomainError("Cannot delete your own account"))
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("User not found"))
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to delete user", err))
	}

	middleware.LogActivity(c, "DELETE", "users", user.ID, fiber.Map{"username": user.Username})

	return utils.Success(c, fiber.Map{"message": "User deleted successfully"})
}

// UploadAvatar uploads a new avatar image for the current user
func (uc *UserController) UploadAvatar(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Missing avatar file"))
	}

	allowed := strings.Split(config.AppConfig.AllowedExtensions, ",")
	if !utils.IsValidFileExtension(file.Filename, allowed) {
		return utils.RespondError(c, utils.ValidationError("Unsupported file type"))
	}

	storageService, err := storage.NewStorageService()
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Storage unavailable", err))
	}

	url, err := storageService.UploadFile(file, "avatars", user.ID)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to upload avatar", err))
	}

	oldAvatar := user.Avatar
	if err := database.DB.Model(user).Update("avatar", url).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to save avatar", err))
	}

	if oldAvatar != "" {
		if err := storageService.DeleteFile(oldAvatar); err != nil {
			logrus.WithError(err).Warn("Failed to delete previous avatar")
		}
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, fiber.Map{"action": "avatar_upload"})

	return utils.Success(c, fiber.Map{"avatar": url})
}
