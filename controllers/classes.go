package controllers

import (
	"strconv"

	"staffpoint_go/database"
	"staffpoint_go/middleware"
	"staffpoint_go/models"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
)

type ClassController struct{}

// GetClasses returns all classes with pagination
func (cc *ClassController) GetClasses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Class{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}

	var total int64
	query.Count(&total)

	var classes []models.Class
	if err := query.Offset(offset).Limit(limit).Find(&classes).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch classes", err))
	}

	return utils.Success(c, fiber.Map{
		"classes": classes,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetClass returns a specific class by ID
func (cc *ClassController) GetClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid class ID"))
	}

	var class models.Class
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Class not found"))
	}
	return utils.Success(c, class)
}

// CreateClass creates a new class
func (cc *ClassController) CreateClass(c *fiber.Ctx) error {
	var class models.Class
	if err := c.BodyParser(&class); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}

	if class.Name == "" {
		return utils.RespondError(c, utils.ValidationError("Class name is required"))
	}

	if class.Code != "" {
		var existing models.Class
		if err := database.DB.Where("code = ?", class.Code).First(&existing).Error; err == nil {
			return utils.RespondError(c, utils.ConflictError("Class code already exists"))
		}
	}

	if class.Status == "" {
		class.Status = "active"
	}

	if err := database.DB.Create(&class).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create class", err))
	}

	middleware.LogActivity(c, "CREATE", "classes", class.ID, class)

	return utils.Created(c, class)
}

// UpdateClass updates an existing class
func (cc *ClassController) UpdateClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid class ID"))
	}

	var class models.Class
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Class not found"))
	}

	var updateData models.Class
	if err := c.BodyParser(&updateData); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}

	if updateData.Code != "" && updateData.Code != class.Code {
		var existing models.Class
		if err := database.DB.Where("code = ? AND id != ?", updateData.Code, class.ID).First(&existing).Error; err == nil {
			return utils.RespondError(c, utils.ConflictError("Class code already exists"))
		}
	}

	if err := database.DB.Model(&class).Updates(updateData).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update class", err))
	}

	middleware.LogActivity(c, "UPDATE", "classes", class.ID, updateData)

	return utils.Success(c, class)
}

// DeleteClass deletes a class without scheduled slots
func (cc *ClassController) DeleteClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid class ID"))
	}

	var class models.Class
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Class not found"))
	}

	var slotCount int64
	database.DB.Model(&models.TimetableSlot{}).Where("class_id = ?", class.ID).Count(&slotCount)
	if slotCount > 0 {
		return utils.RespondError(c, utils.ConflictError("Class has timetable slots; remove them first"))
	}

	if err := database.DB.Delete(&class).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to delete class", err))
	}

	middleware.LogActivity(c, "DELETE", "classes", class.ID, class)

	return utils.Success(c, fiber.Map{"message": "Class deleted successfully"})
}
