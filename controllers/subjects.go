package controllers

import (
	"strconv"

	"staffpoint_go/database"
	"staffpoint_go/middleware"
	"staffpoint_go/models"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
)

type SubjectController struct{}

// GetSubjects returns all subjects
func (sc *SubjectController) GetSubjects(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Subject{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var subjects []models.Subject
	if err := query.Order("name ASC").Find(&subjects).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch subjects", err))
	}
	return utils.Success(c, subjects)
}

// GetSubject returns a specific subject by ID
func (sc *SubjectController) GetSubject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid subject ID"))
	}

	var subject models.Subject
	if err := database.DB.First(&subject, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Subject not found"))
	}
	return utils.Success(c, subject)
}

// CreateSubject creates a new subject
func (sc *SubjectController) CreateSubject(c *fiber.Ctx) error {
	var subject models.Subject
	if err := c.BodyParser(&subject); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}

	if subject.Name == "" {
		return utils.RespondError(c, utils.ValidationError("Subject name is required"))
	}

	if subject.Code != "" {
		var existing models.Subject
		if err := database.DB.Where("code = ?", subject.Code).First(&existing).Error; err == nil {
			return utils.RespondError(c, utils.ConflictError("Subject code already exists"))
		}
	}

	if subject.Status == "" {
		subject.Status = "active"
	}

	if err := database.DB.Create(&subject).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create subject", err))
	}

	middleware.LogActivity(c, "CREATE", "subjects", subject.ID, subject)

	return utils.Created(c, subject)
}

// UpdateSubject updates an existing subject
func (sc *SubjectController) UpdateSubject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid subject ID"))
	}

	var subject models.Subject
	if err := database.DB.First(&subject, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Subject not found"))
	}

	var updateData models.Subject
	if err := c.BodyParser(&updateData); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}

	if updateData.Code != "" && updateData.Code != subject.Code {
		var existing models.Subject
		if err := database.DB.Where("code = ? AND id != ?", updateData.Code, subject.ID).First(&existing).Error; err == nil {
			return utils.RespondError(c, utils.ConflictError("Subject code already exists"))
		}
	}

	if err := database.DB.Model(&subject).Updates(updateData).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update subject", err))
	}

	middleware.LogActivity(c, "UPDATE", "subjects", subject.ID, updateData)

	return utils.Success(c, subject)
}

// DeleteSubject deletes a subject without scheduled slots
func (sc *SubjectController) DeleteSubject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid subject ID"))
	}

	var subject models.Subject
	if err := database.DB.First(&subject, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Subject not found"))
	}

	var slotCount int64
	database.DB.Model(&models.TimetableSlot{}).Where("subject_id = ?", subject.ID).Count(&slotCount)
	if slotCount > 0 {
		return utils.RespondError(c, utils.ConflictError("Subject has timetable slots; remove them first"))
	}

	if err := database.DB.Delete(&subject).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to delete subject", err))
	}

	middleware.LogActivity(c, "DELETE", "subjects", subject.ID, subject)

	return utils.Success(c, fiber.Map{"message": "Subject deleted successfully"})
}
