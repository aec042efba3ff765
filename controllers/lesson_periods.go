package controllers

import (
	"strconv"

	"staffpoint_go/database"
	"staffpoint_go/middleware"
	"staffpoint_go/models"
	"staffpoint_go/services/attendance"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
)

type LessonPeriodController struct{}

// LessonPeriodRequest represents the create/update body
type LessonPeriodRequest struct {
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

func validatePeriodTimes(req LessonPeriodRequest) error {
	sh, sm, err := attendance.ParseHourMinute(req.StartTime)
	if err != nil {
		return utils.ValidationError("start_time must be HH:MM")
	}
	eh, em, err := attendance.ParseHourMinute(req.EndTime)
	if err != nil {
		return utils.ValidationError("end_time must be HH:MM")
	}
	if eh*60+em <= sh*60+sm {
		return utils.ValidationError("end_time must be after start_time")
	}
	return nil
}

// GetLessonPeriods returns all lesson periods in display order
func (lc *LessonPeriodController) GetLessonPeriods(c *fiber.Ctx) error {
	var periods []models.LessonPeriod
	if err := database.DB.Order("sort_order ASC, start_time ASC").Find(&periods).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch lesson periods", err))
	}
	return utils.Success(c, periods)
}

// GetLessonPeriod returns a specific lesson period by ID
func (lc *LessonPeriodController) GetLessonPeriod(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid lesson period ID"))
	}

	var period models.LessonPeriod
	if err := database.DB.First(&period, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Lesson period not found"))
	}
	return utils.Success(c, period)
}

// CreateLessonPeriod creates a new lesson period
func (lc *LessonPeriodController) CreateLessonPeriod(c *fiber.Ctx) error {
	var req LessonPeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}
	if err := validatePeriodTimes(req); err != nil {
		return utils.RespondError(c, err)
	}

	period := models.LessonPeriod{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SortOrder: req.SortOrder,
	}
	if period.SortOrder == 0 {
		period.SortOrder = 1
	}

	if err := database.DB.Create(&period).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create lesson period", err))
	}

	middleware.LogActivity(c, "CREATE", "lesson_periods", period.ID, period)

	return utils.Created(c, period)
}

// UpdateLessonPeriod updates an existing lesson period
func (lc *LessonPeriodController) UpdateLessonPeriod(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid lesson period ID"))
	}

	var period models.LessonPeriod
	if err := database.DB.First(&period, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Lesson period not found"))
	}

	var req LessonPeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}
	if err := validatePeriodTimes(req); err != nil {
		return utils.RespondError(c, err)
	}

	updates := map[string]interface{}{
		"name":       req.Name,
		"start_time": req.StartTime,
		"end_time":   req.EndTime,
	}
	if req.SortOrder > 0 {
		updates["sort_order"] = req.SortOrder
	}

	if err := database.DB.Model(&period).Updates(updates).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update lesson period", err))
	}

	middleware.LogActivity(c, "UPDATE", "lesson_periods", period.ID, req)

	return utils.Success(c, period)
}

// DeleteLessonPeriod deletes a lesson period without scheduled slots
func (lc *LessonPeriodController) DeleteLessonPeriod(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid lesson period ID"))
	}

	var period models.LessonPeriod
	if err := database.DB.First(&period, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Lesson period not found"))
	}

	var slotCount int64
	database.DB.Model(&models.TimetableSlot{}).Where("lesson_period_id = ?", period.ID).Count(&slotCount)
	if slotCount > 0 {
		return utils.RespondError(c, utils.ConflictError("Lesson period has timetable slots; remove them first"))
	}

	if err := database.DB.Delete(&period).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to delete lesson period", err))
	}

	middleware.LogActivity(c, "DELETE", "lesson_periods", period.ID, period)

	return utils.Success(c, fiber.Map{"message": "Lesson period deleted successfully"})
}
