package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"staffpoint_go/config"
	"staffpoint_go/database"
	"staffpoint_go/middleware"
	"staffpoint_go/models"
	"staffpoint_go/services"
	"staffpoint_go/services/attendance"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
)

// ClassAttendanceController handles trainer check-in for scheduled
// lessons, subject to the check-in window and the campus geofence.
type ClassAttendanceController struct{}

// ClassCheckInRequest represents the class check-in body. Coordinates
// are optional for online sessions.
type ClassCheckInRequest struct {
	TimetableSlotID uint     `json:"timetable_slot_id" validate:"required"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// CheckIn records attendance for one of the trainer's slots today.
// Window and location are both enforced here; the listing endpoint
// only advertises the same decision.
func (cac *ClassAttendanceController) CheckIn(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	var req ClassCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	var slot models.TimetableSlot
	if err := database.DB.Preload("Class").Preload("LessonPeriod").Preload("Term").First(&slot, req.TimetableSlotID).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Timetable slot not found"))
	}
	if slot.TrainerID != user.ID {
		return utils.RespondError(c, utils.DomainError("This slot is not assigned to you"))
	}
	if slot.Status != "scheduled" {
		return utils.RespondError(c, utils.DomainError("This slot is not scheduled"))
	}

	loc := config.AppConfig.Location()
	now := time.Now().In(loc)
	today := attendance.DateOnly(now)

	// Slots from expired or deactivated terms are dead to check-in, the
	// same way the absence reconciler never visits them.
	if !slot.Term.IsActive || !slot.Term.CoversDate(today) {
		return utils.RespondError(c, utils.DomainError("This slot's term is not active today"))
	}

	if slot.DayOfWeek != int(now.Weekday()) {
		return utils.RespondError(c, utils.DomainError("This slot is not scheduled for today"))
	}

	lessonStart, err := attendance.LessonStartAt(today, slot.LessonPeriod.StartTime, loc)
	if errors.Is(err, attendance.ErrNoLessonPeriod) {
		return utils.RespondError(c, utils.DomainError("No lesson period found"))
	} else if err != nil {
		return utils.RespondError(c, utils.InternalError("Lesson period misconfigured", err))
	}

	cfg := services.NewSettingsService().WindowConfig()
	decision := attendance.EvaluateWindow(lessonStart, now, cfg)
	if !decision.Allowed {
		return utils.RespondError(c, utils.DomainError(decision.Reason))
	}

	// One record per slot per day
	var existing models.ClassAttendanceRecord
	if err := database.DB.
		Where("trainer_id = ? AND timetable_slot_id = ? AND date = ?", user.ID, slot.ID, today.Format("2006-01-02")).
		First(&existing).Error; err == nil {
		if existing.Status == models.ClassAttendanceAbsent {
			return utils.RespondError(c, utils.ConflictError("This lesson was already marked absent"))
		}
		return utils.RespondError(c, utils.ConflictError("Already checked into this lesson"))
	}

	// One class at a time: an earlier lesson must be checked out first
	var open models.ClassAttendanceRecord
	if err := database.DB.Preload("Class").
		Where("trainer_id = ? AND date = ? AND check_in_time IS NOT NULL AND check_out_time IS NULL",
			user.ID, today.Format("2006-01-02")).
		First(&open).Error; err == nil {
		return utils.RespondError(c, utils.ConflictError(
			fmt.Sprintf("Already checked into %s, check out first", open.Class.Name)))
	}

	record := models.ClassAttendanceRecord{
		TrainerID:       user.ID,
		ClassID:         slot.ClassID,
		TimetableSlotID: &slot.ID,
		Date:            today,
		CheckInTime:     &now,
	}

	if slot.IsOnlineSession {
		record.LocationVerified = false
	} else {
		if req.Latitude == nil || req.Longitude == nil {
			return utils.RespondError(c, utils.ValidationError("latitude and longitude are required for on-site lessons"))
		}
		withinRange, distance := attendance.VerifyLocation(*req.Latitude, *req.Longitude)
		if !withinRange {
			return utils.RespondError(c, utils.DomainError(fmt.Sprintf(
				"Check-in rejected: you are %.0f m from campus, outside the %.0f m allowed radius",
				distance, attendance.GeofenceRadiusM)))
		}
		record.LocationVerified = true
		record.DistanceMeters = &distance
	}

	if decision.IsLate {
		record.Status = models.ClassAttendanceLate
	} else {
		record.Status = models.ClassAttendancePresent
	}

	if err := database.DB.Create(&record).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to save attendance", err))
	}

	middleware.LogActivity(c, "CREATE", "class_attendance", record.ID, fiber.Map{
		"slot_id": slot.ID,
		"status":  record.Status,
	})

	BroadcastAttendanceEvent("class_attendance.check_in", fiber.Map{
		"trainer_id": user.ID,
		"class_id":   slot.ClassID,
		"slot_id":    slot.ID,
		"class_name": slot.Class.Name,
		"status":     record.Status,
		"date":       today.Format("2006-01-02"),
	})

	return utils.Created(c, utils.ToClassAttendanceDTO(record))
}

// CheckOut closes the trainer's open class attendance for a slot
func (cac *ClassAttendanceController) CheckOut(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	var req struct {
		TimetableSlotID uint `json:"timetable_slot_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}

	loc := config.AppConfig.Location()
	now := time.Now().In(loc)
	today := attendance.DateOnly(now)

	var record models.ClassAttendanceRecord
	if err := database.DB.
		Where("trainer_id = ? AND timetable_slot_id = ? AND date = ?", user.ID, req.TimetableSlotID, today.Format("2006-01-02")).
		First(&record).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("No attendance record for this slot today"))
	}
	if record.CheckInTime == nil {
		return utils.RespondError(c, utils.DomainError("This lesson has no check-in to close"))
	}
	if record.CheckOutTime != nil {
		return utils.RespondError(c, utils.ConflictError("Already checked out of this lesson"))
	}

	if err := database.DB.Model(&record).Update("check_out_time", now).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to save checkout", err))
	}
	record.CheckOutTime = &now

	middleware.LogActivity(c, "UPDATE", "class_attendance", record.ID, fiber.Map{"action": "check_out"})

	BroadcastAttendanceEvent("class_attendance.check_out", fiber.Map{
		"trainer_id": user.ID,
		"class_id":   record.ClassID,
		"slot_id":    req.TimetableSlotID,
		"date":       today.Format("2006-01-02"),
	})

	return utils.Success(c, utils.ToClassAttendanceDTO(record))
}

// GetMyClassAttendance returns the current trainer's attendance history
func (cac *ClassAttendanceController) GetMyClassAttendance(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	query := database.DB.Preload("Class").Preload("Trainer").Where("trainer_id = ?", user.ID)
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var records []models.ClassAttendanceRecord
	if err := query.Order("date DESC").Limit(200).Find(&records).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch class attendance", err))
	}

	dtos := make([]utils.ClassAttendanceDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, utils.ToClassAttendanceDTO(rec))
	}

	return utils.Success(c, dtos)
}

// GetClassAttendance returns class attendance records (admin)
func (cac *ClassAttendanceController) GetClassAttendance(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.ClassAttendanceRecord{}).Preload("Class").Preload("Trainer")
	if trainerID := c.Query("trainer_id"); trainerID != "" {
		query = query.Where("trainer_id = ?", trainerID)
	}
	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var records []models.ClassAttendanceRecord
	if err := query.Order("date DESC, trainer_id ASC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch class attendance", err))
	}

	dtos := make([]utils.ClassAttendanceDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, utils.ToClassAttendanceDTO(rec))
	}

	return utils.Success(c, fiber.Map{
		"records": dtos,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
