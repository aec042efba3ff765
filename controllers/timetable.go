package controllers

import (
	"errors"
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
	"github.com/sirupsen/logrus"
)

type TimetableController struct{}

// TimetableSlotRequest represents the slot create/update body
type TimetableSlotRequest struct {
	ClassID         uint   `json:"class_id" validate:"required"`
	SubjectID       uint   `json:"subject_id" validate:"required"`
	TrainerID       uint   `json:"trainer_id" validate:"required"`
	RoomID          uint   `json:"room_id"`
	LessonPeriodID  uint   `json:"lesson_period_id" validate:"required"`
	TermID          uint   `json:"term_id" validate:"required"`
	DayOfWeek       *int   `json:"day_of_week" validate:"required"`
	IsOnlineSession bool   `json:"is_online_session"`
	Notes           string `json:"notes"`
}

// validateSlotRefs verifies every referenced entity exists and the
// trainer actually has the trainer role.
func validateSlotRefs(req TimetableSlotRequest) error {
	if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return utils.ValidationError("day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	}

	var class models.Class
	if err := database.DB.First(&class, req.ClassID).Error; err != nil {
		return utils.ValidationError("Class not found")
	}
	var subject models.Subject
	if err := database.DB.First(&subject, req.SubjectID).Error; err != nil {
		return utils.ValidationError("Subject not found")
	}
	var trainer models.User
	if err := database.DB.First(&trainer, req.TrainerID).Error; err != nil {
		return utils.ValidationError("Trainer not found")
	}
	if trainer.Role != "trainer" && trainer.Role != "admin" {
		return utils.ValidationError("Assigned user is not a trainer")
	}
	var period models.LessonPeriod
	if err := database.DB.First(&period, req.LessonPeriodID).Error; err != nil {
		return utils.ValidationError("Lesson period not found")
	}
	var term models.Term
	if err := database.DB.First(&term, req.TermID).Error; err != nil {
		return utils.ValidationError("Term not found")
	}
	if req.RoomID != 0 {
		var room models.Room
		if err := database.DB.First(&room, req.RoomID).Error; err != nil {
			return utils.ValidationError("Room not found")
		}
	}
	return nil
}

// slotCollides reports whether another scheduled slot occupies the same
// lesson period on the same weekday for the trainer or the room.
func slotCollides(req TimetableSlotRequest, excludeID uint) (string, error) {
	var count int64
	err := database.DB.Model(&models.TimetableSlot{}).
		Where("id != ? AND term_id = ? AND day_of_week = ? AND lesson_period_id = ? AND trainer_id = ? AND status = ?",
			excludeID, req.TermID, *req.DayOfWeek, req.LessonPeriodID, req.TrainerID, "scheduled").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "Trainer already has a class in this period", nil
	}

	if req.RoomID != 0 && !req.IsOnlineSession {
		err = database.DB.Model(&models.TimetableSlot{}).
			Where("id != ? AND term_id = ? AND day_of_week = ? AND lesson_period_id = ? AND room_id = ? AND status = ?",
				excludeID, req.TermID, *req.DayOfWeek, req.LessonPeriodID, req.RoomID, "scheduled").
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count > 0 {
			return "Room is already booked in this period", nil
		}
	}
	return "", nil
}

// GetTimetable returns slots, filterable by term, trainer, class or day
func (tc *TimetableController) GetTimetable(c *fiber.Ctx) error {
	query := database.DB.Model(&models.TimetableSlot{}).
		Preload("Class").Preload("Subject").Preload("Trainer").
		Preload("Room").Preload("LessonPeriod").Preload("Term")

	if termID := c.Query("term_id"); termID != "" {
		query = query.Where("term_id = ?", termID)
	}
	if trainerID := c.Query("trainer_id"); trainerID != "" {
		query = query.Where("trainer_id = ?", trainerID)
	}
	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if day := c.Query("day_of_week"); day != "" {
		query = query.Where("day_of_week = ?", day)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var slots []models.TimetableSlot
	if err := query.Order("day_of_week ASC").Find(&slots).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch timetable", err))
	}

	return utils.Success(c, slots)
}

// GetSlot returns a specific timetable slot by ID
func (tc *TimetableController) GetSlot(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid slot ID"))
	}

	var slot models.TimetableSlot
	if err := database.DB.
		Preload("Class").Preload("Subject").Preload("Trainer").
		Preload("Room").Preload("LessonPeriod").Preload("Term").
		First(&slot, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Timetable slot not found"))
	}
	return utils.Success(c, slot)
}

// CreateSlot schedules a new timetable slot
func (tc *TimetableController) CreateSlot(c *fiber.Ctx) error {
	var req TimetableSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}
	if err := validateSlotRefs(req); err != nil {
		return utils.RespondError(c, err)
	}

	conflict, err := slotCollides(req, 0)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to check slot conflicts", err))
	}
	if conflict != "" {
		return utils.RespondError(c, utils.ConflictError(conflict))
	}

	slot := models.TimetableSlot{
		ClassID:         req.ClassID,
		SubjectID:       req.SubjectID,
		TrainerID:       req.TrainerID,
		RoomID:          req.RoomID,
		LessonPeriodID:  req.LessonPeriodID,
		TermID:          req.TermID,
		DayOfWeek:       *req.DayOfWeek,
		Status:          "scheduled",
		IsOnlineSession: req.IsOnlineSession,
		Notes:           req.Notes,
	}
	if err := database.DB.Create(&slot).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to create slot", err))
	}

	database.DB.
		Preload("Class").Preload("Subject").Preload("Trainer").
		Preload("Room").Preload("LessonPeriod").Preload("Term").
		First(&slot, slot.ID)

	middleware.LogActivity(c, "CREATE", "timetable", slot.ID, req)

	return utils.Created(c, slot)
}

// UpdateSlot updates an existing timetable slot
func (tc *TimetableController) UpdateSlot(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid slot ID"))
	}

	var slot models.TimetableSlot
	if err := database.DB.First(&slot, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Timetable slot not found"))
	}

	var req TimetableSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.RespondError(c, err)
	}
	if err := validateSlotRefs(req); err != nil {
		return utils.RespondError(c, err)
	}

	conflict, err := slotCollides(req, slot.ID)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to check slot conflicts", err))
	}
	if conflict != "" {
		return utils.RespondError(c, utils.ConflictError(conflict))
	}

	if err := database.DB.Model(&slot).Updates(map[string]interface{}{
		"class_id":          req.ClassID,
		"subject_id":        req.SubjectID,
		"trainer_id":        req.TrainerID,
		"room_id":           req.RoomID,
		"lesson_period_id":  req.LessonPeriodID,
		"term_id":           req.TermID,
		"day_of_week":       *req.DayOfWeek,
		"is_online_session": req.IsOnlineSession,
		"notes":             req.Notes,
	}).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update slot", err))
	}

	middleware.LogActivity(c, "UPDATE", "timetable", slot.ID, req)

	return utils.Success(c, slot)
}

// UpdateSlotStatus changes a slot's lifecycle status
func (tc *TimetableController) UpdateSlotStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid slot ID"))
	}

	var slot models.TimetableSlot
	if err := database.DB.First(&slot, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Timetable slot not found"))
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}
	switch req.Status {
	case "scheduled", "cancelled", "completed":
	default:
		return utils.RespondError(c, utils.ValidationError("Invalid status. Must be: scheduled, cancelled, or completed"))
	}

	oldStatus := slot.Status
	if err := database.DB.Model(&slot).Update("status", req.Status).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to update slot status", err))
	}

	middleware.LogActivity(c, "UPDATE", "timetable", slot.ID, fiber.Map{
		"action":     "status_change",
		"old_status": oldStatus,
		"new_status": req.Status,
	})

	return utils.Success(c, slot)
}

// DeleteSlot removes a timetable slot
func (tc *TimetableController) DeleteSlot(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid slot ID"))
	}

	var slot models.TimetableSlot
	if err := database.DB.First(&slot, uint(id)).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("Timetable slot not found"))
	}

	if err := database.DB.Delete(&slot).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to delete slot", err))
	}

	middleware.LogActivity(c, "DELETE", "timetable", slot.ID, slot)

	return utils.Success(c, fiber.Map{"message": "Timetable slot deleted successfully"})
}

// GetTodaySlots returns the current trainer's slots for today, each
// annotated with its check-in window decision and any attendance
// already recorded. The annotation comes from the same evaluator the
// check-in endpoint uses.
func (tc *TimetableController) GetTodaySlots(c *fiber.Ctx) error {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return utils.RespondError(c, utils.UnauthorizedError("User not found"))
	}

	loc := config.AppConfig.Location()
	now := time.Now().In(loc)
	today := attendance.DateOnly(now)

	term, err := services.ActiveTermOn(database.DB, today)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to resolve active term", err))
	}
	if term == nil {
		return utils.Success(c, fiber.Map{
			"date":  today.Format("2006-01-02"),
			"slots": []utils.SlotWindowDTO{},
		})
	}

	var slots []models.TimetableSlot
	query := database.DB.
		Preload("Class").Preload("Subject").Preload("Room").Preload("LessonPeriod").
		Where("trainer_id = ? AND term_id = ? AND day_of_week = ? AND status = ?",
			user.ID, term.ID, int(now.Weekday()), "scheduled")
	if err := query.Find(&slots).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch today's slots", err))
	}

	cfg := services.NewSettingsService().WindowConfig()

	annotated := make([]utils.SlotWindowDTO, 0, len(slots))
	for _, slot := range slots {
		dto := utils.SlotWindowDTO{
			Slot:       slot,
			LessonDate: today.Format("2006-01-02"),
		}

		lessonStart, err := attendance.LessonStartAt(today, slot.LessonPeriod.StartTime, loc)
		if err != nil {
			logrus.WithError(err).Warnf("Slot %d has unparseable period start", slot.ID)
			reason := "lesson period misconfigured"
			if errors.Is(err, attendance.ErrNoLessonPeriod) {
				reason = "No lesson period found"
			}
			dto.Window = attendance.WindowDecision{Reason: reason}
			annotated = append(annotated, dto)
			continue
		}
		dto.Window = attendance.EvaluateWindow(lessonStart, now, cfg)

		var rec models.ClassAttendanceRecord
		if err := database.DB.
			Where("trainer_id = ? AND timetable_slot_id = ? AND date = ?", user.ID, slot.ID, today.Format("2006-01-02")).
			First(&rec).Error; err == nil {
			dto.CheckedIn = true
			dto.Status = rec.Status
		}

		annotated = append(annotated, dto)
	}

	return utils.Success(c, fiber.Map{
		"date":  today.Format("2006-01-02"),
		"slots": annotated,
	})
}
