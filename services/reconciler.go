package services

import (
	"errors"
	"fmt"
	"time"

	"staffpoint_go/config"
	"staffpoint_go/database"
	"staffpoint_go/models"
	"staffpoint_go/services/attendance"
	"staffpoint_go/services/websocket"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReconcilerService marks untouched timetable slots as Absent once
// their check-in window has closed, and force-closes work sessions
// left open past the daily cutoff. Both procedures are idempotent and
// run on a cron schedule rather than as side effects of read requests.
type ReconcilerService struct {
	db       *gorm.DB
	settings *SettingsService
	wsHub    *websocket.Hub
	cron     *cron.Cron
}

// NewReconcilerService creates a new reconciler
func NewReconcilerService() *ReconcilerService {
	return &ReconcilerService{
		db:       database.DB,
		settings: NewSettingsService(),
	}
}

// SetWebSocketHub attaches the live feed hub
func (rs *ReconcilerService) SetWebSocketHub(hub *websocket.Hub) {
	rs.wsHub = hub
}

// Start schedules the reconciliation jobs. The absence pass runs every
// few minutes; the auto-checkout pass runs shortly after the 18:00
// cutoff to close forgotten sessions.
func (rs *ReconcilerService) Start() {
	loc := config.AppConfig.Location()
	rs.cron = cron.New(cron.WithLocation(loc))

	interval := config.AppConfig.ReconcileIntervalMinutes
	if interval <= 0 {
		interval = 5
	}

	if _, err := rs.cron.AddFunc(fmt.Sprintf("@every %dm", interval), func() {
		now := time.Now().In(loc)
		if created, err := rs.ReconcileAbsences(now); err != nil {
			logrus.WithError(err).Error("Absence reconciliation failed")
		} else if created > 0 {
			logrus.Infof("Absence reconciliation created %d records", created)
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule absence reconciliation")
	}

	if _, err := rs.cron.AddFunc(fmt.Sprintf("5 %d * * *", attendance.DailyCutoffHour), func() {
		now := time.Now().In(loc)
		if closed, err := rs.AutoCheckout(now); err != nil {
			logrus.WithError(err).Error("Auto checkout failed")
		} else if closed > 0 {
			logrus.Infof("Auto checkout closed %d sessions", closed)
		}
	}); err != nil {
		logrus.WithError(err).Error("Failed to schedule auto checkout")
	}

	rs.cron.Start()
	logrus.Info("Attendance reconciler started")
}

// Stop halts the scheduled jobs
func (rs *ReconcilerService) Stop() {
	if rs.cron != nil {
		rs.cron.Stop()
	}
}

// ActiveTermOn returns the term covering the given date, or nil when
// no term is active. Check-in, the today listing and the reconciler
// all resolve term eligibility through this one query.
func ActiveTermOn(db *gorm.DB, date time.Time) (*models.Term, error) {
	var term models.Term
	err := db.Where("is_active = ? AND start_date <= ? AND end_date >= ?",
		true, date.Format("2006-01-02"), date.Format("2006-01-02")).
		First(&term).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &term, nil
}

// ActiveTermOn resolves the active term through the service's handle.
func (rs *ReconcilerService) ActiveTermOn(date time.Time) (*models.Term, error) {
	return ActiveTermOn(rs.db, date)
}

// ReconcileAbsences inserts an Absent record for every scheduled slot
// today whose check-in window has closed and which has no attendance
// row yet. Insert-only: a trainer checking in between two runs is
// never overwritten. Per-slot failures are logged and skipped so one
// bad slot cannot stall the rest.
func (rs *ReconcilerService) ReconcileAbsences(now time.Time) (int, error) {
	today := attendance.DateOnly(now)

	term, err := rs.ActiveTermOn(today)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve active term: %w", err)
	}
	if term == nil {
		return 0, nil
	}

	var slots []models.TimetableSlot
	if err := rs.db.
		Preload("LessonPeriod").
		Preload("Class").
		Where("term_id = ? AND day_of_week = ? AND status = ?", term.ID, int(now.Weekday()), "scheduled").
		Find(&slots).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch slots: %w", err)
	}

	cfg := rs.settings.WindowConfig()
	created := 0

	for _, slot := range slots {
		if slot.LessonPeriod.ID == 0 || slot.LessonPeriod.StartTime == "" {
			logrus.Warnf("Slot %d has no lesson period, skipping", slot.ID)
			continue
		}

		lessonStart, err := attendance.LessonStartAt(today, slot.LessonPeriod.StartTime, now.Location())
		if err != nil {
			logrus.WithError(err).Warnf("Slot %d has unparseable period start, skipping", slot.ID)
			continue
		}

		if now.Before(attendance.WindowClosedAt(lessonStart, cfg)) {
			continue // window still open
		}

		slotID := slot.ID
		var count int64
		if err := rs.db.Model(&models.ClassAttendanceRecord{}).
			Where("trainer_id = ? AND class_id = ? AND date = ? AND timetable_slot_id = ?",
				slot.TrainerID, slot.ClassID, today.Format("2006-01-02"), slotID).
			Count(&count).Error; err != nil {
			logrus.WithError(err).Warnf("Existence check failed for slot %d, skipping", slot.ID)
			continue
		}
		if count > 0 {
			continue // already checked in or already reconciled
		}

		record := models.ClassAttendanceRecord{
			TrainerID:        slot.TrainerID,
			ClassID:          slot.ClassID,
			TimetableSlotID:  &slotID,
			Date:             today,
			Status:           models.ClassAttendanceAbsent,
			LocationVerified: false,
		}
		if err := rs.db.Create(&record).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create absence for slot %d", slot.ID)
			continue
		}
		created++

		notification := models.Notification{
			UserID:  slot.TrainerID,
			Title:   "Marked absent",
			Message: fmt.Sprintf("You were marked absent for %s on %s", slot.Class.Name, today.Format("2006-01-02")),
			Type:    "warning",
		}
		if err := rs.db.Create(&notification).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create absence notification for trainer %d", slot.TrainerID)
		} else if rs.wsHub != nil {
			rs.wsHub.BroadcastToUser(slot.TrainerID, "notification", notification)
		}

		if rs.wsHub != nil {
			rs.wsHub.BroadcastEvent("class_attendance.absent", map[string]interface{}{
				"trainer_id": slot.TrainerID,
				"class_id":   slot.ClassID,
				"slot_id":    slot.ID,
				"class_name": slot.Class.Name,
				"date":       today.Format("2006-01-02"),
			})
		}
	}

	return created, nil
}

// AutoCheckout closes work sessions still open at the daily cutoff.
// The close timestamp is the cutoff itself, matching what the hours
// calculator would have credited anyway.
func (rs *ReconcilerService) AutoCheckout(now time.Time) (int, error) {
	today := attendance.DateOnly(now)

	var records []models.AttendanceRecord
	if err := rs.db.Where("date = ?", today.Format("2006-01-02")).Find(&records).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch attendance records: %w", err)
	}

	closed := 0
	for i := range records {
		rec := &records[i]

		sessions, err := attendance.DecodeSessions(rec.Sessions)
		if err != nil {
			logrus.WithError(err).Warnf("Record %d has a corrupt ledger, skipping", rec.ID)
			continue
		}

		idx := attendance.ActiveIndex(sessions)
		if idx < 0 {
			continue
		}

		checkIn := sessions[idx].CheckIn
		cutoff := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(),
			attendance.DailyCutoffHour, 0, 0, 0, checkIn.Location())
		if now.Before(cutoff) {
			continue
		}

		sessions, err = attendance.CloseSession(sessions, cutoff)
		if err != nil {
			continue
		}

		raw, err := attendance.EncodeSessions(sessions)
		if err != nil {
			logrus.WithError(err).Warnf("Failed to encode ledger for record %d", rec.ID)
			continue
		}

		updates := map[string]interface{}{
			"sessions":       models.JSON(raw),
			"check_out_time": cutoff,
		}
		if err := rs.db.Model(rec).Updates(updates).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to auto-checkout record %d", rec.ID)
			continue
		}
		closed++

		if rs.wsHub != nil {
			rs.wsHub.BroadcastEvent("attendance.auto_check_out", map[string]interface{}{
				"employee_id": rec.EmployeeID,
				"date":        today.Format("2006-01-02"),
			})
		}
	}

	return closed, nil
}
