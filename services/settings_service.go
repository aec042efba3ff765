package services

import (
	"errors"
	"time"

	"staffpoint_go/database"
	"staffpoint_go/models"
	"staffpoint_go/services/attendance"
	"staffpoint_go/utils"

	"gorm.io/gorm"
)

// SettingsService manages the singleton TimetableSettings row. All
// callers get their window configuration through WindowConfig so the
// defaults live in exactly one place (attendance.DefaultConfig).
type SettingsService struct{}

// NewSettingsService creates a new service instance
func NewSettingsService() *SettingsService {
	return &SettingsService{}
}

// GetOrCreate fetches the settings row, creating it with defaults if necessary
func (s *SettingsService) GetOrCreate() (*models.TimetableSettings, error) {
	settings := &models.TimetableSettings{}
	if err := database.DB.Order("id ASC").First(settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			def := attendance.DefaultConfig()
			defaults := models.TimetableSettings{
				CheckInWindowMinutes: int(def.CheckInWindow / time.Minute),
				LateThresholdMinutes: int(def.LateThreshold / time.Minute),
			}
			if createErr := database.DB.Create(&defaults).Error; createErr != nil {
				return nil, createErr
			}
			return &defaults, nil
		}
		return nil, err
	}
	return settings, nil
}

// WindowConfig resolves the check-in window configuration. Falls back
// to the package defaults when the settings row cannot be read, so a
// broken settings table degrades gracefully instead of blocking
// check-ins.
func (s *SettingsService) WindowConfig() attendance.Config {
	settings, err := s.GetOrCreate()
	if err != nil {
		return attendance.DefaultConfig()
	}

	cfg := attendance.DefaultConfig()
	if settings.CheckInWindowMinutes > 0 {
		cfg.CheckInWindow = time.Duration(settings.CheckInWindowMinutes) * time.Minute
	}
	if settings.LateThresholdMinutes > 0 {
		cfg.LateThreshold = time.Duration(settings.LateThresholdMinutes) * time.Minute
	}
	return cfg
}

// UpdateTimetableSettingsInput describes the updatable settings fields
type UpdateTimetableSettingsInput struct {
	CheckInWindowMinutes *int `json:"attendance_check_in_window"`
	LateThresholdMinutes *int `json:"attendance_late_threshold"`
}

// Update applies the requested changes, enforcing sane bounds
func (s *SettingsService) Update(input UpdateTimetableSettingsInput) (*models.TimetableSettings, error) {
	settings, err := s.GetOrCreate()
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if input.CheckInWindowMinutes != nil {
		if *input.CheckInWindowMinutes < 0 || *input.CheckInWindowMinutes > 240 {
			return nil, utils.ValidationError("attendance_check_in_window must be between 0 and 240 minutes")
		}
		updates["check_in_window_minutes"] = *input.CheckInWindowMinutes
	}

	if input.LateThresholdMinutes != nil {
		if *input.LateThresholdMinutes < 0 || *input.LateThresholdMinutes > 240 {
			return nil, utils.ValidationError("attendance_late_threshold must be between 0 and 240 minutes")
		}
		updates["late_threshold_minutes"] = *input.LateThresholdMinutes
	}

	if len(updates) == 0 {
		return settings, nil
	}

	if err := database.DB.Model(settings).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := database.DB.First(settings, settings.ID).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
