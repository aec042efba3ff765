package utils

import (
	"time"

	"staffpoint_go/models"
	"staffpoint_go/services/attendance"
)

// Compact representations used across APIs
type UserShort struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

type EmployeeShort struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Position  string `json:"position,omitempty"`
}

// AttendanceRecordDTO is the API view of a work attendance row: the
// decoded ledger plus hours derived through the shared calculator.
type AttendanceRecordDTO struct {
	ID           uint                 `json:"id"`
	EmployeeID   uint                 `json:"employee_id"`
	Date         string               `json:"date"`
	CheckInTime  *time.Time           `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time           `json:"check_out_time,omitempty"`
	Sessions     []attendance.Session `json:"sessions"`
	Minutes      int                  `json:"minutes"`
	Hours        string               `json:"hours"`
	Ongoing      bool                 `json:"ongoing"`
	Employee     *EmployeeShort       `json:"employee,omitempty"`
}

// ToAttendanceRecordDTO decodes the ledger and derives hours as of
// "now". A corrupt ledger column degrades to an empty ledger so a bad
// row cannot take down a listing.
func ToAttendanceRecordDTO(rec models.AttendanceRecord, now time.Time) AttendanceRecordDTO {
	sessions, err := attendance.DecodeSessions(rec.Sessions)
	if err != nil {
		sessions = []attendance.Session{}
	}
	summary := attendance.WorkedMinutes(sessions, now)

	dto := AttendanceRecordDTO{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		Date:         rec.Date.Format("2006-01-02"),
		CheckInTime:  rec.CheckInTime,
		CheckOutTime: rec.CheckOutTime,
		Sessions:     sessions,
		Minutes:      summary.Minutes,
		Hours:        attendance.FormatMinutes(summary.Minutes),
		Ongoing:      summary.Ongoing,
	}
	if rec.Employee.ID != 0 {
		dto.Employee = &EmployeeShort{
			ID:        rec.Employee.ID,
			FirstName: rec.Employee.FirstName,
			LastName:  rec.Employee.LastName,
			Nickname:  rec.Employee.Nickname,
			Position:  rec.Employee.Position,
		}
	}
	return dto
}

// ClassAttendanceDTO is the API view of a class attendance row.
type ClassAttendanceDTO struct {
	ID               uint       `json:"id"`
	TrainerID        uint       `json:"trainer_id"`
	ClassID          uint       `json:"class_id"`
	TimetableSlotID  *uint      `json:"timetable_slot_id,omitempty"`
	Date             string     `json:"date"`
	Status           string     `json:"status"`
	CheckInTime      *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime     *time.Time `json:"check_out_time,omitempty"`
	LocationVerified bool       `json:"location_verified"`
	DistanceMeters   *float64   `json:"distance_meters,omitempty"`
	ClassName        string     `json:"class_name,omitempty"`
	TrainerName      string     `json:"trainer_name,omitempty"`
}

func ToClassAttendanceDTO(rec models.ClassAttendanceRecord) ClassAttendanceDTO {
	dto := ClassAttendanceDTO{
		ID:               rec.ID,
		TrainerID:        rec.TrainerID,
		ClassID:          rec.ClassID,
		TimetableSlotID:  rec.TimetableSlotID,
		Date:             rec.Date.Format("2006-01-02"),
		Status:           rec.Status,
		CheckInTime:      rec.CheckInTime,
		CheckOutTime:     rec.CheckOutTime,
		LocationVerified: rec.LocationVerified,
		DistanceMeters:   rec.DistanceMeters,
	}
	if rec.Class.ID != 0 {
		dto.ClassName = rec.Class.Name
	}
	if rec.Trainer.ID != 0 {
		dto.TrainerName = rec.Trainer.Username
	}
	return dto
}

// SlotWindowDTO annotates a timetable slot with its window decision so
// the UI can enable or disable the check-in affordance. The decision
// comes from the same evaluator the mutating endpoint uses.
type SlotWindowDTO struct {
	Slot       models.TimetableSlot      `json:"slot"`
	LessonDate string                    `json:"lesson_date"`
	Window     attendance.WindowDecision `json:"window"`
	CheckedIn  bool                      `json:"checked_in"`
	Status     string                    `json:"attendance_status,omitempty"`
}
