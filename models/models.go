package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model
type User struct {
	BaseModel
	Username             string     `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password             string     `json:"-" gorm:"size:255;not null"`
	Email                string     `json:"email" gorm:"size:255;uniqueIndex"`
	Phone                string     `json:"phone" gorm:"size:20"`
	Role                 string     `json:"role" gorm:"size:50;not null;default:'staff';type:enum('admin','staff','trainer')"` // admin, staff, trainer
	Status               string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`
	Avatar               string     `json:"avatar" gorm:"size:500"`
	PasswordResetToken   string     `json:"-" gorm:"size:255"`
	PasswordResetExpires *time.Time `json:"-"`
	PasswordResetByAdmin bool       `json:"-" gorm:"default:false"`

	// Relationships
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:UserID"`
}

// Employee profile, one per user
type Employee struct {
	BaseModel
	UserID      uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	FirstName   string     `json:"first_name" gorm:"size:100"`
	LastName    string     `json:"last_name" gorm:"size:100"`
	Nickname    string     `json:"nickname" gorm:"size:100"`
	Position    string     `json:"position" gorm:"size:100"`
	Department  string     `json:"department" gorm:"size:100"`
	HireDate    *time.Time `json:"hire_date"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address" gorm:"size:500"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Term bounds which timetable slots are active
type Term struct {
	BaseModel
	Name      string    `json:"name" gorm:"size:100;not null"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"default:false"`
}

// CoversDate reports whether the date falls inside the term, both
// endpoints inclusive. Comparison is by calendar date so differing
// time-of-day or timezone components never shift the boundary.
func (t Term) CoversDate(date time.Time) bool {
	d := date.Format("2006-01-02")
	return t.StartDate.Format("2006-01-02") <= d && d <= t.EndDate.Format("2006-01-02")
}

// Class model
type Class struct {
	BaseModel
	Name   string `json:"name" gorm:"size:255;not null"`
	Code   string `json:"code" gorm:"size:100;uniqueIndex"`
	Level  string `json:"level" gorm:"size:100"`
	Status string `json:"status" gorm:"size:50;default:'active';type:enum('active','inactive')"`
}

// Subject model
type Subject struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;not null"`
	Code        string `json:"code" gorm:"size:100;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`
	Status      string `json:"status" gorm:"size:50;default:'active';type:enum('active','inactive')"`
}

// Room model
type Room struct {
	BaseModel
	RoomName string `json:"room_name" gorm:"size:100;not null"`
	Capacity int    `json:"capacity" gorm:"not null"`
	Status   string `json:"status" gorm:"size:50;not null;default:'available';type:enum('available','occupied','maintenance')"`
}

// LessonPeriod is a fixed daily start/end time, independent of date.
// Times are stored as "HH:MM" strings and combined with a calendar
// date to get the concrete lesson-start instant.
type LessonPeriod struct {
	BaseModel
	Name      string `json:"name" gorm:"size:100;not null"`
	StartTime string `json:"start_time" gorm:"size:10;not null"`
	EndTime   string `json:"end_time" gorm:"size:10;not null"`
	SortOrder int    `json:"sort_order" gorm:"default:1"`
}

// TimetableSlot is a scheduled (class, subject, trainer, room,
// lesson-period, day-of-week, term) tuple.
type TimetableSlot struct {
	BaseModel
	ClassID         uint   `json:"class_id" gorm:"not null"`
	SubjectID       uint   `json:"subject_id" gorm:"not null"`
	TrainerID       uint   `json:"trainer_id" gorm:"not null"` // references users.id
	RoomID          uint   `json:"room_id"`
	LessonPeriodID  uint   `json:"lesson_period_id" gorm:"not null"`
	TermID          uint   `json:"term_id" gorm:"not null"`
	DayOfWeek       int    `json:"day_of_week" gorm:"not null"` // 0=Sunday .. 6=Saturday
	Status          string `json:"status" gorm:"size:50;default:'scheduled';type:enum('scheduled','cancelled','completed')"`
	IsOnlineSession bool   `json:"is_online_session" gorm:"default:false"`
	Notes           string `json:"notes" gorm:"type:text"`

	// Relationships
	Class        Class        `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Subject      Subject      `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Trainer      User         `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Room         Room         `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	LessonPeriod LessonPeriod `json:"lesson_period,omitempty" gorm:"foreignKey:LessonPeriodID"`
	Term         Term         `json:"term,omitempty" gorm:"foreignKey:TermID"`
}

// TimetableSettings is a singleton configuration row
type TimetableSettings struct {
	BaseModel
	CheckInWindowMinutes int `json:"attendance_check_in_window" gorm:"default:15"`
	LateThresholdMinutes int `json:"attendance_late_threshold" gorm:"default:10"`
}

// AttendanceRecord holds one row per employee per calendar date. The
// legacy single-session columns mirror the first/last session; the
// sessions JSON ledger is authoritative.
type AttendanceRecord struct {
	BaseModel
	EmployeeID   uint       `json:"employee_id" gorm:"not null;uniqueIndex:idx_employee_date"`
	Date         time.Time  `json:"date" gorm:"type:date;not null;uniqueIndex:idx_employee_date"`
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Sessions     JSON       `json:"sessions" gorm:"type:json"`

	// Relationships
	Employee Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

// Class attendance statuses
const (
	ClassAttendancePresent = "Present"
	ClassAttendanceLate    = "Late"
	ClassAttendanceAbsent  = "Absent"
)

// ClassAttendanceRecord holds one row per trainer, per class, per date,
// per scheduled lesson slot. Created by a trainer's check-in or by the
// absence reconciler.
type ClassAttendanceRecord struct {
	BaseModel
	TrainerID        uint       `json:"trainer_id" gorm:"not null"` // references users.id
	ClassID          uint       `json:"class_id" gorm:"not null"`
	TimetableSlotID  *uint      `json:"timetable_slot_id"` // nullable for manually created rows
	Date             time.Time  `json:"date" gorm:"type:date;not null"`
	Status           string     `json:"status" gorm:"size:50;not null;type:enum('Present','Late','Absent')"`
	CheckInTime      *time.Time `json:"check_in_time"`
	CheckOutTime     *time.Time `json:"check_out_time"`
	LocationVerified bool       `json:"location_verified" gorm:"default:false"`
	DistanceMeters   *float64   `json:"distance_meters"`

	// Relationships
	Trainer       User           `json:"trainer,omitempty" gorm:"foreignKey:TrainerID"`
	Class         Class          `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	TimetableSlot *TimetableSlot `json:"timetable_slot,omitempty" gorm:"foreignKey:TimetableSlotID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"`
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"`
	Error       string    `json:"error" gorm:"type:text"`
}
