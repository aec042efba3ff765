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
	"staffpoint_go/services/attendance"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AttendanceController handles daily work attendance (the office
// check-in/check-out ledger, as opposed to per-class attendance).
type AttendanceController struct{}

// WorkCheckInRequest represents the work check-in body. Coordinates
// are optional; an online check-in omits both and skips the geofence.
type WorkCheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func currentEmployee(c *fiber.Ctx) (*models.Employee, error) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return nil, utils.UnauthorizedError("User not found")
	}

	var employee models.Employee
	if err := database.DB.Where("user_id = ?", user.ID).First(&employee).Error; err != nil {
		return nil, utils.NotFoundError("Employee profile not found")
	}
	return &employee, nil
}

// CheckIn opens a new work session for today. A physical check-in
// carries coordinates and must pass the campus geofence; an online
// check-in omits them and appends to the same ledger. Re-entry after a
// closed session (lunch break) is allowed; a second check-in while a
// session is open is rejected.
func (ac *AttendanceController) CheckIn(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	var req WorkCheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.RespondError(c, utils.ValidationError("Invalid request body"))
	}

	check, err := attendance.VerifyOptionalLocation(req.Latitude, req.Longitude)
	if err != nil {
		return utils.RespondError(c, utils.ValidationError(err.Error()))
	}
	if check.Provided && !check.Verified {
		return utils.RespondError(c, utils.DomainError(fmt.Sprintf(
			"Check-in rejected: you are %.0f m from campus, outside the %.0f m allowed radius",
			check.Distance, attendance.GeofenceRadiusM)))
	}

	loc := config.AppConfig.Location()
	now := time.Now().In(loc)
	today := attendance.DateOnly(now)

	var record models.AttendanceRecord
	err = database.DB.Where("employee_id = ? AND date = ?", employee.ID, today.Format("2006-01-02")).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = models.AttendanceRecord{
			EmployeeID: employee.ID,
			Date:       today,
		}
	} else if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to load attendance record", err))
	}

	sessions, err := attendance.DecodeSessions(record.Sessions)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Attendance ledger is corrupt", err))
	}

	sessions, err = attendance.OpenSession(sessions, now)
	if err != nil {
		return utils.RespondError(c, utils.ConflictError(err.Error()))
	}

	raw, err := attendance.EncodeSessions(sessions)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to encode ledger", err))
	}
	record.Sessions = models.JSON(raw)
	if record.CheckInTime == nil {
		record.CheckInTime = &now
	}
	record.CheckOutTime = nil

	if err := database.DB.Save(&record).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to save attendance record", err))
	}

	details := fiber.Map{"action": "check_in", "online": !check.Provided}
	if check.Provided {
		details["distance"] = check.Distance
	}
	middleware.LogActivity(c, "CREATE", "attendance", record.ID, details)

	BroadcastAttendanceEvent("attendance.check_in", fiber.Map{
		"employee_id": employee.ID,
		"date":        today.Format("2006-01-02"),
		"time":        now,
	})

	resp := fiber.Map{"record": utils.ToAttendanceRecordDTO(record, now)}
	if check.Provided {
		resp["distance_meters"] = check.Distance
	}
	return utils.Success(c, resp)
}

// CheckOut closes the active work session
func (ac *AttendanceController) CheckOut(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	loc := config.AppConfig.Location()
	now := time.Now().In(loc)
	today := attendance.DateOnly(now)

	var record models.AttendanceRecord
	if err := database.DB.Where("employee_id = ? AND date = ?", employee.ID, today.Format("2006-01-02")).First(&record).Error; err != nil {
		return utils.RespondError(c, utils.NotFoundError("No attendance record for today"))
	}

	sessions, err := attendance.DecodeSessions(record.Sessions)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Attendance ledger is corrupt", err))
	}

	sessions, err = attendance.CloseSession(sessions, now)
	if err != nil {
		return utils.RespondError(c, utils.DomainError(err.Error()))
	}

	raw, err := attendance.EncodeSessions(sessions)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to encode ledger", err))
	}
	record.Sessions = models.JSON(raw)
	record.CheckOutTime = &now

	if err := database.DB.Save(&record).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to save attendance record", err))
	}

	middleware.LogActivity(c, "UPDATE", "attendance", record.ID, fiber.Map{"action": "check_out"})

	BroadcastAttendanceEvent("attendance.check_out", fiber.Map{
		"employee_id": employee.ID,
		"date":        today.Format("2006-01-02"),
		"time":        now,
	})

	return utils.Success(c, utils.ToAttendanceRecordDTO(record, now))
}

// GetMyAttendance returns the current user's attendance history
func (ac *AttendanceController) GetMyAttendance(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	loc := config.AppConfig.Location()
	now := time.Now().In(loc)

	query := database.DB.Where("employee_id = ?", employee.ID)
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var records []models.AttendanceRecord
	if err := query.Order("date DESC").Limit(100).Find(&records).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch attendance", err))
	}

	dtos := make([]utils.AttendanceRecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, utils.ToAttendanceRecordDTO(rec, now))
	}

	return utils.Success(c, dtos)
}

// GetAttendance returns attendance records for all employees (admin)
func (ac *AttendanceController) GetAttendance(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	loc := config.AppConfig.Location()
	now := time.Now().In(loc)

	query := database.DB.Model(&models.AttendanceRecord{}).Preload("Employee")
	if employeeID := c.Query("employee_id"); employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("date <= ?", to)
	}

	var total int64
	query.Count(&total)

	var records []models.AttendanceRecord
	if err := query.Order("date DESC, employee_id ASC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to fetch attendance", err))
	}

	dtos := make([]utils.AttendanceRecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, utils.ToAttendanceRecordDTO(rec, now))
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
