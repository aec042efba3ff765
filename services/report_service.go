package services

import (
	"bytes"
	"fmt"
	"time"

	"staffpoint_go/database"
	"staffpoint_go/models"
	"staffpoint_go/services/attendance"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportService builds monthly attendance reports. The same
// aggregation feeds the JSON analytics endpoint and the PDF and Excel
// downloads so all three always agree.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new report service
func NewReportService() *ReportService {
	return &ReportService{db: database.DB}
}

// DailyAttendanceRow is one employee-day in a monthly report
type DailyAttendanceRow struct {
	Date     string `json:"date"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Sessions int    `json:"sessions"`
	Minutes  int    `json:"minutes"`
	Hours    string `json:"hours"`
}

// EmployeeMonthlyReport aggregates one employee's month
type EmployeeMonthlyReport struct {
	EmployeeID   uint                 `json:"employee_id"`
	Name         string               `json:"name"`
	Position     string               `json:"position"`
	DaysPresent  int                  `json:"days_present"`
	TotalMinutes int                  `json:"total_minutes"`
	TotalHours   string               `json:"total_hours"`
	Rows         []DailyAttendanceRow `json:"rows"`
}

// MonthlyReport is the full report for one month
type MonthlyReport struct {
	Year      int                     `json:"year"`
	Month     time.Month              `json:"month"`
	Generated time.Time               `json:"generated_at"`
	Employees []EmployeeMonthlyReport `json:"employees"`
}

// MonthRange returns the closed-open [first, next-month-first) bounds
// for a report month in the given location.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// BuildMonthlyReport aggregates all work attendance for a month. Hours
// come from the ledger calculator, so cutoff capping applies here the
// same way it does on the live endpoints.
func (rs *ReportService) BuildMonthlyReport(year int, month time.Month, loc *time.Location, now time.Time) (*MonthlyReport, error) {
	start, end := MonthRange(year, month, loc)

	var records []models.AttendanceRecord
	if err := rs.db.
		Preload("Employee").
		Where("date >= ? AND date < ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("employee_id ASC, date ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch attendance records: %w", err)
	}

	report := &MonthlyReport{
		Year:      year,
		Month:     month,
		Generated: now,
	}

	byEmployee := map[uint]*EmployeeMonthlyReport{}
	var order []uint

	for _, rec := range records {
		emp, ok := byEmployee[rec.EmployeeID]
		if !ok {
			name := fmt.Sprintf("Employee %d", rec.EmployeeID)
			position := ""
			if rec.Employee.ID != 0 {
				name = fmt.Sprintf("%s %s", rec.Employee.FirstName, rec.Employee.LastName)
				position = rec.Employee.Position
			}
			emp = &EmployeeMonthlyReport{
				EmployeeID: rec.EmployeeID,
				Name:       name,
				Position:   position,
			}
			byEmployee[rec.EmployeeID] = emp
			order = append(order, rec.EmployeeID)
		}

		sessions, err := attendance.DecodeSessions(rec.Sessions)
		if err != nil {
			sessions = nil
		}
		summary := attendance.WorkedMinutes(sessions, now)

		row := DailyAttendanceRow{
			Date:     rec.Date.Format("2006-01-02"),
			Sessions: len(sessions),
			Minutes:  summary.Minutes,
			Hours:    attendance.FormatMinutes(summary.Minutes),
		}
		if rec.CheckInTime != nil {
			row.CheckIn = rec.CheckInTime.In(loc).Format("15:04")
		}
		if rec.CheckOutTime != nil {
			row.CheckOut = rec.CheckOutTime.In(loc).Format("15:04")
		}

		emp.Rows = append(emp.Rows, row)
		emp.DaysPresent++
		emp.TotalMinutes += summary.Minutes
	}

	for _, id := range order {
		emp := byEmployee[id]
		emp.TotalHours = attendance.FormatMinutes(emp.TotalMinutes)
		report.Employees = append(report.Employees, *emp)
	}

	return report, nil
}

// ClassAttendanceSummary aggregates trainer class attendance for a month
type ClassAttendanceSummary struct {
	TrainerID   uint   `json:"trainer_id"`
	TrainerName string `json:"trainer_name"`
	Present     int    `json:"present"`
	Late        int    `json:"late"`
	Absent      int    `json:"absent"`
	Total       int    `json:"total"`
}

// BuildClassAttendanceSummary counts Present/Late/Absent per trainer
// over a month.
func (rs *ReportService) BuildClassAttendanceSummary(year int, month time.Month, loc *time.Location) ([]ClassAttendanceSummary, error) {
	start, end := MonthRange(year, month, loc)

	var records []models.ClassAttendanceRecord
	if err := rs.db.
		Preload("Trainer").
		Where("date >= ? AND date < ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("trainer_id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch class attendance: %w", err)
	}

	byTrainer := map[uint]*ClassAttendanceSummary{}
	var order []uint

	for _, rec := range records {
		sum, ok := byTrainer[rec.TrainerID]
		if !ok {
			sum = &ClassAttendanceSummary{TrainerID: rec.TrainerID}
			if rec.Trainer.ID != 0 {
				sum.TrainerName = rec.Trainer.Username
			}
			byTrainer[rec.TrainerID] = sum
			order = append(order, rec.TrainerID)
		}

		switch rec.Status {
		case models.ClassAttendancePresent:
			sum.Present++
		case models.ClassAttendanceLate:
			sum.Late++
		case models.ClassAttendanceAbsent:
			sum.Absent++
		}
		sum.Total++
	}

	summaries := make([]ClassAttendanceSummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byTrainer[id])
	}
	return summaries, nil
}

// GeneratePDF renders a monthly report as a PDF document
func (rs *ReportService) GeneratePDF(report *MonthlyReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Staff Attendance Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s %d", report.Month.String(), report.Year), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", report.Generated.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, emp := range report.Employees {
		pdf.SetFont("Arial", "B", 12)
		title := emp.Name
		if emp.Position != "" {
			title = fmt.Sprintf("%s (%s)", emp.Name, emp.Position)
		}
		pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(30, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 7, "Check In", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 7, "Check Out", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 7, "Sessions", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Hours", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, row := range emp.Rows {
			pdf.CellFormat(30, 6, row.Date, "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, row.CheckIn, "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, row.CheckOut, "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%d", row.Sessions), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, row.Hours, "1", 1, "C", false, 0, "")
		}

		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(105, 7, fmt.Sprintf("Total: %d days", emp.DaysPresent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, emp.TotalHours, "1", 1, "C", false, 0, "")
		pdf.Ln(6)
	}

	if len(report.Employees) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(0, 10, "No attendance records for this month.", "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateExcel renders a monthly report as an xlsx workbook with one
// summary sheet and one detail sheet.
func (rs *ReportService) GenerateExcel(report *MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	detailSheet := "Daily Detail"

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	// Summary sheet
	summaryHeaders := []string{"Employee ID", "Name", "Position", "Days Present", "Total Minutes", "Total Hours"}
	for i, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheet, cell, h)
		f.SetCellStyle(summarySheet, cell, cell, headerStyle)
	}
	for r, emp := range report.Employees {
		row := r + 2
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), emp.EmployeeID)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), emp.Name)
		f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), emp.Position)
		f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), emp.DaysPresent)
		f.SetCellValue(summarySheet, fmt.Sprintf("E%d", row), emp.TotalMinutes)
		f.SetCellValue(summarySheet, fmt.Sprintf("F%d", row), emp.TotalHours)
	}
	f.SetColWidth(summarySheet, "B", "C", 22)
	f.SetColWidth(summarySheet, "D", "F", 14)

	// Detail sheet
	detailHeaders := []string{"Employee", "Date", "Check In", "Check Out", "Sessions", "Minutes", "Hours"}
	for i, h := range detailHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(detailSheet, cell, h)
		f.SetCellStyle(detailSheet, cell, cell, headerStyle)
	}
	row := 2
	for _, emp := range report.Employees {
		for _, d := range emp.Rows {
			f.SetCellValue(detailSheet, fmt.Sprintf("A%d", row), emp.Name)
			f.SetCellValue(detailSheet, fmt.Sprintf("B%d", row), d.Date)
			f.SetCellValue(detailSheet, fmt.Sprintf("C%d", row), d.CheckIn)
			f.SetCellValue(detailSheet, fmt.Sprintf("D%d", row), d.CheckOut)
			f.SetCellValue(detailSheet, fmt.Sprintf("E%d", row), d.Sessions)
			f.SetCellValue(detailSheet, fmt.Sprintf("F%d", row), d.Minutes)
			f.SetCellValue(detailSheet, fmt.Sprintf("G%d", row), d.Hours)
			row++
		}
	}
	f.SetColWidth(detailSheet, "A", "A", 22)
	f.SetColWidth(detailSheet, "B", "G", 12)

	// Drop the default sheet and land on the summary
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(idx)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
