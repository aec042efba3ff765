package controllers

import (
	"fmt"
	"strconv"
	"time"

	"staffpoint_go/config"
	"staffpoint_go/services"
	"staffpoint_go/utils"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct{}

func reportPeriod(c *fiber.Ctx) (int, time.Month, error) {
	loc := config.AppConfig.Location()
	now := time.Now().In(loc)

	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 || year > 2200 {
		return 0, 0, utils.ValidationError("year must be a four digit year")
	}
	monthNum, err := strconv.Atoi(c.Query("month", strconv.Itoa(int(now.Month()))))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return 0, 0, utils.ValidationError("month must be between 1 and 12")
	}
	return year, time.Month(monthNum), nil
}

// GetMonthlyReport returns the monthly attendance aggregation as JSON
func (rc *ReportController) GetMonthlyReport(c *fiber.Ctx) error {
	year, month, err := reportPeriod(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	loc := config.AppConfig.Location()
	report, err := services.NewReportService().BuildMonthlyReport(year, month, loc, time.Now().In(loc))
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to build report", err))
	}

	return utils.Success(c, report)
}

// DownloadMonthlyReportPDF streams the monthly report as a PDF
func (rc *ReportController) DownloadMonthlyReportPDF(c *fiber.Ctx) error {
	year, month, err := reportPeriod(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	loc := config.AppConfig.Location()
	rs := services.NewReportService()
	report, err := rs.BuildMonthlyReport(year, month, loc, time.Now().In(loc))
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to build report", err))
	}

	pdfBytes, err := rs.GeneratePDF(report)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to render PDF", err))
	}

	filename := fmt.Sprintf("attendance_%d_%02d.pdf", year, int(month))
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}

// DownloadMonthlyReportExcel streams the monthly report as an xlsx file
func (rc *ReportController) DownloadMonthlyReportExcel(c *fiber.Ctx) error {
	year, month, err := reportPeriod(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	loc := config.AppConfig.Location()
	rs := services.NewReportService()
	report, err := rs.BuildMonthlyReport(year, month, loc, time.Now().In(loc))
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to build report", err))
	}

	xlsxBytes, err := rs.GenerateExcel(report)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to render workbook", err))
	}

	filename := fmt.Sprintf("attendance_%d_%02d.xlsx", year, int(month))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(xlsxBytes)
}

// GetClassAttendanceSummary returns per-trainer Present/Late/Absent
// counts for a month.
func (rc *ReportController) GetClassAttendanceSummary(c *fiber.Ctx) error {
	year, month, err := reportPeriod(c)
	if err != nil {
		return utils.RespondError(c, err)
	}

	loc := config.AppConfig.Location()
	summaries, err := services.NewReportService().BuildClassAttendanceSummary(year, month, loc)
	if err != nil {
		return utils.RespondError(c, utils.InternalError("Failed to build summary", err))
	}

	return utils.Success(c, fiber.Map{
		"year":     year,
		"month":    int(month),
		"trainers": summaries,
	})
}
