package services

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	bkk := time.FixedZone("Asia/Bangkok", 7*3600)

	cases := []struct {
		year      int
		month     time.Month
		wantStart string
		wantEnd   string
	}{
		{2026, time.March, "2026-03-01", "2026-04-01"},
		{2026, time.December, "2026-12-01", "2027-01-01"},
		{2024, time.February, "2024-02-01", "2024-03-01"}, // leap year
	}

	for _, tc := range cases {
		start, end := MonthRange(tc.year, tc.month, bkk)
		if got := start.Format("2006-01-02"); got != tc.wantStart {
			t.Errorf("MonthRange(%d, %s) start = %s, want %s", tc.year, tc.month, got, tc.wantStart)
		}
		if got := end.Format("2006-01-02"); got != tc.wantEnd {
			t.Errorf("MonthRange(%d, %s) end = %s, want %s", tc.year, tc.month, got, tc.wantEnd)
		}
		if start.Location() != bkk {
			t.Errorf("MonthRange start not in requested location")
		}
	}
}

func TestGeneratePDFEmptyMonth(t *testing.T) {
	rs := &ReportService{}
	report := &MonthlyReport{
		Year:      2026,
		Month:     time.August,
		Generated: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}

	data, err := rs.GeneratePDF(report)
	if err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty PDF output")
	}
	if string(data[:4]) != "%PDF" {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestGenerateExcelHasSheets(t *testing.T) {
	rs := &ReportService{}
	report := &MonthlyReport{
		Year:      2026,
		Month:     time.August,
		Generated: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		Employees: []EmployeeMonthlyReport{
			{
				EmployeeID:   1,
				Name:         "Alice Example",
				Position:     "Trainer",
				DaysPresent:  2,
				TotalMinutes: 900,
				TotalHours:   "15h 0m",
				Rows: []DailyAttendanceRow{
					{Date: "2026-08-03", CheckIn: "08:55", CheckOut: "17:30", Sessions: 2, Minutes: 450, Hours: "7h 30m"},
					{Date: "2026-08-04", CheckIn: "09:00", CheckOut: "17:30", Sessions: 1, Minutes: 450, Hours: "7h 30m"},
				},
			},
		},
	}

	data, err := rs.GenerateExcel(report)
	if err != nil {
		t.Fatalf("GenerateExcel: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook output")
	}
	// xlsx files are zip archives
	if data[0] != 'P' || data[1] != 'K' {
		t.Errorf("output is not a zip container")
	}
}
