package models

import (
	"testing"
	"time"
)

func TestTermCoversDate(t *testing.T) {
	bkk := time.FixedZone("Asia/Bangkok", 7*3600)
	term := Term{
		Name:      "Term 1/2025",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, bkk),
		EndDate:   time.Date(2025, 9, 30, 0, 0, 0, 0, bkk),
	}

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"first day", time.Date(2025, 6, 1, 8, 0, 0, 0, bkk), true},
		{"last day", time.Date(2025, 9, 30, 23, 59, 0, 0, bkk), true},
		{"mid term", time.Date(2025, 7, 15, 12, 0, 0, 0, bkk), true},
		{"day before start", time.Date(2025, 5, 31, 23, 59, 0, 0, bkk), false},
		{"day after end", time.Date(2025, 10, 1, 0, 0, 0, 0, bkk), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := term.CoversDate(tc.date); got != tc.want {
				t.Fatalf("CoversDate(%s) = %v, want %v", tc.date.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

// The comparison is by calendar date, so a timestamp carried in a
// different zone on the boundary day still counts as covered.
func TestTermCoversDateIgnoresTimeOfDay(t *testing.T) {
	term := Term{
		StartDate: time.Date(2025, 6, 1, 17, 30, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 9, 30, 3, 0, 0, 0, time.UTC),
	}

	if !term.CoversDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("midnight on the start date must be covered")
	}
	if !term.CoversDate(time.Date(2025, 9, 30, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("late evening on the end date must be covered")
	}
}
