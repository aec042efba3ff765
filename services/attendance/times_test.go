package attendance

import (
	"errors"
	"testing"
	"time"
)

func TestParseHourMinute(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		expHour    int
		expMinutes int
	}{
		{
			name:       "simple time",
			input:      "08:30",
			expHour:    8,
			expMinutes: 30,
		},
		{
			name:       "iso datetime",
			input:      "2007-11-30T00:00:00+07:00",
			expHour:    0,
			expMinutes: 0,
		},
		{
			name:       "mysql datetime",
			input:      "2007-11-30 13:45:00",
			expHour:    13,
			expMinutes: 45,
		},
		{
			name:       "time with trailing zone",
			input:      "09:15:00Z",
			expHour:    9,
			expMinutes: 15,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h, m, err := ParseHourMinute(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if h != tc.expHour || m != tc.expMinutes {
				t.Fatalf("expected %02d:%02d, got %02d:%02d", tc.expHour, tc.expMinutes, h, m)
			}
		})
	}
}

func TestParseHourMinuteInvalid(t *testing.T) {
	if _, _, err := ParseHourMinute("invalid"); err == nil {
		t.Fatalf("expected error for invalid input")
	}
}

// A slot whose lesson period is missing or blank has no start instant;
// callers turn this sentinel into a domain rejection.
func TestLessonStartAtMissingPeriod(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, bkk)
	for _, startTime := range []string{"", "   "} {
		if _, err := LessonStartAt(date, startTime, bkk); !errors.Is(err, ErrNoLessonPeriod) {
			t.Fatalf("LessonStartAt(%q): expected ErrNoLessonPeriod, got %v", startTime, err)
		}
	}
}

func TestLessonStartAt(t *testing.T) {
	date := time.Date(2025, 6, 2, 17, 45, 3, 0, bkk) // time-of-day must be ignored
	start, err := LessonStartAt(date, "09:00", bkk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 6, 2, 9, 0, 0, 0, bkk)
	if !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
}
