package attendance

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// LessonStartAt combines a calendar date with a lesson period's stored
// time-of-day to get the concrete lesson-start instant in loc. A slot
// with no lesson period has no start instant; that is ErrNoLessonPeriod
// and callers turn it into a domain rejection, not a server error.
func LessonStartAt(date time.Time, startOfDay string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(startOfDay) == "" {
		return time.Time{}, ErrNoLessonPeriod
	}
	hour, minute, err := ParseHourMinute(startOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc), nil
}

// ParseHourMinute extracts the hour and minute from a stored time
// value. Lesson periods normally hold "HH:MM", but imported rows have
// shown up as full datetimes in a few formats, so we fall back to
// those before giving up.
func ParseHourMinute(value string) (int, int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, 0, fmt.Errorf("time value cannot be empty")
	}

	layout := "15:04"
	if colonCount := strings.Count(value, ":"); colonCount >= 2 {
		layout = "15:04:05"
	}

	if t, err := time.Parse(layout, value); err == nil {
		return t.Hour(), t.Minute(), nil
	} else {
		fallbackLayouts := []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
			"2006-01-02 15:04",
			"2006-01-02T15:04",
		}

		for _, layout := range fallbackLayouts {
			if parsed, altErr := time.Parse(layout, value); altErr == nil {
				return parsed.Hour(), parsed.Minute(), nil
			}
		}

		timePattern := regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?`)
		if match := timePattern.FindString(value); match != "" && match != value {
			return ParseHourMinute(match)
		}

		return 0, 0, fmt.Errorf("invalid time format %q: %w", value, err)
	}
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
