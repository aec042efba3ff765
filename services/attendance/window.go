package attendance

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config carries the check-in window settings. Defaults live here and
// nowhere else; callers load the TimetableSettings row through
// services.SettingsService and fall back to DefaultConfig when the row
// is absent.
type Config struct {
	CheckInWindow time.Duration // minutes before lesson start that check-in opens
	LateThreshold time.Duration // minutes after lesson start that check-in is still accepted
}

// DefaultConfig returns the fallback window settings used when no
// TimetableSettings row exists.
func DefaultConfig() Config {
	return Config{
		CheckInWindow: 15 * time.Minute,
		LateThreshold: 10 * time.Minute,
	}
}

// WindowDecision is the result of evaluating a check-in request
// against a lesson's scheduled start.
type WindowDecision struct {
	Allowed          bool   `json:"allowed"`
	IsLate           bool   `json:"is_late"`
	Reason           string `json:"reason,omitempty"`
	MinutesUntilOpen int    `json:"minutes_until_open,omitempty"`
}

// ErrNoLessonPeriod is returned when a slot has no associated lesson
// period, which makes its start instant unknowable.
var ErrNoLessonPeriod = errors.New("no lesson period found for slot")

// EvaluateWindow decides whether "now" permits check-in for a lesson
// starting at lessonStart. Eligibility is a closed interval:
// lessonStart-CheckInWindow <= now <= lessonStart+LateThreshold.
// IsLate is true whenever now is after lessonStart, including on
// rejection (diagnostic for the caller).
//
// Both the listing endpoint and the mutating check-in endpoint must go
// through this one function so they can never disagree.
func EvaluateWindow(lessonStart, now time.Time, cfg Config) WindowDecision {
	earliest := lessonStart.Add(-cfg.CheckInWindow)
	latest := lessonStart.Add(cfg.LateThreshold)

	if now.Before(earliest) {
		remaining := int(math.Ceil(earliest.Sub(now).Minutes()))
		return WindowDecision{
			Reason:           fmt.Sprintf("too early - check-in opens in %d minutes", remaining),
			MinutesUntilOpen: remaining,
		}
	}

	if now.After(latest) {
		return WindowDecision{
			IsLate: true,
			Reason: "check-in window closed - the class has already started",
		}
	}

	return WindowDecision{
		Allowed: true,
		IsLate:  now.After(lessonStart),
	}
}

// WindowClosedAt returns the instant after which a slot's check-in
// window is closed. The absence reconciler uses the same upper bound
// as EvaluateWindow so the two can never drift apart.
func WindowClosedAt(lessonStart time.Time, cfg Config) time.Time {
	return lessonStart.Add(cfg.LateThreshold)
}
