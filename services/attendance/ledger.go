package attendance

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DailyCutoffHour caps how late a session can accrue hours. A
// forgotten checkout stops counting at 18:00 on the check-in's
// calendar date.
const DailyCutoffHour = 18

var (
	ErrSessionAlreadyOpen = errors.New("an open session already exists, check out first")
	ErrNoActiveSession    = errors.New("no active session to check out of")
)

// Session is one check-in/check-out pair within a day's ledger.
type Session struct {
	CheckIn  time.Time  `json:"check_in"`
	CheckOut *time.Time `json:"check_out,omitempty"`
}

// ActiveIndex returns the index of the first open session (check-in
// set, check-out unset), or -1 when every session is closed. The
// ledger invariant keeps at most one session open at a time.
func ActiveIndex(sessions []Session) int {
	for i, s := range sessions {
		if s.CheckOut == nil {
			return i
		}
	}
	return -1
}

// OpenSession appends a new open session. Rejected while another
// session is still open; multiple closed sessions per day are fine
// (lunch-break style re-entry).
func OpenSession(sessions []Session, now time.Time) ([]Session, error) {
	if ActiveIndex(sessions) >= 0 {
		return sessions, ErrSessionAlreadyOpen
	}
	return append(sessions, Session{CheckIn: now}), nil
}

// CloseSession closes the active session in place.
func CloseSession(sessions []Session, now time.Time) ([]Session, error) {
	idx := ActiveIndex(sessions)
	if idx < 0 {
		return sessions, ErrNoActiveSession
	}
	out := now
	sessions[idx].CheckOut = &out
	return sessions, nil
}

// WorkSummary is the derived view of a day's ledger.
type WorkSummary struct {
	Minutes int  `json:"minutes"`
	Ongoing bool `json:"ongoing"`
}

// WorkedMinutes sums session durations for a record, capping every
// session at 18:00 on its check-in date. An open session counts up to
// min(now, cutoff) and is flagged ongoing only while now is before the
// cutoff. The attendance listing, the PDF report and the analytics
// aggregator all derive hours through this one function.
func WorkedMinutes(sessions []Session, now time.Time) WorkSummary {
	var total time.Duration
	ongoing := false

	for _, s := range sessions {
		if s.CheckIn.IsZero() {
			continue
		}
		cutoff := time.Date(s.CheckIn.Year(), s.CheckIn.Month(), s.CheckIn.Day(),
			DailyCutoffHour, 0, 0, 0, s.CheckIn.Location())

		var effective time.Time
		if s.CheckOut != nil {
			effective = *s.CheckOut
			if effective.After(cutoff) {
				effective = cutoff
			}
		} else {
			effective = now
			if effective.Before(cutoff) {
				ongoing = true
			} else {
				effective = cutoff
			}
		}

		if d := effective.Sub(s.CheckIn); d > 0 {
			total += d
		}
	}

	return WorkSummary{Minutes: int(total.Minutes()), Ongoing: ongoing}
}

// FormatMinutes renders a minute count as "Hh Mm" for display.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// DecodeSessions unmarshals a stored ledger. A null or empty column
// yields an empty ledger rather than an error.
func DecodeSessions(raw []byte) ([]Session, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []Session{}, nil
	}
	var sessions []Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return nil, fmt.Errorf("corrupt sessions ledger: %w", err)
	}
	return sessions, nil
}

// EncodeSessions marshals a ledger for storage.
func EncodeSessions(sessions []Session) ([]byte, error) {
	if sessions == nil {
		sessions = []Session{}
	}
	return json.Marshal(sessions)
}
