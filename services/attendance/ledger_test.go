package attendance

import (
	"errors"
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, bkk)
}

func TestOpenCloseSession(t *testing.T) {
	sessions := []Session{}

	sessions, err := OpenSession(sessions, at(8, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second check-in while a session is open must be rejected.
	if _, err := OpenSession(sessions, at(8, 30)); !errors.Is(err, ErrSessionAlreadyOpen) {
		t.Fatalf("expected ErrSessionAlreadyOpen, got %v", err)
	}

	sessions, err = CloseSession(sessions, at(12, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Lunch-break re-entry: a new session after checkout is fine.
	sessions, err = OpenSession(sessions, at(13, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestCloseWithoutActiveSession(t *testing.T) {
	out := at(12, 0)
	sessions := []Session{{CheckIn: at(8, 0), CheckOut: &out}}

	if _, err := CloseSession(sessions, at(13, 0)); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

// Applying the public operations in any sequence never leaves two
// sessions open at once.
func TestLedgerSingleOpenInvariant(t *testing.T) {
	sessions := []Session{}
	now := at(8, 0)

	for i := 0; i < 20; i++ {
		if i%3 == 2 {
			sessions, _ = CloseSession(sessions, now)
		} else {
			sessions, _ = OpenSession(sessions, now)
		}
		now = now.Add(10 * time.Minute)

		open := 0
		for _, s := range sessions {
			if s.CheckOut == nil {
				open++
			}
		}
		if open > 1 {
			t.Fatalf("ledger holds %d open sessions after step %d", open, i)
		}
	}
}

func TestWorkedMinutesClosedSessions(t *testing.T) {
	out1 := at(12, 0)
	out2 := at(17, 30)
	sessions := []Session{
		{CheckIn: at(8, 0), CheckOut: &out1},
		{CheckIn: at(13, 0), CheckOut: &out2},
	}

	sum := WorkedMinutes(sessions, at(18, 0))
	if sum.Minutes != 4*60+4*60+30 {
		t.Fatalf("minutes = %d, want 510", sum.Minutes)
	}
	if sum.Ongoing {
		t.Fatalf("no open session, must not be ongoing")
	}
}

func TestWorkedMinutesOngoingSession(t *testing.T) {
	sessions := []Session{{CheckIn: at(9, 0)}}

	sum := WorkedMinutes(sessions, at(10, 30))
	if sum.Minutes != 90 {
		t.Fatalf("minutes = %d, want 90", sum.Minutes)
	}
	if !sum.Ongoing {
		t.Fatalf("open session before cutoff must be ongoing")
	}
}

// A forgotten checkout never accrues past 18:00 on the check-in date,
// no matter how far "now" advances.
func TestWorkedMinutesDailyCutoffCap(t *testing.T) {
	sessions := []Session{{CheckIn: at(9, 0)}}
	cap := 9 * 60 // 09:00 -> 18:00

	nows := []time.Time{
		at(18, 0),
		at(23, 59),
		at(9, 0).AddDate(0, 0, 3),
		at(9, 0).AddDate(0, 1, 0),
	}
	for _, now := range nows {
		sum := WorkedMinutes(sessions, now)
		if sum.Minutes != cap {
			t.Fatalf("now=%v: minutes = %d, want %d", now, sum.Minutes, cap)
		}
		if sum.Ongoing {
			t.Fatalf("now=%v: session past cutoff must not be ongoing", now)
		}
	}
}

func TestWorkedMinutesCheckoutAfterCutoff(t *testing.T) {
	out := at(20, 0)
	sessions := []Session{{CheckIn: at(9, 0), CheckOut: &out}}

	sum := WorkedMinutes(sessions, at(21, 0))
	if sum.Minutes != 9*60 {
		t.Fatalf("minutes = %d, want %d (capped at 18:00)", sum.Minutes, 9*60)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0h 0m"},
		{45, "0h 45m"},
		{60, "1h 0m"},
		{510, "8h 30m"},
		{-5, "0h 0m"},
	}
	for _, tc := range tests {
		if got := FormatMinutes(tc.minutes); got != tc.want {
			t.Fatalf("FormatMinutes(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestDecodeSessionsRoundTrip(t *testing.T) {
	out := at(12, 0)
	sessions := []Session{{CheckIn: at(8, 0), CheckOut: &out}, {CheckIn: at(13, 0)}}

	raw, err := EncodeSessions(sessions)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeSessions(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[1].CheckOut != nil {
		t.Fatalf("round trip lost ledger shape: %+v", decoded)
	}

	empty, err := DecodeSessions(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("nil column must decode to empty ledger, got %v %v", empty, err)
	}
}
