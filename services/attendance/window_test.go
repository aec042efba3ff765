package attendance

import (
	"math/rand"
	"testing"
	"time"
)

var bkk = time.FixedZone("Asia/Bangkok", 7*3600)

func lessonAt(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, bkk)
}

func TestEvaluateWindow(t *testing.T) {
	cfg := DefaultConfig()
	lesson := lessonAt(9, 0)

	tests := []struct {
		name        string
		now         time.Time
		wantAllowed bool
		wantLate    bool
	}{
		{
			name:        "on-time check-in inside pre-window",
			now:         lessonAt(8, 50),
			wantAllowed: true,
			wantLate:    false,
		},
		{
			name:        "exactly at earliest boundary",
			now:         lessonAt(8, 45),
			wantAllowed: true,
			wantLate:    false,
		},
		{
			name:        "exactly at lesson start",
			now:         lessonAt(9, 0),
			wantAllowed: true,
			wantLate:    false,
		},
		{
			name:        "late but inside threshold",
			now:         lessonAt(9, 5),
			wantAllowed: true,
			wantLate:    true,
		},
		{
			name:        "exactly at latest boundary",
			now:         lessonAt(9, 10),
			wantAllowed: true,
			wantLate:    true,
		},
		{
			name:        "window closed",
			now:         lessonAt(9, 11),
			wantAllowed: false,
			wantLate:    true,
		},
		{
			name:        "too early",
			now:         lessonAt(8, 44),
			wantAllowed: false,
			wantLate:    false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			d := EvaluateWindow(lesson, tc.now, cfg)
			if d.Allowed != tc.wantAllowed {
				t.Fatalf("allowed = %v, want %v", d.Allowed, tc.wantAllowed)
			}
			if d.IsLate != tc.wantLate {
				t.Fatalf("is_late = %v, want %v", d.IsLate, tc.wantLate)
			}
			if !d.Allowed && d.Reason == "" {
				t.Fatalf("rejection must carry a reason")
			}
		})
	}
}

func TestEvaluateWindowTooEarlyCountdown(t *testing.T) {
	cfg := DefaultConfig()
	lesson := lessonAt(9, 0)

	d := EvaluateWindow(lesson, lessonAt(8, 30), cfg)
	if d.Allowed {
		t.Fatalf("expected rejection 30 minutes before lesson start")
	}
	if d.MinutesUntilOpen != 15 {
		t.Fatalf("minutes_until_open = %d, want 15", d.MinutesUntilOpen)
	}
}

// Eligibility must be true iff L-W <= now <= L+T and is_late iff
// now > L, for arbitrary settings and instants.
func TestEvaluateWindowMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		lesson := lessonAt(0, 0).Add(time.Duration(rng.Intn(24*60)) * time.Minute)
		cfg := Config{
			CheckInWindow: time.Duration(rng.Intn(120)) * time.Minute,
			LateThreshold: time.Duration(rng.Intn(120)) * time.Minute,
		}
		now := lesson.Add(time.Duration(rng.Intn(481)-240) * time.Minute)

		d := EvaluateWindow(lesson, now, cfg)

		earliest := lesson.Add(-cfg.CheckInWindow)
		latest := lesson.Add(cfg.LateThreshold)
		wantAllowed := !now.Before(earliest) && !now.After(latest)

		if d.Allowed != wantAllowed {
			t.Fatalf("lesson=%v window=%v threshold=%v now=%v: allowed=%v want %v",
				lesson, cfg.CheckInWindow, cfg.LateThreshold, now, d.Allowed, wantAllowed)
		}
		if d.Allowed && d.IsLate != now.After(lesson) {
			t.Fatalf("lesson=%v now=%v: is_late=%v want %v", lesson, now, d.IsLate, now.After(lesson))
		}
	}
}

func TestWindowClosedAtMatchesUpperBound(t *testing.T) {
	cfg := Config{CheckInWindow: 15 * time.Minute, LateThreshold: 10 * time.Minute}
	lesson := lessonAt(9, 0)

	closed := WindowClosedAt(lesson, cfg)

	// One minute before the close instant check-in is still accepted;
	// one minute after it is not. The reconciler relies on this.
	if d := EvaluateWindow(lesson, closed.Add(-time.Minute), cfg); !d.Allowed {
		t.Fatalf("expected check-in accepted just before window close")
	}
	if d := EvaluateWindow(lesson, closed.Add(time.Minute), cfg); d.Allowed {
		t.Fatalf("expected check-in rejected after window close")
	}
}
