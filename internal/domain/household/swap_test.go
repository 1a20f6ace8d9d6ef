package household

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerr "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
)

var now = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func scheduledEvent(startIn time.Duration) FamilyEvent {
	return FamilyEvent{
		ID:        uuid.New(),
		ChildID:   uuid.New(),
		CaptainID: uuid.New(),
		Title:     "Dentist",
		StartTime: now.Add(startIn),
		EndTime:   now.Add(startIn + time.Hour),
		Status:    EventScheduled,
	}
}

func TestRequestSwapTooLate(t *testing.T) {
	ev := scheduledEvent(3 * time.Hour) // non-urgent needs 6h
	candidate := uuid.New()

	got, err := RequestSwap(ev, candidate, false, now)
	var tooLate *pkgerr.SwapTooLateError
	if !errors.As(err, &tooLate) {
		t.Fatalf("err = %v, want SwapTooLateError", err)
	}
	if tooLate.RequiredNotice != 6 {
		t.Fatalf("RequiredNotice = %v, want 6", tooLate.RequiredNotice)
	}
	if tooLate.HoursUntilEvent < 2.9 || tooLate.HoursUntilEvent > 3.1 {
		t.Fatalf("HoursUntilEvent = %v, want ~3", tooLate.HoursUntilEvent)
	}
	if got.SwapFlag {
		t.Fatal("rejected request must not set swap_flag")
	}
}

func TestRequestSwapUrgentWithinTwoHours(t *testing.T) {
	ev := scheduledEvent(1 * time.Hour)
	candidate := uuid.New()

	if _, err := RequestSwap(ev, candidate, true, now); err == nil {
		t.Fatal("1h before urgent event needs 2h notice, want rejection")
	}

	ev = scheduledEvent(150 * time.Minute) // 2.5h out, urgent ok
	got, err := RequestSwap(ev, candidate, true, now)
	if err != nil {
		t.Fatalf("urgent request 2.5h out: %v", err)
	}
	if !got.SwapFlag {
		t.Fatal("swap_flag not set")
	}
	if got.SwapRequestedAt == nil || !got.SwapRequestedAt.Equal(now) {
		t.Fatalf("swap_requested_at = %v, want now", got.SwapRequestedAt)
	}
	if got.SwapCandidateID == nil || *got.SwapCandidateID != candidate {
		t.Fatalf("swap_candidate_id = %v, want %v", got.SwapCandidateID, candidate)
	}
}

func TestRequestSwapAlreadyPending(t *testing.T) {
	ev := scheduledEvent(48 * time.Hour)
	first, err := RequestSwap(ev, uuid.New(), false, now)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}

	if _, err := RequestSwap(first, uuid.New(), false, now); !errors.Is(err, ErrSwapAlreadyPending) {
		t.Fatalf("err = %v, want ErrSwapAlreadyPending", err)
	}
}

func TestConfirmSwapWithinWindow(t *testing.T) {
	ev := scheduledEvent(8 * time.Hour)
	candidate := uuid.New()
	pending, err := RequestSwap(ev, candidate, false, now)
	if err != nil {
		t.Fatalf("RequestSwap: %v", err)
	}

	got, err := ConfirmSwap(pending, now.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("ConfirmSwap: %v", err)
	}
	if got.CaptainID != candidate {
		t.Fatalf("captain = %v, want candidate %v", got.CaptainID, candidate)
	}
	if got.SwapFlag {
		t.Fatal("swap_flag must clear on confirmation")
	}
	if got.Status != EventScheduled {
		t.Fatalf("status = %v, want scheduled", got.Status)
	}
}

func TestConfirmSwapAfterWindow(t *testing.T) {
	ev := scheduledEvent(8 * time.Hour)
	pending, _ := RequestSwap(ev, uuid.New(), false, now)

	_, err := ConfirmSwap(pending, now.Add(16*time.Minute))
	if !errors.Is(err, ErrSwapWindowExpired) {
		t.Fatalf("err = %v, want ErrSwapWindowExpired", err)
	}
}

func TestConfirmSwapWithoutPending(t *testing.T) {
	ev := scheduledEvent(8 * time.Hour)
	if _, err := ConfirmSwap(ev, now); !errors.Is(err, ErrSwapNotPending) {
		t.Fatalf("err = %v, want ErrSwapNotPending", err)
	}
}

func TestMoveUnconfirmed(t *testing.T) {
	ev := scheduledEvent(8 * time.Hour)
	pending, _ := RequestSwap(ev, uuid.New(), false, now)

	sweepAt := now.Add(20 * time.Minute)
	moved, err := MoveUnconfirmed(pending, sweepAt)
	if err != nil {
		t.Fatalf("MoveUnconfirmed: %v", err)
	}
	if moved.Status != EventMoved {
		t.Fatalf("status = %v, want moved", moved.Status)
	}
	if got, want := moved.StartTime, pending.StartTime.Add(7*24*time.Hour); !got.Equal(want) {
		t.Fatalf("start = %v, want %v", got, want)
	}
	if got, want := moved.EndTime, pending.EndTime.Add(7*24*time.Hour); !got.Equal(want) {
		t.Fatalf("end = %v, want %v", got, want)
	}
	if moved.Title != "[MOVED] Dentist" {
		t.Fatalf("title = %q", moved.Title)
	}

	// Re-running the sweep on the moved snapshot is a no-op.
	if _, err := MoveUnconfirmed(moved, sweepAt.Add(time.Minute)); !errors.Is(err, ErrEventMoved) {
		t.Fatalf("second sweep err = %v, want ErrEventMoved", err)
	}
}

func TestMoveUnconfirmedReplacesSwapMarker(t *testing.T) {
	ev := scheduledEvent(8 * time.Hour)
	ev.Title = "[SWAP] Dentist"
	pending, _ := RequestSwap(ev, uuid.New(), false, now)

	moved, err := MoveUnconfirmed(pending, now.Add(20*time.Minute))
	if err != nil {
		t.Fatalf("MoveUnconfirmed: %v", err)
	}
	if moved.Title != "[MOVED] Dentist" {
		t.Fatalf("title = %q, want [MOVED] to replace [SWAP]", moved.Title)
	}
}

func TestMoveUnconfirmedInsideWindowIsNoop(t *testing.T) {
	ev := scheduledEvent(8 * time.Hour)
	pending, _ := RequestSwap(ev, uuid.New(), false, now)

	if _, err := MoveUnconfirmed(pending, now.Add(10*time.Minute)); !errors.Is(err, ErrSwapNotPending) {
		t.Fatalf("err = %v, want ErrSwapNotPending inside window", err)
	}
}

func TestNoTransitionAfterStart(t *testing.T) {
	ev := scheduledEvent(8 * time.Hour)
	pending, _ := RequestSwap(ev, uuid.New(), false, now)
	afterStart := pending.StartTime.Add(time.Minute)

	if _, err := ConfirmSwap(pending, afterStart); !errors.Is(err, ErrEventStarted) {
		t.Fatalf("confirm err = %v, want ErrEventStarted", err)
	}
	if _, err := MoveUnconfirmed(pending, afterStart); !errors.Is(err, ErrEventStarted) {
		t.Fatalf("move err = %v, want ErrEventStarted", err)
	}
	if _, err := RequestSwap(scheduledEvent(-time.Hour), uuid.New(), true, now); !errors.Is(err, ErrEventStarted) {
		t.Fatalf("request err = %v, want ErrEventStarted", err)
	}
}

func TestFormatEventTitle(t *testing.T) {
	cases := []struct {
		name        string
		backup      string
		pharmacy    string
		swapPending bool
		want        string
	}{
		{
			name:        "swap_pending_full",
			backup:      "Levi",
			pharmacy:    "CVS",
			swapPending: true,
			want:        "Zoey — Dentist | [SWAP] Captain: Lola | Backup: Levi | Pharmacy: CVS",
		},
		{
			name: "plain_no_optionals",
			want: "Zoey — Dentist | Captain: Lola",
		},
		{
			name:   "backup_only",
			backup: "Levi",
			want:   "Zoey — Dentist | Captain: Lola | Backup: Levi",
		},
		{
			name:     "pharmacy_only",
			pharmacy: "CVS",
			want:     "Zoey — Dentist | Captain: Lola | Pharmacy: CVS",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatEventTitle("Zoey", "Dentist", "Lola", tc.backup, tc.pharmacy, tc.swapPending)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWeekStartOf(t *testing.T) {
	cases := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC), "2026-08-23"}, // Sunday
		{time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), "2026-08-23"}, // Saturday
		{time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), "2026-08-23"},  // Wednesday
		{time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), "2026-08-30"},  // next Sunday
	}
	for _, tc := range cases {
		if got := WeekStartOf(tc.day); got != tc.want {
			t.Fatalf("WeekStartOf(%v) = %q, want %q", tc.day, got, tc.want)
		}
	}
}
