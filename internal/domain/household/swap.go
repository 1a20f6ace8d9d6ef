package household

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerr "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
)

const (
	// SwapNoticeHours is the minimum advance notice for a routine
	// captain swap; SwapNoticeUrgentHours for an urgent one.
	SwapNoticeHours       = 6.0
	SwapNoticeUrgentHours = 2.0

	// SwapConfirmWindow is how long a requested swap waits for an
	// explicit confirmation before the sweeper moves the event.
	SwapConfirmWindow = 15 * time.Minute

	// MoveShift is how far an unconfirmed appointment is pushed out.
	MoveShift = 7 * 24 * time.Hour

	movedMarker = "[MOVED]"
	swapMarker  = "[SWAP]"
)

var (
	// ErrSwapNotPending rejects a confirmation when no swap is open
	// on the event (already confirmed, already moved, or never asked).
	ErrSwapNotPending = errors.New("no swap pending on event")
	// ErrSwapWindowExpired rejects a confirmation arriving after the
	// sweep deadline; the event belongs to the sweeper now.
	ErrSwapWindowExpired = errors.New("swap confirmation window expired")
	// ErrEventStarted freezes every transition once start_time passes.
	ErrEventStarted = errors.New("event already started")
	// ErrEventMoved marks the terminal state.
	ErrEventMoved = errors.New("event already moved")
	// ErrSwapAlreadyPending rejects a second request while one is open.
	ErrSwapAlreadyPending = errors.New("swap already pending on event")
)

// RequestSwap takes a snapshot of a scheduled event and returns the
// SwapPending snapshot, or a typed rejection without mutating anything.
func RequestSwap(ev FamilyEvent, candidate uuid.UUID, urgent bool, now time.Time) (FamilyEvent, error) {
	if ev.Status == EventMoved {
		return ev, ErrEventMoved
	}
	if !ev.StartTime.After(now) {
		return ev, ErrEventStarted
	}
	if ev.SwapFlag {
		return ev, ErrSwapAlreadyPending
	}
	required := SwapNoticeHours
	if urgent {
		required = SwapNoticeUrgentHours
	}
	hoursUntil := ev.StartTime.Sub(now).Hours()
	if hoursUntil < required {
		return ev, &pkgerr.SwapTooLateError{HoursUntilEvent: hoursUntil, RequiredNotice: required}
	}
	requestedAt := now
	ev.SwapFlag = true
	ev.SwapCandidateID = &candidate
	ev.SwapRequestedAt = &requestedAt
	return ev, nil
}

// ConfirmSwap folds a pending swap back into Scheduled with the new
// captain. Valid only within SwapConfirmWindow of the request and
// before the event starts.
func ConfirmSwap(ev FamilyEvent, now time.Time) (FamilyEvent, error) {
	if ev.Status == EventMoved {
		return ev, ErrEventMoved
	}
	if !ev.SwapFlag || ev.SwapRequestedAt == nil || ev.SwapCandidateID == nil {
		return ev, ErrSwapNotPending
	}
	if !ev.StartTime.After(now) {
		return ev, ErrEventStarted
	}
	if now.Sub(*ev.SwapRequestedAt) > SwapConfirmWindow {
		return ev, ErrSwapWindowExpired
	}
	ev.CaptainID = *ev.SwapCandidateID
	ev.SwapFlag = false
	ev.SwapCandidateID = nil
	ev.SwapRequestedAt = nil
	return ev, nil
}

// MoveUnconfirmed is the sweep fallback: a swap left pending past the
// confirmation window pushes the occurrence out a week. The guards
// make re-running a no-op on an already-moved row; expired events are
// left untouched.
func MoveUnconfirmed(ev FamilyEvent, now time.Time) (FamilyEvent, error) {
	if ev.Status == EventMoved {
		return ev, ErrEventMoved
	}
	if !ev.SwapFlag || ev.SwapRequestedAt == nil {
		return ev, ErrSwapNotPending
	}
	if !ev.StartTime.After(now) {
		return ev, ErrEventStarted
	}
	if now.Sub(*ev.SwapRequestedAt) <= SwapConfirmWindow {
		return ev, ErrSwapNotPending
	}
	ev.StartTime = ev.StartTime.Add(MoveShift)
	ev.EndTime = ev.EndTime.Add(MoveShift)
	ev.Title = movedMarker + " " + stripMarker(ev.Title, swapMarker)
	ev.Status = EventMoved
	ev.SwapFlag = false
	ev.SwapCandidateID = nil
	ev.SwapRequestedAt = nil
	return ev, nil
}

func stripMarker(title, marker string) string {
	title = strings.TrimSpace(title)
	if strings.HasPrefix(title, marker) {
		return strings.TrimSpace(strings.TrimPrefix(title, marker))
	}
	return title
}

// FormatEventTitle renders the canonical calendar title. While a swap
// is pending the first "Captain:" carries the [SWAP] marker.
func FormatEventTitle(childFirst, title, captainFirst, backupFirst, pharmacy string, swapPending bool) string {
	captainLabel := "Captain:"
	if swapPending {
		captainLabel = swapMarker + " Captain:"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s | %s %s", childFirst, title, captainLabel, captainFirst)
	if backupFirst != "" {
		fmt.Fprintf(&b, " | Backup: %s", backupFirst)
	}
	if pharmacy != "" {
		fmt.Fprintf(&b, " | Pharmacy: %s", pharmacy)
	}
	return b.String()
}
