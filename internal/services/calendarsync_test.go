package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/homeboardhq/homeboard-backend/internal/clients/gcal"
	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

func TestCalendarSyncPushAndRetry(t *testing.T) {
	gdb := newTestDB(t)
	memberRepo, _, _, eventRepo, refRepo, _ := newTestRepos(t, gdb)
	log := logger.NewNop()
	calMock := gcal.NewMock()
	sync := NewCalendarSync(gdb, log, calMock, eventRepo, refRepo, memberRepo)
	ctx := context.Background()

	child := seedMember(t, memberRepo, "Zoey", household.RoleChild, 2)
	captain := seedMember(t, memberRepo, "Lola", household.RoleParent, 0)
	start := mustTime(t, "2026-03-02T17:00:00Z")
	ev := seedEvent(t, eventRepo, &household.FamilyEvent{
		ChildID:   child.ID,
		CaptainID: captain.ID,
		Title:     "Dentist",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})

	// First push fails; the ref is left flagged for the sweeper.
	calMock.Err = errors.New("calendar down")
	if err := sync.PushEvent(ctx, ev); err == nil {
		t.Fatalf("push with broken calendar succeeded")
	}
	pendingRefs, err := refRepo.ListPendingPush(ctx, nil)
	if err != nil {
		t.Fatalf("ListPendingPush: %v", err)
	}
	if len(pendingRefs) != 1 {
		t.Fatalf("pending refs = %d, want 1", len(pendingRefs))
	}

	// The retry pass drains the queue once the calendar is back.
	calMock.Err = nil
	pushed, err := sync.RetryPendingPushes(ctx)
	if err != nil {
		t.Fatalf("RetryPendingPushes: %v", err)
	}
	if pushed != 1 {
		t.Fatalf("retried pushes = %d, want 1", pushed)
	}
	pendingRefs, err = refRepo.ListPendingPush(ctx, nil)
	if err != nil {
		t.Fatalf("ListPendingPush: %v", err)
	}
	if len(pendingRefs) != 0 {
		t.Fatalf("pending refs after retry = %d, want 0", len(pendingRefs))
	}
	if calMock.Creates != 1 {
		t.Fatalf("calendar creates = %d, want 1", calMock.Creates)
	}
}

func TestCalendarSyncPullOverwritesLocal(t *testing.T) {
	gdb := newTestDB(t)
	memberRepo, _, _, eventRepo, refRepo, _ := newTestRepos(t, gdb)
	log := logger.NewNop()
	calMock := gcal.NewMock()
	sync := NewCalendarSync(gdb, log, calMock, eventRepo, refRepo, memberRepo)
	ctx := context.Background()

	child := seedMember(t, memberRepo, "Zoey", household.RoleChild, 2)
	captain := seedMember(t, memberRepo, "Lola", household.RoleParent, 0)
	start := mustTime(t, "2026-03-02T17:00:00Z")
	ev := seedEvent(t, eventRepo, &household.FamilyEvent{
		ChildID:   child.ID,
		CaptainID: captain.ID,
		Title:     "Dentist",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Location:  "Main St Dental",
	})
	if err := sync.PushEvent(ctx, ev); err != nil {
		t.Fatalf("PushEvent: %v", err)
	}

	// A parent drags the appointment an hour later in Google Calendar.
	ref, err := refRepo.GetByEventID(ctx, nil, ev.ID)
	if err != nil {
		t.Fatalf("GetByEventID: %v", err)
	}
	newStart := start.Add(time.Hour)
	calMock.Events[ref.GoogleEventID] = gcal.Event{
		ID:       ref.GoogleEventID,
		Title:    "Zoey — Dentist | Captain: Lola",
		Start:    newStart,
		End:      newStart.Add(time.Hour),
		Location: "Elm St Dental",
	}

	updated, err := sync.PullUpdates(ctx, start.Add(-24*time.Hour), start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("PullUpdates: %v", err)
	}
	if updated != 1 {
		t.Fatalf("updated = %d, want 1", updated)
	}

	stored, err := eventRepo.GetByID(ctx, nil, ev.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.StartTime.Equal(newStart) {
		t.Fatalf("start = %v, want %v", stored.StartTime, newStart)
	}
	if stored.Location != "Elm St Dental" {
		t.Fatalf("location = %q, want remote value", stored.Location)
	}
	if stored.Title != "Dentist" {
		t.Fatalf("title = %q, want bare %q", stored.Title, "Dentist")
	}
}
