package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/homeboardhq/homeboard-backend/internal/clients/chat"
	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	apperrors "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

func TestWaterInventoryUpdateAndStatus(t *testing.T) {
	gdb := newTestDB(t)
	_, _, jugRepo, _, _, _ := newTestRepos(t, gdb)
	seedJugs(t, jugRepo)
	mock := chat.NewMock()
	notifier := NewFamilyNotifier(logger.NewNop(), mock, "family")
	water := NewWaterInventory(gdb, logger.NewNop(), jugRepo, notifier)
	ctx := context.Background()
	now := mustTime(t, "2026-03-02T10:00:00Z")

	for n := 1; n <= 4; n++ {
		if _, err := water.UpdateJug(ctx, n, household.JugFull, now); err != nil {
			t.Fatalf("UpdateJug(%d, full): %v", n, err)
		}
	}
	jug, err := water.UpdateJug(ctx, 5, household.JugInUse, now)
	if err != nil {
		t.Fatalf("UpdateJug(5, in_use): %v", err)
	}
	if jug.LastFilledDate != nil {
		t.Fatalf("in_use transition stamped last_filled_date")
	}

	status, err := water.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.FullCount != 4 || status.InUseCount != 1 || status.EmptyCount != 1 {
		t.Fatalf("counts = %d/%d/%d, want 4/1/1", status.FullCount, status.InUseCount, status.EmptyCount)
	}
	if status.EstimatedDaysLeft <= 0 {
		t.Fatalf("estimated days left = %f, want > 0", status.EstimatedDaysLeft)
	}
}

func TestWaterInventoryStampsLastFilled(t *testing.T) {
	gdb := newTestDB(t)
	_, _, jugRepo, _, _, _ := newTestRepos(t, gdb)
	seedJugs(t, jugRepo)
	notifier := NewFamilyNotifier(logger.NewNop(), chat.NewMock(), "family")
	water := NewWaterInventory(gdb, logger.NewNop(), jugRepo, notifier)
	now := mustTime(t, "2026-03-02T10:00:00Z")

	jug, err := water.UpdateJug(context.Background(), 2, household.JugFull, now)
	if err != nil {
		t.Fatalf("UpdateJug: %v", err)
	}
	if jug.LastFilledDate == nil || !jug.LastFilledDate.Equal(now) {
		t.Fatalf("last_filled_date = %v, want %v", jug.LastFilledDate, now)
	}
}

func TestWaterInventoryRejectsInvalidInput(t *testing.T) {
	gdb := newTestDB(t)
	_, _, jugRepo, _, _, _ := newTestRepos(t, gdb)
	seedJugs(t, jugRepo)
	notifier := NewFamilyNotifier(logger.NewNop(), chat.NewMock(), "family")
	water := NewWaterInventory(gdb, logger.NewNop(), jugRepo, notifier)
	ctx := context.Background()
	now := mustTime(t, "2026-03-02T10:00:00Z")

	if _, err := water.UpdateJug(ctx, 7, household.JugFull, now); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("jug 7 error = %v, want ErrValidation", err)
	}
	if _, err := water.UpdateJug(ctx, 0, household.JugFull, now); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("jug 0 error = %v, want ErrValidation", err)
	}
	if _, err := water.UpdateJug(ctx, 3, household.JugStatus("leaking"), now); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("leaking status error = %v, want ErrValidation", err)
	}

	// Nothing mutated.
	status, err := water.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.EmptyCount != household.JugCount {
		t.Fatalf("empty count = %d, want %d after rejected updates", status.EmptyCount, household.JugCount)
	}
}

func TestWaterInventoryLowWaterAlert(t *testing.T) {
	gdb := newTestDB(t)
	_, _, jugRepo, _, _, _ := newTestRepos(t, gdb)
	seedJugs(t, jugRepo)
	mock := chat.NewMock()
	notifier := NewFamilyNotifier(logger.NewNop(), mock, "family")
	water := NewWaterInventory(gdb, logger.NewNop(), jugRepo, notifier)
	ctx := context.Background()
	now := mustTime(t, "2026-03-02T10:00:00Z")

	// Two full jugs is at the threshold; every update at or below it
	// alerts.
	if _, err := water.UpdateJug(ctx, 1, household.JugFull, now); err != nil {
		t.Fatalf("UpdateJug: %v", err)
	}
	if _, err := water.UpdateJug(ctx, 2, household.JugFull, now); err != nil {
		t.Fatalf("UpdateJug: %v", err)
	}

	alerts := 0
	for _, body := range mock.Bodies() {
		if strings.Contains(body, "Water is low") {
			alerts++
		}
	}
	if alerts != 2 {
		t.Fatalf("low-water alerts = %d, want 2 (both updates left full_count <= 2)", alerts)
	}

	// A third full jug lifts the inventory clear of the threshold.
	if _, err := water.UpdateJug(ctx, 3, household.JugFull, now); err != nil {
		t.Fatalf("UpdateJug: %v", err)
	}
	for _, body := range mock.Bodies()[len(mock.Bodies())-1:] {
		if strings.Contains(body, "Water is low") {
			t.Fatalf("alert fired with 3 full jugs: %q", body)
		}
	}
}
