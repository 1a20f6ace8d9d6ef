package services

import (
	"context"
	"errors"
	"testing"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	apperrors "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

func TestBoardsSaleTotalsPerChannel(t *testing.T) {
	gdb := newTestDB(t)
	_, _, _, _, _, boardsRepo := newTestRepos(t, gdb)
	boards := NewBoardsService(gdb, logger.NewNop(), boardsRepo)
	ctx := context.Background()
	now := mustTime(t, "2026-03-02T14:00:00Z")

	if _, _, err := boards.LogSale(ctx, 2550, "friendship bracelets", "market", now); err != nil {
		t.Fatalf("LogSale: %v", err)
	}
	if _, _, err := boards.LogSale(ctx, 1000, "lemonade", "stand", now); err != nil {
		t.Fatalf("LogSale: %v", err)
	}
	_, total, err := boards.LogSale(ctx, 450, "stickers", "market", now)
	if err != nil {
		t.Fatalf("LogSale: %v", err)
	}
	if total != 3000 {
		t.Fatalf("market channel total = %d, want 3000", total)
	}
}

func TestBoardsValidation(t *testing.T) {
	gdb := newTestDB(t)
	_, _, _, _, _, boardsRepo := newTestRepos(t, gdb)
	boards := NewBoardsService(gdb, logger.NewNop(), boardsRepo)
	ctx := context.Background()
	now := mustTime(t, "2026-03-02T14:00:00Z")

	if _, err := boards.StartSprint(ctx, household.SprintRevenue, 0, "lola", now); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("zero target error = %v, want ErrValidation", err)
	}
	if _, _, err := boards.LogSale(ctx, -5, "x", "y", now); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("negative amount error = %v, want ErrValidation", err)
	}
	if _, err := boards.PostGreenlights(ctx, "", nil, now); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("empty post error = %v, want ErrValidation", err)
	}
}

func TestBoardsGreenlightsPersistEntries(t *testing.T) {
	gdb := newTestDB(t)
	_, _, _, _, _, boardsRepo := newTestRepos(t, gdb)
	boards := NewBoardsService(gdb, logger.NewNop(), boardsRepo)
	ctx := context.Background()
	now := mustTime(t, "2026-03-02T14:00:00Z")

	post, err := boards.PostGreenlights(ctx, "Tuesday", []household.GreenlightEntry{
		{Child: "Amos", Activities: "soccer, library"},
		{Child: "Zoey", Activities: "art club"},
	}, now)
	if err != nil {
		t.Fatalf("PostGreenlights: %v", err)
	}
	if post.Day != "Tuesday" {
		t.Fatalf("day = %q", post.Day)
	}
	if len(post.Entries) == 0 {
		t.Fatalf("entries JSON empty")
	}
}
