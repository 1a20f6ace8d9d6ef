package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
)

// SwapCoordinator drives the captain handoff lifecycle. State is read as
// a snapshot, validated by the pure transition functions, then committed
// through a guarded update; losing a commit race surfaces as the same
// rejection the loser would have gotten reading fresh state.
type SwapCoordinator interface {
	RequestSwap(ctx context.Context, eventID, candidateID uuid.UUID, urgent bool, now time.Time) (*household.FamilyEvent, error)
	ConfirmSwap(ctx context.Context, eventID uuid.UUID, now time.Time) (*household.FamilyEvent, error)
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

type swapCoordinator struct {
	db         *gorm.DB
	log        *logger.Logger
	eventRepo  repos.FamilyEventRepo
	memberRepo repos.MemberRepo
	calSync    CalendarSync
	notifier   FamilyNotifier
}

func NewSwapCoordinator(
	db *gorm.DB,
	log *logger.Logger,
	eventRepo repos.FamilyEventRepo,
	memberRepo repos.MemberRepo,
	calSync CalendarSync,
	notifier FamilyNotifier,
) SwapCoordinator {
	return &swapCoordinator{
		db:         db,
		log:        log.With("service", "SwapCoordinator"),
		eventRepo:  eventRepo,
		memberRepo: memberRepo,
		calSync:    calSync,
		notifier:   notifier,
	}
}

func (s *swapCoordinator) RequestSwap(ctx context.Context, eventID, candidateID uuid.UUID, urgent bool, now time.Time) (*household.FamilyEvent, error) {
	ev, err := s.eventRepo.GetByID(ctx, nil, eventID)
	if err != nil {
		return nil, err
	}
	candidate, err := s.memberRepo.GetByID(ctx, nil, candidateID)
	if err != nil {
		return nil, err
	}

	next, err := household.RequestSwap(*ev, candidateID, urgent, now)
	if err != nil {
		return nil, err
	}
	applied, err := s.eventRepo.ApplySwapRequest(ctx, nil, eventID, candidateID, *next.SwapRequestedAt)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, household.ErrSwapAlreadyPending
	}

	s.log.Info("swap requested",
		"event_id", eventID, "candidate_id", candidateID, "urgent", urgent)

	if err := s.calSync.PushEvent(ctx, &next); err != nil {
		s.log.Warn("swap marker push deferred", "event_id", eventID, "error", err)
	}
	s.notifier.SwapRequested(ctx, &next, candidate)
	return &next, nil
}

func (s *swapCoordinator) ConfirmSwap(ctx context.Context, eventID uuid.UUID, now time.Time) (*household.FamilyEvent, error) {
	ev, err := s.eventRepo.GetByID(ctx, nil, eventID)
	if err != nil {
		return nil, err
	}
	next, err := household.ConfirmSwap(*ev, now)
	if err != nil {
		return nil, err
	}
	applied, err := s.eventRepo.ApplySwapConfirm(ctx, nil, eventID, next.CaptainID)
	if err != nil {
		return nil, err
	}
	if !applied {
		// The sweep or another confirmation got there first.
		return nil, household.ErrSwapNotPending
	}

	newCaptain, err := s.memberRepo.GetByID(ctx, nil, next.CaptainID)
	if err != nil {
		return nil, err
	}
	s.log.Info("swap confirmed", "event_id", eventID, "new_captain_id", next.CaptainID)

	if err := s.calSync.PushEvent(ctx, &next); err != nil {
		s.log.Warn("confirmed swap push deferred", "event_id", eventID, "error", err)
	}
	s.notifier.SwapConfirmed(ctx, &next, newCaptain)
	return &next, nil
}

// SweepExpired moves every event whose confirmation window lapsed. The
// guarded update makes the sweep idempotent: a second pass over the same
// event changes zero rows.
func (s *swapCoordinator) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	ctx, span := otel.Tracer("homeboard/swaps").Start(ctx, "SweepExpired")
	defer span.End()

	cutoff := now.Add(-household.SwapConfirmWindow)
	pending, err := s.eventRepo.ListPendingPast(ctx, nil, cutoff, now)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, ev := range pending {
		next, err := household.MoveUnconfirmed(*ev, now)
		if err != nil {
			s.log.Debug("sweep skipping event", "event_id", ev.ID, "reason", err)
			continue
		}
		applied, err := s.eventRepo.ApplyMove(ctx, nil, ev.ID, &next)
		if err != nil {
			s.log.Error("sweep move failed", "event_id", ev.ID, "error", err)
			continue
		}
		if !applied {
			continue
		}
		moved++
		s.log.Info("unconfirmed swap moved", "event_id", ev.ID, "new_start", next.StartTime)

		if err := s.calSync.PushEvent(ctx, &next); err != nil {
			s.log.Warn("moved event push deferred", "event_id", ev.ID, "error", err)
		}
		s.notifier.SwapMoved(ctx, &next)
	}
	span.SetAttributes(attribute.Int("swaps.moved", moved))
	return moved, nil
}
