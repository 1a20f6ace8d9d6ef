package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	apperrors "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
)

// WaterInventory tracks the six jugs and fires the low-water alert when
// the full count dips to the threshold.
type WaterInventory interface {
	UpdateJug(ctx context.Context, jugNumber int, status household.JugStatus, now time.Time) (*household.WaterJug, error)
	Status(ctx context.Context) (household.WaterStatus, error)
}

type waterInventory struct {
	db       *gorm.DB
	log      *logger.Logger
	jugRepo  repos.WaterJugRepo
	notifier FamilyNotifier
}

func NewWaterInventory(db *gorm.DB, log *logger.Logger, jugRepo repos.WaterJugRepo, notifier FamilyNotifier) WaterInventory {
	return &waterInventory{
		db:       db,
		log:      log.With("service", "WaterInventory"),
		jugRepo:  jugRepo,
		notifier: notifier,
	}
}

func (s *waterInventory) UpdateJug(ctx context.Context, jugNumber int, status household.JugStatus, now time.Time) (*household.WaterJug, error) {
	if !household.ValidJugNumber(jugNumber) {
		return nil, apperrors.ValidationError(fmt.Sprintf("jug number must be 1..%d", household.JugCount))
	}
	if _, ok := household.ParseJugStatus(string(status)); !ok {
		return nil, apperrors.ValidationError("jug status must be full, empty, or in_use")
	}
	jug, err := s.jugRepo.UpdateStatus(ctx, nil, jugNumber, status, now)
	if err != nil {
		return nil, err
	}
	s.log.Info("jug updated", "jug", jugNumber, "status", status)

	current, statusErr := s.Status(ctx)
	if statusErr != nil {
		s.log.Warn("water status after update failed", "error", statusErr)
		return jug, nil
	}
	if current.FullCount <= household.LowWaterThreshold {
		s.notifier.LowWater(ctx, current)
	}
	return jug, nil
}

func (s *waterInventory) Status(ctx context.Context) (household.WaterStatus, error) {
	full, empty, inUse, err := s.jugRepo.Counts(ctx, nil)
	if err != nil {
		return household.WaterStatus{}, err
	}
	days, err := s.jugRepo.EstimatedDaysLeft(ctx, nil)
	if err != nil {
		return household.WaterStatus{}, err
	}
	return household.WaterStatus{
		FullCount:         full,
		EmptyCount:        empty,
		InUseCount:        inUse,
		EstimatedDaysLeft: days,
	}, nil
}
