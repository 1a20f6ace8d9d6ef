package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	apperrors "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
)

// BoardsService records the lightweight household boards: sales sprints,
// logged sales, and the daily greenlights post.
type BoardsService interface {
	StartSprint(ctx context.Context, kind household.SprintKind, target float64, startedBy string, now time.Time) (*household.Sprint, error)
	LogSale(ctx context.Context, amountCents int64, product, channel string, now time.Time) (*household.SaleLog, int64, error)
	PostGreenlights(ctx context.Context, day string, entries []household.GreenlightEntry, now time.Time) (*household.GreenlightPost, error)
}

type boardsService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.BoardsRepo
}

func NewBoardsService(db *gorm.DB, log *logger.Logger, repo repos.BoardsRepo) BoardsService {
	return &boardsService{
		db:   db,
		log:  log.With("service", "BoardsService"),
		repo: repo,
	}
}

func (s *boardsService) StartSprint(ctx context.Context, kind household.SprintKind, target float64, startedBy string, now time.Time) (*household.Sprint, error) {
	if target <= 0 {
		return nil, apperrors.ValidationError("sprint target must be positive")
	}
	sprint := &household.Sprint{
		Kind:      kind,
		Target:    target,
		StartedBy: startedBy,
		StartedAt: now,
	}
	if err := s.repo.CreateSprint(ctx, nil, sprint); err != nil {
		return nil, err
	}
	s.log.Info("sprint started", "kind", kind, "target", target)
	return sprint, nil
}

func (s *boardsService) LogSale(ctx context.Context, amountCents int64, product, channel string, now time.Time) (*household.SaleLog, int64, error) {
	if amountCents <= 0 {
		return nil, 0, apperrors.ValidationError("sale amount must be positive")
	}
	if product == "" {
		return nil, 0, apperrors.ValidationError("sale needs a product")
	}
	sale := &household.SaleLog{
		AmountCents: amountCents,
		Product:     product,
		Channel:     channel,
		LoggedAt:    now,
	}
	if err := s.repo.CreateSale(ctx, nil, sale); err != nil {
		return nil, 0, err
	}
	total, err := s.repo.SaleTotalCents(ctx, nil, channel)
	if err != nil {
		return nil, 0, err
	}
	s.log.Info("sale logged", "amount_cents", amountCents, "channel", channel, "channel_total_cents", total)
	return sale, total, nil
}

func (s *boardsService) PostGreenlights(ctx context.Context, day string, entries []household.GreenlightEntry, now time.Time) (*household.GreenlightPost, error) {
	if day == "" {
		return nil, apperrors.ValidationError("greenlights post needs a day")
	}
	if len(entries) == 0 {
		return nil, apperrors.ValidationError("greenlights post needs at least one entry")
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	post := &household.GreenlightPost{
		Day:      day,
		Entries:  datatypes.JSON(raw),
		PostedAt: now,
	}
	if err := s.repo.CreateGreenlight(ctx, nil, post); err != nil {
		return nil, err
	}
	s.log.Info("greenlights posted", "day", day, "entries", len(entries))
	return post, nil
}
