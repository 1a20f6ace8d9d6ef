package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	apperrors "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
)

// TokenLedger owns the per-child daily ride token allotment. All spends go
// through a guarded update so concurrent requests can never overdraw a
// day's balance.
type TokenLedger interface {
	Remaining(ctx context.Context, childID uuid.UUID, day time.Time) (int, error)
	Consume(ctx context.Context, childID uuid.UUID, day time.Time, count int) (*household.RideTokenBalance, error)
	WeeklySummary(ctx context.Context, anyDayInWeek time.Time) ([]household.WeeklyTokenTotal, error)
}

type tokenLedger struct {
	db         *gorm.DB
	log        *logger.Logger
	memberRepo repos.MemberRepo
	tokenRepo  repos.RideTokenRepo
}

func NewTokenLedger(db *gorm.DB, log *logger.Logger, memberRepo repos.MemberRepo, tokenRepo repos.RideTokenRepo) TokenLedger {
	return &tokenLedger{
		db:         db,
		log:        log.With("service", "TokenLedger"),
		memberRepo: memberRepo,
		tokenRepo:  tokenRepo,
	}
}

func (s *tokenLedger) ensureBalance(ctx context.Context, childID uuid.UUID, day time.Time) (*household.RideTokenBalance, error) {
	member, err := s.memberRepo.GetByID(ctx, nil, childID)
	if err != nil {
		return nil, err
	}
	if member.Role != household.RoleChild {
		return nil, apperrors.ValidationError("ride tokens are tracked for children only")
	}
	return s.tokenRepo.GetOrCreate(ctx, nil, childID, day, member.TokensPerDay)
}

func (s *tokenLedger) Remaining(ctx context.Context, childID uuid.UUID, day time.Time) (int, error) {
	balance, err := s.ensureBalance(ctx, childID, day)
	if err != nil {
		return 0, err
	}
	return balance.TokensRemaining(), nil
}

func (s *tokenLedger) Consume(ctx context.Context, childID uuid.UUID, day time.Time, count int) (*household.RideTokenBalance, error) {
	if count <= 0 {
		return nil, apperrors.ValidationError("token count must be positive")
	}
	if _, err := s.ensureBalance(ctx, childID, day); err != nil {
		return nil, err
	}
	date := day.Format(household.DateKey)
	balance, err := s.tokenRepo.Consume(ctx, nil, childID, date, count)
	if err != nil {
		return nil, fmt.Errorf("consume %d tokens for child %s on %s: %w", count, childID, date, err)
	}
	s.log.Info("tokens consumed",
		"child_id", childID, "date", date,
		"spent", count, "remaining", balance.TokensRemaining())
	return balance, nil
}

func (s *tokenLedger) WeeklySummary(ctx context.Context, anyDayInWeek time.Time) ([]household.WeeklyTokenTotal, error) {
	return s.tokenRepo.WeeklyTotals(ctx, nil, household.WeekStartOf(anyDayInWeek))
}
