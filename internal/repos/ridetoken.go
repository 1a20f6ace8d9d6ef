package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type RideTokenRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, childID uuid.UUID, day time.Time, allotted int) (*household.RideTokenBalance, error)
	GetForDate(ctx context.Context, tx *gorm.DB, childID uuid.UUID, date string) (*household.RideTokenBalance, error)
	Consume(ctx context.Context, tx *gorm.DB, childID uuid.UUID, date string, count int) (*household.RideTokenBalance, error)
	WeeklyTotals(ctx context.Context, tx *gorm.DB, weekStart string) ([]household.WeeklyTokenTotal, error)
}

type rideTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRideTokenRepo(db *gorm.DB, baseLog *logger.Logger) RideTokenRepo {
	return &rideTokenRepo{db: db, log: baseLog.With("repo", "RideTokenRepo")}
}

// GetOrCreate lazily materializes the child's counter row for the day.
// Two callers racing on the same (child, date) both end up with the
// same row: the insert loser re-reads on unique violation.
func (r *rideTokenRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, childID uuid.UUID, day time.Time, allotted int) (*household.RideTokenBalance, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	date := day.Format(household.DateKey)

	row, err := r.GetForDate(ctx, transaction, childID, date)
	if err == nil {
		return row, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	fresh := &household.RideTokenBalance{
		ID:             uuid.New(),
		ChildID:        childID,
		Date:           date,
		TokensAllotted: allotted,
		TokensUsed:     0,
		WeekStart:      household.WeekStartOf(day),
	}
	if err := transaction.WithContext(ctx).Create(fresh).Error; err != nil {
		if errors.IsUniqueViolation(err) {
			return r.GetForDate(ctx, transaction, childID, date)
		}
		return nil, err
	}
	return fresh, nil
}

func (r *rideTokenRepo) GetForDate(ctx context.Context, tx *gorm.DB, childID uuid.UUID, date string) (*household.RideTokenBalance, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row household.RideTokenBalance
	err := transaction.WithContext(ctx).
		Where("child_id = ? AND date = ?", childID, date).
		First(&row).Error
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("ride tokens for %s on %s: %w", childID, date, errors.ErrNotFound)
		}
		return nil, err
	}
	return &row, nil
}

// Consume spends count tokens in a single guarded UPDATE. The guard
// tokens_used + count <= tokens_allotted runs inside the statement,
// so two concurrent spends can never both read a stale balance. Zero
// rows affected means the spend would overdraw: the row is unchanged
// and ErrInsufficientTokens comes back. The returned row is re-read
// after the write so callers report the post-update remaining value.
func (r *rideTokenRepo) Consume(ctx context.Context, tx *gorm.DB, childID uuid.UUID, date string, count int) (*household.RideTokenBalance, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if count <= 0 {
		return nil, errors.ValidationError("token count must be positive")
	}

	res := transaction.WithContext(ctx).
		Model(&household.RideTokenBalance{}).
		Where("child_id = ? AND date = ? AND tokens_used + ? <= tokens_allotted", childID, date, count).
		Updates(map[string]interface{}{
			"tokens_used": gorm.Expr("tokens_used + ?", count),
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		row, err := r.GetForDate(ctx, transaction, childID, date)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%d requested, %d remaining: %w", count, row.TokensRemaining(), errors.ErrInsufficientTokens)
	}
	return r.GetForDate(ctx, transaction, childID, date)
}

func (r *rideTokenRepo) WeeklyTotals(ctx context.Context, tx *gorm.DB, weekStart string) ([]household.WeeklyTokenTotal, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var totals []household.WeeklyTokenTotal
	err := transaction.WithContext(ctx).
		Model(&household.RideTokenBalance{}).
		Select("child_id, week_start, SUM(tokens_allotted) AS tokens_allotted, SUM(tokens_used) AS tokens_used").
		Where("week_start = ?", weekStart).
		Group("child_id, week_start").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
