package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

// BoardsRepo persists the family's sprint, sale and greenlight rows.
type BoardsRepo interface {
	CreateSprint(ctx context.Context, tx *gorm.DB, sprint *household.Sprint) error
	LatestSprint(ctx context.Context, tx *gorm.DB, kind household.SprintKind) (*household.Sprint, error)
	CreateSale(ctx context.Context, tx *gorm.DB, sale *household.SaleLog) error
	SaleTotalCents(ctx context.Context, tx *gorm.DB, channel string) (int64, error)
	CreateGreenlight(ctx context.Context, tx *gorm.DB, post *household.GreenlightPost) error
}

type boardsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBoardsRepo(db *gorm.DB, baseLog *logger.Logger) BoardsRepo {
	return &boardsRepo{db: db, log: baseLog.With("repo", "BoardsRepo")}
}

func (r *boardsRepo) CreateSprint(ctx context.Context, tx *gorm.DB, sprint *household.Sprint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(sprint).Error
}

func (r *boardsRepo) LatestSprint(ctx context.Context, tx *gorm.DB, kind household.SprintKind) (*household.Sprint, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var sprint household.Sprint
	err := transaction.WithContext(ctx).
		Where("kind = ?", kind).
		Order("started_at DESC").
		Limit(1).
		First(&sprint).Error
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (r *boardsRepo) CreateSale(ctx context.Context, tx *gorm.DB, sale *household.SaleLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(sale).Error
}

func (r *boardsRepo) SaleTotalCents(ctx context.Context, tx *gorm.DB, channel string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var total *int64
	q := transaction.WithContext(ctx).Model(&household.SaleLog{}).Select("SUM(amount_cents)")
	if channel != "" {
		q = q.Where("channel = ?", channel)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *boardsRepo) CreateGreenlight(ctx context.Context, tx *gorm.DB, post *household.GreenlightPost) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(post).Error
}
