package repos

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type WaterJugRepo interface {
	Seed(ctx context.Context, tx *gorm.DB) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, jugNumber int, status household.JugStatus, now time.Time) (*household.WaterJug, error)
	Counts(ctx context.Context, tx *gorm.DB) (full, empty, inUse int, err error)
	EstimatedDaysLeft(ctx context.Context, tx *gorm.DB) (float64, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*household.WaterJug, error)
}

type waterJugRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWaterJugRepo(db *gorm.DB, baseLog *logger.Logger) WaterJugRepo {
	return &waterJugRepo{db: db, log: baseLog.With("repo", "WaterJugRepo")}
}

// Seed inserts the six fixed jug rows once; reruns are no-ops.
func (r *waterJugRepo) Seed(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	jugs := make([]*household.WaterJug, 0, household.JugCount)
	for n := 1; n <= household.JugCount; n++ {
		jugs = append(jugs, &household.WaterJug{JugNumber: n, Status: household.JugEmpty})
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&jugs).Error
}

// UpdateStatus applies a status change; any status may follow any
// other. A transition to full stamps last_filled_date.
func (r *waterJugRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, jugNumber int, status household.JugStatus, now time.Time) (*household.WaterJug, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if status == household.JugFull {
		updates["last_filled_date"] = now
	}
	res := transaction.WithContext(ctx).
		Model(&household.WaterJug{}).
		Where("jug_number = ?", jugNumber).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("jug %d: %w", jugNumber, errors.ErrNotFound)
	}

	var jug household.WaterJug
	if err := transaction.WithContext(ctx).Where("jug_number = ?", jugNumber).First(&jug).Error; err != nil {
		return nil, err
	}
	return &jug, nil
}

func (r *waterJugRepo) Counts(ctx context.Context, tx *gorm.DB) (int, int, int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	type statusCount struct {
		Status string
		N      int
	}
	var rows []statusCount
	err := transaction.WithContext(ctx).
		Model(&household.WaterJug{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, 0, err
	}
	var full, empty, inUse int
	for _, row := range rows {
		switch household.JugStatus(row.Status) {
		case household.JugFull:
			full = row.N
		case household.JugEmpty:
			empty = row.N
		case household.JugInUse:
			inUse = row.N
		}
	}
	return full, empty, inUse, nil
}

// EstimatedDaysLeft reads the opaque projection maintained by the
// persistence layer (the water_outlook view). No formula lives here.
func (r *waterJugRepo) EstimatedDaysLeft(ctx context.Context, tx *gorm.DB) (float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var days float64
	err := transaction.WithContext(ctx).
		Raw("SELECT estimated_days_left FROM water_outlook").
		Scan(&days).Error
	if err != nil {
		return 0, err
	}
	return days, nil
}

func (r *waterJugRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*household.WaterJug, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var jugs []*household.WaterJug
	if err := transaction.WithContext(ctx).Order("jug_number ASC").Find(&jugs).Error; err != nil {
		return nil, err
	}
	return jugs, nil
}
