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

type FamilyEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*household.FamilyEvent) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*household.FamilyEvent, error)
	ListUpcoming(ctx context.Context, tx *gorm.DB, from time.Time, limit int) ([]*household.FamilyEvent, error)
	ListPendingPast(ctx context.Context, tx *gorm.DB, requestedBefore, now time.Time) ([]*household.FamilyEvent, error)
	ApplySwapRequest(ctx context.Context, tx *gorm.DB, id uuid.UUID, candidate uuid.UUID, requestedAt time.Time) (bool, error)
	ApplySwapConfirm(ctx context.Context, tx *gorm.DB, id uuid.UUID, newCaptain uuid.UUID) (bool, error)
	ApplyMove(ctx context.Context, tx *gorm.DB, id uuid.UUID, moved *household.FamilyEvent) (bool, error)
	OverwriteFromRemote(ctx context.Context, tx *gorm.DB, id uuid.UUID, title string, start, end time.Time, location string) error
}

type familyEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFamilyEventRepo(db *gorm.DB, baseLog *logger.Logger) FamilyEventRepo {
	return &familyEventRepo{db: db, log: baseLog.With("repo", "FamilyEventRepo")}
}

func (r *familyEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*household.FamilyEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(events) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&events).Error
}

func (r *familyEventRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*household.FamilyEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ev household.FamilyEvent
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&ev).Error
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("event %s: %w", id, errors.ErrNotFound)
		}
		return nil, err
	}
	return &ev, nil
}

func (r *familyEventRepo) ListUpcoming(ctx context.Context, tx *gorm.DB, from time.Time, limit int) ([]*household.FamilyEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var events []*household.FamilyEvent
	err := transaction.WithContext(ctx).
		Where("start_time > ?", from).
		Order("start_time ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListPendingPast finds swaps that outlived the confirmation window:
// flag still up, requested before the cutoff, event still in the
// future, not yet moved. Expired pending rows stay untouched because
// of the start_time predicate.
func (r *familyEventRepo) ListPendingPast(ctx context.Context, tx *gorm.DB, requestedBefore, now time.Time) ([]*household.FamilyEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var events []*household.FamilyEvent
	err := transaction.WithContext(ctx).
		Where("swap_flag = ? AND status = ?", true, household.EventScheduled).
		Where("swap_requested_at < ?", requestedBefore).
		Where("start_time > ?", now).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ApplySwapRequest commits Scheduled -> SwapPending as one
// compare-and-swap statement. False means the precondition no longer
// held (a racing writer won) and nothing changed.
func (r *familyEventRepo) ApplySwapRequest(ctx context.Context, tx *gorm.DB, id uuid.UUID, candidate uuid.UUID, requestedAt time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&household.FamilyEvent{}).
		Where("id = ? AND status = ? AND swap_flag = ?", id, household.EventScheduled, false).
		Updates(map[string]interface{}{
			"swap_flag":         true,
			"swap_candidate_id": candidate,
			"swap_requested_at": requestedAt,
			"updated_at":        requestedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ApplySwapConfirm commits SwapPending -> Scheduled(newCaptain).
func (r *familyEventRepo) ApplySwapConfirm(ctx context.Context, tx *gorm.DB, id uuid.UUID, newCaptain uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&household.FamilyEvent{}).
		Where("id = ? AND status = ? AND swap_flag = ?", id, household.EventScheduled, true).
		Updates(map[string]interface{}{
			"captain_id":        newCaptain,
			"swap_flag":         false,
			"swap_candidate_id": nil,
			"swap_requested_at": nil,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ApplyMove commits SwapPending -> Moved with the +7d shift computed
// by the domain transition. Same CAS guard as confirmation, so a
// racing confirm and sweep produce exactly one winner.
func (r *familyEventRepo) ApplyMove(ctx context.Context, tx *gorm.DB, id uuid.UUID, moved *household.FamilyEvent) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&household.FamilyEvent{}).
		Where("id = ? AND status = ? AND swap_flag = ?", id, household.EventScheduled, true).
		Updates(map[string]interface{}{
			"start_time":        moved.StartTime,
			"end_time":          moved.EndTime,
			"title":             moved.Title,
			"status":            household.EventMoved,
			"swap_flag":         false,
			"swap_candidate_id": nil,
			"swap_requested_at": nil,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// OverwriteFromRemote applies a pull-sync snapshot; the remote
// calendar wins for title, times and location only.
func (r *familyEventRepo) OverwriteFromRemote(ctx context.Context, tx *gorm.DB, id uuid.UUID, title string, start, end time.Time, location string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&household.FamilyEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"start_time": start,
			"end_time":   end,
			"location":   location,
			"updated_at": time.Now().UTC(),
		}).Error
}
