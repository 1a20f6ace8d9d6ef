package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type CalendarRefRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, ref *household.CalendarEventRef) error
	GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*household.CalendarEventRef, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*household.CalendarEventRef, error)
	ListPendingPush(ctx context.Context, tx *gorm.DB) ([]*household.CalendarEventRef, error)
	MarkPendingPush(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error
	MarkPushed(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, at time.Time) error
}

type calendarRefRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCalendarRefRepo(db *gorm.DB, baseLog *logger.Logger) CalendarRefRepo {
	return &calendarRefRepo{db: db, log: baseLog.With("repo", "CalendarRefRepo")}
}

func (r *calendarRefRepo) Upsert(ctx context.Context, tx *gorm.DB, ref *household.CalendarEventRef) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"google_event_id", "updated_at"}),
		}).
		Create(ref).Error
}

func (r *calendarRefRepo) GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*household.CalendarEventRef, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ref household.CalendarEventRef
	err := transaction.WithContext(ctx).Where("event_id = ?", eventID).First(&ref).Error
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("calendar ref for event %s: %w", eventID, errors.ErrNotFound)
		}
		return nil, err
	}
	return &ref, nil
}

func (r *calendarRefRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*household.CalendarEventRef, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var refs []*household.CalendarEventRef
	if err := transaction.WithContext(ctx).Find(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *calendarRefRepo) ListPendingPush(ctx context.Context, tx *gorm.DB) ([]*household.CalendarEventRef, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var refs []*household.CalendarEventRef
	if err := transaction.WithContext(ctx).Where("pending_push = ?", true).Find(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

// MarkPendingPush flags a ref whose push failed; the next sweep
// retries it. The local row stays the source of truth meanwhile.
func (r *calendarRefRepo) MarkPendingPush(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&household.CalendarEventRef{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"pending_push": true,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *calendarRefRepo) MarkPushed(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&household.CalendarEventRef{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"pending_push":   false,
			"last_pushed_at": at,
			"updated_at":     at,
		}).Error
}
