package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type MemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, members []*household.FamilyMember) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*household.FamilyMember, error)
	GetByFirstName(ctx context.Context, tx *gorm.DB, firstName string) (*household.FamilyMember, error)
	ListByRole(ctx context.Context, tx *gorm.DB, role household.MemberRole) ([]*household.FamilyMember, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*household.FamilyMember, error)
}

type memberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMemberRepo(db *gorm.DB, baseLog *logger.Logger) MemberRepo {
	return &memberRepo{db: db, log: baseLog.With("repo", "MemberRepo")}
}

func (r *memberRepo) Create(ctx context.Context, tx *gorm.DB, members []*household.FamilyMember) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(members) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&members).Error
}

func (r *memberRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*household.FamilyMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var member household.FamilyMember
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&member).Error
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("member %s: %w", id, errors.ErrNotFound)
		}
		return nil, err
	}
	return &member, nil
}

// GetByFirstName resolves a chat name to a member. Names in commands
// arrive with arbitrary casing.
func (r *memberRepo) GetByFirstName(ctx context.Context, tx *gorm.DB, firstName string) (*household.FamilyMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var member household.FamilyMember
	err := transaction.WithContext(ctx).
		Where("LOWER(first_name) = LOWER(?)", firstName).
		First(&member).Error
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("member %q: %w", firstName, errors.ErrNotFound)
		}
		return nil, err
	}
	return &member, nil
}

func (r *memberRepo) ListByRole(ctx context.Context, tx *gorm.DB, role household.MemberRole) ([]*household.FamilyMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var members []*household.FamilyMember
	err := transaction.WithContext(ctx).
		Where("role = ?", role).
		Order("first_name ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*household.FamilyMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var members []*household.FamilyMember
	if err := transaction.WithContext(ctx).Order("first_name ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
