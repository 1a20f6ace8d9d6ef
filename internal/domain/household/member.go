package household

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRole string

const (
	RoleParent MemberRole = "parent"
	RoleChild  MemberRole = "child"
)

// FamilyMember is one person in the household. Children spend ride
// tokens; parents captain appointments.
type FamilyMember struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string     `gorm:"not null;column:first_name" json:"first_name"`
	Role      MemberRole `gorm:"not null;column:role;index" json:"role"`

	// TokensPerDay is the daily ride-token allotment. Zero means
	// "use the household default" from settings.
	TokensPerDay int `gorm:"column:tokens_per_day;not null;default:0" json:"tokens_per_day"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (FamilyMember) TableName() string { return "family_member" }
