package household

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SprintKind string

const (
	SprintRevenue SprintKind = "revenue"
	SprintFulfill SprintKind = "fulfill"
)

// ParseSprintKind validates a /sprint type token.
func ParseSprintKind(s string) (SprintKind, bool) {
	switch SprintKind(s) {
	case SprintRevenue, SprintFulfill:
		return SprintKind(s), true
	}
	return "", false
}

// Sprint is a family push toward a numeric goal, started from chat.
type Sprint struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Kind      SprintKind `gorm:"not null;column:kind" json:"kind"`
	Target    float64    `gorm:"not null;column:target" json:"target"`
	StartedBy string     `gorm:"column:started_by" json:"started_by"`
	StartedAt time.Time  `gorm:"not null;column:started_at" json:"started_at"`
}

func (Sprint) TableName() string { return "sprints" }

// SaleLog is one /sold entry: amount, free-text product, channel tag.
type SaleLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AmountCents int64     `gorm:"not null;column:amount_cents" json:"amount_cents"`
	Product     string    `gorm:"not null;column:product" json:"product"`
	Channel     string    `gorm:"column:channel" json:"channel"`
	LoggedAt    time.Time `gorm:"not null;column:logged_at" json:"logged_at"`
}

func (SaleLog) TableName() string { return "sale_logs" }

// GreenlightEntry is one child's approved activities for the day.
type GreenlightEntry struct {
	Child      string `json:"child"`
	Activities string `json:"activities"`
}

// GreenlightPost is the daily family-wide announcement of approved
// after-school activities.
type GreenlightPost struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Day      string         `gorm:"not null;column:day" json:"day"`
	Entries  datatypes.JSON `gorm:"column:entries;type:jsonb" json:"entries"`
	PostedAt time.Time      `gorm:"not null;column:posted_at" json:"posted_at"`
}

func (GreenlightPost) TableName() string { return "greenlight_posts" }
