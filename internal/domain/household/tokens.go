package household

import (
	"time"

	"github.com/google/uuid"
)

// RideTokenBalance is one child's ride-token counter for one day.
// Rows are created lazily on first touch and never deleted; weekly
// reporting groups on WeekStart. The invariant tokens_used <=
// tokens_allotted is enforced by a guarded UPDATE in the repo, never
// by read-then-write.
type RideTokenBalance struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChildID        uuid.UUID `gorm:"type:uuid;not null;column:child_id;uniqueIndex:uq_ride_token_child_date" json:"child_id"`
	Date           string    `gorm:"not null;column:date;uniqueIndex:uq_ride_token_child_date" json:"date"`
	TokensAllotted int       `gorm:"not null;column:tokens_allotted" json:"tokens_allotted"`
	TokensUsed     int       `gorm:"not null;default:0;column:tokens_used" json:"tokens_used"`
	WeekStart      string    `gorm:"not null;column:week_start;index" json:"week_start"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (RideTokenBalance) TableName() string { return "ride_tokens" }

func (b RideTokenBalance) TokensRemaining() int {
	return b.TokensAllotted - b.TokensUsed
}

// DateKey is the canonical YYYY-MM-DD form balance rows are keyed by.
const DateKey = "2006-01-02"

// WeekStartOf returns the Sunday beginning the week containing t,
// in DateKey form.
func WeekStartOf(t time.Time) string {
	offset := int(t.Weekday()) // Sunday == 0
	return t.AddDate(0, 0, -offset).Format(DateKey)
}

// WeeklyTokenTotal is one child's aggregate for one week.
type WeeklyTokenTotal struct {
	ChildID        uuid.UUID `json:"child_id"`
	WeekStart      string    `json:"week_start"`
	TokensAllotted int       `json:"tokens_allotted"`
	TokensUsed     int       `json:"tokens_used"`
}
