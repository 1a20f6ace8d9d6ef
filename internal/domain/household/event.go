package household

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventScheduled EventStatus = "scheduled"
	EventMoved     EventStatus = "moved"
)

// FamilyEvent is an appointment with a responsible captain. It is
// owned by the swap coordinator and mutated only through the guarded
// transitions in swap.go, persisted as compare-and-swap updates.
type FamilyEvent struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ChildID         uuid.UUID   `gorm:"type:uuid;not null;column:child_id;index" json:"child_id"`
	CaptainID       uuid.UUID   `gorm:"type:uuid;not null;column:captain_id" json:"captain_id"`
	BackupID        *uuid.UUID  `gorm:"type:uuid;column:backup_id" json:"backup_id,omitempty"`
	Title           string      `gorm:"not null;column:title" json:"title"`
	StartTime       time.Time   `gorm:"not null;column:start_time;index" json:"start_time"`
	EndTime         time.Time   `gorm:"not null;column:end_time" json:"end_time"`
	Location        string      `gorm:"column:location" json:"location,omitempty"`
	Pharmacy        string      `gorm:"column:pharmacy" json:"pharmacy,omitempty"`
	SwapFlag        bool        `gorm:"not null;default:false;column:swap_flag;index" json:"swap_flag"`
	SwapCandidateID *uuid.UUID  `gorm:"type:uuid;column:swap_candidate_id" json:"swap_candidate_id,omitempty"`
	SwapRequestedAt *time.Time  `gorm:"column:swap_requested_at" json:"swap_requested_at,omitempty"`
	Status          EventStatus `gorm:"not null;default:'scheduled';column:status;index" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (FamilyEvent) TableName() string { return "family_events" }

// CalendarEventRef links a family event to its mirror on the external
// calendar. Weak reference: lookup only, never ownership.
type CalendarEventRef struct {
	EventID       uuid.UUID  `gorm:"type:uuid;primaryKey;column:event_id" json:"event_id"`
	GoogleEventID string     `gorm:"not null;column:google_event_id;index" json:"google_event_id"`
	LastPushedAt  *time.Time `gorm:"column:last_pushed_at" json:"last_pushed_at,omitempty"`
	PendingPush   bool       `gorm:"not null;default:false;column:pending_push;index" json:"pending_push"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (CalendarEventRef) TableName() string { return "calendar_event_refs" }
