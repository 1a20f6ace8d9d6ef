package household

import (
	"time"
)

type JugStatus string

const (
	JugFull  JugStatus = "full"
	JugEmpty JugStatus = "empty"
	JugInUse JugStatus = "in_use"
)

// JugCount is the fixed cardinality of the water-jug fleet. Rows are
// seeded once at startup and never created or deleted afterwards.
const JugCount = 6

// WaterJug is one of the six numbered jugs. Any status may follow any
// other; a transition to full stamps LastFilledDate.
type WaterJug struct {
	JugNumber      int        `gorm:"primaryKey;column:jug_number;autoIncrement:false" json:"jug_number"`
	Status         JugStatus  `gorm:"not null;column:status" json:"status"`
	LastFilledDate *time.Time `gorm:"column:last_filled_date" json:"last_filled_date,omitempty"`

	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (WaterJug) TableName() string { return "water_jugs" }

// ValidJugNumber reports whether n names one of the six jugs.
func ValidJugNumber(n int) bool {
	return n >= 1 && n <= JugCount
}

// ParseJugStatus validates a status token from a /jug command.
func ParseJugStatus(s string) (JugStatus, bool) {
	switch JugStatus(s) {
	case JugFull, JugEmpty, JugInUse:
		return JugStatus(s), true
	}
	return "", false
}

// WaterStatus is the household supply snapshot. EstimatedDaysLeft is
// an opaque value read from the persistence layer; this package owns
// no formula for it.
type WaterStatus struct {
	FullCount         int     `json:"full_count"`
	EmptyCount        int     `json:"empty_count"`
	InUseCount        int     `json:"in_use_count"`
	EstimatedDaysLeft float64 `json:"estimated_days_left"`
}

// LowWaterThreshold is the full-jug count at or under which a
// low-water alert goes out alongside the update acknowledgment.
const LowWaterThreshold = 2
