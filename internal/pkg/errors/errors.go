package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a malformed numeric or enum field in a command.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientTokens indicates a ride-token spend over the daily allotment.
	ErrInsufficientTokens = errors.New("insufficient ride tokens")
	// ErrExternalService indicates a calendar or chat round trip failure.
	ErrExternalService = errors.New("external service failure")
	// ErrRetryable indicates a transient store failure worth one more attempt.
	ErrRetryable = errors.New("retryable")
)

// ValidationError tags an error as caller-input validation failure.
func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

// SwapTooLateError rejects a captain-swap request filed inside the
// minimum advance-notice window. HoursUntilEvent is what was left,
// RequiredNotice what the urgency class demanded.
type SwapTooLateError struct {
	HoursUntilEvent float64
	RequiredNotice  float64
}

func (e *SwapTooLateError) Error() string {
	return fmt.Sprintf("swap requested %.1fh before start, need %.0fh notice", e.HoursUntilEvent, e.RequiredNotice)
}

// IsRetryable reports whether the caller should attempt the store
// round trip again before surfacing a failure notification.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRetryable) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "40001", "40P01", "55P03":
			return true // serialization/deadlock/lock_not_available
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") || strings.Contains(msg, "serialization")
}

// IsUniqueViolation reports a duplicate-key insert. Lazily created
// ride-token rows race on (child_id, date); the loser re-reads.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.TrimSpace(pgErr.Code) == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// IsNotFound folds the gorm sentinel into ours.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
