// Package jobs runs the periodic background work: moving unconfirmed
// swaps and retrying failed calendar pushes.
package jobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/clients/redislock"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/services"
)

const sweepLockKey = "homeboard:sweep"

type Sweeper struct {
	db         *gorm.DB
	log        *logger.Logger
	swaps      services.SwapCoordinator
	calSync    services.CalendarSync
	locker     redislock.Locker
	interval   time.Duration
	pullWindow time.Duration
}

func NewSweeper(
	db *gorm.DB,
	baseLog *logger.Logger,
	swaps services.SwapCoordinator,
	calSync services.CalendarSync,
	locker redislock.Locker,
	interval time.Duration,
	pullWindowDays int,
) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if pullWindowDays <= 0 {
		pullWindowDays = 14
	}
	return &Sweeper{
		db:         db,
		log:        baseLog.With("component", "Sweeper"),
		swaps:      swaps,
		calSync:    calSync,
		locker:     locker,
		interval:   interval,
		pullWindow: time.Duration(pullWindowDays) * 24 * time.Hour,
	}
}

func (w *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

// runOnce executes one sweep pass under the cross-replica lock. A pass
// that loses the lock is skipped entirely; the holder does the work.
func (w *Sweeper) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("sweep panic", "panic", r)
		}
	}()

	release, acquired, err := w.locker.TryLock(ctx, sweepLockKey, w.interval)
	if err != nil {
		w.log.Warn("sweep lock unavailable", "error", err)
		return
	}
	if !acquired {
		return
	}
	defer release()

	ctx, span := otel.Tracer("homeboard/jobs").Start(ctx, "SweepPass")
	defer span.End()

	moved, err := w.swaps.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		w.log.Error("swap sweep failed", "error", err)
	} else if moved > 0 {
		w.log.Info("swap sweep moved events", "count", moved)
	}

	pushed, err := w.calSync.RetryPendingPushes(ctx)
	if err != nil {
		w.log.Error("calendar push retry failed", "error", err)
	} else if pushed > 0 {
		w.log.Info("calendar pushes retried", "count", pushed)
	}

	now := time.Now().UTC()
	pulled, err := w.calSync.PullUpdates(ctx, now, now.Add(w.pullWindow))
	if err != nil {
		w.log.Error("calendar pull failed", "error", err)
	} else if pulled > 0 {
		w.log.Info("calendar events pulled", "count", pulled)
	}
}
