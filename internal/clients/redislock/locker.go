// Package redislock provides a best-effort distributed lock so only one
// instance runs the sweep loop at a time.
package redislock

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error)
	Close() error
}

type locker struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewFromEnv(log *logger.Logger) (Locker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &locker{
		log: log.With("service", "RedisLocker"),
		rdb: rdb,
	}, nil
}

// TryLock acquires key with SET NX. The returned release func deletes the
// key only if this holder still owns it.
func (l *locker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		script := goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0`)
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := script.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil {
			l.log.Warn("lock release failed", "key", key, "error", err)
		}
	}
	return release, true, nil
}

func (l *locker) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

// NopLocker always grants the lock. Used when redis is not configured and
// in tests.
type NopLocker struct{}

func (NopLocker) TryLock(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}

func (NopLocker) Close() error { return nil }
