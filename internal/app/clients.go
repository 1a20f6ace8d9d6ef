package app

import (
	"context"
	"os"

	"github.com/homeboardhq/homeboard-backend/internal/clients/chat"
	"github.com/homeboardhq/homeboard-backend/internal/clients/gcal"
	"github.com/homeboardhq/homeboard-backend/internal/clients/redislock"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type Clients struct {
	Chat     chat.Client
	Calendar gcal.Client
	Locker   redislock.Locker
}

// wireClients builds the external-service clients. Missing credentials
// degrade to in-memory stand-ins so a dev instance boots with no
// accounts configured.
func wireClients(ctx context.Context, log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var chatClient chat.Client
	chatClient, err := chat.NewFromEnv(log)
	if err != nil {
		log.Warn("chat client not configured, using mock sender", "error", err)
		chatClient = chat.NewMock()
	}

	var calClient gcal.Client
	calClient, err = gcal.NewFromEnv(ctx, log)
	if err != nil {
		log.Warn("calendar client not configured, using in-memory calendar", "error", err)
		calClient = gcal.NewMock()
	}

	var locker redislock.Locker
	if os.Getenv("REDIS_ADDR") != "" {
		locker, err = redislock.NewFromEnv(log)
		if err != nil {
			log.Warn("redis locker unavailable, sweep runs unguarded", "error", err)
			locker = redislock.NopLocker{}
		}
	} else {
		locker = redislock.NopLocker{}
	}

	return Clients{
		Chat:     chatClient,
		Calendar: calClient,
		Locker:   locker,
	}
}
