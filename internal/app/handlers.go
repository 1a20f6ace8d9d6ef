package app

import (
	httpH "github.com/homeboardhq/homeboard-backend/internal/http/handlers"
	httpMW "github.com/homeboardhq/homeboard-backend/internal/http/middleware"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Webhook *httpH.WebhookHandler
	Water   *httpH.WaterHandler
	Tokens  *httpH.TokenHandler
	Events  *httpH.EventHandler
}

type Middleware struct {
	WebhookAuth *httpMW.WebhookAuth
}

func wireHandlers(log *logger.Logger, reposet Repos, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Webhook: httpH.NewWebhookHandler(log, serviceset.Dispatcher),
		Water:   httpH.NewWaterHandler(log, serviceset.Water, reposet.WaterJug),
		Tokens:  httpH.NewTokenHandler(log, serviceset.Tokens, reposet.Member),
		Events:  httpH.NewEventHandler(log, reposet.FamilyEvent, serviceset.Swaps),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	return Middleware{
		WebhookAuth: httpMW.NewWebhookAuth(log, cfg.WebhookSecret),
	}
}
