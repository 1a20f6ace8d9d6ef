package app

import (
	"github.com/gin-gonic/gin"

	apihttp "github.com/homeboardhq/homeboard-backend/internal/http"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return apihttp.NewRouter(apihttp.RouterConfig{
		Log:            log,
		WebhookAuth:    middleware.WebhookAuth,
		WebhookHandler: handlers.Webhook,
		WaterHandler:   handlers.Water,
		TokenHandler:   handlers.Tokens,
		EventHandler:   handlers.Events,
		HealthHandler:  handlers.Health,
	})
}
