package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/homeboardhq/homeboard-backend/internal/http/handlers"
	httpMW "github.com/homeboardhq/homeboard-backend/internal/http/middleware"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	WebhookAuth *httpMW.WebhookAuth

	WebhookHandler *httpH.WebhookHandler
	WaterHandler   *httpH.WaterHandler
	TokenHandler   *httpH.TokenHandler
	EventHandler   *httpH.EventHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("homeboard-backend"))
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Inbound chat webhook (provider-authenticated)
	if cfg.WebhookHandler != nil {
		webhook := api.Group("/webhook")
		if cfg.WebhookAuth != nil {
			webhook.Use(cfg.WebhookAuth.Require())
		}
		webhook.POST("/chat", cfg.WebhookHandler.InboundChat)
	}

	// Read-only ledger views
	if cfg.WaterHandler != nil {
		api.GET("/water", cfg.WaterHandler.GetStatus)
		api.GET("/water/jugs", cfg.WaterHandler.ListJugs)
	}
	if cfg.TokenHandler != nil {
		api.GET("/tokens/:name", cfg.TokenHandler.GetRemaining)
		api.GET("/tokens-weekly", cfg.TokenHandler.GetWeeklySummary)
	}
	if cfg.EventHandler != nil {
		api.GET("/events", cfg.EventHandler.ListUpcoming)
		api.POST("/events/:id/swap", cfg.EventHandler.RequestSwap)
		api.POST("/events/:id/swap/confirm", cfg.EventHandler.ConfirmSwap)
	}

	return r
}
