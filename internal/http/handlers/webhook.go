package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homeboardhq/homeboard-backend/internal/http/response"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/ctxutil"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/services"
)

// WebhookHandler receives inbound chat messages from the provider and
// feeds them to the dispatcher. The reply, if any, goes back out through
// the notifier, not this response.
type WebhookHandler struct {
	log        *logger.Logger
	dispatcher services.Dispatcher
}

func NewWebhookHandler(log *logger.Logger, dispatcher services.Dispatcher) *WebhookHandler {
	return &WebhookHandler{
		log:        log.With("handler", "WebhookHandler"),
		dispatcher: dispatcher,
	}
}

type inboundMessage struct {
	From string `json:"from"`
	Body string `json:"body"`
}

func (h *WebhookHandler) InboundChat(c *gin.Context) {
	var msg inboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if msg.Body == "" {
		response.RespondError(c, http.StatusBadRequest, "bad_request", errEmptyBody)
		return
	}

	ctx := c.Request.Context()
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		rd.Sender = msg.From
	}

	if err := h.dispatcher.Handle(ctx, msg.From, msg.Body, time.Now().UTC()); err != nil {
		h.log.Error("dispatch failed", "sender", msg.From, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "dispatch_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
