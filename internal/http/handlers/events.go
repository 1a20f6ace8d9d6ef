package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/http/response"
	apperrors "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
	"github.com/homeboardhq/homeboard-backend/internal/services"
)

type EventHandler struct {
	log       *logger.Logger
	eventRepo repos.FamilyEventRepo
	swaps     services.SwapCoordinator
}

func NewEventHandler(log *logger.Logger, eventRepo repos.FamilyEventRepo, swaps services.SwapCoordinator) *EventHandler {
	return &EventHandler{
		log:       log.With("handler", "EventHandler"),
		eventRepo: eventRepo,
		swaps:     swaps,
	}
}

func (h *EventHandler) ListUpcoming(c *gin.Context) {
	events, err := h.eventRepo.ListUpcoming(c.Request.Context(), nil, time.Now().UTC(), 50)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "event_list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}

type swapRequestBody struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	Urgent      bool   `json:"urgent"`
}

func (h *EventHandler) RequestSwap(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_event_id", err)
		return
	}
	var body swapRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	candidateID, err := uuid.Parse(body.CandidateID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_candidate_id", err)
		return
	}

	ev, err := h.swaps.RequestSwap(c.Request.Context(), eventID, candidateID, body.Urgent, time.Now().UTC())
	if err != nil {
		respondSwapError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

func (h *EventHandler) ConfirmSwap(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_event_id", err)
		return
	}
	ev, err := h.swaps.ConfirmSwap(c.Request.Context(), eventID, time.Now().UTC())
	if err != nil {
		respondSwapError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

func respondSwapError(c *gin.Context, err error) {
	var tooLate *apperrors.SwapTooLateError
	switch {
	case apperrors.IsNotFound(err):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.As(err, &tooLate):
		response.RespondError(c, http.StatusConflict, "swap_too_late", err)
	case errors.Is(err, household.ErrSwapAlreadyPending),
		errors.Is(err, household.ErrSwapNotPending),
		errors.Is(err, household.ErrSwapWindowExpired),
		errors.Is(err, household.ErrEventStarted),
		errors.Is(err, household.ErrEventMoved):
		response.RespondError(c, http.StatusConflict, "swap_rejected", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "swap_failed", err)
	}
}
