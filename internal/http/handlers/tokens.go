package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/http/response"
	apperrors "github.com/homeboardhq/homeboard-backend/internal/pkg/errors"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
	"github.com/homeboardhq/homeboard-backend/internal/services"
)

type TokenHandler struct {
	log        *logger.Logger
	tokens     services.TokenLedger
	memberRepo repos.MemberRepo
}

func NewTokenHandler(log *logger.Logger, tokens services.TokenLedger, memberRepo repos.MemberRepo) *TokenHandler {
	return &TokenHandler{
		log:        log.With("handler", "TokenHandler"),
		tokens:     tokens,
		memberRepo: memberRepo,
	}
}

// GetRemaining reports today's balance for one child, looked up by
// first name. ?date=YYYY-MM-DD overrides the day.
func (h *TokenHandler) GetRemaining(c *gin.Context) {
	child, err := h.memberRepo.GetByFirstName(c.Request.Context(), nil, c.Param("name"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			response.RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "member_lookup_failed", err)
		return
	}

	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, parseErr := time.Parse(household.DateKey, raw)
		if parseErr != nil {
			response.RespondError(c, http.StatusBadRequest, "bad_date", parseErr)
			return
		}
		day = parsed
	}

	remaining, err := h.tokens.Remaining(c.Request.Context(), child.ID, day)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "token_lookup_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"child":     child.FirstName,
		"date":      day.Format(household.DateKey),
		"remaining": remaining,
	})
}

func (h *TokenHandler) GetWeeklySummary(c *gin.Context) {
	totals, err := h.tokens.WeeklySummary(c.Request.Context(), time.Now().UTC())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "weekly_summary_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"totals": totals})
}
