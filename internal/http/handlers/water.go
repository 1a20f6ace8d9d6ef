package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/homeboardhq/homeboard-backend/internal/http/response"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
	"github.com/homeboardhq/homeboard-backend/internal/repos"
	"github.com/homeboardhq/homeboard-backend/internal/services"
)

type WaterHandler struct {
	log     *logger.Logger
	water   services.WaterInventory
	jugRepo repos.WaterJugRepo
}

func NewWaterHandler(log *logger.Logger, water services.WaterInventory, jugRepo repos.WaterJugRepo) *WaterHandler {
	return &WaterHandler{
		log:     log.With("handler", "WaterHandler"),
		water:   water,
		jugRepo: jugRepo,
	}
}

func (h *WaterHandler) GetStatus(c *gin.Context) {
	status, err := h.water.Status(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "water_status_failed", err)
		return
	}
	response.RespondOK(c, status)
}

func (h *WaterHandler) ListJugs(c *gin.Context) {
	jugs, err := h.jugRepo.ListAll(c.Request.Context(), nil)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "jug_list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"jugs": jugs})
}
