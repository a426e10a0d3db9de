package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholarmatch/scholarship-service/internal/services"
	"github.com/scholarmatch/scholarship-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	interactionService services.InteractionService
}

func NewDashboardHandler(interactionService services.InteractionService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:        NewBaseHandler(logger),
		interactionService: interactionService,
	}
}

// GetStats returns the caller's dashboard counters
// @Summary Get dashboard stats
// @Description Returns saved and applied counts for the caller
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Failure 401 {object} ErrorResponse
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	email, ok := h.currentEmail(c)
	if !ok {
		return
	}

	stats, err := h.interactionService.Stats(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
