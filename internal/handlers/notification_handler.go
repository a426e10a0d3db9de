package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scholarmatch/scholarship-service/internal/services"
	"github.com/scholarmatch/scholarship-service/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// TriggerSweep runs a notification sweep on demand
// @Summary Trigger notification sweep
// @Description Runs the new-match and closing-soon email sweep immediately
// @Tags notifications
// @Produce json
// @Success 200 {object} services.SweepResult
// @Failure 403 {object} ErrorResponse
// @Router /notifications/sweep [post]
func (h *NotificationHandler) TriggerSweep(c *gin.Context) {
	h.LogRequest(c, "Manual notification sweep triggered")

	result, err := h.notificationService.RunSweep(c.Request.Context(), time.Now())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
