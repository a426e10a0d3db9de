package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholarmatch/scholarship-service/internal/services"
	"github.com/scholarmatch/scholarship-service/internal/utils"
)

type InteractionHandler struct {
	BaseHandler
	interactionService services.InteractionService
}

func NewInteractionHandler(interactionService services.InteractionService, logger utils.Logger) *InteractionHandler {
	return &InteractionHandler{
		BaseHandler:        NewBaseHandler(logger),
		interactionService: interactionService,
	}
}

// SaveScholarship marks a scholarship as saved for the caller
// @Summary Save scholarship
// @Description Marks a scholarship as saved. Saving again is a no-op.
// @Tags interactions
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /scholarships/{id}/save [post]
func (h *InteractionHandler) SaveScholarship(c *gin.Context) {
	email, ok := h.currentEmail(c)
	if !ok {
		return
	}

	if err := h.interactionService.Save(c.Request.Context(), email, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Scholarship saved"})
}

// ApplyScholarship marks a scholarship as applied for the caller
// @Summary Apply to scholarship
// @Description Marks a scholarship as applied. Applying again is a no-op.
// @Tags interactions
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /scholarships/{id}/apply [post]
func (h *InteractionHandler) ApplyScholarship(c *gin.Context) {
	email, ok := h.currentEmail(c)
	if !ok {
		return
	}

	if err := h.interactionService.Apply(c.Request.Context(), email, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Application recorded"})
}

// UnsaveScholarship removes a saved mark for the caller
// @Summary Unsave scholarship
// @Tags interactions
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /scholarships/{id}/save [delete]
func (h *InteractionHandler) UnsaveScholarship(c *gin.Context) {
	email, ok := h.currentEmail(c)
	if !ok {
		return
	}

	if err := h.interactionService.Unsave(c.Request.Context(), email, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Scholarship unsaved"})
}

// UnapplyScholarship removes an applied mark for the caller
// @Summary Unapply scholarship
// @Tags interactions
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /scholarships/{id}/apply [delete]
func (h *InteractionHandler) UnapplyScholarship(c *gin.Context) {
	email, ok := h.currentEmail(c)
	if !ok {
		return
	}

	if err := h.interactionService.Unapply(c.Request.Context(), email, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Application withdrawn"})
}

// ListSaved returns the caller's saved scholarships
// @Summary List saved scholarships
// @Tags interactions
// @Produce json
// @Success 200 {array} models.Scholarship
// @Failure 401 {object} ErrorResponse
// @Router /scholarships/saved [get]
func (h *InteractionHandler) ListSaved(c *gin.Context) {
	email, ok := h.currentEmail(c)
	if !ok {
		return
	}

	scholarships, err := h.interactionService.ListSaved(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, scholarships)
}

// ListApplied returns the caller's applied scholarships
// @Summary List applied scholarships
// @Tags interactions
// @Produce json
// @Success 200 {array} models.Scholarship
// @Failure 401 {object} ErrorResponse
// @Router /scholarships/applied [get]
func (h *InteractionHandler) ListApplied(c *gin.Context) {
	email, ok := h.currentEmail(c)
	if !ok {
		return
	}

	scholarships, err := h.interactionService.ListApplied(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, scholarships)
}
