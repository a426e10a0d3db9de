package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholarmatch/scholarship-service/internal/services"
	"github.com/scholarmatch/scholarship-service/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
	}
}

// SubmitProfile stores the caller's eligibility profile
// @Summary Submit profile
// @Description Stores the caller's eligibility profile, replacing any previous one
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body services.SubmitProfileRequest true "Profile data"
// @Success 200 {object} models.Profile
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /profiles [post]
func (h *ProfileHandler) SubmitProfile(c *gin.Context) {
	email, ok := h.currentEmail(c)
	if !ok {
		return
	}

	var req services.SubmitProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	profile, err := h.profileService.Submit(c.Request.Context(), email, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetMyProfile returns the caller's latest profile
// @Summary Get my profile
// @Description Returns the caller's latest submitted profile
// @Tags profiles
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	email, ok := h.currentEmail(c)
	if !ok {
		return
	}

	profile, err := h.profileService.Get(c.Request.Context(), email)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
