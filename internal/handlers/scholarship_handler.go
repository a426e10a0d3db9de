package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scholarmatch/scholarship-service/internal/repositories"
	"github.com/scholarmatch/scholarship-service/internal/services"
	"github.com/scholarmatch/scholarship-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ScholarshipHandler struct {
	BaseHandler
	scholarshipService services.ScholarshipService
	matchService       services.MatchService
}

func NewScholarshipHandler(scholarshipService services.ScholarshipService, matchService services.MatchService, logger utils.Logger) *ScholarshipHandler {
	return &ScholarshipHandler{
		BaseHandler:        NewBaseHandler(logger),
		scholarshipService: scholarshipService,
		matchService:       matchService,
	}
}

// GetMatches returns the scholarships matching the caller's profile
// @Summary Get matches
// @Description Returns eligible scholarships annotated with deadline info
// @Tags scholarships
// @Produce json
// @Param category query string false "Category filter"
// @Param education query string false "Education filter"
// @Param search query string false "Name substring filter"
// @Param max_income query int false "Income ceiling filter"
// @Param min_amount query int false "Minimum normalized amount"
// @Param exclude_tracked query bool false "Drop saved/applied scholarships"
// @Success 200 {object} models.MatchListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /scholarships/matches [get]
func (h *ScholarshipHandler) GetMatches(c *gin.Context) {
	email, ok := h.currentEmail(c)
	if !ok {
		return
	}

	filters := services.MatchFilters{
		Category:       queryString(c, "category"),
		Education:      queryString(c, "education"),
		Search:         queryString(c, "search"),
		ExcludeTracked: c.Query("exclude_tracked") == "true",
	}
	if v, ok := queryInt64(c, "max_income"); ok {
		filters.MaxIncome = &v
	}
	if v, ok := queryInt64(c, "min_amount"); ok {
		filters.MinAmount = &v
	}

	h.LogRequest(c, "Finding matches", "email", email)

	matches, err := h.matchService.FindMatches(c.Request.Context(), email, filters, time.Now())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// ListScholarships returns a filtered page of the catalog
// @Summary List scholarships
// @Description Returns a paged catalog listing with optional filters
// @Tags scholarships
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} models.ScholarshipListResponse
// @Router /scholarships [get]
func (h *ScholarshipHandler) ListScholarships(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	filters := repositories.ScholarshipFilters{
		Category:  queryString(c, "category"),
		Education: queryString(c, "education"),
		Search:    queryString(c, "search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if v, ok := queryInt64(c, "max_income"); ok {
		filters.MaxIncome = &v
	}

	resp, err := h.scholarshipService.List(c.Request.Context(), filters, page, size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetScholarship returns one catalog entry
// @Summary Get scholarship
// @Tags scholarships
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} models.Scholarship
// @Failure 404 {object} ErrorResponse
// @Router /scholarships/{id} [get]
func (h *ScholarshipHandler) GetScholarship(c *gin.Context) {
	scholarship, err := h.scholarshipService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, scholarship)
}

// CreateScholarship adds a catalog entry
// @Summary Create scholarship
// @Tags scholarships
// @Accept json
// @Produce json
// @Param scholarship body services.CreateScholarshipRequest true "Scholarship data"
// @Success 201 {object} models.Scholarship
// @Failure 400 {object} ErrorResponse
// @Router /scholarships [post]
func (h *ScholarshipHandler) CreateScholarship(c *gin.Context) {
	var req services.CreateScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	scholarship, err := h.scholarshipService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, scholarship)
}

// UpdateScholarship updates a catalog entry
// @Summary Update scholarship
// @Tags scholarships
// @Accept json
// @Produce json
// @Param id path string true "Scholarship ID"
// @Param scholarship body services.UpdateScholarshipRequest true "Fields to update"
// @Success 200 {object} models.Scholarship
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /scholarships/{id} [put]
func (h *ScholarshipHandler) UpdateScholarship(c *gin.Context) {
	var req services.UpdateScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	scholarship, err := h.scholarshipService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, scholarship)
}

// DeleteScholarship removes a catalog entry
// @Summary Delete scholarship
// @Tags scholarships
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /scholarships/{id} [delete]
func (h *ScholarshipHandler) DeleteScholarship(c *gin.Context) {
	if err := h.scholarshipService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Scholarship deleted"})
}

// ImportScholarships bulk-loads scholarships from an xlsx upload
// @Summary Import scholarships
// @Tags scholarships
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} ErrorResponse
// @Router /scholarships/import [post]
func (h *ScholarshipHandler) ImportScholarships(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to open upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing scholarships", "filename", fileHeader.Filename)

	result, err := h.scholarshipService.ImportXLSX(c.Request.Context(), file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportScholarships downloads the catalog as an xlsx workbook
// @Summary Export scholarships
// @Tags scholarships
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /scholarships/export [get]
func (h *ScholarshipHandler) ExportScholarships(c *gin.Context) {
	data, err := h.scholarshipService.ExportXLSX(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("scholarships-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(http.StatusOK, int64(len(data)), xlsxContentType, bytes.NewReader(data), nil)
}

// ===== QUERY HELPERS =====

func queryString(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

func queryInt64(c *gin.Context, key string) (int64, bool) {
	v := c.Query(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
