package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/scholarmatch/scholarship-service/internal/events"
	"github.com/scholarmatch/scholarship-service/internal/models"
	"github.com/scholarmatch/scholarship-service/internal/repositories"
	"github.com/scholarmatch/scholarship-service/internal/validator"
)

// xlsx column layout for import and export, in order
var xlsxHeader = []string{
	"Name", "Gender", "Education", "Category", "State",
	"Max Income", "Min Percentage", "Religion", "Disability",
	"Deadline", "Amount", "Apply Link",
}

type scholarshipService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
}

func NewScholarshipService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) ScholarshipService {
	return &scholarshipService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
	}
}

func (s *scholarshipService) Create(ctx context.Context, req *CreateScholarshipRequest) (*models.Scholarship, error) {
	if errs := s.validator.ValidateScholarshipCreate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	scholarship, err := s.fromCreateRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Scholarship().Create(ctx, s.db, scholarship); err != nil {
		return nil, fmt.Errorf("failed to create scholarship: %w", err)
	}

	s.logger.Info("Scholarship created", "scholarship_id", scholarship.ID, "name", scholarship.Name)
	s.publishCreated(ctx, scholarship)

	return scholarship, nil
}

func (s *scholarshipService) GetByID(ctx context.Context, id string) (*models.Scholarship, error) {
	scholarship, err := s.repo.Scholarship().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get scholarship: %w", err)
	}
	return scholarship, nil
}

func (s *scholarshipService) Update(ctx context.Context, id string, req *UpdateScholarshipRequest) (*models.Scholarship, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	scholarship, err := s.repo.Scholarship().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get scholarship: %w", err)
	}

	s.applyUpdateRequest(scholarship, req)

	if err := s.repo.Scholarship().Update(ctx, s.db, scholarship); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update scholarship: %w", err)
	}

	s.logger.Info("Scholarship updated", "scholarship_id", id)

	return scholarship, nil
}

func (s *scholarshipService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Scholarship().Delete(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete scholarship: %w", err)
	}

	s.logger.Info("Scholarship deleted", "scholarship_id", id)

	return nil
}

func (s *scholarshipService) List(ctx context.Context, filters repositories.ScholarshipFilters, page, size int) (*models.ScholarshipListResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	filters.Limit = size
	filters.Offset = (page - 1) * size

	scholarships, total, err := s.repo.Scholarship().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list scholarships: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &models.ScholarshipListResponse{
		Scholarships: scholarships,
		Total:        total,
		Page:         page,
		Size:         size,
		TotalPages:   totalPages,
	}, nil
}

// ImportXLSX reads scholarships from the first sheet of an xlsx upload. Rows
// that fail validation are reported and skipped; valid rows are inserted in
// one batch.
func (s *scholarshipService) ImportXLSX(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid xlsx file", ErrValidationFailed)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	result := &models.ImportResult{}
	var scholarships []*models.Scholarship

	for i, row := range rows {
		if i == 0 {
			// Header row
			continue
		}
		result.TotalRows++

		req := rowToCreateRequest(row)
		if errs := s.validator.ValidateScholarshipCreate(req); errs.HasErrors() {
			result.Skipped++
			result.Errors = append(result.Errors, models.ImportError{
				Row:     i + 1,
				Message: errs.Error(),
			})
			continue
		}

		scholarship, err := s.fromCreateRequest(req)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, models.ImportError{
				Row:     i + 1,
				Message: err.Error(),
			})
			continue
		}

		scholarships = append(scholarships, scholarship)
	}

	if err := s.repo.Scholarship().CreateBatch(ctx, s.db, scholarships); err != nil {
		return nil, fmt.Errorf("failed to import scholarships: %w", err)
	}

	result.Imported = len(scholarships)
	result.CompletedAt = time.Now().UTC()

	s.logger.Info("Scholarships imported",
		"total_rows", result.TotalRows,
		"imported", result.Imported,
		"skipped", result.Skipped)

	for _, scholarship := range scholarships {
		s.publishCreated(ctx, scholarship)
	}

	return result, nil
}

// ExportXLSX writes the full catalog as an xlsx workbook
func (s *scholarshipService) ExportXLSX(ctx context.Context) ([]byte, error) {
	scholarships, err := s.repo.Scholarship().ListAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list scholarships: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Scholarships"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range xlsxHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for i, sch := range scholarships {
		values := []interface{}{
			sch.Name, sch.Gender, sch.Education, sch.Category, sch.State,
			sch.MaxIncome, sch.MinPercentage, sch.Religion, sch.Disability,
			sch.Deadline, sch.Amount, sch.ApplyLink,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Scholarships exported", "count", len(scholarships))

	return buf.Bytes(), nil
}

// ===== HELPERS =====

func (s *scholarshipService) fromCreateRequest(req *CreateScholarshipRequest) (*models.Scholarship, error) {
	scholarship := &models.Scholarship{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(req.Name),
		Gender:        defaultIfEmpty(req.Gender, models.RestrictionAny),
		Education:     req.Education,
		Category:      defaultIfEmpty(req.Category, models.RestrictionAny),
		State:         defaultIfEmpty(req.State, models.RestrictionAll),
		MaxIncome:     req.MaxIncome,
		MinPercentage: req.MinPercentage,
		Religion:      defaultIfEmpty(req.Religion, models.RestrictionAny),
		Disability:    defaultIfEmpty(req.Disability, models.RestrictionAny),
		Deadline:      req.Deadline,
		Amount:        req.Amount,
		ApplyLink:     req.ApplyLink,
	}

	if len(req.Extras) > 0 {
		raw, err := json.Marshal(req.Extras)
		if err != nil {
			return nil, fmt.Errorf("failed to encode extras: %w", err)
		}
		scholarship.Extras = datatypes.JSON(raw)
	}

	return scholarship, nil
}

func (s *scholarshipService) applyUpdateRequest(scholarship *models.Scholarship, req *UpdateScholarshipRequest) {
	if req.Name != nil {
		scholarship.Name = strings.TrimSpace(*req.Name)
	}
	if req.Gender != nil {
		scholarship.Gender = defaultIfEmpty(*req.Gender, models.RestrictionAny)
	}
	if req.Education != nil {
		scholarship.Education = *req.Education
	}
	if req.Category != nil {
		scholarship.Category = defaultIfEmpty(*req.Category, models.RestrictionAny)
	}
	if req.State != nil {
		scholarship.State = defaultIfEmpty(*req.State, models.RestrictionAll)
	}
	if req.MaxIncome != nil {
		scholarship.MaxIncome = *req.MaxIncome
	}
	if req.MinPercentage != nil {
		scholarship.MinPercentage = *req.MinPercentage
	}
	if req.Religion != nil {
		scholarship.Religion = defaultIfEmpty(*req.Religion, models.RestrictionAny)
	}
	if req.Disability != nil {
		scholarship.Disability = defaultIfEmpty(*req.Disability, models.RestrictionAny)
	}
	if req.Deadline != nil {
		scholarship.Deadline = *req.Deadline
	}
	if req.Amount != nil {
		scholarship.Amount = *req.Amount
	}
	if req.ApplyLink != nil {
		scholarship.ApplyLink = *req.ApplyLink
	}
	if len(req.Extras) > 0 {
		if raw, err := json.Marshal(req.Extras); err == nil {
			scholarship.Extras = datatypes.JSON(raw)
		}
	}
}

func (s *scholarshipService) publishCreated(ctx context.Context, scholarship *models.Scholarship) {
	event := events.NewEvent(events.TypeScholarshipCreated, map[string]interface{}{
		"scholarship_id": scholarship.ID,
		"name":           scholarship.Name,
		"deadline":       scholarship.Deadline,
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish scholarship.created event",
			"error", err,
			"scholarship_id", scholarship.ID)
	}
}

func rowToCreateRequest(row []string) *CreateScholarshipRequest {
	req := &CreateScholarshipRequest{
		Name:       cell(row, 0),
		Gender:     cell(row, 1),
		Education:  cell(row, 2),
		Category:   cell(row, 3),
		State:      cell(row, 4),
		Religion:   cell(row, 7),
		Disability: cell(row, 8),
		Deadline:   cell(row, 9),
		Amount:     cell(row, 10),
		ApplyLink:  cell(row, 11),
	}

	if v, err := strconv.ParseInt(cell(row, 5), 10, 64); err == nil {
		req.MaxIncome = v
	}
	if v, err := strconv.Atoi(cell(row, 6)); err == nil {
		req.MinPercentage = v
	}

	return req
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func defaultIfEmpty(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
