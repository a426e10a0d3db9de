package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/scholarmatch/scholarship-service/internal/models"
	"github.com/scholarmatch/scholarship-service/internal/repositories"
	"github.com/scholarmatch/scholarship-service/internal/validator"
)

type profileService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProfileService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

// Submit stores the caller's profile. A second submission replaces the first;
// there is never more than one profile per email.
func (s *profileService) Submit(ctx context.Context, email string, req *SubmitProfileRequest) (*models.Profile, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	profile := &models.Profile{
		Email:       models.NormalizeEmail(email),
		Gender:      req.Gender,
		Education:   req.Education,
		Category:    req.Category,
		Income:      req.Income,
		State:       req.State,
		DOB:         req.DOB,
		Religion:    req.Religion,
		Disability:  req.Disability,
		Course:      req.Course,
		Percentage:  req.Percentage,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.repo.Profile().Upsert(ctx, s.db, profile); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}

	s.logger.Info("Profile submitted", "email", profile.Email)

	return profile, nil
}

func (s *profileService) Get(ctx context.Context, email string) (*models.Profile, error) {
	profile, err := s.repo.Profile().GetByEmail(ctx, s.db, models.NormalizeEmail(email))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}
