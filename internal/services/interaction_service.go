package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/scholarmatch/scholarship-service/internal/models"
	"github.com/scholarmatch/scholarship-service/internal/repositories"
)

type interactionService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewInteractionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) InteractionService {
	return &interactionService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// Save marks a scholarship as saved for the user. Saving twice is a no-op.
func (s *interactionService) Save(ctx context.Context, email, scholarshipID string) error {
	return s.mark(ctx, email, scholarshipID, models.InteractionSaved)
}

// Apply marks a scholarship as applied for the user. Applying twice is a
// no-op.
func (s *interactionService) Apply(ctx context.Context, email, scholarshipID string) error {
	return s.mark(ctx, email, scholarshipID, models.InteractionApplied)
}

func (s *interactionService) mark(ctx context.Context, email, scholarshipID string, kind models.InteractionKind) error {
	email = models.NormalizeEmail(email)

	// The scholarship must exist before tracking it
	if _, err := s.repo.Scholarship().GetByID(ctx, s.db, scholarshipID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get scholarship: %w", err)
	}

	interaction := &models.Interaction{
		Email:         email,
		ScholarshipID: scholarshipID,
		Kind:          kind,
	}

	if err := s.repo.Interaction().Mark(ctx, s.db, interaction); err != nil {
		return fmt.Errorf("failed to mark interaction: %w", err)
	}

	s.logger.Info("Interaction marked",
		"email", email,
		"scholarship_id", scholarshipID,
		"kind", kind)

	return nil
}

// Unsave removes a saved mark
func (s *interactionService) Unsave(ctx context.Context, email, scholarshipID string) error {
	return s.unmark(ctx, email, scholarshipID, models.InteractionSaved)
}

// Unapply removes an applied mark
func (s *interactionService) Unapply(ctx context.Context, email, scholarshipID string) error {
	return s.unmark(ctx, email, scholarshipID, models.InteractionApplied)
}

func (s *interactionService) unmark(ctx context.Context, email, scholarshipID string, kind models.InteractionKind) error {
	email = models.NormalizeEmail(email)

	marked, err := s.repo.Interaction().IsMarked(ctx, s.db, email, scholarshipID, kind)
	if err != nil {
		return fmt.Errorf("failed to check interaction: %w", err)
	}
	if !marked {
		return ErrNotFound
	}

	if err := s.repo.Interaction().Unmark(ctx, s.db, email, scholarshipID, kind); err != nil {
		return fmt.Errorf("failed to unmark interaction: %w", err)
	}

	s.logger.Info("Interaction unmarked",
		"email", email,
		"scholarship_id", scholarshipID,
		"kind", kind)

	return nil
}

func (s *interactionService) ListSaved(ctx context.Context, email string) ([]*models.Scholarship, error) {
	return s.listByKind(ctx, email, models.InteractionSaved)
}

func (s *interactionService) ListApplied(ctx context.Context, email string) ([]*models.Scholarship, error) {
	return s.listByKind(ctx, email, models.InteractionApplied)
}

func (s *interactionService) listByKind(ctx context.Context, email string, kind models.InteractionKind) ([]*models.Scholarship, error) {
	email = models.NormalizeEmail(email)

	ids, err := s.repo.Interaction().ListIDs(ctx, s.db, email, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list interaction ids: %w", err)
	}

	scholarships, err := s.repo.Scholarship().ListByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list scholarships: %w", err)
	}

	return scholarships, nil
}

func (s *interactionService) Stats(ctx context.Context, email string) (*models.DashboardStats, error) {
	email = models.NormalizeEmail(email)

	saved, err := s.repo.Interaction().CountByKind(ctx, s.db, email, models.InteractionSaved)
	if err != nil {
		return nil, fmt.Errorf("failed to count saved: %w", err)
	}

	applied, err := s.repo.Interaction().CountByKind(ctx, s.db, email, models.InteractionApplied)
	if err != nil {
		return nil, fmt.Errorf("failed to count applied: %w", err)
	}

	return &models.DashboardStats{
		SavedCount:   saved,
		AppliedCount: applied,
	}, nil
}
