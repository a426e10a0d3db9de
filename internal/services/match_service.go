package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/scholarmatch/scholarship-service/internal/matching"
	"github.com/scholarmatch/scholarship-service/internal/models"
	"github.com/scholarmatch/scholarship-service/internal/repositories"
)

type matchService struct {
	repo            repositories.Repository
	db              *gorm.DB
	logger          *slog.Logger
	closingSoonDays int
}

func NewMatchService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, closingSoonDays int) MatchService {
	return &matchService{
		repo:            repo,
		db:              db,
		logger:          logger,
		closingSoonDays: closingSoonDays,
	}
}

// FindMatches runs the full pipeline: eligibility, deadline annotation,
// tracked-set exclusion, the request filters, and ordering.
func (s *matchService) FindMatches(ctx context.Context, email string, filters MatchFilters, now time.Time) (*models.MatchListResponse, error) {
	email = models.NormalizeEmail(email)

	profile, err := s.repo.Profile().GetByEmail(ctx, s.db, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	scholarships, err := s.repo.Scholarship().ListAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list scholarships: %w", err)
	}

	var excluded map[string]bool
	if filters.ExcludeTracked {
		excluded, err = s.trackedSet(ctx, email)
		if err != nil {
			return nil, err
		}
	}

	var matches []*models.MatchedScholarship
	for _, sch := range scholarships {
		if !matching.Matches(sch, profile) {
			continue
		}
		if excluded != nil && excluded[sch.ID] {
			continue
		}
		if !applyMatchFilters(sch, filters) {
			continue
		}

		c := matching.Classify(sch.Deadline, now, s.closingSoonDays)
		matches = append(matches, &models.MatchedScholarship{
			Scholarship:   sch,
			IsClosingSoon: c.ClosingSoon,
			DaysLeft:      c.DaysLeft,
		})
	}

	sortMatches(matches)

	s.logger.Info("Matches computed",
		"email", email,
		"candidates", len(scholarships),
		"matches", len(matches))

	return &models.MatchListResponse{
		Scholarships: matches,
		Total:        len(matches),
	}, nil
}

// trackedSet returns the union of the user's saved and applied IDs
func (s *matchService) trackedSet(ctx context.Context, email string) (map[string]bool, error) {
	set := make(map[string]bool)

	for _, kind := range []models.InteractionKind{models.InteractionSaved, models.InteractionApplied} {
		ids, err := s.repo.Interaction().ListIDs(ctx, s.db, email, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s ids: %w", kind, err)
		}
		for _, id := range ids {
			set[id] = true
		}
	}

	return set, nil
}

func applyMatchFilters(sch *models.Scholarship, filters MatchFilters) bool {
	if filters.Category != nil && !strings.EqualFold(sch.Category, *filters.Category) {
		return false
	}
	if filters.Education != nil && !strings.EqualFold(sch.Education, *filters.Education) {
		return false
	}
	if filters.Search != nil {
		if !strings.Contains(strings.ToLower(sch.Name), strings.ToLower(*filters.Search)) {
			return false
		}
	}
	if filters.MaxIncome != nil {
		// A scholarship stays in when it has no ceiling or its ceiling admits
		// the requested income level.
		if sch.MaxIncome > 0 && sch.MaxIncome < *filters.MaxIncome {
			return false
		}
	}
	if filters.MinAmount != nil {
		if matching.NormalizeAmount(sch.Amount) < *filters.MinAmount {
			return false
		}
	}
	return true
}

// sortMatches orders deadline-soonest first. Scholarships without a parseable
// deadline go last; ties keep catalog order (oldest created first).
func sortMatches(matches []*models.MatchedScholarship) {
	sort.SliceStable(matches, func(i, j int) bool {
		di, dj := matches[i].DaysLeft, matches[j].DaysLeft
		switch {
		case di == nil && dj == nil:
			return false
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
}
