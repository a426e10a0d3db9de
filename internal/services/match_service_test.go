package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scholarmatch/scholarship-service/internal/models"
)

func testProfile(email string) *models.Profile {
	return &models.Profile{
		Email:      email,
		Gender:     "Female",
		Education:  "Undergraduate",
		Category:   "General",
		Income:     200000,
		State:      "Karnataka",
		Religion:   "Hindu",
		Disability: "No",
		Percentage: 85,
	}
}

// openScholarship is eligible for testProfile regardless of its other fields
func openScholarship(id, name, deadline string) *models.Scholarship {
	return &models.Scholarship{
		ID:         id,
		Name:       name,
		Gender:     models.RestrictionAny,
		Education:  "undergraduate",
		Category:   models.RestrictionAny,
		State:      models.RestrictionAll,
		Religion:   models.RestrictionAny,
		Disability: models.RestrictionAny,
		Deadline:   deadline,
	}
}

func TestMatchService_FindMatches(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("eligibility filtering", func(t *testing.T) {
		repo := newMockRepository()
		repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))

		eligible := openScholarship("s1", "Open Award", "2026-06-01")
		maleOnly := openScholarship("s2", "Male Only Award", "2026-06-01")
		maleOnly.Gender = "Male"
		tooRich := openScholarship("s3", "Low Income Award", "2026-06-01")
		tooRich.MaxIncome = 100000
		highMarks := openScholarship("s4", "Merit Award", "2026-06-01")
		highMarks.MinPercentage = 90
		repo.scholarships.items = []*models.Scholarship{eligible, maleOnly, tooRich, highMarks}

		svc := NewMatchService(repo, nil, testLogger(), 7)
		resp, err := svc.FindMatches(ctx, "a@example.com", MatchFilters{}, now)
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}
		if resp.Total != 1 {
			t.Fatalf("expected 1 match, got %d", resp.Total)
		}
		if resp.Scholarships[0].ID != "s1" {
			t.Errorf("expected s1 to match, got %s", resp.Scholarships[0].ID)
		}
	})

	t.Run("deadline ordering soonest first with unparseable last", func(t *testing.T) {
		repo := newMockRepository()
		repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))
		repo.scholarships.items = []*models.Scholarship{
			openScholarship("far", "Far Deadline", "2026-09-01"),
			openScholarship("bad", "Bad Deadline", "soonish"),
			openScholarship("near", "Near Deadline", "2026-03-05"),
			openScholarship("none", "No Deadline", ""),
		}

		svc := NewMatchService(repo, nil, testLogger(), 7)
		resp, err := svc.FindMatches(ctx, "a@example.com", MatchFilters{}, now)
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}

		var got []string
		for _, m := range resp.Scholarships {
			got = append(got, m.ID)
		}
		want := []string{"near", "far", "bad", "none"}
		if len(got) != len(want) {
			t.Fatalf("expected %d matches, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("closing soon annotation", func(t *testing.T) {
		repo := newMockRepository()
		repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))
		repo.scholarships.items = []*models.Scholarship{
			openScholarship("soon", "Closing Soon", "2026-03-05"),
			openScholarship("later", "Closing Later", "2026-03-20"),
			openScholarship("past", "Already Closed", "2026-02-01"),
		}

		svc := NewMatchService(repo, nil, testLogger(), 7)
		resp, err := svc.FindMatches(ctx, "a@example.com", MatchFilters{}, now)
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}

		byID := make(map[string]*models.MatchedScholarship)
		for _, m := range resp.Scholarships {
			byID[m.ID] = m
		}
		if !byID["soon"].IsClosingSoon {
			t.Error("expected soon to be closing soon")
		}
		if byID["soon"].DaysLeft == nil || *byID["soon"].DaysLeft != 4 {
			t.Errorf("expected 4 days left for soon, got %v", byID["soon"].DaysLeft)
		}
		if byID["later"].IsClosingSoon {
			t.Error("expected later not to be closing soon")
		}
		if byID["past"].IsClosingSoon {
			t.Error("expected past deadline not to be closing soon")
		}
		if byID["past"].DaysLeft == nil || *byID["past"].DaysLeft >= 0 {
			t.Errorf("expected negative days left for past, got %v", byID["past"].DaysLeft)
		}
	})

	t.Run("request filters", func(t *testing.T) {
		repo := newMockRepository()
		repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))

		merit := openScholarship("merit", "National Merit Grant", "2026-06-01")
		merit.Category = "General"
		merit.Amount = "₹1,00,000"
		need := openScholarship("need", "Need Based Grant", "2026-06-01")
		need.Amount = "50000"
		need.MaxIncome = 300000
		repo.scholarships.items = []*models.Scholarship{merit, need}

		svc := NewMatchService(repo, nil, testLogger(), 7)

		category := "general"
		resp, err := svc.FindMatches(ctx, "a@example.com", MatchFilters{Category: &category}, now)
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}
		if resp.Total != 1 || resp.Scholarships[0].ID != "merit" {
			t.Errorf("category filter: expected only merit, got %d matches", resp.Total)
		}

		search := "need"
		resp, err = svc.FindMatches(ctx, "a@example.com", MatchFilters{Search: &search}, now)
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}
		if resp.Total != 1 || resp.Scholarships[0].ID != "need" {
			t.Errorf("search filter: expected only need, got %d matches", resp.Total)
		}

		minAmount := int64(60000)
		resp, err = svc.FindMatches(ctx, "a@example.com", MatchFilters{MinAmount: &minAmount}, now)
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}
		if resp.Total != 1 || resp.Scholarships[0].ID != "merit" {
			t.Errorf("min amount filter: expected only merit, got %d matches", resp.Total)
		}

		// An unbounded income ceiling passes any income filter
		maxIncome := int64(500000)
		resp, err = svc.FindMatches(ctx, "a@example.com", MatchFilters{MaxIncome: &maxIncome}, now)
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}
		if resp.Total != 1 || resp.Scholarships[0].ID != "merit" {
			t.Errorf("income filter: expected only merit, got %d matches", resp.Total)
		}
	})

	t.Run("exclude tracked", func(t *testing.T) {
		repo := newMockRepository()
		repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))
		repo.scholarships.items = []*models.Scholarship{
			openScholarship("s1", "Saved Award", "2026-06-01"),
			openScholarship("s2", "Applied Award", "2026-06-01"),
			openScholarship("s3", "Fresh Award", "2026-06-01"),
		}
		repo.interactions.Mark(ctx, nil, &models.Interaction{
			Email: "a@example.com", ScholarshipID: "s1", Kind: models.InteractionSaved,
		})
		repo.interactions.Mark(ctx, nil, &models.Interaction{
			Email: "a@example.com", ScholarshipID: "s2", Kind: models.InteractionApplied,
		})

		svc := NewMatchService(repo, nil, testLogger(), 7)

		resp, err := svc.FindMatches(ctx, "a@example.com", MatchFilters{ExcludeTracked: true}, now)
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}
		if resp.Total != 1 || resp.Scholarships[0].ID != "s3" {
			t.Errorf("expected only s3 with tracked excluded, got %d matches", resp.Total)
		}

		resp, err = svc.FindMatches(ctx, "a@example.com", MatchFilters{}, now)
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}
		if resp.Total != 3 {
			t.Errorf("expected all 3 without exclusion, got %d", resp.Total)
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		repo := newMockRepository()
		svc := NewMatchService(repo, nil, testLogger(), 7)

		_, err := svc.FindMatches(ctx, "missing@example.com", MatchFilters{}, now)
		if !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}
	})

	t.Run("email is normalized", func(t *testing.T) {
		repo := newMockRepository()
		repo.profiles.Upsert(ctx, nil, testProfile("a@example.com"))
		repo.scholarships.items = []*models.Scholarship{
			openScholarship("s1", "Open Award", "2026-06-01"),
		}

		svc := NewMatchService(repo, nil, testLogger(), 7)
		resp, err := svc.FindMatches(ctx, "  A@Example.COM ", MatchFilters{}, now)
		if err != nil {
			t.Fatalf("FindMatches failed: %v", err)
		}
		if resp.Total != 1 {
			t.Errorf("expected 1 match via normalized email, got %d", resp.Total)
		}
	})
}
