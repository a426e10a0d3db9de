package models

import (
	"time"
)

// ===== MATCH RESULTS =====

// MatchedScholarship is a scholarship annotated with deadline classification
// for the results view.
type MatchedScholarship struct {
	*Scholarship
	IsClosingSoon bool `json:"is_closing_soon"`
	DaysLeft      *int `json:"days_left"`
}

type MatchListResponse struct {
	Scholarships []*MatchedScholarship `json:"scholarships"`
	Total        int                   `json:"total"`
}

// ===== PAGINATION =====

type ScholarshipListResponse struct {
	Scholarships []*Scholarship `json:"scholarships"`
	Total        int64          `json:"total"`
	Page         int            `json:"page"`
	Size         int            `json:"size"`
	TotalPages   int            `json:"total_pages"`
}

// ===== DASHBOARD =====

type DashboardStats struct {
	SavedCount   int64 `json:"saved_count"`
	AppliedCount int64 `json:"applied_count"`
}

// ===== IMPORT/EXPORT =====

type ImportResult struct {
	TotalRows   int           `json:"total_rows"`
	Imported    int           `json:"imported"`
	Skipped     int           `json:"skipped"`
	Errors      []ImportError `json:"errors,omitempty"`
	CompletedAt time.Time     `json:"completed_at"`
}

type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
