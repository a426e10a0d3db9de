package services

import (
	"context"
	"io"
	"time"

	"github.com/scholarmatch/scholarship-service/internal/models"
	"github.com/scholarmatch/scholarship-service/internal/repositories"
	"github.com/scholarmatch/scholarship-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type SignupRequest = validator.SignupRequest
type LoginRequest = validator.LoginRequest
type SubmitProfileRequest = validator.ProfileSubmitRequest
type CreateScholarshipRequest = validator.ScholarshipCreateRequest
type UpdateScholarshipRequest = validator.ScholarshipUpdateRequest

// AuthResponse carries the signed token for a successful signup or login
type AuthResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims are the verified contents of a bearer token
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MatchFilters narrows the results view. All filters are conjunctive.
type MatchFilters struct {
	Category       *string `json:"category"`
	Education      *string `json:"education"`
	Search         *string `json:"search"`
	MaxIncome      *int64  `json:"max_income"`
	MinAmount      *int64  `json:"min_amount"`
	ExcludeTracked bool    `json:"exclude_tracked"`
}

// SweepResult summarizes one notification sweep
type SweepResult struct {
	UsersProcessed   int       `json:"users_processed"`
	NewMatchEmails   int       `json:"new_match_emails"`
	ClosingEmails    int       `json:"closing_emails"`
	FailedDeliveries int       `json:"failed_deliveries"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)

	// ParseToken verifies a bearer token and returns its claims
	ParseToken(tokenString string) (*Claims, error)
}

type ProfileService interface {
	// Submit stores the caller's profile, replacing any previous submission
	Submit(ctx context.Context, email string, req *SubmitProfileRequest) (*models.Profile, error)
	Get(ctx context.Context, email string) (*models.Profile, error)
}

type ScholarshipService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateScholarshipRequest) (*models.Scholarship, error)
	GetByID(ctx context.Context, id string) (*models.Scholarship, error)
	Update(ctx context.Context, id string, req *UpdateScholarshipRequest) (*models.Scholarship, error)
	Delete(ctx context.Context, id string) error

	// List operations
	List(ctx context.Context, filters repositories.ScholarshipFilters, page, size int) (*models.ScholarshipListResponse, error)

	// Bulk xlsx operations
	ImportXLSX(ctx context.Context, r io.Reader) (*models.ImportResult, error)
	ExportXLSX(ctx context.Context) ([]byte, error)
}

type InteractionService interface {
	Save(ctx context.Context, email, scholarshipID string) error
	Apply(ctx context.Context, email, scholarshipID string) error

	// Unsave and Unapply drop an existing mark; a missing mark is ErrNotFound
	Unsave(ctx context.Context, email, scholarshipID string) error
	Unapply(ctx context.Context, email, scholarshipID string) error

	ListSaved(ctx context.Context, email string) ([]*models.Scholarship, error)
	ListApplied(ctx context.Context, email string) ([]*models.Scholarship, error)

	Stats(ctx context.Context, email string) (*models.DashboardStats, error)
}

type MatchService interface {
	// FindMatches returns the scholarships the caller's profile is eligible
	// for, annotated with deadline classification and ordered soonest first
	FindMatches(ctx context.Context, email string, filters MatchFilters, now time.Time) (*models.MatchListResponse, error)
}

type NotificationService interface {
	// RunSweep sends the new-match and closing-soon emails for every
	// registered user with a profile
	RunSweep(ctx context.Context, now time.Time) (*SweepResult, error)

	// NotifyNewScholarships mails users about scholarships added within the
	// freshness window
	NotifyNewScholarships(ctx context.Context, now time.Time) error

	// SendDeadlineReminders mails eligible users at the configured exact
	// days-left marks
	SendDeadlineReminders(ctx context.Context, now time.Time) error

	// SendSavedClosingReminders mails users whose saved scholarships close
	// within the saved-reminder window
	SendSavedClosingReminders(ctx context.Context, now time.Time) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Profile() ProfileService
	Scholarship() ScholarshipService
	Interaction() InteractionService
	Match() MatchService
	Notification() NotificationService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
