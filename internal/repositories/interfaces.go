package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/scholarmatch/scholarship-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// ScholarshipFilters narrows catalog listings. All filters are conjunctive.
type ScholarshipFilters struct {
	Category  *string `json:"category"`
	Education *string `json:"education"`
	Search    *string `json:"search"` // case-insensitive substring on name
	MaxIncome *int64  `json:"max_income"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "created_at", "name", "deadline"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

// ===== DOMAIN REPOSITORY INTERFACES =====

// UserRepository manages registered accounts.
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

// ProfileRepository manages eligibility profiles (one per user, latest wins).
type ProfileRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, profile *models.Profile) error
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Profile, error)
}

// ScholarshipRepository manages the scholarship catalog.
type ScholarshipRepository interface {
	Create(ctx context.Context, tx *gorm.DB, scholarship *models.Scholarship) error
	CreateBatch(ctx context.Context, tx *gorm.DB, scholarships []*models.Scholarship) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Scholarship, error)
	Update(ctx context.Context, tx *gorm.DB, scholarship *models.Scholarship) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
	List(ctx context.Context, tx *gorm.DB, filters ScholarshipFilters) ([]*models.Scholarship, int64, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Scholarship, error)
	ListByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Scholarship, error)
	ListCreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*models.Scholarship, error)
}

// InteractionRepository tracks saved/applied marks keyed by
// (email, scholarship_id, kind).
type InteractionRepository interface {
	// Mark records an interaction. Repeating an existing mark is a no-op.
	Mark(ctx context.Context, tx *gorm.DB, interaction *models.Interaction) error
	Unmark(ctx context.Context, tx *gorm.DB, email, scholarshipID string, kind models.InteractionKind) error
	IsMarked(ctx context.Context, tx *gorm.DB, email, scholarshipID string, kind models.InteractionKind) (bool, error)
	ListIDs(ctx context.Context, tx *gorm.DB, email string, kind models.InteractionKind) ([]string, error)
	CountByKind(ctx context.Context, tx *gorm.DB, email string, kind models.InteractionKind) (int64, error)
}
