package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/scholarmatch/scholarship-service/internal/cache"
	"github.com/scholarmatch/scholarship-service/internal/models"
	"github.com/scholarmatch/scholarship-service/internal/repositories"
)

type ScholarshipPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewScholarshipPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ScholarshipRepository {
	return &ScholarshipPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (s *ScholarshipPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// Create inserts a new scholarship and invalidates catalog caches
func (s *ScholarshipPostgreSQL) Create(ctx context.Context, tx *gorm.DB, scholarship *models.Scholarship) error {
	if err := s.getDB(tx).WithContext(ctx).Create(scholarship).Error; err != nil {
		return fmt.Errorf("failed to create scholarship: %w", err)
	}

	s.cacheManager.InvalidateScholarships(ctx)

	return nil
}

// CreateBatch inserts scholarships in one statement, used by xlsx import
func (s *ScholarshipPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, scholarships []*models.Scholarship) error {
	if len(scholarships) == 0 {
		return nil
	}

	if err := s.getDB(tx).WithContext(ctx).CreateInBatches(scholarships, 100).Error; err != nil {
		return fmt.Errorf("failed to create scholarships: %w", err)
	}

	s.cacheManager.InvalidateScholarships(ctx)

	return nil
}

// GetByID retrieves a scholarship by ID
func (s *ScholarshipPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Scholarship, error) {
	var scholarship models.Scholarship
	err := s.getDB(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&scholarship).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get scholarship: %w", err)
	}
	return &scholarship, nil
}

// Update saves the full scholarship record and invalidates catalog caches
func (s *ScholarshipPostgreSQL) Update(ctx context.Context, tx *gorm.DB, scholarship *models.Scholarship) error {
	result := s.getDB(tx).WithContext(ctx).
		Model(&models.Scholarship{}).
		Where("id = ?", scholarship.ID).
		Updates(map[string]interface{}{
			"name":           scholarship.Name,
			"gender":         scholarship.Gender,
			"education":      scholarship.Education,
			"category":       scholarship.Category,
			"state":          scholarship.State,
			"max_income":     scholarship.MaxIncome,
			"min_percentage": scholarship.MinPercentage,
			"religion":       scholarship.Religion,
			"disability":     scholarship.Disability,
			"deadline":       scholarship.Deadline,
			"amount":         scholarship.Amount,
			"apply_link":     scholarship.ApplyLink,
			"extras":         scholarship.Extras,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update scholarship: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.cacheManager.InvalidateScholarships(ctx)

	return nil
}

// Delete soft-deletes a scholarship and invalidates catalog caches
func (s *ScholarshipPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	result := s.getDB(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Scholarship{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete scholarship: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.cacheManager.InvalidateScholarships(ctx)

	return nil
}

// List returns a filtered page of the catalog plus the total count
func (s *ScholarshipPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ScholarshipFilters) ([]*models.Scholarship, int64, error) {
	query := s.getDB(tx).WithContext(ctx).Model(&models.Scholarship{})
	query = s.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count scholarships: %w", err)
	}

	query = s.applyPaginationAndSort(query, filters)

	var scholarships []*models.Scholarship
	if err := query.Find(&scholarships).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list scholarships: %w", err)
	}

	return scholarships, total, nil
}

// ListAll returns the whole catalog with caching, ordered oldest first so that
// downstream ordering ties break on creation time.
func (s *ScholarshipPostgreSQL) ListAll(ctx context.Context, tx *gorm.DB) ([]*models.Scholarship, error) {
	var scholarships []*models.Scholarship

	err := s.cacheManager.Scholarship.CacheOrExecute(ctx, "all", &scholarships, cache.ScholarshipCacheConfig.TTL, func() (interface{}, error) {
		var dbScholarships []*models.Scholarship
		err := s.getDB(tx).WithContext(ctx).
			Order("created_at ASC").
			Find(&dbScholarships).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list scholarships: %w", err)
		}
		return dbScholarships, nil
	})
	if err != nil {
		return nil, err
	}

	return scholarships, nil
}

// ListByIDs returns the scholarships matching the given IDs
func (s *ScholarshipPostgreSQL) ListByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Scholarship, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var scholarships []*models.Scholarship
	err := s.getDB(tx).WithContext(ctx).
		Where("id IN ?", ids).
		Find(&scholarships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scholarships by ids: %w", err)
	}
	return scholarships, nil
}

// ListCreatedSince returns scholarships added after the given instant
func (s *ScholarshipPostgreSQL) ListCreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*models.Scholarship, error) {
	var scholarships []*models.Scholarship
	err := s.getDB(tx).WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&scholarships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent scholarships: %w", err)
	}
	return scholarships, nil
}

func (s *ScholarshipPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ScholarshipFilters) *gorm.DB {
	if filters.Category != nil {
		query = query.Where("LOWER(category) = LOWER(?)", *filters.Category)
	}
	if filters.Education != nil {
		query = query.Where("LOWER(education) = LOWER(?)", *filters.Education)
	}
	if filters.Search != nil {
		query = query.Where("name ILIKE ?", "%"+*filters.Search+"%")
	}
	if filters.MaxIncome != nil {
		// Keep unbounded scholarships; a ceiling of zero means no ceiling.
		query = query.Where("max_income <= 0 OR max_income >= ?", *filters.MaxIncome)
	}
	return query
}

func (s *ScholarshipPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.ScholarshipFilters) *gorm.DB {
	allowedSortColumns := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"deadline":   true,
	}

	sortBy := filters.SortBy
	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := filters.SortOrder
	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	return query
}
