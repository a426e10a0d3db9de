package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scholarmatch/scholarship-service/internal/cache"
	"github.com/scholarmatch/scholarship-service/internal/models"
	"github.com/scholarmatch/scholarship-service/internal/repositories"
)

type InteractionPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewInteractionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.InteractionRepository {
	return &InteractionPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (i *InteractionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return i.db
}

// Mark records an interaction as a single idempotent upsert. A conflicting
// row on (email, scholarship_id, kind) leaves the original untouched.
func (i *InteractionPostgreSQL) Mark(ctx context.Context, tx *gorm.DB, interaction *models.Interaction) error {
	err := i.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(interaction).Error
	if err != nil {
		return fmt.Errorf("failed to mark interaction: %w", err)
	}

	i.cacheManager.InvalidateMatches(ctx, interaction.Email)

	return nil
}

// Unmark removes an interaction if it exists
func (i *InteractionPostgreSQL) Unmark(ctx context.Context, tx *gorm.DB, email, scholarshipID string, kind models.InteractionKind) error {
	err := i.getDB(tx).WithContext(ctx).
		Where("email = ? AND scholarship_id = ? AND kind = ?", email, scholarshipID, kind).
		Delete(&models.Interaction{}).Error
	if err != nil {
		return fmt.Errorf("failed to unmark interaction: %w", err)
	}

	i.cacheManager.InvalidateMatches(ctx, email)

	return nil
}

// IsMarked checks whether the interaction exists
func (i *InteractionPostgreSQL) IsMarked(ctx context.Context, tx *gorm.DB, email, scholarshipID string, kind models.InteractionKind) (bool, error) {
	var count int64
	err := i.getDB(tx).WithContext(ctx).
		Model(&models.Interaction{}).
		Where("email = ? AND scholarship_id = ? AND kind = ?", email, scholarshipID, kind).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check interaction: %w", err)
	}
	return count > 0, nil
}

// ListIDs returns the scholarship IDs a user has marked with the given kind
func (i *InteractionPostgreSQL) ListIDs(ctx context.Context, tx *gorm.DB, email string, kind models.InteractionKind) ([]string, error) {
	var ids []string
	err := i.getDB(tx).WithContext(ctx).
		Model(&models.Interaction{}).
		Where("email = ? AND kind = ?", email, kind).
		Order("created_at ASC").
		Pluck("scholarship_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interaction ids: %w", err)
	}
	return ids, nil
}

// CountByKind counts a user's interactions of the given kind
func (i *InteractionPostgreSQL) CountByKind(ctx context.Context, tx *gorm.DB, email string, kind models.InteractionKind) (int64, error) {
	var count int64
	err := i.getDB(tx).WithContext(ctx).
		Model(&models.Interaction{}).
		Where("email = ? AND kind = ?", email, kind).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}
	return count, nil
}
