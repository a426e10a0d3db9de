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

type ProfilePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewProfilePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProfileRepository {
	return &ProfilePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (p *ProfilePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

// Upsert writes the profile for its email, replacing any previous submission,
// and invalidates the cached copy.
func (p *ProfilePostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	err := p.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			UpdateAll: true,
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	p.cacheManager.InvalidateProfile(ctx, profile.Email)

	return nil
}

// GetByEmail retrieves the latest profile for an email with caching
func (p *ProfilePostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Profile, error) {
	var profile models.Profile

	err := p.cacheManager.Profile.CacheOrExecute(ctx, email, &profile, cache.ProfileCacheConfig.TTL, func() (interface{}, error) {
		var dbProfile models.Profile
		err := p.getDB(tx).WithContext(ctx).
			Where("email = ?", email).
			First(&dbProfile).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		return &dbProfile, nil
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// List returns every submitted profile, used by the notification sweep
func (p *ProfilePostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := p.getDB(tx).WithContext(ctx).
		Order("email ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}
