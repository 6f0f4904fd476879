package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fieldserve/marketplace-api/internal/matching"
	"github.com/fieldserve/marketplace-api/internal/models"
)

type ProviderGormRepository struct {
	db *gorm.DB
}

func NewProviderGormRepository(db *gorm.DB) *ProviderGormRepository {
	return &ProviderGormRepository{db: db}
}

func (r *ProviderGormRepository) ListServiceCategories(
	ctx context.Context,
	serviceIDs []uint,
) ([]string, error) {

	if len(serviceIDs) == 0 {
		return nil, nil
	}

	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Distinct("category").
		Where("id IN ?", serviceIDs).
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *ProviderGormRepository) ListEligibleProviders(
	ctx context.Context,
	category string,
) ([]models.ServiceProvider, error) {

	var providers []models.ServiceProvider
	if err := r.db.WithContext(ctx).
		Where(
			"designation = ? AND availability_status = ? AND is_verified = ?",
			category,
			models.AvailabilityOnline,
			true,
		).
		Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

// Compile-time check
var _ matching.ProviderSource = (*ProviderGormRepository)(nil)
