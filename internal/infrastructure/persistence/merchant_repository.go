package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/printsync/backend/internal/domain/sync"
	"github.com/printsync/backend/internal/infrastructure/persistence/models"
)

// GormMerchantRepository implements sync.MerchantRepository using GORM
type GormMerchantRepository struct {
	db *gorm.DB
}

// NewGormMerchantRepository creates a new GormMerchantRepository
func NewGormMerchantRepository(db *gorm.DB) *GormMerchantRepository {
	return &GormMerchantRepository{db: db}
}

// FindByShop finds the merchant policy for a shop domain
func (r *GormMerchantRepository) FindByShop(ctx context.Context, shop string) (*sync.MerchantPolicy, error) {
	var model models.MerchantModel
	if err := r.db.WithContext(ctx).First(&model, "shop = ?", shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sync.ErrMerchantNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a merchant policy
func (r *GormMerchantRepository) Save(ctx context.Context, policy *sync.MerchantPolicy) error {
	model := models.MerchantModelFromDomain(policy)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteByShop removes the merchant policy for a shop domain
func (r *GormMerchantRepository) DeleteByShop(ctx context.Context, shop string) error {
	return r.db.WithContext(ctx).Delete(&models.MerchantModel{}, "shop = ?", shop).Error
}

// Ensure GormMerchantRepository implements MerchantRepository
var _ sync.MerchantRepository = (*GormMerchantRepository)(nil)
