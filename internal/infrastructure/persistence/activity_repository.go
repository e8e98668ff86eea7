package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/printsync/backend/internal/domain/sync"
	"github.com/printsync/backend/internal/infrastructure/persistence/models"
)

// GormActivityRepository implements sync.ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Append inserts one audit entry
func (r *GormActivityRepository) Append(ctx context.Context, record *sync.ActivityRecord) error {
	model := models.ActivityLogModelFromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// List returns audit entries for a shop, newest first, with the total count
func (r *GormActivityRepository) List(ctx context.Context, shop string, page, pageSize int) ([]sync.ActivityRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.ActivityLogModel{}).
		Where("shop = ?", shop).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logModels []models.ActivityLogModel
	if err := r.db.WithContext(ctx).
		Where("shop = ?", shop).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logModels).Error; err != nil {
		return nil, 0, err
	}

	records := make([]sync.ActivityRecord, len(logModels))
	for i, model := range logModels {
		records[i] = *model.ToDomain()
	}
	return records, total, nil
}

// DeleteByShop removes all audit entries for a shop
func (r *GormActivityRepository) DeleteByShop(ctx context.Context, shop string) error {
	return r.db.WithContext(ctx).Delete(&models.ActivityLogModel{}, "shop = ?", shop).Error
}

// Ensure GormActivityRepository implements ActivityRepository
var _ sync.ActivityRepository = (*GormActivityRepository)(nil)
