package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/printsync/backend/internal/domain/sync"
	"github.com/printsync/backend/internal/infrastructure/persistence/models"
)

// GormOrderMappingRepository implements the sync ledger using GORM. Record
// relies on the unique index on (shop, shopify_order_id): it never checks
// before inserting, so two racing inserts resolve at the database and the
// loser gets sync.ErrMappingExists.
type GormOrderMappingRepository struct {
	db *gorm.DB
}

// NewGormOrderMappingRepository creates a new GormOrderMappingRepository
func NewGormOrderMappingRepository(db *gorm.DB) *GormOrderMappingRepository {
	return &GormOrderMappingRepository{db: db}
}

// Find looks up the ledger entry for an order
func (r *GormOrderMappingRepository) Find(ctx context.Context, shop, shopifyOrderID string) (*sync.OrderMapping, error) {
	var model models.OrderMappingModel
	if err := r.db.WithContext(ctx).
		Where("shop = ? AND shopify_order_id = ?", shop, shopifyOrderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sync.ErrMappingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Record inserts the ledger entry for a freshly synced order
func (r *GormOrderMappingRepository) Record(ctx context.Context, mapping *sync.OrderMapping) error {
	model := models.OrderMappingModelFromDomain(mapping)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return sync.ErrMappingExists
		}
		return err
	}
	return nil
}

// DeleteByShop removes all ledger entries for a shop
func (r *GormOrderMappingRepository) DeleteByShop(ctx context.Context, shop string) error {
	return r.db.WithContext(ctx).Delete(&models.OrderMappingModel{}, "shop = ?", shop).Error
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// GORM translates some driver errors to ErrDuplicatedKey; the pq check
// covers drivers configured without translation, and the string check
// covers the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure GormOrderMappingRepository implements OrderMappingRepository
var _ sync.OrderMappingRepository = (*GormOrderMappingRepository)(nil)
