package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderMapping is the idempotency ledger record: the durable proof that a
// Shopify order was reconciled into a Printavo quote. At most one mapping
// per (shop, order) ever exists; rows are append-only and removed only by
// merchant data erasure.
type OrderMapping struct {
	ID                 uuid.UUID
	Shop               string
	ShopifyOrderID     string
	ShopifyOrderName   string
	PrintavoQuoteID    string
	PrintavoContactID  string
	PrintavoCustomerID string // empty when the contact already existed without a known customer
	CreatedAt          time.Time
}

// NewOrderMapping creates a ledger record for a completed reconciliation.
func NewOrderMapping(shop, orderID, orderName, quoteID, contactID, customerID string) *OrderMapping {
	return &OrderMapping{
		ID:                 uuid.New(),
		Shop:               shop,
		ShopifyOrderID:     orderID,
		ShopifyOrderName:   orderName,
		PrintavoQuoteID:    quoteID,
		PrintavoContactID:  contactID,
		PrintavoCustomerID: customerID,
		CreatedAt:          time.Now(),
	}
}

// OrderMappingRepository is the ledger contract. Uniqueness of
// (shop, shopify_order_id) is enforced by the storage layer, not here:
// when two reconciliations race, exactly one Record succeeds and the other
// gets ErrMappingExists.
type OrderMappingRepository interface {
	// Find returns the mapping for an order, or ErrMappingNotFound.
	Find(ctx context.Context, shop, shopifyOrderID string) (*OrderMapping, error)

	// Record appends a mapping. Returns ErrMappingExists if a row for
	// (shop, shopify_order_id) is already present.
	Record(ctx context.Context, mapping *OrderMapping) error

	// DeleteByShop removes all mappings for a shop (uninstall data erasure).
	DeleteByShop(ctx context.Context, shop string) error
}
