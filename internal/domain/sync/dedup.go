package sync

import (
	"context"
	"time"
)

// DeliveryStore records webhook delivery IDs so that Shopify's retried
// deliveries can be dropped before they reach the reconciliation pipeline.
// It is a best-effort front filter: the order mapping ledger's unique
// constraint remains the exactly-once guarantee, so losing the store only
// costs a redundant ledger lookup.
type DeliveryStore interface {
	// MarkDelivered records a delivery ID with a TTL. Returns true when the
	// delivery is new, false when it was already seen within the window.
	MarkDelivered(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error)

	// IsDelivered checks whether a delivery ID was already recorded.
	IsDelivered(ctx context.Context, deliveryID string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}
