package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityStatus classifies the outcome of one reconciliation attempt.
type ActivityStatus string

const (
	// ActivityStatusSynced means a quote was created (or already existed).
	ActivityStatusSynced ActivityStatus = "synced"
	// ActivityStatusSkipped means merchant policy rejected the order.
	ActivityStatusSkipped ActivityStatus = "skipped"
	// ActivityStatusFailed means a configuration, validation, or upstream
	// error stopped the sync.
	ActivityStatusFailed ActivityStatus = "failed"
)

// IsValid returns true if the status is valid.
func (s ActivityStatus) IsValid() bool {
	switch s {
	case ActivityStatusSynced, ActivityStatusSkipped, ActivityStatusFailed:
		return true
	default:
		return false
	}
}

// ActivityRecord is one append-only audit entry. The message is shown to
// the merchant verbatim; skips and failures share the channel with
// successes, distinguished only by status.
type ActivityRecord struct {
	ID        uuid.UUID
	Shop      string
	OrderID   string
	OrderName string
	Status    ActivityStatus
	Message   string
	CreatedAt time.Time
}

// NewActivityRecord creates an audit entry for a reconciliation attempt.
func NewActivityRecord(shop, orderID, orderName string, status ActivityStatus, message string) *ActivityRecord {
	return &ActivityRecord{
		ID:        uuid.New(),
		Shop:      shop,
		OrderID:   orderID,
		OrderName: orderName,
		Status:    status,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// ActivityRepository is the append-only audit store. Append is best-effort
// for the reconciliation path: a failure here must not change the outcome.
type ActivityRepository interface {
	Append(ctx context.Context, record *ActivityRecord) error

	// List returns records for a shop, newest first, with a total count.
	List(ctx context.Context, shop string, page, pageSize int) ([]ActivityRecord, int64, error)

	// DeleteByShop removes all records for a shop (uninstall data erasure).
	DeleteByShop(ctx context.Context, shop string) error
}
