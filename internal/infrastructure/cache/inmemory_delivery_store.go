// Package cache provides webhook delivery deduplication stores. Shopify
// retries webhook deliveries aggressively, so the HTTP layer consults one
// of these stores before handing an order to the sync pipeline.
package cache

import (
	"context"
	gosync "sync"
	"time"

	"github.com/printsync/backend/internal/domain/sync"
)

// entry represents a stored delivery ID with expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryDeliveryStore implements DeliveryStore using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryDeliveryStore struct {
	mu        gosync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        gosync.WaitGroup
	closeOnce gosync.Once
}

// NewInMemoryDeliveryStore creates a new in-memory delivery store.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryDeliveryStore() *InMemoryDeliveryStore {
	store := &InMemoryDeliveryStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkDelivered records a delivery ID with a TTL.
// Returns true if the delivery was newly recorded, false if already seen.
func (s *InMemoryDeliveryStore) MarkDelivered(_ context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[deliveryID]; exists {
		if time.Now().Before(e.expiresAt) {
			return false, nil // Already seen
		}
		// Entry exists but expired, will be overwritten
	}

	s.entries[deliveryID] = entry{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// IsDelivered checks whether a delivery ID was already recorded
func (s *InMemoryDeliveryStore) IsDelivered(_ context.Context, deliveryID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[deliveryID]
	if !exists {
		return false, nil
	}

	if time.Now().After(e.expiresAt) {
		return false, nil // Expired, treat as unseen
	}

	return true, nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (s *InMemoryDeliveryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemoryDeliveryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired entries from the store
func (s *InMemoryDeliveryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for deliveryID, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, deliveryID)
		}
	}
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryDeliveryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemoryDeliveryStore implements DeliveryStore
var _ sync.DeliveryStore = (*InMemoryDeliveryStore)(nil)
