package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/printsync/backend/internal/domain/sync"
)

// defaultDeliveryKeyPrefix namespaces delivery IDs in Redis
const defaultDeliveryKeyPrefix = "webhook:delivery:"

// RedisDeliveryStore implements DeliveryStore using Redis.
// This is suitable for distributed deployments where multiple instances
// receive deliveries for the same shop.
type RedisDeliveryStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisDeliveryStore creates a new Redis-backed delivery store
func NewRedisDeliveryStore(addr, password string, db int) (*RedisDeliveryStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDeliveryStore{
		client:    client,
		keyPrefix: defaultDeliveryKeyPrefix,
	}, nil
}

// NewRedisDeliveryStoreWithClient creates a store with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisDeliveryStoreWithClient(client *redis.Client, keyPrefix string) *RedisDeliveryStore {
	if keyPrefix == "" {
		keyPrefix = defaultDeliveryKeyPrefix
	}
	return &RedisDeliveryStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkDelivered records a delivery ID with a TTL.
// Returns true if the delivery was newly recorded, false if already seen.
// Uses SETNX for an atomic check-and-set across instances.
func (s *RedisDeliveryStore) MarkDelivered(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	key := s.keyPrefix + deliveryID

	result, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record delivery: %w", err)
	}

	return result, nil
}

// IsDelivered checks whether a delivery ID was already recorded
func (s *RedisDeliveryStore) IsDelivered(ctx context.Context, deliveryID string) (bool, error) {
	key := s.keyPrefix + deliveryID

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check delivery: %w", err)
	}

	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisDeliveryStore) Close() error {
	return s.client.Close()
}

// Ensure RedisDeliveryStore implements DeliveryStore
var _ sync.DeliveryStore = (*RedisDeliveryStore)(nil)
