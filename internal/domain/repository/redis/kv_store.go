// Package redis provides the Redis-backed KeyValueStore used as the shared
// TTL store for codes, counters, tokens and device records.
package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
	"github.com/matching-platform/user-service/internal/domain/repository"
)

// KVStore implements repository.KeyValueStore on top of go-redis.
type KVStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewKVStore creates a new KVStore.
func NewKVStore(client *redis.Client, logger *zap.Logger) *KVStore {
	return &KVStore{
		client: client,
		logger: logger,
	}
}

// Get returns repository.ErrKeyNotFound for absent or expired keys. Other
// failures are surfaced as store errors so callers never mistake an outage
// for a missing key.
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", repository.ErrKeyNotFound
		}
		s.logger.Error("Failed to get key", zap.String("key", key), zap.Error(err))
		return "", domainErrors.Store(err)
	}
	return value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		s.logger.Error("Failed to set key", zap.String("key", key), zap.Error(err))
		return domainErrors.Store(err)
	}
	return nil
}

func (s *KVStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Error("Failed to set key with TTL", zap.String("key", key), zap.Error(err))
		return domainErrors.Store(err)
	}
	return nil
}

// Increment relies on Redis INCR being atomic, which keeps the rate and
// failure counters correct across concurrent service instances.
func (s *KVStore) Increment(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		s.logger.Error("Failed to increment key", zap.String("key", key), zap.Error(err))
		return 0, domainErrors.Store(err)
	}
	return count, nil
}

func (s *KVStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		s.logger.Error("Failed to set key expiry", zap.String("key", key), zap.Error(err))
		return domainErrors.Store(err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Error("Failed to delete key", zap.String("key", key), zap.Error(err))
		return domainErrors.Store(err)
	}
	return nil
}

func (s *KVStore) HSet(ctx context.Context, key, field, value string) error {
	if err := s.client.HSet(ctx, key, field, value).Err(); err != nil {
		s.logger.Error("Failed to set hash field", zap.String("key", key), zap.String("field", field), zap.Error(err))
		return domainErrors.Store(err)
	}
	return nil
}

func (s *KVStore) HGet(ctx context.Context, key, field string) (string, error) {
	value, err := s.client.HGet(ctx, key, field).Result()
	if err != nil {
		if err == redis.Nil {
			return "", repository.ErrKeyNotFound
		}
		s.logger.Error("Failed to get hash field", zap.String("key", key), zap.String("field", field), zap.Error(err))
		return "", domainErrors.Store(err)
	}
	return value, nil
}

var _ repository.KeyValueStore = (*KVStore)(nil)
