// Package repository defines the persistence contracts consumed by the
// service layer. Implementations live in the redis and postgres subpackages;
// tests substitute deterministic in-memory fakes.
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by KeyValueStore reads when the key is absent
// or has expired. The two cases are indistinguishable on purpose.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the shared TTL-capable store backing verification codes,
// rate and failure counters, token mappings and device records. Increment
// and the Set variants are assumed atomic, which is what makes the counters
// correct across concurrent service instances.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	// Increment creates the key at 1 if absent and returns the new value.
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	HSet(ctx context.Context, key, field, value string) error
	HGet(ctx context.Context, key, field string) (string, error)
}
