package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	domainErrors "github.com/matching-platform/user-service/internal/domain/errors"
	"github.com/matching-platform/user-service/internal/domain/repository"
)

// memKV is a deterministic in-memory KeyValueStore with a manual clock,
// standing in for Redis in unit tests. Expiry is checked lazily on access.
type memKV struct {
	mu      sync.Mutex
	now     time.Time
	entries map[string]*memEntry
	// failNext makes the next operation fail with a store error, for
	// exercising infrastructure failure paths.
	failNext bool
	// failKeys makes every operation on the listed keys fail.
	failKeys map[string]bool
}

type memEntry struct {
	value     string
	hash      map[string]string
	expiresAt time.Time // zero means no expiry
}

func newMemKV() *memKV {
	return &memKV{
		now:     time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		entries: make(map[string]*memEntry),
	}
}

func (m *memKV) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func (m *memKV) FailNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
}

func (m *memKV) FailKey(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failKeys == nil {
		m.failKeys = make(map[string]bool)
	}
	m.failKeys[key] = true
}

func (m *memKV) checkFail(key string) error {
	if m.failNext {
		m.failNext = false
		return domainErrors.Store(context.DeadlineExceeded)
	}
	if m.failKeys[key] {
		return domainErrors.Store(context.DeadlineExceeded)
	}
	return nil
}

func (m *memKV) live(key string) *memEntry {
	entry, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(m.now) {
		delete(m.entries, key)
		return nil
	}
	return entry
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(key); err != nil {
		return "", err
	}
	entry := m.live(key)
	if entry == nil {
		return "", repository.ErrKeyNotFound
	}
	return entry.value, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(key); err != nil {
		return err
	}
	m.entries[key] = &memEntry{value: value}
	return nil
}

func (m *memKV) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(key); err != nil {
		return err
	}
	m.entries[key] = &memEntry{value: value, expiresAt: m.now.Add(ttl)}
	return nil
}

func (m *memKV) Increment(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(key); err != nil {
		return 0, err
	}
	entry := m.live(key)
	if entry == nil {
		m.entries[key] = &memEntry{value: "1"}
		return 1, nil
	}
	count, err := strconv.ParseInt(entry.value, 10, 64)
	if err != nil {
		return 0, err
	}
	count++
	entry.value = strconv.FormatInt(count, 10)
	return count, nil
}

func (m *memKV) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(key); err != nil {
		return err
	}
	if entry := m.live(key); entry != nil {
		entry.expiresAt = m.now.Add(ttl)
	}
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(key); err != nil {
		return err
	}
	delete(m.entries, key)
	return nil
}

func (m *memKV) HSet(_ context.Context, key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(key); err != nil {
		return err
	}
	entry := m.live(key)
	if entry == nil {
		entry = &memEntry{hash: make(map[string]string)}
		m.entries[key] = entry
	}
	if entry.hash == nil {
		entry.hash = make(map[string]string)
	}
	entry.hash[field] = value
	return nil
}

func (m *memKV) HGet(_ context.Context, key, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkFail(key); err != nil {
		return "", err
	}
	entry := m.live(key)
	if entry == nil || entry.hash == nil {
		return "", repository.ErrKeyNotFound
	}
	value, ok := entry.hash[field]
	if !ok {
		return "", repository.ErrKeyNotFound
	}
	return value, nil
}

var _ repository.KeyValueStore = (*memKV)(nil)
