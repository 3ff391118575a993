// Package mocks provides in-memory test doubles shared across packages.
package mocks

import (
	"context"
	"sync"
	"time"
)

// MockCache is an in-memory implementation of the cache.Cache interface,
// used for testing without a real Redis instance. Expirations are honored
// against the wall clock.
type MockCache struct {
	mu      sync.RWMutex
	data    map[string]string
	expires map[string]time.Time
}

// NewMockCache creates a new mock cache instance.
func NewMockCache() *MockCache {
	return &MockCache{
		data:    make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

// Get retrieves a value from the mock cache.
func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return "", false, nil
	}
	if deadline, set := m.expires[key]; set && time.Now().After(deadline) {
		return "", false, nil
	}
	return value, true, nil
}

// Set stores a value in the mock cache.
func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	if ttl > 0 {
		m.expires[key] = time.Now().Add(ttl)
	} else {
		delete(m.expires, key)
	}
	return nil
}

// Del deletes keys from the mock cache.
func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
		delete(m.expires, key)
	}
	return nil
}

// Health always reports healthy.
func (m *MockCache) Health(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MockCache) Close() error {
	return nil
}

// Seed inserts a raw value directly, bypassing Set, for corrupt-entry tests.
func (m *MockCache) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}
