package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps slots in a map. Used by tests and ephemeral runs.
type MemoryBackend struct {
	mu    sync.Mutex
	quota int64
	slots map[string]string
}

func NewMemoryBackend(quotaBytes int64) *MemoryBackend {
	return &MemoryBackend{quota: quotaBytes, slots: make(map[string]string)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var used int64
	for k, v := range m.slots {
		if k != key {
			used += slotSize(k, v)
		}
	}
	if !fits(m.quota, used, slotSize(key, value)) {
		return ErrCapacityExceeded
	}
	m.slots[key] = value
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
