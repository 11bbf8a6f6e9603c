package repository

import (
	"context"
	"maps"
	"sync"
)

// MemoryKVStore is a KVStore held in a map. It backs tests and dry runs.
// The zero value is ready to use.
type MemoryKVStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryKVStore() *MemoryKVStore {
	return &MemoryKVStore{values: make(map[string]string)}
}

func (m *MemoryKVStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKVStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *MemoryKVStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Batch stages writes on a copy and swaps it in only when fn succeeds.
func (m *MemoryKVStore) Batch(ctx context.Context, fn func(ctx context.Context, tx KVStore) error) error {
	m.mu.Lock()
	staged := &MemoryKVStore{values: maps.Clone(m.values)}
	if staged.values == nil {
		staged.values = make(map[string]string)
	}
	m.mu.Unlock()

	if err := fn(ctx, staged); err != nil {
		return err
	}

	m.mu.Lock()
	m.values = staged.values
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryKVStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
