package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryKV is an in-process KV used by tests and throwaway sessions.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]Entry), now: time.Now}
}

func (m *MemoryKV) Get(_ context.Context, key string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok {
		return Entry{}, ErrKeyNotFound
	}
	e.Value = append([]byte(nil), e.Value...)
	return e, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.entries[key]
	if current.Version != expectedVersion {
		return 0, ErrVersionConflict
	}

	next := Entry{
		Key:       key,
		Value:     append([]byte(nil), value...),
		Version:   expectedVersion + 1,
		UpdatedAt: m.now(),
	}
	m.entries[key] = next
	return next.Version, nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryKV) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Seed writes value under key regardless of the current version. Tests use it
// to plant pre-existing or corrupt payloads.
func (m *MemoryKV) Seed(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.entries[key]
	m.entries[key] = Entry{Key: key, Value: append([]byte(nil), value...), Version: current.Version + 1, UpdatedAt: m.now()}
}
