package store

import (
	"context"
	"sync"

	"github.com/dvsilva/shortr/internal/shorturl"
)

// MemoryStore is an in-memory implementation of shorturl.Repository. The
// store-level mutex makes Mutate calls on one code serialize, mirroring the
// per-key atomicity of the Redis store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[shorturl.Code]*shorturl.Record
}

// NewMemoryStore creates a new in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[shorturl.Code]*shorturl.Record),
	}
}

func (m *MemoryStore) Create(_ context.Context, record *shorturl.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.Code]; ok {
		return shorturl.ErrAliasTaken
	}

	m.records[record.Code] = record.Clone()

	return nil
}

func (m *MemoryStore) Get(_ context.Context, code shorturl.Code) (*shorturl.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[code]
	if !ok {
		return nil, shorturl.ErrNotFound
	}

	return record.Clone(), nil
}

func (m *MemoryStore) Mutate(
	_ context.Context, code shorturl.Code, fn func(*shorturl.Record) error,
) (*shorturl.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[code]
	if !ok {
		return nil, shorturl.ErrNotFound
	}

	if err := fn(record); err != nil {
		return nil, err
	}

	return record.Clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, code shorturl.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, code)

	return nil
}

func (m *MemoryStore) Exists(_ context.Context, code shorturl.Code) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.records[code]

	return ok, nil
}

// Compile-time check.
var _ shorturl.Repository = (*MemoryStore)(nil)
