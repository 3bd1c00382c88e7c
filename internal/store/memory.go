package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps rosters in process memory. Records are cloned on the way
// in and out, so callers never share a table with the store.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Save creates or replaces a roster.
func (m *MemoryStore) Save(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec.Clone()
	return nil
}

// Get returns a copy of the roster with the given ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

// List returns copies of every roster, oldest update first.
func (m *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, rec.Clone())
	}
	sortRecords(records)
	return records, nil
}

// AppendRound adds a round column. The store lock serializes appends, so
// the second of two concurrent appends for the same column fails with
// ErrRoundConflict.
func (m *MemoryStore) AppendRound(ctx context.Context, id, column string, values []string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	updated, err := withRound(rec, column, values, time.Now().UnixMilli())
	if err != nil {
		return nil, err
	}
	m.records[id] = updated
	return updated.Clone(), nil
}

// Resolve expands a short ID to a full roster ID.
func (m *MemoryStore) Resolve(ctx context.Context, shortID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if isFullID(shortID) {
		if _, ok := m.records[shortID]; !ok {
			return "", &NotFoundError{ShortID: shortID}
		}
		return shortID, nil
	}

	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	return matchShortID(shortID, ids)
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
