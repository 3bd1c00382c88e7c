// Package store persists rosters between draws.
//
// A stored roster is a Record: the roster table plus identity and
// timestamps. The only mutation after creation is AppendRound, which adds
// exactly one round column. Appends are serialized per roster: an append
// succeeds only if its column is the next round column of the stored table
// at commit time, so concurrent draws can never reuse or skip a round number.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dyluth/roulette/pkg/roster"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a roster does not exist
	ErrNotFound = errors.New("roster not found")

	// ErrRoundConflict is returned when a round append lost a race or names
	// a column other than the stored table's next round column
	ErrRoundConflict = errors.New("round conflict: roster changed since the draw")
)

// Record is a stored roster.
type Record struct {
	ID          string        `json:"id"`            // UUID
	Name        string        `json:"name"`          // Display name, e.g. the uploaded file name
	Prefix      string        `json:"prefix"`        // Round column prefix in force for this roster
	Table       *roster.Table `json:"table"`         // Roster including every recorded round
	CreatedAtMs int64         `json:"created_at_ms"` // Unix milliseconds
	UpdatedAtMs int64         `json:"updated_at_ms"` // Unix milliseconds of the last append
}

// Rounds returns the round columns of the stored table.
func (r *Record) Rounds() []roster.RoundColumn {
	return roster.RoundColumns(r.Table, r.Prefix)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	clone := *r
	if r.Table != nil {
		clone.Table = r.Table.Clone()
	}
	return &clone
}

// Store is implemented by RedisStore and MemoryStore.
type Store interface {
	// Save creates or replaces a roster. ID must be a UUID.
	Save(ctx context.Context, rec *Record) error

	// Get returns a roster by full ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns every roster ordered by UpdatedAtMs, oldest first.
	List(ctx context.Context) ([]*Record, error)

	// AppendRound adds column to the roster with one value per row.
	// Returns ErrRoundConflict if column is not the next round column.
	AppendRound(ctx context.Context, id, column string, values []string) (*Record, error)

	// Resolve expands a short ID prefix to a full roster ID.
	Resolve(ctx context.Context, shortID string) (string, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// IsNotFound returns true if the error is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRoundConflict returns true if the error is ErrRoundConflict.
func IsRoundConflict(err error) bool {
	return errors.Is(err, ErrRoundConflict)
}

// NewRecord creates a record for a freshly uploaded roster with a new UUID.
// An empty prefix falls back to roster.DefaultRoundPrefix.
func NewRecord(name, prefix string, table *roster.Table) *Record {
	if prefix == "" {
		prefix = roster.DefaultRoundPrefix
	}
	now := time.Now().UnixMilli()
	return &Record{
		ID:          uuid.New().String(),
		Name:        name,
		Prefix:      prefix,
		Table:       table,
		CreatedAtMs: now,
		UpdatedAtMs: now,
	}
}

// Validate checks that the record can be stored.
func (r *Record) Validate() error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("id must be a valid UUID: %w", err)
	}
	if r.Prefix == "" {
		return fmt.Errorf("prefix cannot be empty")
	}
	if r.Table == nil {
		return fmt.Errorf("table cannot be nil")
	}
	if err := r.Table.Validate(); err != nil {
		return fmt.Errorf("invalid table: %w", err)
	}
	return nil
}

// withRound returns a copy of rec with column appended, or ErrRoundConflict
// if column is not the next round column of rec's table.
func withRound(rec *Record, column string, values []string, nowMs int64) (*Record, error) {
	next := roster.NextRoundName(rec.Table, rec.Prefix)
	if column != next {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrRoundConflict, next, column)
	}

	table, err := rec.Table.WithColumn(column, values)
	if err != nil {
		return nil, err
	}

	updated := rec.Clone()
	updated.Table = table
	updated.UpdatedAtMs = nowMs
	return updated, nil
}
