package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dyluth/roulette/pkg/roster"
)

// Serialization helpers for converting between records and Redis hashes
//
// Scalar fields are stored as individual hash fields. The table header and
// rows are JSON-encoded into one field each, so a roster is read or written
// with a single HGETALL/HSET.

// RecordToHash converts a Record to a Redis hash format.
func RecordToHash(r *Record) (map[string]interface{}, error) {
	columnsJSON, err := json.Marshal(r.Table.Columns)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal columns: %w", err)
	}

	rows := r.Table.Rows
	if rows == nil {
		rows = [][]string{}
	}
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rows: %w", err)
	}

	hash := map[string]interface{}{
		"id":            r.ID,
		"name":          r.Name,
		"prefix":        r.Prefix,
		"columns":       string(columnsJSON),
		"rows":          string(rowsJSON),
		"created_at_ms": r.CreatedAtMs,
		"updated_at_ms": r.UpdatedAtMs,
	}

	return hash, nil
}

// HashToRecord converts a Redis hash to a Record.
// JSON fields are decoded back to the roster table.
func HashToRecord(hash map[string]string) (*Record, error) {
	var columns []string
	if err := json.Unmarshal([]byte(hash["columns"]), &columns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
	}

	var rows [][]string
	if rowsJSON := hash["rows"]; rowsJSON != "" {
		if err := json.Unmarshal([]byte(rowsJSON), &rows); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rows: %w", err)
		}
	}

	createdAtMs, err := strconv.ParseInt(hash["created_at_ms"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at_ms field: %w", err)
	}
	updatedAtMs, _ := strconv.ParseInt(hash["updated_at_ms"], 10, 64)

	table := roster.NewTable(columns...)
	if len(rows) > 0 {
		table.Rows = rows
	}

	return &Record{
		ID:          hash["id"],
		Name:        hash["name"],
		Prefix:      hash["prefix"],
		Table:       table,
		CreatedAtMs: createdAtMs,
		UpdatedAtMs: updatedAtMs,
	}, nil
}
