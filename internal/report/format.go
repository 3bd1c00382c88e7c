// Package report renders rosters, rounds and pairing history as tables
// and line-delimited JSON for the CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// OutputFormat specifies how draw results are written.
type OutputFormat string

const (
	// OutputFormatCards renders lipgloss group cards
	OutputFormatCards OutputFormat = "cards"

	// OutputFormatTable renders one row per participant
	OutputFormatTable OutputFormat = "table"

	// OutputFormatJSONL writes one JSON object per group
	OutputFormatJSONL OutputFormat = "jsonl"
)

// ParseOutputFormat validates a --format value. Empty means cards.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", OutputFormatCards:
		return OutputFormatCards, nil
	case OutputFormatTable, OutputFormatJSONL:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format: %s (must be 'cards', 'table' or 'jsonl')", s)
	}
}

// writeJSONL writes each value as compact JSON on its own line.
func writeJSONL[T any](w io.Writer, values []T) error {
	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// formatID truncates an ID to its first 8 characters for compact display.
func formatID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatTimestamp renders Unix milliseconds relative to now, e.g. "2m ago".
func formatTimestamp(timestampMs int64) string {
	if timestampMs == 0 {
		return "-"
	}

	diff := time.Since(time.UnixMilli(timestampMs))

	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}

// orDash renders empty cells as "-".
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// plural picks the singular or plural noun for n.
func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
