// Package timespec parses the --since/--until values accepted by the
// rosters command.
package timespec

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// now is swapped in tests.
var now = time.Now

// Parse parses a time specification into a Unix timestamp (milliseconds).
// Supported forms:
//   - Go durations relative to now: "90m", "1h30m"
//   - whole days or weeks relative to now: "3d", "2w"
//   - RFC3339 timestamps: "2025-10-29T13:00:00Z"
//   - calendar dates, midnight UTC: "2025-10-29"
func Parse(spec string) (int64, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, fmt.Errorf("empty time specification")
	}

	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t.UnixMilli(), nil
	}
	if t, err := time.Parse(time.DateOnly, spec); err == nil {
		return t.UnixMilli(), nil
	}

	if d, ok := parseDays(spec); ok {
		return now().Add(-d).UnixMilli(), nil
	}
	if d, err := time.ParseDuration(spec); err == nil && d >= 0 {
		return now().Add(-d).UnixMilli(), nil
	}

	return 0, fmt.Errorf("invalid time specification: %s (use a duration like '1h30m' or '7d', a date like '2025-10-29', or RFC3339)", spec)
}

// parseDays handles the "Nd" and "Nw" forms time.ParseDuration lacks.
func parseDays(spec string) (time.Duration, bool) {
	unit := spec[len(spec)-1]
	if unit != 'd' && unit != 'w' {
		return 0, false
	}
	n, err := strconv.Atoi(spec[:len(spec)-1])
	if err != nil || n < 0 {
		return 0, false
	}
	days := n
	if unit == 'w' {
		days = n * 7
	}
	return time.Duration(days) * 24 * time.Hour, true
}

// ParseRange parses --since and --until. Zero means no bound.
// Both bounds given must satisfy since < until.
func ParseRange(since, until string) (int64, int64, error) {
	var sinceMs, untilMs int64
	var err error

	if since != "" {
		if sinceMs, err = Parse(since); err != nil {
			return 0, 0, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if until != "" {
		if untilMs, err = Parse(until); err != nil {
			return 0, 0, fmt.Errorf("invalid --until: %w", err)
		}
	}

	if sinceMs > 0 && untilMs > 0 && sinceMs >= untilMs {
		return 0, 0, fmt.Errorf("--since must be before --until")
	}

	return sinceMs, untilMs, nil
}
