package filter

import (
	"path/filepath"

	"github.com/dyluth/roulette/internal/store"
	"github.com/dyluth/roulette/pkg/roster"
)

// Criteria defines filtering criteria for stored rosters and participants.
// All filters are ANDed together - a record must match ALL criteria to pass.
type Criteria struct {
	SinceTimestampMs int64  // Unix timestamp in milliseconds, 0 = no filter
	UntilTimestampMs int64  // Unix timestamp in milliseconds, 0 = no filter
	NameGlob         string // Glob pattern for the roster name, empty = no filter
	BranchGlob       string // Glob pattern for participant branch, empty = no filter
}

// Matches returns true if the record matches all filter criteria.
// Time bounds apply to the last update; the branch glob passes a record
// with at least one matching participant.
func (c *Criteria) Matches(rec *store.Record) bool {
	if c.SinceTimestampMs > 0 && rec.UpdatedAtMs < c.SinceTimestampMs {
		return false
	}
	if c.UntilTimestampMs > 0 && rec.UpdatedAtMs > c.UntilTimestampMs {
		return false
	}

	if c.NameGlob != "" && !glob(c.NameGlob, rec.Name) {
		return false
	}

	if c.BranchGlob != "" {
		for _, p := range rec.Table.Participants() {
			if c.MatchesParticipant(p) {
				return true
			}
		}
		return false
	}

	return true
}

// MatchesParticipant applies the branch glob to one participant.
func (c *Criteria) MatchesParticipant(p roster.Participant) bool {
	return c.BranchGlob == "" || glob(c.BranchGlob, p.Tag)
}

// Participants returns the names of participants passing the branch glob,
// in row order.
func (c *Criteria) Participants(t *roster.Table) []string {
	var names []string
	for _, p := range t.Participants() {
		if c.MatchesParticipant(p) {
			names = append(names, p.Name)
		}
	}
	return names
}

// HasFilters returns true if any filters are active.
func (c *Criteria) HasFilters() bool {
	return c.SinceTimestampMs > 0 ||
		c.UntilTimestampMs > 0 ||
		c.NameGlob != "" ||
		c.BranchGlob != ""
}

// glob reports a match; malformed patterns match nothing.
func glob(pattern, value string) bool {
	matched, err := filepath.Match(pattern, value)
	return err == nil && matched
}
