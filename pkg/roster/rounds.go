package roster

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Round column naming
//
// Round columns are named prefix + N where N is a positive decimal integer.
// The integers are the only ordering of history: there is no timestamp.
// Numbers are allocated as max(existing) + 1, so gaps left by deleted
// columns are tolerated and never refilled.

// DefaultRoundPrefix is the round column prefix used when none is configured.
const DefaultRoundPrefix = "Group_"

// RoundColumn is a round column name together with its parsed number.
type RoundColumn struct {
	Name   string `json:"name"`
	Number int    `json:"number"`
}

// RoundNumber parses the numeric suffix of a round column.
// Returns false for any column that does not start with prefix or whose
// suffix is empty or contains anything other than ASCII digits.
func RoundNumber(prefix, column string) (int, bool) {
	if !strings.HasPrefix(column, prefix) {
		return 0, false
	}

	suffix := column[len(prefix):]
	if suffix == "" {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(suffix)
	if err != nil {
		// Overflow; treat as not a round column
		return 0, false
	}
	return n, true
}

// RoundColumnName returns the column name for round n.
func RoundColumnName(prefix string, n int) string {
	return fmt.Sprintf("%s%d", prefix, n)
}

// RoundColumns returns every round column of the table, ordered by number.
func RoundColumns(t *Table, prefix string) []RoundColumn {
	var rounds []RoundColumn
	for _, col := range t.Columns {
		if n, ok := RoundNumber(prefix, col); ok {
			rounds = append(rounds, RoundColumn{Name: col, Number: n})
		}
	}

	sort.SliceStable(rounds, func(i, j int) bool {
		return rounds[i].Number < rounds[j].Number
	})
	return rounds
}

// NextRoundNumber returns max(existing round numbers) + 1, or 1.
func NextRoundNumber(t *Table, prefix string) int {
	highest := 0
	for _, round := range RoundColumns(t, prefix) {
		if round.Number > highest {
			highest = round.Number
		}
	}
	return highest + 1
}

// NextRoundName returns the name of the column the next round will use.
func NextRoundName(t *Table, prefix string) string {
	return RoundColumnName(prefix, NextRoundNumber(t, prefix))
}
