package grouping

import (
	"fmt"

	"github.com/dyluth/roulette/pkg/roster"
)

// HasRepeat reports whether any two members of group appear in avoid.
func HasRepeat(group []string, avoid roster.Pairings) bool {
	for i := range group {
		for j := i + 1; j < len(group); j++ {
			if avoid.Has(group[i], group[j]) {
				return true
			}
		}
	}
	return false
}

// RepeatGroups counts the groups that contain at least one repeat pairing.
func RepeatGroups(groups [][]string, avoid roster.Pairings) int {
	count := 0
	for _, group := range groups {
		if HasRepeat(group, avoid) {
			count++
		}
	}
	return count
}

// Sizes returns the size of each group in emission order.
func Sizes(groups [][]string) []int {
	sizes := make([]int, len(groups))
	for i, group := range groups {
		sizes[i] = len(group)
	}
	return sizes
}

// Label returns the display label of the group at zero-based index i.
func Label(i int) string {
	return fmt.Sprintf("Group %d", i+1)
}

// Labels maps every member name to the label of its group.
// If a name occurs in several groups the later group wins.
func Labels(groups [][]string) map[string]string {
	labels := make(map[string]string)
	for i, group := range groups {
		for _, name := range group {
			labels[name] = Label(i)
		}
	}
	return labels
}
