package grouping

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/dyluth/roulette/pkg/roster"
)

// ErrInvalidGroupSize is returned when the target group size is below 1.
var ErrInvalidGroupSize = errors.New("group size must be >= 1")

// Strategy partitions a list of participant names into groups.
// Every input name appears in exactly one output group.
type Strategy interface {
	// Name returns the identifier used in configuration and metrics
	Name() string

	// Partition splits names into groups of size, consulting avoid where the
	// strategy uses history. An empty input yields an empty result.
	Partition(names []string, avoid roster.Pairings, size int) ([][]string, error)
}

const (
	// StrategyGreedy is the history-aware default
	StrategyGreedy = "greedy"

	// StrategyUniform ignores history
	StrategyUniform = "uniform"
)

// Lookup returns the strategy registered under name.
// A nil rng makes the strategy draw from the global generator.
func Lookup(name string, rng *rand.Rand) (Strategy, error) {
	switch name {
	case StrategyGreedy, "":
		return &Greedy{Rand: rng}, nil
	case StrategyUniform:
		return &Uniform{Rand: rng}, nil
	default:
		return nil, fmt.Errorf("unknown grouping strategy: %s (must be '%s' or '%s')", name, StrategyGreedy, StrategyUniform)
	}
}

// Names returns the registered strategy names.
func Names() []string {
	names := []string{StrategyGreedy, StrategyUniform}
	sort.Strings(names)
	return names
}

// shuffle permutes names in place using rng, or the global generator.
func shuffle(rng *rand.Rand, names []string) {
	swap := func(i, j int) { names[i], names[j] = names[j], names[i] }
	if rng != nil {
		rng.Shuffle(len(names), swap)
		return
	}
	rand.Shuffle(len(names), swap)
}

// placeRemainder applies the remainder rules to the participants left over
// after full groups were formed:
//   - one left over joins the first group, or forms its own if there is none
//   - two or more left over form one final group, history not consulted
func placeRemainder(groups [][]string, remaining []string) [][]string {
	switch {
	case len(remaining) == 0:
		return groups
	case len(remaining) == 1 && len(groups) > 0:
		groups[0] = append(groups[0], remaining[0])
		return groups
	default:
		return append(groups, append([]string(nil), remaining...))
	}
}
