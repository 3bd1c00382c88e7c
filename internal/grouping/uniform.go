package grouping

import (
	"math/rand/v2"

	"github.com/dyluth/roulette/pkg/roster"
)

// Uniform shuffles the roster and cuts it into consecutive groups, ignoring
// history. It shares the remainder rules of Greedy so both strategies emit
// the same group shapes for the same roster size.
type Uniform struct {
	Rand *rand.Rand
}

// Name implements Strategy.
func (u *Uniform) Name() string {
	return StrategyUniform
}

// Partition implements Strategy. avoid is not consulted.
func (u *Uniform) Partition(names []string, _ roster.Pairings, size int) ([][]string, error) {
	if size < 1 {
		return nil, ErrInvalidGroupSize
	}

	pool := append([]string(nil), names...)
	shuffle(u.Rand, pool)

	groups := [][]string{}
	for len(pool) >= size {
		groups = append(groups, append([]string(nil), pool[:size]...))
		pool = pool[size:]
	}

	return placeRemainder(groups, pool), nil
}
