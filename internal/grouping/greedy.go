package grouping

import (
	"math/rand/v2"

	"github.com/dyluth/roulette/pkg/roster"
)

// Greedy is the history-aware single-pass partitioner.
//
// The pool is shuffled once. Each group is anchored on the head of the pool
// and filled from the remaining participants the anchor has never shared a
// group with. When fewer than size-1 such candidates exist the group is
// filled from the head of the pool instead, so repeats are possible. Anchors
// are never ranked by how much history they carry.
type Greedy struct {
	// Rand is the source of randomness; nil uses the global generator,
	// which yields a different partition on every call.
	Rand *rand.Rand
}

// Name implements Strategy.
func (g *Greedy) Name() string {
	return StrategyGreedy
}

// Partition implements Strategy.
func (g *Greedy) Partition(names []string, avoid roster.Pairings, size int) ([][]string, error) {
	if size < 1 {
		return nil, ErrInvalidGroupSize
	}

	pool := append([]string(nil), names...)
	shuffle(g.Rand, pool)

	groups := [][]string{}
	for len(pool) >= size {
		anchor := pool[0]
		pool = pool[1:]
		group := []string{anchor}

		var candidates []string
		for _, p := range pool {
			if !avoid.Has(anchor, p) {
				candidates = append(candidates, p)
			}
		}

		if len(candidates) < size-1 {
			// Fallback: take the head of the pool regardless of history
			group = append(group, pool[:size-1]...)
			pool = pool[size-1:]
		} else {
			shuffle(g.Rand, candidates)
			for _, chosen := range candidates[:size-1] {
				group = append(group, chosen)
				pool = remove(pool, chosen)
			}
		}

		groups = append(groups, group)
	}

	return placeRemainder(groups, pool), nil
}

// remove deletes the first occurrence of name from pool, preserving order.
// The returned slice does not share its backing array with pool.
func remove(pool []string, name string) []string {
	out := make([]string, 0, len(pool))
	removed := false
	for _, p := range pool {
		if !removed && p == name {
			removed = true
			continue
		}
		out = append(out, p)
	}
	return out
}
