package grouping

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"github.com/dyluth/roulette/pkg/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func people(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("P%02d", i)
	}
	return names
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// requireCoverage asserts every name appears in exactly one group
func requireCoverage(t *testing.T, names []string, groups [][]string) {
	t.Helper()

	var flat []string
	for _, g := range groups {
		require.NotEmpty(t, g, "groups are never empty")
		flat = append(flat, g...)
	}

	expected := append([]string(nil), names...)
	sort.Strings(expected)
	sort.Strings(flat)
	require.Equal(t, expected, flat)
}

func TestGreedyPartition_Coverage(t *testing.T) {
	avoid := make(roster.Pairings)
	avoid.Add("P00", "P01")
	avoid.Add("P02", "P03")
	avoid.Add("P00", "P05")

	for n := 1; n <= 17; n++ {
		for size := 1; size <= 6; size++ {
			t.Run(fmt.Sprintf("n=%d size=%d", n, size), func(t *testing.T) {
				names := people(n)
				groups, err := (&Greedy{}).Partition(names, avoid, size)
				require.NoError(t, err)
				requireCoverage(t, names, groups)
			})
		}
	}
}

func TestGreedyPartition_Shapes(t *testing.T) {
	g := &Greedy{}

	t.Run("remainder of two forms its own group", func(t *testing.T) {
		groups, err := g.Partition(people(11), nil, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 3, 3, 2}, Sizes(groups))
	})

	t.Run("remainder of one joins the first group", func(t *testing.T) {
		groups, err := g.Partition(people(10), nil, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{4, 3, 3}, Sizes(groups))
	})

	t.Run("exact multiple", func(t *testing.T) {
		groups, err := g.Partition(people(9), nil, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 3, 3}, Sizes(groups))
	})

	t.Run("roster smaller than group size", func(t *testing.T) {
		names := []string{"Alice", "Bob"}
		groups, err := g.Partition(names, nil, 3)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.ElementsMatch(t, names, groups[0])
	})

	t.Run("single participant", func(t *testing.T) {
		groups, err := g.Partition([]string{"Alice"}, nil, 3)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Alice"}}, groups)
	})

	t.Run("empty roster", func(t *testing.T) {
		groups, err := g.Partition(nil, nil, 3)
		require.NoError(t, err)
		assert.Empty(t, groups)
		assert.NotNil(t, groups)
	})

	t.Run("remainder of three with size four", func(t *testing.T) {
		groups, err := g.Partition(people(7), nil, 4)
		require.NoError(t, err)
		assert.Equal(t, []int{4, 3}, Sizes(groups))
	})

	t.Run("size one", func(t *testing.T) {
		groups, err := g.Partition(people(4), nil, 1)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 1, 1, 1}, Sizes(groups))
	})

	t.Run("rejects invalid size", func(t *testing.T) {
		_, err := g.Partition(people(4), nil, 0)
		assert.ErrorIs(t, err, ErrInvalidGroupSize)

		_, err = g.Partition(people(4), nil, -2)
		assert.ErrorIs(t, err, ErrInvalidGroupSize)
	})
}

func TestGreedyPartition_DoesNotMutateInput(t *testing.T) {
	names := people(8)
	original := append([]string(nil), names...)

	_, err := (&Greedy{Rand: seeded(3)}).Partition(names, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, original, names)
}

func TestGreedyPartition_RedrawsEachCall(t *testing.T) {
	names := people(12)
	g := &Greedy{}

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		groups, err := g.Partition(names, nil, 3)
		require.NoError(t, err)

		var b strings.Builder
		for _, group := range groups {
			b.WriteString(strings.Join(group, ","))
			b.WriteString("|")
		}
		seen[b.String()] = true
	}

	assert.Greater(t, len(seen), 1, "identical input should not always produce identical partitions")
}

func TestGreedyPartition_FirstGroupAvoidsAnchorHistory(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F"}
	avoid := make(roster.Pairings)
	avoid.Add("A", "B")
	avoid.Add("A", "C")
	avoid.Add("D", "E")

	for seed := uint64(0); seed < 200; seed++ {
		groups, err := (&Greedy{Rand: seeded(seed)}).Partition(names, avoid, 2)
		require.NoError(t, err)
		assert.False(t, HasRepeat(groups[0], avoid), "seed %d produced %v", seed, groups[0])
	}
}

func TestGreedyPartition_FallsBackWhenHistoryIsDense(t *testing.T) {
	names := people(7)
	avoid := make(roster.Pairings)
	for i, a := range names {
		for _, b := range names[i+1:] {
			avoid.Add(a, b)
		}
	}

	groups, err := (&Greedy{Rand: seeded(7)}).Partition(names, avoid, 3)
	require.NoError(t, err)
	requireCoverage(t, names, groups)
	assert.Equal(t, []int{4, 3}, Sizes(groups))
	assert.Equal(t, 2, RepeatGroups(groups, avoid))
}

// Across many runs on a roster with sparse history, the greedy strategy
// must produce repeat-containing groups less often than the uniform baseline.
func TestGreedyPartition_BeatsUniformOnRepeats(t *testing.T) {
	names := people(12)

	// One earlier round of four groups of three
	avoid := make(roster.Pairings)
	for g := 0; g < 4; g++ {
		members := names[g*3 : g*3+3]
		avoid.Add(members[0], members[1])
		avoid.Add(members[0], members[2])
		avoid.Add(members[1], members[2])
	}

	const runs = 500
	greedy := &Greedy{Rand: seeded(42)}
	uniform := &Uniform{Rand: seeded(42)}

	greedyRepeats, uniformRepeats, greedyGroups, uniformGroups := 0, 0, 0, 0
	for i := 0; i < runs; i++ {
		gg, err := greedy.Partition(names, avoid, 3)
		require.NoError(t, err)
		greedyRepeats += RepeatGroups(gg, avoid)
		greedyGroups += len(gg)

		ug, err := uniform.Partition(names, avoid, 3)
		require.NoError(t, err)
		uniformRepeats += RepeatGroups(ug, avoid)
		uniformGroups += len(ug)
	}

	greedyRate := float64(greedyRepeats) / float64(greedyGroups)
	uniformRate := float64(uniformRepeats) / float64(uniformGroups)
	t.Logf("repeat rate: greedy=%.3f uniform=%.3f", greedyRate, uniformRate)
	assert.Less(t, greedyRate, uniformRate)
}
