package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoster mirrors the demonstration data shipped with the original tool
func mockRoster() *Table {
	t := NewTable("Name", "Branch", "Group_1", "Group_2")
	t.Rows = [][]string{
		{"Alice", "HR", "A", "X"},
		{"Bob", "IT", "A", "Y"},
		{"Charlie", "Finance", "A", "Z"},
		{"David", "HR", "B", "X"},
		{"Eve", "IT", "B", "Y"},
		{"Frank", "Finance", "B", "Z"},
		{"Grace", "HR", "C", "X"},
		{"Heidi", "IT", "C", "Y"},
		{"Ivan", "Finance", "C", "Z"},
		{"Judy", "HR", "D", "X"},
		{"Kelly", "IT", "D", "Y"},
	}
	return t
}

func TestExtractPairings(t *testing.T) {
	t.Run("no round columns yields empty mapping", func(t *testing.T) {
		table := NewTable("Name", "Branch", "Notes")
		table.Rows = [][]string{
			{"Alice", "HR", "x"},
			{"Bob", "HR", "x"},
		}

		pairings := ExtractPairings(table, DefaultRoundPrefix)
		assert.Empty(t, pairings)
	})

	t.Run("single round produces symmetric entries", func(t *testing.T) {
		table := NewTable("Name", "Branch", "Group_1")
		table.Rows = [][]string{
			{"A", "x", "g1"},
			{"B", "x", "g1"},
			{"C", "x", "g1"},
			{"D", "y", "g2"},
			{"E", "y", "g2"},
		}

		pairings := ExtractPairings(table, DefaultRoundPrefix)

		expected := map[string][]string{
			"A": {"B", "C"},
			"B": {"A", "C"},
			"C": {"A", "B"},
			"D": {"E"},
			"E": {"D"},
		}
		require.Len(t, pairings, len(expected))
		for name, partners := range expected {
			assert.Equal(t, partners, pairings.Partners(name), "partners of %s", name)
		}
		assert.Equal(t, 4, pairings.PairCount())
	})

	t.Run("pairs repeated across rounds are deduplicated", func(t *testing.T) {
		table := NewTable("Name", "Branch", "Group_1", "Group_2")
		table.Rows = [][]string{
			{"A", "x", "1", "7"},
			{"B", "x", "1", "7"},
			{"C", "x", "2", "8"},
		}

		pairings := ExtractPairings(table, DefaultRoundPrefix)
		assert.Equal(t, []string{"B"}, pairings.Partners("A"))
		assert.Equal(t, 1, pairings.PairCount())
		assert.NotContains(t, pairings, "C", "singleton groups record nothing")
	})

	t.Run("empty cells contribute no pairings", func(t *testing.T) {
		table := NewTable("Name", "Branch", "Group_1", "Group_2")
		table.Rows = [][]string{
			{"A", "x", "", "1"},
			{"B", "x", "", ""},
			{"C", "x", "", "1"},
		}

		pairings := ExtractPairings(table, DefaultRoundPrefix)
		assert.True(t, pairings.Has("A", "C"))
		assert.False(t, pairings.Has("A", "B"))
		assert.False(t, pairings.Has("B", "C"))
	})

	t.Run("ignores columns with non-numeric suffix", func(t *testing.T) {
		table := NewTable("Name", "Branch", "Group_final", "Group_")
		table.Rows = [][]string{
			{"A", "x", "1", "1"},
			{"B", "x", "1", "1"},
		}

		assert.Empty(t, ExtractPairings(table, DefaultRoundPrefix))
	})

	t.Run("honours a custom prefix", func(t *testing.T) {
		table := NewTable("Name", "Branch", "Round7", "Group_1")
		table.Rows = [][]string{
			{"A", "x", "1", "1"},
			{"B", "x", "1", "2"},
		}

		pairings := ExtractPairings(table, "Round")
		assert.True(t, pairings.Has("A", "B"))
		assert.Empty(t, ExtractPairings(NewTable("Name", "Branch"), "Round"))
	})

	t.Run("extraction is idempotent and does not mutate the table", func(t *testing.T) {
		table := mockRoster()
		before := table.Clone()

		first := ExtractPairings(table, DefaultRoundPrefix)
		second := ExtractPairings(table, DefaultRoundPrefix)

		assert.Equal(t, first, second)
		assert.Equal(t, before, table)
	})

	t.Run("mock roster history", func(t *testing.T) {
		pairings := ExtractPairings(mockRoster(), DefaultRoundPrefix)

		// Alice: A-group {Bob, Charlie} and X-group {David, Grace, Judy}
		assert.Equal(t, []string{"Bob", "Charlie", "David", "Grace", "Judy"}, pairings.Partners("Alice"))
		assert.True(t, pairings.Has("Judy", "Kelly"))
		assert.False(t, pairings.Has("Alice", "Kelly"))
	})
}

func TestPairings(t *testing.T) {
	p := make(Pairings)
	p.Add("A", "A")
	assert.Empty(t, p, "self pairs are ignored")

	p.Add("B", "A")
	assert.True(t, p.Has("A", "B"))
	assert.True(t, p.Has("B", "A"))
	assert.Equal(t, []string{"A", "B"}, p.People())
	assert.Empty(t, p.Partners("Z"))
}
