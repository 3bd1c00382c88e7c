package roster

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("accepts roster with mandatory columns", func(t *testing.T) {
		require.NoError(t, mockRoster().Validate())
	})

	t.Run("rejects missing Name", func(t *testing.T) {
		err := NewTable("Branch", "Group_1").Validate()
		require.Error(t, err)
		assert.True(t, IsMissingColumn(err))
		assert.Contains(t, err.Error(), "missing 'Name'")
	})

	t.Run("rejects missing Branch", func(t *testing.T) {
		err := NewTable("Name").Validate()
		require.Error(t, err)
		assert.True(t, IsMissingColumn(err))
		assert.Contains(t, err.Error(), "missing 'Branch'")
	})

	t.Run("rejects ragged rows", func(t *testing.T) {
		table := NewTable("Name", "Branch")
		table.Rows = [][]string{{"Alice"}}
		err := table.Validate()
		require.Error(t, err)
		assert.False(t, IsMissingColumn(err))
	})
}

func TestParticipants(t *testing.T) {
	table := NewTable("Branch", "Name")
	table.Rows = [][]string{
		{"HR", "Alice"},
		{"IT", ""},
		{"", "Bob"},
	}

	assert.Equal(t, []Participant{
		{Name: "Alice", Tag: "HR"},
		{Name: "Bob", Tag: ""},
	}, table.Participants())
	assert.Equal(t, []string{"Alice", "Bob"}, table.Names())
}

func TestWithColumn(t *testing.T) {
	table := NewTable("Name", "Branch")
	table.Rows = [][]string{{"Alice", "HR"}, {"Bob", "IT"}}

	t.Run("appends without mutating the receiver", func(t *testing.T) {
		out, err := table.WithColumn("Group_1", []string{"Group 1"})
		require.NoError(t, err)

		assert.Equal(t, []string{"Name", "Branch", "Group_1"}, out.Columns)
		assert.Equal(t, []string{"Group 1", ""}, out.Column("Group_1"))
		assert.Equal(t, []string{"Name", "Branch"}, table.Columns)
		assert.Len(t, table.Rows[0], 2)
	})

	t.Run("rejects duplicate column", func(t *testing.T) {
		_, err := table.WithColumn("Name", nil)
		assert.Error(t, err)
	})

	t.Run("rejects too many values", func(t *testing.T) {
		_, err := table.WithColumn("Group_1", []string{"a", "b", "c"})
		assert.Error(t, err)
	})
}

func TestCSV(t *testing.T) {
	t.Run("reads header, trims cells and pads short rows", func(t *testing.T) {
		input := "\ufeffName, Branch ,Group_1\nAlice,HR,A\n Bob ,IT\n\n"
		table, err := ReadCSV(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"Name", "Branch", "Group_1"}, table.Columns)
		assert.Equal(t, [][]string{
			{"Alice", "HR", "A"},
			{"Bob", "IT", ""},
		}, table.Rows)
	})

	t.Run("rejects rows longer than the header", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("Name,Branch\nAlice,HR,extra\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no header")
	})

	t.Run("writes what it reads", func(t *testing.T) {
		original := mockRoster()
		original.Rows[0][3] = ""

		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, original))
		assert.True(t, strings.HasPrefix(buf.String(), "Name,Branch,Group_1,Group_2\n"))

		decoded, err := ReadCSV(&buf)
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	})
}
