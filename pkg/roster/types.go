package roster

import (
	"errors"
	"fmt"
)

const (
	// NameColumn holds the participant name, unique within a roster
	NameColumn = "Name"

	// TagColumn holds the participant's branch or department
	TagColumn = "Branch"
)

// Participant is one row of the roster reduced to the fields a draw needs.
type Participant struct {
	Name string `json:"name"`
	Tag  string `json:"branch"`
}

// Table is a roster: named columns and string cells.
// The empty string is the missing value. Row order carries no meaning.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// MissingColumnError reports a mandatory column absent from a roster.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("roster must contain '%s' and '%s' columns (missing '%s')", NameColumn, TagColumn, e.Column)
}

// IsMissingColumn checks if an error is a MissingColumnError.
func IsMissingColumn(err error) bool {
	var mce *MissingColumnError
	return errors.As(err, &mce)
}

// NewTable creates an empty table with the given header.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Validate checks that the mandatory Name and Branch columns are present
// and that every row has one cell per column.
func (t *Table) Validate() error {
	for _, col := range []string{NameColumn, TagColumn} {
		if _, ok := t.ColumnIndex(col); !ok {
			return &MissingColumnError{Column: col}
		}
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, expected %d", i+1, len(row), len(t.Columns))
		}
	}

	return nil
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, col := range t.Columns {
		if col == name {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether the table has a column with this name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Column returns every cell of the named column in row order.
// Returns nil if the column does not exist.
func (t *Table) Column(name string) []string {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Participants returns the Name/Branch pair of every row in row order.
// Rows with an empty name are skipped: they cannot be joined across rounds.
func (t *Table) Participants() []Participant {
	names := t.Column(NameColumn)
	tags := t.Column(TagColumn)

	participants := make([]Participant, 0, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		p := Participant{Name: name}
		if tags != nil {
			p.Tag = tags[i]
		}
		participants = append(participants, p)
	}
	return participants
}

// Names returns the participant names in row order.
func (t *Table) Names() []string {
	participants := t.Participants()
	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
	}
	return names
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	clone := NewTable(t.Columns...)
	clone.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		clone.Rows[i] = append([]string(nil), row...)
	}
	return clone
}

// WithColumn returns a copy of the table with one column appended.
// values must be in row order; missing trailing values are left empty.
// The receiver is not modified.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if t.HasColumn(name) {
		return nil, fmt.Errorf("column '%s' already exists", name)
	}
	if len(values) > len(t.Rows) {
		return nil, fmt.Errorf("column '%s' has %d values for %d rows", name, len(values), len(t.Rows))
	}

	out := t.Clone()
	out.Columns = append(out.Columns, name)
	for i := range out.Rows {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		out.Rows[i] = append(out.Rows[i], value)
	}
	return out, nil
}
