package report

import (
	"fmt"
	"io"

	"github.com/dyluth/roulette/internal/round"
	"github.com/olekukonko/tablewriter"
)

// groupLine is the JSONL shape of one group.
type groupLine struct {
	Column  string   `json:"column"`
	Label   string   `json:"label"`
	Members []string `json:"members"`
	Tags    []string `json:"branches"`
}

// GroupsTable writes one row per participant: group label, name, branch.
func GroupsTable(w io.Writer, column string, groups []round.Group) error {
	table := tablewriter.NewWriter(w)
	table.Header("Group", "Name", "Branch")

	for _, g := range groups {
		for _, m := range g.Members {
			if err := table.Append([]string{g.Label, m.Name, orDash(m.Tag)}); err != nil {
				return fmt.Errorf("failed to add table row: %w", err)
			}
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(w, "\n%s: %d %s\n", column, len(groups), plural(len(groups), "group", "groups"))
	return nil
}

// GroupsJSONL writes one JSON object per group.
func GroupsJSONL(w io.Writer, column string, groups []round.Group) error {
	lines := make([]groupLine, len(groups))
	for i, g := range groups {
		line := groupLine{Column: column, Label: g.Label}
		for _, m := range g.Members {
			line.Members = append(line.Members, m.Name)
			line.Tags = append(line.Tags, m.Tag)
		}
		lines[i] = line
	}
	return writeJSONL(w, lines)
}
