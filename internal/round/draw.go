package round

import (
	"fmt"

	"github.com/dyluth/roulette/internal/grouping"
	"github.com/dyluth/roulette/pkg/roster"
)

// Group is one emitted group with its display label.
type Group struct {
	Label   string               `json:"label"`
	Members []roster.Participant `json:"members"`
}

// Names returns the member names of the group.
func (g Group) Names() []string {
	names := make([]string, len(g.Members))
	for i, m := range g.Members {
		names[i] = m.Name
	}
	return names
}

// Result is the outcome of one draw.
type Result struct {
	// Column is the round column appended to Table
	Column string `json:"column"`

	// Groups in emission order; Groups[i].Label is "Group i+1"
	Groups []Group `json:"groups"`

	// Table is the input roster with Column appended
	Table *roster.Table `json:"-"`

	// Strategy is the name of the strategy that produced the groups
	Strategy string `json:"strategy"`

	// Repeats counts groups containing a pair that met in an earlier round
	Repeats int `json:"repeats"`

	// Pairings is the history the draw avoided
	Pairings roster.Pairings `json:"-"`
}

// Drawer runs the full pipeline: validate, extract history, partition,
// label the next round and append it to the roster.
type Drawer struct {
	Strategy  grouping.Strategy
	GroupSize int
	Prefix    string
}

// NewDrawer creates a drawer with the given strategy, size and prefix.
// An empty prefix falls back to roster.DefaultRoundPrefix.
func NewDrawer(strategy grouping.Strategy, groupSize int, prefix string) (*Drawer, error) {
	if strategy == nil {
		return nil, fmt.Errorf("grouping strategy is required")
	}
	if groupSize < 1 {
		return nil, fmt.Errorf("invalid group size %d: %w", groupSize, grouping.ErrInvalidGroupSize)
	}
	if prefix == "" {
		prefix = roster.DefaultRoundPrefix
	}

	return &Drawer{
		Strategy:  strategy,
		GroupSize: groupSize,
		Prefix:    prefix,
	}, nil
}

// Draw computes a new round for the roster. The input table is not modified;
// Result.Table is a copy with one additional round column.
func (d *Drawer) Draw(t *roster.Table) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roster: %w", err)
	}

	pairings := roster.ExtractPairings(t, d.Prefix)
	participants := t.Participants()

	names := make([]string, len(participants))
	tags := make(map[string]string, len(participants))
	for i, p := range participants {
		names[i] = p.Name
		tags[p.Name] = p.Tag
	}

	partition, err := d.Strategy.Partition(names, pairings, d.GroupSize)
	if err != nil {
		return nil, fmt.Errorf("failed to partition roster: %w", err)
	}

	column := roster.NextRoundName(t, d.Prefix)
	labels := grouping.Labels(partition)

	values := make([]string, t.Len())
	for i, name := range t.Column(roster.NameColumn) {
		values[i] = labels[name]
	}

	updated, err := t.WithColumn(column, values)
	if err != nil {
		return nil, fmt.Errorf("failed to append round column: %w", err)
	}

	groups := make([]Group, len(partition))
	for i, members := range partition {
		group := Group{Label: grouping.Label(i)}
		for _, name := range members {
			group.Members = append(group.Members, roster.Participant{Name: name, Tag: tags[name]})
		}
		groups[i] = group
	}

	return &Result{
		Column:   column,
		Groups:   groups,
		Table:    updated,
		Strategy: d.Strategy.Name(),
		Repeats:  grouping.RepeatGroups(partition, pairings),
		Pairings: pairings,
	}, nil
}

// GroupsFromColumn rebuilds the groups of a recorded round from the table,
// ordered by first appearance of each label. Used to display stored rounds.
func GroupsFromColumn(t *roster.Table, column string) ([]Group, error) {
	labels := t.Column(column)
	if labels == nil {
		return nil, fmt.Errorf("column '%s' not found", column)
	}

	participants := t.Column(roster.NameColumn)
	tags := t.Column(roster.TagColumn)

	index := make(map[string]int)
	var groups []Group
	for i, label := range labels {
		if label == "" || participants == nil || participants[i] == "" {
			continue
		}
		pos, ok := index[label]
		if !ok {
			pos = len(groups)
			index[label] = pos
			groups = append(groups, Group{Label: label})
		}
		p := roster.Participant{Name: participants[i]}
		if tags != nil {
			p.Tag = tags[i]
		}
		groups[pos].Members = append(groups[pos].Members, p)
	}

	return groups, nil
}

// FileName is the download name for a roster whose latest round is column:
// coffee_roulette_groups_{column}.csv.
func FileName(column string) string {
	if column == "" {
		return "coffee_roulette_groups.csv"
	}
	return fmt.Sprintf("coffee_roulette_groups_%s.csv", column)
}
