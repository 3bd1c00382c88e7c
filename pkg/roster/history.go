package roster

import "sort"

// Pairings maps each participant to everyone they have shared a group with
// in any recorded round. It is symmetric and has set semantics: a pair seen
// in several rounds is recorded once.
type Pairings map[string]map[string]struct{}

// Add records that a and b shared a group. Both directions are stored.
// A participant is never paired with itself.
func (p Pairings) Add(a, b string) {
	if a == b {
		return
	}
	p.link(a, b)
	p.link(b, a)
}

func (p Pairings) link(from, to string) {
	partners, ok := p[from]
	if !ok {
		partners = make(map[string]struct{})
		p[from] = partners
	}
	partners[to] = struct{}{}
}

// Has reports whether a and b have shared a group before.
func (p Pairings) Has(a, b string) bool {
	_, ok := p[a][b]
	return ok
}

// Partners returns the sorted list of everyone name has been grouped with.
func (p Pairings) Partners(name string) []string {
	partners := make([]string, 0, len(p[name]))
	for partner := range p[name] {
		partners = append(partners, partner)
	}
	sort.Strings(partners)
	return partners
}

// People returns the sorted list of participants with at least one pairing.
func (p Pairings) People() []string {
	people := make([]string, 0, len(p))
	for name := range p {
		people = append(people, name)
	}
	sort.Strings(people)
	return people
}

// PairCount returns the number of distinct undirected pairs.
func (p Pairings) PairCount() int {
	directed := 0
	for _, partners := range p {
		directed += len(partners)
	}
	return directed / 2
}

// ExtractPairings scans every round column of the table and returns the
// pairing-avoidance set. Columns that are not round columns, including Name
// and Branch, are ignored. Within a round column, rows sharing a non-empty
// label form one historical group; every pair of distinct names inside a
// group of two or more is recorded.
//
// The result is built fresh on every call and the table is not modified.
func ExtractPairings(t *Table, prefix string) Pairings {
	pairings := make(Pairings)

	nameIdx, ok := t.ColumnIndex(NameColumn)
	if !ok {
		return pairings
	}

	for _, round := range RoundColumns(t, prefix) {
		colIdx, _ := t.ColumnIndex(round.Name)

		// Group names by label for this round, preserving row order
		groups := make(map[string][]string)
		var labels []string
		for _, row := range t.Rows {
			if colIdx >= len(row) || nameIdx >= len(row) {
				continue
			}
			label, name := row[colIdx], row[nameIdx]
			if label == "" || name == "" {
				continue
			}
			if _, seen := groups[label]; !seen {
				labels = append(labels, label)
			}
			groups[label] = append(groups[label], name)
		}

		for _, label := range labels {
			members := groups[label]
			if len(members) < 2 {
				continue
			}
			for i, p1 := range members {
				for j, p2 := range members {
					if i != j {
						pairings.Add(p1, p2)
					}
				}
			}
		}
	}

	return pairings
}
