package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dyluth/roulette/pkg/roster"
	"github.com/olekukonko/tablewriter"
)

// PairingsTable writes each listed person with the partners they have
// already been grouped with. People never grouped show "-".
func PairingsTable(w io.Writer, names []string, pairings roster.Pairings) error {
	if len(names) == 0 {
		fmt.Fprintln(w, "No participants found")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Name", "Met", "Partners")

	for _, name := range names {
		partners := pairings.Partners(name)
		row := []string{name, fmt.Sprintf("%d", len(partners)), orDash(strings.Join(partners, ", "))}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(w, "\n%d distinct %s recorded\n", pairings.PairCount(), plural(pairings.PairCount(), "pair", "pairs"))
	return nil
}

// RoundsTable lists the round columns of a roster and the next round name.
func RoundsTable(w io.Writer, t *roster.Table, prefix string) error {
	rounds := roster.RoundColumns(t, prefix)
	next := roster.NextRoundName(t, prefix)

	if len(rounds) == 0 {
		fmt.Fprintf(w, "No rounds recorded yet. Next round: %s\n", next)
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Column", "Round", "Groups", "Participants")

	for _, rc := range rounds {
		groups := make(map[string]struct{})
		seated := 0
		for _, label := range t.Column(rc.Name) {
			if label == "" {
				continue
			}
			groups[label] = struct{}{}
			seated++
		}
		row := []string{rc.Name, fmt.Sprintf("%d", rc.Number), fmt.Sprintf("%d", len(groups)), fmt.Sprintf("%d", seated)}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(w, "\nNext round: %s\n", next)
	return nil
}
