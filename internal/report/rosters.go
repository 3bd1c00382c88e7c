package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dyluth/roulette/internal/store"
	"github.com/dyluth/roulette/pkg/roster"
	"github.com/olekukonko/tablewriter"
)

// RostersTable writes stored rosters as a table and returns how many were
// written.
func RostersTable(w io.Writer, records []*store.Record, namespace string) (int, error) {
	if len(records) == 0 {
		fmt.Fprintf(w, "No rosters found in namespace '%s'\n", namespace)
		return 0, nil
	}

	fmt.Fprintf(w, "Rosters in namespace '%s':\n\n", namespace)

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "People", "Rounds", "Last round", "Updated")

	for _, rec := range records {
		rounds := rec.Rounds()
		last := "-"
		if len(rounds) > 0 {
			last = rounds[len(rounds)-1].Name
		}
		row := []string{
			formatID(rec.ID),
			orDash(rec.Name),
			fmt.Sprintf("%d", len(rec.Table.Participants())),
			fmt.Sprintf("%d", len(rounds)),
			last,
			formatTimestamp(rec.UpdatedAtMs),
		}
		if err := table.Append(row); err != nil {
			return 0, fmt.Errorf("failed to add table row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return 0, fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(w, "\n%d %s found\n", len(records), plural(len(records), "roster", "rosters"))
	return len(records), nil
}

// RostersJSONL writes each record as one JSON line.
func RostersJSONL(w io.Writer, records []*store.Record) error {
	return writeJSONL(w, records)
}

// RecordJSON writes one record as indented JSON.
func RecordJSON(w io.Writer, rec *store.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal roster to JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// RoundLogTable writes the round log of a stored roster: each recorded
// round column with its number, in round order.
func RoundLogTable(w io.Writer, rec *store.Record, columns []string) error {
	if len(columns) == 0 {
		fmt.Fprintf(w, "No rounds recorded for %s (%s)\n", orDash(rec.Name), formatID(rec.ID))
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Round", "Column", "Groups")

	for _, col := range columns {
		number := "-"
		if n, ok := roster.RoundNumber(rec.Prefix, col); ok {
			number = fmt.Sprintf("%d", n)
		}
		groups := "-"
		if labels := rec.Table.Column(col); labels != nil {
			groups = fmt.Sprintf("%d", countLabels(labels))
		}
		if err := table.Append([]string{number, col, groups}); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(w, "\n%d %s recorded. Next round: %s\n", len(columns), plural(len(columns), "round", "rounds"), roster.NextRoundName(rec.Table, rec.Prefix))
	return nil
}

func countLabels(labels []string) int {
	seen := make(map[string]struct{})
	for _, l := range labels {
		if l != "" {
			seen[l] = struct{}{}
		}
	}
	return len(seen)
}
