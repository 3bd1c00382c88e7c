package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/roulette/internal/filter"
	"github.com/dyluth/roulette/internal/printer"
	"github.com/dyluth/roulette/internal/report"
	"github.com/dyluth/roulette/internal/store"
	"github.com/dyluth/roulette/internal/timespec"
	"github.com/dyluth/roulette/pkg/roster"
	"github.com/spf13/cobra"
)

var (
	rostersSince  string
	rostersUntil  string
	rostersName   string
	rostersBranch string
	rostersOutput string
	rostersCSV    bool
	rostersRounds bool
)

var rostersCmd = &cobra.Command{
	Use:   "rosters [ID]",
	Short: "Browse rosters in the shared store",
	Long: `List rosters saved by 'roulette draw --save' or the web UI, or show one.

Without an ID, lists every roster in the configured namespace. With an ID
(full UUID or a unique prefix of at least 6 characters) prints that roster
as JSON, or as CSV with --csv.

Requires store.backend: redis.

Time Filters:
  --since and --until accept RFC3339 timestamps, dates (2024-03-01),
  durations (36h) or days and weeks (7d, 2w) counted back from now.

Examples:
  # Everything updated in the last two weeks
  roulette rosters --since 2w

  # Rosters with someone from a London branch
  roulette rosters --branch 'London*'

  # Download a stored roster
  roulette rosters 3f2a9c --csv > roster.csv

  # Rounds recorded for a roster
  roulette rosters 3f2a9c --rounds`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRosters,
}

func init() {
	rostersCmd.Flags().StringVar(&rostersSince, "since", "", "Only rosters updated after this time")
	rostersCmd.Flags().StringVar(&rostersUntil, "until", "", "Only rosters updated before this time")
	rostersCmd.Flags().StringVar(&rostersName, "name", "", "Only rosters whose name matches this glob")
	rostersCmd.Flags().StringVar(&rostersBranch, "branch", "", "Only rosters with a participant whose branch matches this glob")
	rostersCmd.Flags().StringVarP(&rostersOutput, "output", "o", "default", "Output format (default or jsonl)")
	rostersCmd.Flags().BoolVar(&rostersCSV, "csv", false, "Print a single roster as CSV")
	rostersCmd.Flags().BoolVar(&rostersRounds, "rounds", false, "Print the round log of a single roster")
	rootCmd.AddCommand(rostersCmd)
}

func runRosters(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if rostersOutput != "default" && rostersOutput != "jsonl" {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", rostersOutput),
			[]string{"Valid formats: default, jsonl"},
		)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireRedis(cfg, "rosters"); err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	s, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 1 {
		return showRoster(ctx, s, args[0])
	}

	since, until, err := timespec.ParseRange(rostersSince, rostersUntil)
	if err != nil {
		return printer.Error("invalid time filter", err.Error(), []string{"Examples: --since 7d, --since 2024-03-01, --until 2024-03-31T17:00:00Z"})
	}
	criteria := &filter.Criteria{
		SinceTimestampMs: since,
		UntilTimestampMs: until,
		NameGlob:         rostersName,
		BranchGlob:       rostersBranch,
	}

	records, err := s.List(ctx)
	if err != nil {
		return printer.Error("cannot list rosters", err.Error(), []string{"Check that Redis is reachable at " + cfg.Store.RedisURL})
	}

	var matched []*store.Record
	for _, rec := range records {
		if criteria.Matches(rec) {
			matched = append(matched, rec)
		}
	}

	if rostersOutput == "jsonl" {
		return report.RostersJSONL(printer.Out, matched)
	}
	_, err = report.RostersTable(printer.Out, matched, cfg.Store.Namespace)
	return err
}

// roundLogger is implemented by stores that index rounds separately.
type roundLogger interface {
	RoundLog(ctx context.Context, id string) ([]string, error)
}

// showRoster prints one roster identified by full or short ID.
func showRoster(ctx context.Context, s store.Store, shortID string) error {
	id, err := s.Resolve(ctx, shortID)
	if err != nil {
		if store.IsAmbiguousError(err) {
			ambigErr := err.(*store.AmbiguousError)
			fmt.Fprintln(printer.ErrOut, store.FormatAmbiguousError(ambigErr))
			return &printer.ReportedError{Title: "ambiguous short ID"}
		}
		if store.IsNotFound(err) {
			return printer.Error(
				fmt.Sprintf("roster '%s' not found", shortID),
				"No roster in this namespace has that ID.",
				[]string{"List rosters:\n  roulette rosters"},
			)
		}
		return printer.Error("invalid roster ID", err.Error(), nil)
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load roster %s: %w", id, err)
	}

	if rostersCSV {
		return roster.WriteCSV(printer.Out, rec.Table)
	}
	if rostersRounds {
		rs, ok := s.(roundLogger)
		if !ok {
			return fmt.Errorf("round log requires a Redis store, got %T", s)
		}
		columns, err := rs.RoundLog(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load round log for %s: %w", id, err)
		}
		return report.RoundLogTable(printer.Out, rec, columns)
	}
	return report.RecordJSON(printer.Out, rec)
}
