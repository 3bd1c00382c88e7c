package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/dyluth/roulette/internal/config"
	"github.com/dyluth/roulette/internal/grouping"
	"github.com/dyluth/roulette/internal/printer"
	"github.com/dyluth/roulette/internal/report"
	"github.com/dyluth/roulette/internal/round"
	"github.com/dyluth/roulette/internal/store"
	"github.com/dyluth/roulette/pkg/roster"
	"github.com/spf13/cobra"
)

var (
	drawOutput   string
	drawInPlace  bool
	drawSize     int
	drawStrategy string
	drawFormat   string
	drawSave     bool
	drawSeed     uint64
	drawDryRun   bool
)

var drawCmd = &cobra.Command{
	Use:   "draw FILE",
	Short: "Draw the next round of groups for a roster",
	Long: `Draw the next round of coffee groups for a roster CSV.

Past rounds in the roster are used to keep people who have already met
apart. The roster is written back with one more round column; by default
to coffee_roulette_groups_<round>.csv next to the input.

Output Formats:
  cards - Group cards (default)
  table - One row per participant
  jsonl - One JSON object per group

Examples:
  # Draw groups of the configured size
  roulette draw roster.csv

  # Pairs instead of trios, written back into roster.csv
  roulette draw roster.csv --size 2 --in-place

  # Reproducible draw without writing anything
  roulette draw roster.csv --seed 42 --dry-run

  # Record the round in the shared Redis store
  roulette draw roster.csv --save`,
	Args: cobra.ExactArgs(1),
	RunE: runDraw,
}

func init() {
	drawCmd.Flags().StringVarP(&drawOutput, "output", "o", "", "Write the updated roster here (default: coffee_roulette_groups_<round>.csv)")
	drawCmd.Flags().BoolVar(&drawInPlace, "in-place", false, "Overwrite FILE with the updated roster")
	drawCmd.Flags().IntVar(&drawSize, "size", 0, "Target group size, at least 1 (default: grouping.size from config)")
	drawCmd.Flags().StringVar(&drawStrategy, "strategy", "", fmt.Sprintf("Grouping strategy %v (default: grouping.strategy from config)", grouping.Names()))
	drawCmd.Flags().StringVar(&drawFormat, "format", string(report.OutputFormatCards), "Output format (cards, table or jsonl)")
	drawCmd.Flags().BoolVar(&drawSave, "save", false, "Store the roster and round in the configured Redis store")
	drawCmd.Flags().Uint64Var(&drawSeed, "seed", 0, "Seed for a reproducible draw (0 = random)")
	drawCmd.Flags().BoolVar(&drawDryRun, "dry-run", false, "Show the groups without writing the roster")
	rootCmd.AddCommand(drawCmd)
}

func runDraw(cmd *cobra.Command, args []string) error {
	path := args[0]

	if drawInPlace && drawOutput != "" {
		return printer.Error(
			"conflicting output flags",
			"--in-place and --output both name where the roster is written.",
			[]string{"Use only one of --in-place or --output"},
		)
	}

	format, err := report.ParseOutputFormat(drawFormat)
	if err != nil {
		return printer.Error("invalid output format", err.Error(), []string{"Valid formats: cards, table, jsonl"})
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if drawSave {
		if err := requireRedis(cfg, "draw --save"); err != nil {
			return err
		}
	}

	size := cfg.GroupSize()
	if cmd.Flags().Changed("size") {
		size = drawSize
	}
	strategyName := cfg.Grouping.Strategy
	if drawStrategy != "" {
		strategyName = drawStrategy
	}

	var rng *rand.Rand
	if drawSeed != 0 {
		rng = rand.New(rand.NewPCG(drawSeed, 0))
	}
	strategy, err := grouping.Lookup(strategyName, rng)
	if err != nil {
		return printer.Error("invalid grouping strategy", err.Error(), nil)
	}

	drawer, err := round.NewDrawer(strategy, size, cfg.Grouping.Prefix)
	if err != nil {
		return printer.Error("invalid group size", err.Error(), []string{"Use --size 1 or larger"})
	}

	t, err := readRoster(path)
	if err != nil {
		return err
	}

	res, err := drawer.Draw(t)
	if err != nil {
		return fmt.Errorf("draw failed: %w", err)
	}
	logger.Debug("round drawn",
		"roster", path,
		"column", res.Column,
		"strategy", res.Strategy,
		"groups", len(res.Groups),
		"repeats", res.Repeats)

	if err := writeGroups(format, res); err != nil {
		return err
	}
	quiet := format == report.OutputFormatJSONL

	if !quiet && res.Repeats > 0 {
		printer.Warning("%d of %d groups contain people who have met before\n", res.Repeats, len(res.Groups))
	}

	if drawDryRun {
		if !quiet {
			printer.Hint("Dry run: %s was not written\n", res.Column)
		}
		return nil
	}

	target := drawTarget(path, res.Column)
	if err := writeRoster(target, res.Table); err != nil {
		return printer.ErrorWithContext("cannot write roster", err.Error(), map[string]string{"File": target}, nil)
	}
	if !quiet {
		printer.Success("Recorded %s in %s\n", res.Column, target)
	}

	if drawSave {
		id, err := saveDraw(cmd.Context(), cfg, logger, filepath.Base(path), t, res)
		if err != nil {
			return err
		}
		if !quiet {
			printer.Info("Saved as roster %s\n", id)
		}
	}

	return nil
}

// writeGroups prints the drawn groups in the chosen format.
func writeGroups(format report.OutputFormat, res *round.Result) error {
	switch format {
	case report.OutputFormatTable:
		return report.GroupsTable(printer.Out, res.Column, res.Groups)
	case report.OutputFormatJSONL:
		return report.GroupsJSONL(printer.Out, res.Column, res.Groups)
	default:
		printer.Groups(res.Column, res.Groups)
		return nil
	}
}

// drawTarget picks where the updated roster goes.
func drawTarget(path, column string) string {
	switch {
	case drawInPlace:
		return path
	case drawOutput != "":
		return drawOutput
	default:
		return filepath.Join(filepath.Dir(path), round.FileName(column))
	}
}

// saveDraw stores the roster as drawn from, then appends the new round so
// watchers receive a round event.
func saveDraw(ctx context.Context, cfg *config.RouletteConfig, logger *slog.Logger, name string, t *roster.Table, res *round.Result) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s, err := openStore(cfg, logger)
	if err != nil {
		return "", err
	}
	defer s.Close()

	rec := store.NewRecord(name, cfg.Grouping.Prefix, t)
	if err := s.Save(ctx, rec); err != nil {
		return "", printer.Error("cannot save roster", err.Error(), []string{"Check that Redis is reachable at " + cfg.Store.RedisURL})
	}
	if _, err := s.AppendRound(ctx, rec.ID, res.Column, res.Table.Column(res.Column)); err != nil {
		return "", printer.ErrorWithContext("cannot save round", err.Error(), map[string]string{"Roster": rec.ID}, nil)
	}
	return rec.ID, nil
}
