package commands

import (
	"github.com/dyluth/roulette/internal/filter"
	"github.com/dyluth/roulette/internal/printer"
	"github.com/dyluth/roulette/internal/report"
	"github.com/dyluth/roulette/pkg/roster"
	"github.com/spf13/cobra"
)

var historyBranch string

var historyCmd = &cobra.Command{
	Use:   "history FILE",
	Short: "Show who has already met whom",
	Long: `Show the pairing history recorded in a roster's round columns.

Two people have met if they shared a group label in any earlier round.

Examples:
  # Everyone's partners so far
  roulette history roster.csv

  # Only people in branches starting with "Lon"
  roulette history roster.csv --branch 'Lon*'`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyBranch, "branch", "", "Only show participants whose branch matches this glob")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	t, err := readRoster(args[0])
	if err != nil {
		return err
	}

	criteria := &filter.Criteria{BranchGlob: historyBranch}
	pairings := roster.ExtractPairings(t, cfg.Grouping.Prefix)

	return report.PairingsTable(printer.Out, criteria.Participants(t), pairings)
}
