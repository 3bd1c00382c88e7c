package commands

import (
	"github.com/dyluth/roulette/internal/printer"
	"github.com/dyluth/roulette/internal/report"
	"github.com/spf13/cobra"
)

var roundsCmd = &cobra.Command{
	Use:   "rounds FILE",
	Short: "List the rounds recorded in a roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		t, err := readRoster(args[0])
		if err != nil {
			return err
		}

		return report.RoundsTable(printer.Out, t, cfg.Grouping.Prefix)
	},
}

func init() {
	rootCmd.AddCommand(roundsCmd)
}
