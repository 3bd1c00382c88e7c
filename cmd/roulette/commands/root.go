package commands

import (
	"fmt"

	"github.com/dyluth/roulette/internal/config"
	"github.com/dyluth/roulette/internal/printer"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

var (
	configPath string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roulette",
	Short: "Coffee roulette - draw small groups that haven't met yet",
	Long: `Roulette pairs colleagues for informal coffee chats.

A roster is a CSV file with Name and Branch columns. Every draw appends a
round column (Group_1, Group_2, ...) recording who sat together, and later
draws use those columns to avoid putting people together again.

Rosters can be drawn locally with 'roulette draw', or uploaded through the
password-protected web UI started by 'roulette serve'.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	// Unknown flags are an error, not silently ignored
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute runs the root command. Cobra's own error and usage output is
// silenced; errors not already reported by the printer package are printed
// here.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err != nil && !printer.IsReported(err) {
		printer.Error("Error: "+err.Error(), "", nil)
	}
	return err
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to roulette.yml (defaults apply if it does not exist)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
}
