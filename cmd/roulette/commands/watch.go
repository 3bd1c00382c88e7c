package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dyluth/roulette/internal/printer"
	"github.com/dyluth/roulette/internal/store"
	"github.com/dyluth/roulette/internal/watch"
	"github.com/spf13/cobra"
)

var (
	watchRoster  string
	watchOutput  string
	watchFor     string
	watchTimeout time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow rounds as they are drawn",
	Long: `Stream rounds drawn against the shared store in real time.

Every round recorded through the web UI or 'roulette draw --save' is
printed with its groups as soon as it is committed.

Requires store.backend: redis.

Output Formats:
  default - Human-readable output with timestamps
  jsonl   - Line-delimited JSON for programmatic processing

Examples:
  # Follow every roster in the namespace
  roulette watch

  # Only one roster, as JSON
  roulette watch --roster 3f2a9c --output jsonl

  # Block until Group_4 of a roster has been drawn
  roulette watch --roster 3f2a9c --for Group_4 --timeout 10m`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchRoster, "roster", "", "Only show rounds of this roster (ID or prefix)")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "default", "Output format (default or jsonl)")
	watchCmd.Flags().StringVar(&watchFor, "for", "", "Wait until this round column exists on --roster, then exit")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 5*time.Minute, "How long --for waits")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	var outputFormat watch.OutputFormat
	switch watchOutput {
	case "default":
		outputFormat = watch.OutputFormatDefault
	case "jsonl":
		outputFormat = watch.OutputFormatJSONL
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", watchOutput),
			[]string{"Valid formats: default, jsonl"},
		)
	}
	if watchFor != "" && watchRoster == "" {
		return printer.Error("--for needs --roster", "A round column only exists on a specific roster.", []string{"roulette watch --roster <id> --for " + watchFor})
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireRedis(cfg, "watch"); err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	rs, ok := s.(*store.RedisStore)
	if !ok {
		return fmt.Errorf("watch requires a Redis store, got %T", s)
	}

	if err := rs.Ping(ctx); err != nil {
		return printer.ErrorWithContext(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", cfg.Store.RedisURL),
			map[string]string{"Error": err.Error()},
			[]string{"Check that Redis is running and store.redis_url is correct"},
		)
	}

	rosterID := watchRoster
	if rosterID != "" {
		rosterID, err = rs.Resolve(ctx, watchRoster)
		if err != nil {
			return printer.Error(fmt.Sprintf("cannot resolve roster '%s'", watchRoster), err.Error(), []string{"List rosters:\n  roulette rosters"})
		}
	}

	if watchFor != "" {
		rec, err := watch.PollForRound(ctx, rs, rosterID, watchFor, watchTimeout)
		if err != nil {
			return printer.Error(fmt.Sprintf("%s was not drawn", watchFor), err.Error(), nil)
		}
		printer.Success("%s drawn for %s\n", watchFor, rec.Name)
		return nil
	}

	sub, err := rs.SubscribeRoundEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Close()

	if outputFormat == watch.OutputFormatDefault {
		printer.Hint("Watching namespace '%s' (Ctrl+C to stop)\n", cfg.Store.Namespace)
	}

	return watch.Stream(ctx, sub, printer.Out, watch.Options{
		Format:   outputFormat,
		RosterID: rosterID,
		OnError: func(err error) {
			logger.Warn("skipping round event", "error", err)
		},
	})
}
