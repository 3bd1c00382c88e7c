package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dyluth/roulette/internal/config"
	"github.com/dyluth/roulette/internal/logging"
	"github.com/dyluth/roulette/internal/printer"
	"github.com/dyluth/roulette/internal/store"
	"github.com/dyluth/roulette/pkg/roster"
)

// loadConfig reads --config, falling back to defaults when the file is absent.
func loadConfig() (*config.RouletteConfig, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, printer.ErrorWithContext(
			"invalid configuration",
			err.Error(),
			map[string]string{"Config": configPath},
			[]string{"Fix the file, or regenerate it:\n  roulette init --force"},
		)
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// newLogger builds the structured logger configured in cfg. Logs go to
// stderr so they never mix with command output.
func newLogger(cfg *config.RouletteConfig) (*slog.Logger, error) {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, printer.Error("invalid log settings", err.Error(), nil)
	}
	return logger, nil
}

// openStore connects the configured roster store.
func openStore(cfg *config.RouletteConfig, logger *slog.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		s, err := store.NewRedisStoreFromURL(cfg.Store.RedisURL, cfg.Store.Namespace, logger)
		if err != nil {
			return nil, printer.ErrorWithContext(
				"cannot open Redis store",
				err.Error(),
				map[string]string{"URL": cfg.Store.RedisURL},
				[]string{"Check store.redis_url in " + configPath},
			)
		}
		return s, nil
	default:
		return store.NewMemoryStore(), nil
	}
}

// requireRedis rejects commands that only make sense against a shared store.
func requireRedis(cfg *config.RouletteConfig, command string) error {
	if cfg.Store.Backend == config.BackendRedis {
		return nil
	}
	return printer.Error(
		fmt.Sprintf("'%s' needs the redis store backend", command),
		"The memory backend only lives as long as one process, so there is nothing to share.",
		[]string{fmt.Sprintf("Set store.backend: redis and store.redis_url in %s", configPath)},
	)
}

// readRoster loads and validates a roster CSV.
func readRoster(path string) (*roster.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, printer.Error(
			fmt.Sprintf("cannot open roster '%s'", path),
			err.Error(),
			[]string{"Create a sample roster:\n  roulette init"},
		)
	}
	defer f.Close()

	t, err := roster.ReadCSV(f)
	if err != nil {
		return nil, printer.ErrorWithContext("cannot read roster", err.Error(), map[string]string{"File": path}, nil)
	}
	if err := t.Validate(); err != nil {
		suggestions := []string{"Check the header row of the CSV"}
		if roster.IsMissingColumn(err) {
			suggestions = []string{fmt.Sprintf("Add the missing column to the header row:\n  %s,%s,...", roster.NameColumn, roster.TagColumn)}
		}
		return nil, printer.ErrorWithContext("invalid roster", err.Error(), map[string]string{"File": path}, suggestions)
	}
	return t, nil
}

// writeRoster writes t to path through a temporary file in the same
// directory, so a failed write never truncates an existing roster.
func writeRoster(path string, t *roster.Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".roulette-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := roster.WriteCSV(tmp, t); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
