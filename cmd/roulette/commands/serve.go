package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dyluth/roulette/internal/auth"
	"github.com/dyluth/roulette/internal/grouping"
	"github.com/dyluth/roulette/internal/metrics"
	"github.com/dyluth/roulette/internal/printer"
	"github.com/dyluth/roulette/internal/web"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the password-protected web UI",
	Long: `Run the coffee roulette web UI.

Users upload a roster CSV, see the drawn groups and download the updated
roster. Every page except /healthz and /metrics asks for the shared
password, read from the environment variable named by auth.credential_env
(default ROULETTE_PASSWORD).

With store.backend: memory, uploaded rosters are lost on restart.

Examples:
  ROULETTE_PASSWORD=s3cret roulette serve
  ROULETTE_PASSWORD=s3cret roulette serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	credential, err := cfg.Credential()
	if err != nil {
		return printer.Error(
			"no web password configured",
			err.Error(),
			[]string{fmt.Sprintf("export %s=<shared password>", cfg.Auth.CredentialEnv)},
		)
	}
	gate, err := auth.NewGate(credential)
	if err != nil {
		return err
	}

	strategy, err := grouping.Lookup(cfg.Grouping.Strategy, nil)
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

	if err := s.Ping(ctx); err != nil {
		return printer.ErrorWithContext(
			"store unavailable",
			err.Error(),
			map[string]string{"Backend": cfg.Store.Backend},
			[]string{"Check that Redis is running and store.redis_url is correct"},
		)
	}

	srv, err := web.New(web.Options{
		Store:     s,
		Strategy:  strategy,
		GroupSize: cfg.GroupSize(),
		Prefix:    cfg.Grouping.Prefix,
		Gate:      gate,
		Metrics:   metrics.NewCollector(),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	if err := srv.Start(addr); err != nil {
		return printer.ErrorWithContext(
			"cannot start web server",
			err.Error(),
			map[string]string{"Address": addr},
			[]string{"Pick a free address:\n  roulette serve --addr :8081"},
		)
	}
	printer.Success("Serving coffee roulette on %s\n", srv.Addr())

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
