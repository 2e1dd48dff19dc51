// Package app provides the commands of the zohosync operator CLI.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/bootstrap"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/config"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/logger"
)

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "zohosync",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Zoho Books connector operator CLI",
		Long: `zohosync connects the ERP to Zoho Books, pulls customers and items,
and pushes sales invoices. It reads the same config.toml as the server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().String("config", "", "Path to config file (default: search ., ./config, /etc/zohosync)")
	root.PersistentFlags().String("log-level", "", "Override the configured log level")
	root.PersistentFlags().Duration("timeout", 10*time.Minute, "Abort the command after this long")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newSyncCmd())
	root.AddCommand(newPushCmd())

	return root
}

// runWithApp loads configuration, builds the connector and runs fn. Ctrl-C
// cancels the context passed to fn.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, app *bootstrap.App) error) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to get timeout flag: %w", err)
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	// The server owns the scheduler.
	cfg.Scheduler.Enabled = false

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := app.Close(closeCtx); err != nil {
			log.Warn("Error releasing resources", zap.Error(err))
		}
	}()

	return fn(ctx, app)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
