package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/hsabsaboun/backend/internal/assistant"
	"github.com/hsabsaboun/backend/internal/auth"
	"github.com/hsabsaboun/backend/internal/config"
	"github.com/hsabsaboun/backend/internal/logging"
	"github.com/hsabsaboun/backend/internal/service"
	"github.com/hsabsaboun/backend/internal/store"
)

var (
	flagUser    string
	flagJSON    bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "hsabctl",
	Short:         "Inspect and maintain hsab user documents",
	Long:          "Read, reconcile and seed user finance documents in the configured store (STORE_BACKEND).",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", auth.LocalDevUserID, "User id to act on")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log at debug level")
}

// app bundles what every command needs.
type app struct {
	cfg   *config.Config
	store store.Store
	svc   *service.AgentService
	close func() error
}

// openApp is the shared setup path used by all commands.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logCfg := logging.FromStrings(cfg.LogLevel, cfg.LogFormat)
	if cfg.LogLevel == "" {
		logCfg.Level = slog.LevelWarn
	}
	if flagVerbose {
		logCfg.Level = slog.LevelDebug
	}
	logger := logging.Setup(logCfg)

	st, closeStore, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, err
	}

	svc := service.NewAgentService(st,
		assistant.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, logger),
		service.WithLocation(cfg.Location()),
		service.WithLogger(logger),
	)
	return &app{cfg: cfg, store: st, svc: svc, close: closeStore}, nil
}

// withApp wraps a command body with app setup and teardown.
func withApp(run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()
		return run(ctx, a, args)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
