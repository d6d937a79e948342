package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"loja/internal/backend"
	"loja/internal/config"
	"loja/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	backendURL string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "loja",
	Short: "Loja Online - terminal storefront",
	Long: `loja is a terminal client for the Loja Online storefront.

Browse the catalog by category, fill a cart and place orders against the
store's REST backend.

Run without arguments to open the interactive storefront.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive storefront owns the terminal; it logs to files.
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runStorefront,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Backend base URL (or set LOJA_BACKEND_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default: backend.timeout from config)")

	rootCmd.Flags().StringVar(&startRoute, "route", "", "Start route, e.g. /produtos or /categoria/geeks")

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveWorkspace returns the absolute workspace directory.
func resolveWorkspace() (string, error) {
	ws := workspace
	if ws == "" {
		var err error
		ws, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	return filepath.Abs(ws)
}

// loadConfig loads the workspace config and applies the global flags on top.
func loadConfig() (*config.Config, string, error) {
	ws, err := resolveWorkspace()
	if err != nil {
		return nil, "", err
	}
	path := config.DefaultPath(ws)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, nil
}

// applyFlagOverrides lets command-line flags win over file and environment.
func applyFlagOverrides(cfg *config.Config) {
	if backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}
	if timeout > 0 {
		cfg.Backend.Timeout = timeout.String()
	}
}

func newClient(cfg *config.Config) (*backend.Client, error) {
	client, err := backend.NewClient(cfg.Backend.BaseURL, cfg.GetBackendTimeout())
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	return client, nil
}

func initFileLogging(ws string, cfg *config.Config) error {
	return logging.Initialize(ws, logging.Options{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSON(),
		Categories: cfg.Logging.Categories,
	})
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
