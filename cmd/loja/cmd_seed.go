package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedCmd loads the backend's demo catalog
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo catalog into the backend",
	Long: `Calls the backend's init-data endpoint. The call is idempotent: a
backend that already has products answers with a notice and changes nothing.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), cfg.GetBackendTimeout())
	defer cancel()

	msg, err := client.SeedDemoData(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	logger.Info("Demo data requested", zap.String("backend", client.BaseURL()), zap.String("reply", msg))
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
