package main

import (
	"context"
	"fmt"
	"sync"

	"loja/cmd/loja/shop"
	"loja/internal/cart"
	"loja/internal/config"
	"loja/internal/logging"
	"loja/internal/router"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var startRoute string

// runStorefront starts the interactive storefront.
func runStorefront(cmd *cobra.Command, args []string) error {
	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initFileLogging(ws, cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Close()

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	logging.Boot("storefront starting (backend=%s)", client.BaseURL())

	opts := shop.OptionsFromConfig(cfg)
	if startRoute != "" {
		opts.StartRoute = router.Parse(startRoute)
	}

	model := shop.New(cart.NewStore(), client, opts)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, err := config.NewWatcher(path, reloadHandler(p, cfg.Backend.BaseURL))
	if err != nil {
		logging.Get(logging.CategoryConfig).Warn("config hot reload disabled: %v", err)
	} else if err := watcher.Start(ctx); err != nil {
		logging.Get(logging.CategoryConfig).Warn("config hot reload disabled: %v", err)
	} else {
		defer watcher.Stop()
	}

	_, err = p.Run()
	return err
}

// reloadHandler turns config file changes into ConfigReloadedMsg. A new
// backend client is built only when the base URL changes.
func reloadHandler(p *tea.Program, baseURL string) func(*config.Config) {
	var mu sync.Mutex
	current := baseURL

	return func(cfg *config.Config) {
		applyFlagOverrides(cfg)

		msg := shop.ConfigReloadedMsg{Config: cfg}

		mu.Lock()
		if cfg.Backend.BaseURL != current {
			client, err := newClient(cfg)
			if err != nil {
				logging.Get(logging.CategoryConfig).Error("ignoring backend change: %v", err)
			} else {
				msg.Backend = client
				current = cfg.Backend.BaseURL
			}
		}
		mu.Unlock()

		p.Send(msg)
	}
}
