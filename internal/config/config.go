// Package config loads the storefront client configuration from
// .loja/config.yaml with environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all loja configuration.
type Config struct {
	Name string `yaml:"name"`

	// Backend REST API
	Backend BackendConfig `yaml:"backend"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig configures the storefront REST backend.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`

	// SeedOnStart calls POST /api/init-data once when the home page loads.
	SeedOnStart bool `yaml:"seed_on_start"`
}

// UIConfig configures the interactive storefront.
type UIConfig struct {
	Theme      string `yaml:"theme"`       // auto, light, dark
	StartRoute string `yaml:"start_route"` // e.g. "/", "/produtos", "/carrinho"
	WordWrap   int    `yaml:"word_wrap"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "Loja Online",
		Backend: BackendConfig{
			BaseURL:     "http://localhost:8001",
			Timeout:     "15s",
			SeedOnStart: true,
		},
		UI: UIConfig{
			Theme:      "auto",
			StartRoute: "/",
			WordWrap:   80,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},
	}
}

// DefaultPath returns workspace/.loja/config.yaml.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".loja", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// Legacy variable from the web build; LOJA_BACKEND_URL wins.
	if u := os.Getenv("REACT_APP_BACKEND_URL"); u != "" {
		c.Backend.BaseURL = u
	}
	if u := os.Getenv("LOJA_BACKEND_URL"); u != "" {
		c.Backend.BaseURL = u
	}
	if os.Getenv("LOJA_DEBUG") == "1" {
		c.Logging.DebugMode = true
	}
}

// GetBackendTimeout returns the per-request timeout as a duration.
func (c *Config) GetBackendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"auto", "light", "dark"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL not configured (set backend.base_url or LOJA_BACKEND_URL)")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid backend base URL %q: %w", c.Backend.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid backend base URL %q: scheme must be http or https", c.Backend.BaseURL)
	}
	if c.Backend.Timeout != "" {
		if _, err := time.ParseDuration(c.Backend.Timeout); err != nil {
			return fmt.Errorf("invalid backend timeout %q: %w", c.Backend.Timeout, err)
		}
	}

	validTheme := c.UI.Theme == ""
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	return nil
}
