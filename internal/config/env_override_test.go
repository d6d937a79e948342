package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_Backend(t *testing.T) {
	t.Run("LOJA_BACKEND_URL overrides file value", func(t *testing.T) {
		t.Setenv("LOJA_BACKEND_URL", "http://backend:9000")
		t.Setenv("REACT_APP_BACKEND_URL", "")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://backend:9000", cfg.Backend.BaseURL)
	})

	t.Run("legacy REACT_APP_BACKEND_URL is honored", func(t *testing.T) {
		t.Setenv("LOJA_BACKEND_URL", "")
		t.Setenv("REACT_APP_BACKEND_URL", "http://legacy:8001")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://legacy:8001", cfg.Backend.BaseURL)
	})

	t.Run("Precedence: LOJA_BACKEND_URL beats legacy", func(t *testing.T) {
		t.Setenv("LOJA_BACKEND_URL", "http://new:1")
		t.Setenv("REACT_APP_BACKEND_URL", "http://old:2")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://new:1", cfg.Backend.BaseURL)
	})

	t.Run("unset leaves value alone", func(t *testing.T) {
		t.Setenv("LOJA_BACKEND_URL", "")
		t.Setenv("REACT_APP_BACKEND_URL", "")

		cfg := &Config{Backend: BackendConfig{BaseURL: "http://keep"}}
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://keep", cfg.Backend.BaseURL)
	})
}

func TestEnvOverrides_Debug(t *testing.T) {
	t.Setenv("LOJA_DEBUG", "1")
	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.True(t, cfg.Logging.DebugMode)
	assert.True(t, cfg.Logging.IsCategoryEnabled("api"))
}
