package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	t.Setenv("LOJA_BACKEND_URL", "")
	t.Setenv("REACT_APP_BACKEND_URL", "")

	path := DefaultPath(t.TempDir())
	require.NoError(t, DefaultConfig().Save(path))

	changed := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { changed <- c })
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	cfg := DefaultConfig()
	cfg.UI.Theme = "dark"
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-changed:
		require.Equal(t, "dark", got.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_IgnoresInvalidConfig(t *testing.T) {
	path := DefaultPath(t.TempDir())
	require.NoError(t, DefaultConfig().Save(path))

	changed := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { changed <- c })
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("ui:\n  theme: neon\n"), 0644))

	select {
	case got := <-changed:
		t.Fatalf("unexpected reload with theme %q", got.UI.Theme)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(DefaultPath(t.TempDir()), func(*Config) {})
	require.NoError(t, err)
	w.Stop()
}
