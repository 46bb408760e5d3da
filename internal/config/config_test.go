package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Store)
	assert.Equal(t, "ratings.json", cfg.DataFile)
	assert.Equal(t, 10*time.Second, cfg.SaveTimeout)
	assert.Equal(t, 760, cfg.ChartWidth)
	assert.Equal(t, 500, cfg.SteepBelow)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:4321"}, cfg.Server.CORSOrigins)
}

func TestEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RATE_STORE", "sqlite")
	t.Setenv("RATE_SAVE_TIMEOUT", "2s")
	t.Setenv("RATED_CORS_ORIGINS", "http://a,http://b")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, 2*time.Second, cfg.SaveTimeout)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.CORSOrigins)
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RATE_THEME=neon\nRATE_CHART_WIDTH=420\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("RATE_THEME")
		os.Unsetenv("RATE_CHART_WIDTH")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "neon", cfg.Theme)
	assert.Equal(t, 420, cfg.ChartWidth)
}

func TestBadDuration(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RATE_SAVE_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}
