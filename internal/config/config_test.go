package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ParsesValues(t *testing.T) {
	path := writeConfig(t, `
log_level = " DEBUG "
recent_limit = 4

[window]
width = 900.0
height = 700.0

[chart]
zoom_factor = 1.5
margin = 0.1
marker_size = 5.0
export_width = 640
export_height = 480
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4, cfg.RecentLimit)
	assert.Equal(t, float32(900), cfg.Window.Width)
	assert.Equal(t, float32(700), cfg.Window.Height)
	assert.Equal(t, 1.5, cfg.Chart.ZoomFactor)
	assert.Equal(t, 0.1, cfg.Chart.Margin)
	assert.Equal(t, 5.0, cfg.Chart.MarkerSize)
	assert.Equal(t, 640, cfg.Chart.ExportWidth)
	assert.Equal(t, 480, cfg.Chart.ExportHeight)
	// untouched keys keep their defaults
	assert.Equal(t, Default().Chart.HighlightSize, cfg.Chart.HighlightSize)
	assert.Equal(t, Default().Table.ColumnWidth, cfg.Table.ColumnWidth)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	path := writeConfig(t, `
[chart]
zoom_factor = 0.8
margin = -1.0
line_width = 0.0

[window]
width = 10.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Chart.ZoomFactor, cfg.Chart.ZoomFactor)
	assert.Equal(t, def.Chart.Margin, cfg.Chart.Margin)
	assert.Equal(t, def.Chart.LineWidth, cfg.Chart.LineWidth)
	assert.Equal(t, def.Window.Width, cfg.Window.Width)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "log_level = [unterminated")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/plots/config.toml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "plots", "config.toml"), got)

	_, err = expandPath("   ")
	assert.Error(t, err)
}
