package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the user-tunable settings of the plotter.
type Config struct {
	LogLevel    string `toml:"log_level"`
	RecentLimit int    `toml:"recent_limit"`
	Window      Window `toml:"window"`
	Chart       Chart  `toml:"chart"`
	Table       Table  `toml:"table"`
}

// Window is the initial main window size in device independent pixels.
type Window struct {
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

// Chart controls rendering and navigation of the plot.
type Chart struct {
	ZoomFactor    float64 `toml:"zoom_factor"`
	Margin        float64 `toml:"margin"`
	LineWidth     float64 `toml:"line_width"`
	MarkerSize    float64 `toml:"marker_size"`
	HighlightSize float64 `toml:"highlight_size"`
	ExportWidth   int     `toml:"export_width"`
	ExportHeight  int     `toml:"export_height"`
}

// Table controls the data grid.
type Table struct {
	ColumnWidth float32 `toml:"column_width"`
}

const defaultConfigPath = "~/.config/easy-plotter/config.toml"

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:    "info",
		RecentLimit: 10,
		Window:      Window{Width: 1200, Height: 800},
		Chart: Chart{
			ZoomFactor:    1.2,
			Margin:        0.05,
			LineWidth:     1.5,
			MarkerSize:    3,
			HighlightSize: 6,
			ExportWidth:   1024,
			ExportHeight:  768,
		},
		Table: Table{ColumnWidth: 110},
	}
}

// Load reads the TOML config at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize replaces values that cannot work with their defaults.
func (c *Config) normalize() {
	def := Default()

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.RecentLimit <= 0 {
		c.RecentLimit = def.RecentLimit
	}
	if c.Window.Width < 400 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height < 300 {
		c.Window.Height = def.Window.Height
	}
	if c.Chart.ZoomFactor <= 1 {
		c.Chart.ZoomFactor = def.Chart.ZoomFactor
	}
	if c.Chart.Margin < 0 || c.Chart.Margin >= 0.5 {
		c.Chart.Margin = def.Chart.Margin
	}
	if c.Chart.LineWidth <= 0 {
		c.Chart.LineWidth = def.Chart.LineWidth
	}
	if c.Chart.MarkerSize <= 0 {
		c.Chart.MarkerSize = def.Chart.MarkerSize
	}
	if c.Chart.HighlightSize <= 0 {
		c.Chart.HighlightSize = def.Chart.HighlightSize
	}
	if c.Chart.ExportWidth < 200 {
		c.Chart.ExportWidth = def.Chart.ExportWidth
	}
	if c.Chart.ExportHeight < 150 {
		c.Chart.ExportHeight = def.Chart.ExportHeight
	}
	if c.Table.ColumnWidth <= 0 {
		c.Table.ColumnWidth = def.Table.ColumnWidth
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
