package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"easy-plotter/internal/config"
	"easy-plotter/internal/logger"
	"easy-plotter/internal/models"
	"easy-plotter/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "points.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunRenderWritesPNG(t *testing.T) {
	source := writeCSV(t, "t,v,w\n0,1,5\n1,4,6\n2,9,7\n")
	out := filepath.Join(t.TempDir(), "chart.png")

	err := runRender(context.Background(), config.Default(), logger.Nop(), source, renderOptions{
		y:      "w",
		row:    2,
		out:    out,
		width:  500,
		height: 400,
	})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestRunRenderDefaultsToExportSize(t *testing.T) {
	source := writeCSV(t, "a,b\n1,2\n2,3\n")
	out := filepath.Join(t.TempDir(), "default.png")

	require.NoError(t, runRender(context.Background(), config.Default(), logger.Nop(), source, renderOptions{out: out}))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Chart.ExportWidth, cfg.Width)
}

func TestRunRenderErrors(t *testing.T) {
	source := writeCSV(t, "a,b,label\n1,2,x\n2,3,y\n")
	out := filepath.Join(t.TempDir(), "never.png")
	ctx := context.Background()
	cfg := config.Default()

	err := runRender(ctx, cfg, logger.Nop(), source, renderOptions{x: "missing", out: out})
	assert.ErrorIs(t, err, models.ErrUnknownColumn)

	err = runRender(ctx, cfg, logger.Nop(), source, renderOptions{row: 3, out: out})
	assert.ErrorIs(t, err, models.ErrRowOutOfRange)

	err = runRender(ctx, cfg, logger.Nop(), source, renderOptions{y: "label", out: out})
	assert.ErrorIs(t, err, services.ErrNothingToPlot)

	err = runRender(ctx, cfg, logger.Nop(), filepath.Join(t.TempDir(), "absent.csv"), renderOptions{out: out})
	assert.ErrorIs(t, err, services.ErrUnreadableSource)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootCommandFlags(t *testing.T) {
	root := newRootCommand()

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))

	render, _, err := root.Find([]string{"render"})
	require.NoError(t, err)
	for _, name := range []string{"x", "y", "row", "out", "width", "height"} {
		assert.NotNil(t, render.Flags().Lookup(name), name)
	}
}

func TestRenderCommandEndToEnd(t *testing.T) {
	source := writeCSV(t, "a,b\n1,2\n2,3\n")
	out := filepath.Join(t.TempDir(), "cli.png")
	cfgPath := filepath.Join(t.TempDir(), "missing.toml")

	root := newRootCommand()
	root.SetArgs([]string{"render", source, "--out", out, "--config", cfgPath, "--log-level", "error", "--width", "300", "--height", "240"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(out)
	assert.NoError(t, err)
}
