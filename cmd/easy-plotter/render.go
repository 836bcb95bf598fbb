package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"easy-plotter/internal/config"
	"easy-plotter/internal/logger"
	"easy-plotter/internal/models"
	"easy-plotter/internal/services"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
)

type renderOptions struct {
	x      string
	y      string
	row    int
	out    string
	width  int
	height int
}

func newRenderCommand(global *globalOptions) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a chart to PNG without opening a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := global.load()
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, log, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.x, "x", "", "Column for the x axis (default: first column)")
	cmd.Flags().StringVar(&opts.y, "y", "", "Column for the y axis (default: second column)")
	cmd.Flags().IntVar(&opts.row, "row", 0, "1-based row to highlight")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "chart.png", "Output path or URL")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Image width in pixels (default: chart.export_width)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Image height in pixels (default: chart.export_height)")

	return cmd
}

// runRender loads source, draws the selected columns at the fitted view and
// uploads the PNG to opts.out
func runRender(ctx context.Context, cfg config.Config, log logger.Logger, source string, opts renderOptions) error {
	tables := services.NewTableService(models.NewTableRepository(), log)
	data, err := tables.LoadURL(ctx, source)
	if err != nil {
		return err
	}

	sel := models.DefaultSelection(data.Table)
	if opts.x != "" {
		sel.X = opts.x
	}
	if opts.y != "" {
		sel.Y = opts.y
	}
	if !sel.Valid(data.Table) {
		return fmt.Errorf("columns %q and %q: %w", sel.X, sel.Y, models.ErrUnknownColumn)
	}

	highlight := models.NoRow
	if opts.row != 0 {
		if opts.row < 1 || opts.row > data.Table.RowCount() {
			return fmt.Errorf("row %d of %d: %w", opts.row, data.Table.RowCount(), models.ErrRowOutOfRange)
		}
		highlight = opts.row - 1
	}

	charts := services.NewChartService(cfg.Chart, log)
	view, err := charts.InitialView(data.Table, sel)
	if err != nil {
		return err
	}

	width, height := opts.width, opts.height
	if width <= 0 {
		width = cfg.Chart.ExportWidth
	}
	if height <= 0 {
		height = cfg.Chart.ExportHeight
	}

	var buf bytes.Buffer
	result, err := charts.RenderPNG(&buf, services.RenderRequest{
		Table:     data.Table,
		Selection: sel,
		View:      view,
		Highlight: highlight,
		Width:     width,
		Height:    height,
	})
	if err != nil {
		return err
	}

	target := opts.out
	if !strings.Contains(target, "://") {
		if abs, err := filepath.Abs(target); err == nil {
			target = abs
		}
	}
	if err := afs.New().Upload(ctx, target, 0o644, &buf); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	log.Info("Render", "chart written", map[string]interface{}{
		"source":    source,
		"target":    target,
		"x":         sel.X,
		"y":         sel.Y,
		"markers":   result.Markers,
		"highlight": result.Highlight,
	})
	return nil
}
