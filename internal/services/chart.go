package services

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strconv"
	"time"

	"easy-plotter/internal/config"
	"easy-plotter/internal/logger"
	"easy-plotter/internal/models"
	"easy-plotter/internal/viewport"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	minChartWidth  = 240
	minChartHeight = 180

	selectedPointLabel = "Selected Point"
)

var (
	lineColor      = drawing.ColorFromHex("1f77b4")
	highlightColor = drawing.ColorRed
	guideColor     = drawing.ColorFromHex("808080").WithAlpha(128)
)

// RenderRequest describes one frame of the chart
type RenderRequest struct {
	Table     *models.Table
	Selection models.AxisSelection
	View      viewport.View
	Highlight int
	Width     int
	Height    int
}

// Rendering is a drawn chart plus the mapping from its pixels to data
type Rendering struct {
	Image     image.Image
	Transform viewport.Transform
	Markers   int
	Highlight bool
}

// ChartService draws line charts of a column pair with go-chart
type ChartService struct {
	options config.Chart
	logger  logger.Logger
}

// NewChartService creates a chart service with the given chart settings
func NewChartService(options config.Chart, log logger.Logger) *ChartService {
	return &ChartService{options: options, logger: log}
}

// InitialView returns the padded data extent of the selection
func (cs *ChartService) InitialView(table *models.Table, sel models.AxisSelection) (viewport.View, error) {
	series, err := plottable(table, sel)
	if err != nil {
		return viewport.View{}, err
	}
	view, ok := viewport.Fit(series.X, series.Y, cs.options.Margin)
	if !ok {
		return viewport.View{}, ErrNothingToPlot
	}
	return view, nil
}

// ZoomFactor returns the configured per-step zoom factor
func (cs *ChartService) ZoomFactor() float64 {
	return cs.options.ZoomFactor
}

// Render draws the request into an image
func (cs *ChartService) Render(req RenderRequest) (*Rendering, error) {
	startTime := time.Now()

	var buf bytes.Buffer
	result, err := cs.RenderPNG(&buf, req)
	if err != nil {
		return nil, err
	}

	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	result.Image = img

	cs.logger.Debug("ChartService", "chart rendered", map[string]interface{}{
		"width":     req.Width,
		"height":    req.Height,
		"markers":   result.Markers,
		"view":      req.View.String(),
		"render_ms": time.Since(startTime).Milliseconds(),
	})
	return result, nil
}

// RenderPNG writes the chart as PNG to w. The returned rendering carries
// no image.
func (cs *ChartService) RenderPNG(w io.Writer, req RenderRequest) (*Rendering, error) {
	ch, result, plotBox, err := cs.build(req)
	if err != nil {
		return nil, err
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	result.Transform = viewport.Transform{
		Left:   plotBox.Left,
		Top:    plotBox.Top,
		Right:  plotBox.Right,
		Bottom: plotBox.Bottom,
		View:   req.View,
	}
	return result, nil
}

// Export renders the request at the configured export size
func (cs *ChartService) Export(w io.Writer, req RenderRequest) error {
	req.Width = cs.options.ExportWidth
	req.Height = cs.options.ExportHeight
	_, err := cs.RenderPNG(w, req)
	return err
}

// build assembles the go-chart definition. The returned box is filled in
// with the final plot area once the chart has been rendered.
func (cs *ChartService) build(req RenderRequest) (chart.Chart, *Rendering, *chart.Box, error) {
	series, err := plottable(req.Table, req.Selection)
	if err != nil {
		return chart.Chart{}, nil, nil, err
	}
	if !req.View.Valid() {
		return chart.Chart{}, nil, nil, fmt.Errorf("invalid view %s", req.View)
	}

	view := req.View
	points := make([]viewport.Point, series.Len())
	for i := range points {
		points[i] = viewport.Point{X: series.X[i], Y: series.Y[i]}
	}

	result := &Rendering{}
	chartSeries := []chart.Series{frameSeries(view)}

	for _, run := range viewport.Polylines(view, points) {
		xs, ys := split(run)
		chartSeries = append(chartSeries, chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: lineColor,
				StrokeWidth: cs.options.LineWidth,
			},
		})
	}

	if visible := viewport.Visible(view, points); len(visible) > 0 {
		xs, ys := split(visible)
		chartSeries = append(chartSeries, chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style:   dotStyle(lineColor, cs.options.MarkerSize),
		})
		result.Markers = len(visible)
	}

	var elements []chart.Renderable
	plotBox := &chart.Box{}

	if req.Highlight != models.NoRow {
		x, y, err := req.Table.Point(req.Highlight, req.Selection.X, req.Selection.Y)
		if err != nil {
			return chart.Chart{}, nil, nil, err
		}
		selected := viewport.Point{X: x, Y: y}
		if math.IsNaN(x) || math.IsNaN(y) {
			return chart.Chart{}, nil, nil, fmt.Errorf("row %d: %w", req.Highlight+1, ErrNothingToPlot)
		}
		if view.Contains(selected) {
			chartSeries = append(chartSeries, chart.ContinuousSeries{
				XValues: []float64{x},
				YValues: []float64{y},
				Style:   dotStyle(highlightColor, cs.options.HighlightSize),
			})
		}
		result.Highlight = true
		elements = append(elements,
			crosshair(view, selected),
			pointLegend(selectedPointLabel, highlightColor, cs.options.HighlightSize),
		)
	}
	elements = append(elements, probe(plotBox))

	ch := chart.Chart{
		Title:  req.Selection.Title(),
		Width:  clamp(req.Width, minChartWidth),
		Height: clamp(req.Height, minChartHeight),
		Background: chart.Style{
			Padding: chart.Box{Top: 44, Left: 16, Right: 12, Bottom: 12},
		},
		XAxis: chart.XAxis{
			Name:           req.Selection.X,
			Range:          &chart.ContinuousRange{Min: view.X.Min, Max: view.X.Max},
			ValueFormatter: tickFormatter(view.X.Span()),
		},
		YAxis: chart.YAxis{
			Name:           req.Selection.Y,
			Range:          &chart.ContinuousRange{Min: view.Y.Min, Max: view.Y.Max},
			ValueFormatter: tickFormatter(view.Y.Span()),
		},
		Series:   chartSeries,
		Elements: elements,
	}

	return ch, result, plotBox, nil
}

func plottable(table *models.Table, sel models.AxisSelection) (models.Series, error) {
	if !sel.Valid(table) {
		return models.Series{}, fmt.Errorf("columns %q and %q: %w", sel.X, sel.Y, models.ErrUnknownColumn)
	}
	series, err := table.Series(sel)
	if err != nil {
		return models.Series{}, err
	}
	if series.Len() == 0 {
		return models.Series{}, ErrNothingToPlot
	}
	return series, nil
}

// frameSeries spans the view with an invisible stroke so the chart always
// has a visible series, even when every data point is scrolled away.
func frameSeries(view viewport.View) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: []float64{view.X.Min, view.X.Max},
		YValues: []float64{view.Y.Min, view.Y.Max},
		Style: chart.Style{
			StrokeColor: drawing.ColorTransparent,
			StrokeWidth: 1,
		},
	}
}

func dotStyle(color drawing.Color, size float64) chart.Style {
	return chart.Style{
		StrokeColor: drawing.ColorTransparent,
		StrokeWidth: 1,
		DotColor:    color,
		DotWidth:    size,
	}
}

func split(points []viewport.Point) ([]float64, []float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

func clamp(v, min int) int {
	if v < min {
		return min
	}
	return v
}

// probe records the final plot box. It must be the last element.
func probe(box *chart.Box) chart.Renderable {
	return func(_ chart.Renderer, cb chart.Box, _ chart.Style) {
		*box = cb
	}
}

// crosshair draws dashed guides through p across the whole plot area
func crosshair(view viewport.View, p viewport.Point) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, _ chart.Style) {
		t := viewport.Transform{Left: cb.Left, Top: cb.Top, Right: cb.Right, Bottom: cb.Bottom, View: view}
		px, py := t.ToPixel(p)

		r.SetStrokeColor(guideColor)
		r.SetStrokeWidth(1)
		r.SetStrokeDashArray([]float64{5, 5})

		if view.X.Contains(p.X) {
			r.MoveTo(px, cb.Top)
			r.LineTo(px, cb.Bottom)
			r.Stroke()
		}
		if view.Y.Contains(p.Y) {
			r.MoveTo(cb.Left, py)
			r.LineTo(cb.Right, py)
			r.Stroke()
		}
		r.SetStrokeDashArray(nil)
	}
}

// pointLegend is a single-entry legend showing a dot marker, laid out like
// chart.Legend in the top left corner of the plot.
func pointLegend(label string, color drawing.Color, radius float64) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		style := defaults.InheritFrom(chart.Style{
			FillColor:   drawing.ColorWhite,
			FontColor:   chart.DefaultTextColor,
			FontSize:    8.0,
			StrokeColor: chart.DefaultAxisColor,
			StrokeWidth: chart.DefaultAxisLineWidth,
		})

		style.GetTextOptions().WriteToRenderer(r)
		tb := r.MeasureText(label)

		const pad, gap = 5, 5
		dot := int(math.Ceil(radius))
		contentHeight := tb.Height()
		if 2*dot > contentHeight {
			contentHeight = 2 * dot
		}

		box := chart.Box{Top: cb.Top + pad, Left: cb.Left + pad}
		box.Right = box.Left + pad + 2*dot + gap + tb.Width() + pad
		box.Bottom = box.Top + pad + contentHeight + pad
		chart.Draw.Box(r, box, style)

		cy := box.Top + pad + contentHeight/2
		r.SetFillColor(color)
		r.SetStrokeColor(color)
		r.SetStrokeWidth(1)
		r.Circle(radius, box.Left+pad+dot, cy)
		r.FillStroke()

		style.GetTextOptions().WriteToRenderer(r)
		r.Text(label, box.Left+pad+2*dot+gap, cy+tb.Height()/2)
	}
}

// tickFormatter prints axis labels with enough decimals for the span
func tickFormatter(span float64) chart.ValueFormatter {
	decimals := 0
	if span > 0 && !math.IsInf(span, 0) {
		decimals = int(math.Max(0, math.Ceil(-math.Log10(span))+2))
		if decimals > 8 {
			decimals = 8
		}
	}
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return fmt.Sprintf("%v", v)
		}
		if f == 0 {
			return "0"
		}
		if math.Abs(f) >= 1e7 {
			return strconv.FormatFloat(f, 'g', 6, 64)
		}
		return strconv.FormatFloat(f, 'f', decimals, 64)
	}
}
