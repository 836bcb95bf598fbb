package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"sync"
	"time"

	"easy-plotter/internal/logger"
	"easy-plotter/internal/models"
	"easy-plotter/internal/services"
	"easy-plotter/internal/viewport"
)

const (
	loadTimeout   = 30 * time.Second
	exportTimeout = 30 * time.Second

	emptyChartMessage = "Open a data file to plot two of its columns"
)

// View is what the controller needs from the main window
type View interface {
	SetOpenHandler(handler func())
	SetOpenRecentHandler(handler func(string))
	SetAxisChangeHandlers(x, y func(string))
	SetRowSelectHandler(handler func(int))
	SetResetViewHandler(handler func())
	SetExportHandler(handler func())
	SetChartHandlers(handlers ChartHandlers)

	SetTable(table *models.Table)
	SetColumns(columns []string, selection models.AxisSelection)
	SetChart(img image.Image)
	ChartSize() (int, int)
	EnableChartOperations(enabled bool)
	SetRecentFiles(sources []string)
	SetBusy(busy bool, stage string)

	UpdateStatus(status string)
	UpdateSourceInfo(source string, rows, columns int)
	UpdateViewRange(view viewport.View)

	ChooseSource(extensions []string, onChosen func(name string, r io.ReadCloser))
	ChooseExportTarget(suggested string, onChosen func(name string, w io.WriteCloser))
	ShowError(title string, err error)
}

// ChartHandlers receive mouse input on the chart in image pixels
type ChartHandlers struct {
	Zoom     func(x, y float64, d viewport.Direction)
	PanStart func(x, y float64)
	PanMove  func(x, y float64)
	PanEnd   func()
	Resized  func()
}

// MainController ties table loading and chart navigation to the view
type MainController struct {
	tableService *services.TableService
	chartService *services.ChartService
	tableRepo    *models.TableRepository
	recent       *models.RecentFiles
	logger       logger.Logger

	mainView View

	mu        sync.Mutex
	selection models.AxisSelection
	state     models.ViewState
	transform viewport.Transform
	pan       viewport.Pan
	renders   int
}

// NewMainController creates a controller over the given services
func NewMainController(
	tableService *services.TableService,
	chartService *services.ChartService,
	tableRepo *models.TableRepository,
	recent *models.RecentFiles,
	log logger.Logger,
) *MainController {
	return &MainController{
		tableService: tableService,
		chartService: chartService,
		tableRepo:    tableRepo,
		recent:       recent,
		logger:       log,
		state:        models.NewViewState(),
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view View) {
	mc.mainView = view
	mc.setupViewEventHandlers()

	view.EnableChartOperations(false)
	view.SetRecentFiles(mc.recent.List())
	view.UpdateStatus("Ready")

	w, h := view.ChartSize()
	view.SetChart(services.Placeholder(w, h, emptyChartMessage))
}

func (mc *MainController) setupViewEventHandlers() {
	mc.mainView.SetOpenHandler(mc.OpenFile)
	mc.mainView.SetOpenRecentHandler(mc.OpenLocation)
	mc.mainView.SetAxisChangeHandlers(mc.SelectX, mc.SelectY)
	mc.mainView.SetRowSelectHandler(mc.SelectRow)
	mc.mainView.SetResetViewHandler(mc.ResetView)
	mc.mainView.SetExportHandler(mc.Export)
	mc.mainView.SetChartHandlers(ChartHandlers{
		Zoom:     mc.Zoom,
		PanStart: mc.PanStart,
		PanMove:  mc.PanMove,
		PanEnd:   mc.PanEnd,
		Resized:  mc.Resize,
	})
}

// OpenFile asks the user for a table source and loads it in the background
func (mc *MainController) OpenFile() {
	mc.mainView.ChooseSource(services.SupportedExtensions(), func(name string, r io.ReadCloser) {
		go func() {
			defer r.Close()
			ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
			defer cancel()
			mc.LoadSource(ctx, name, r)
		}()
	})
}

// OpenLocation loads a path or URL in the background, as used by the recent
// files list and the command line
func (mc *MainController) OpenLocation(location string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		mc.LoadLocation(ctx, location)
	}()
}

// LoadSource reads a table from r. On failure the error is shown and the
// previous table stays in place.
func (mc *MainController) LoadSource(ctx context.Context, name string, r io.Reader) error {
	mc.mainView.UpdateStatus(fmt.Sprintf("Loading %s...", name))
	mc.mainView.SetBusy(true, "Loading")
	defer mc.mainView.SetBusy(false, "")

	data, err := mc.tableService.Load(ctx, name, r)
	if err != nil {
		mc.loadFailed(name, err)
		return err
	}
	mc.applyTable(data)
	return nil
}

// LoadLocation reads a table from a path or URL
func (mc *MainController) LoadLocation(ctx context.Context, location string) error {
	mc.mainView.UpdateStatus(fmt.Sprintf("Loading %s...", location))
	mc.mainView.SetBusy(true, "Loading")
	defer mc.mainView.SetBusy(false, "")

	data, err := mc.tableService.LoadURL(ctx, location)
	if err != nil {
		if errors.Is(err, services.ErrUnreadableSource) {
			mc.mainView.SetRecentFiles(mc.recent.Remove(location))
		}
		mc.loadFailed(location, err)
		return err
	}
	mc.applyTable(data)
	return nil
}

func (mc *MainController) loadFailed(source string, err error) {
	mc.logger.Error("MainController", err, map[string]interface{}{
		"operation": "load",
		"source":    source,
	})
	mc.handleError("Load failed", err)
	mc.mainView.UpdateStatus("Ready")
}

func (mc *MainController) applyTable(data *models.TableData) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.selection = models.DefaultSelection(data.Table)
	mc.state = models.NewViewState()
	mc.transform = viewport.Transform{}
	mc.pan.End()

	mc.mainView.SetTable(data.Table)
	mc.mainView.SetColumns(data.Table.Columns(), mc.selection)
	mc.mainView.UpdateSourceInfo(data.Source, data.Table.RowCount(), data.Table.ColumnCount())
	mc.mainView.SetRecentFiles(mc.recent.Add(data.Source))

	mc.replotLocked()
	mc.mainView.UpdateStatus(fmt.Sprintf("Loaded %d rows", data.Table.RowCount()))
}

// SelectX changes the x column and replots from the fitted view
func (mc *MainController) SelectX(column string) {
	mc.selectAxes(func(sel *models.AxisSelection) { sel.X = column })
}

// SelectY changes the y column and replots from the fitted view
func (mc *MainController) SelectY(column string) {
	mc.selectAxes(func(sel *models.AxisSelection) { sel.Y = column })
}

func (mc *MainController) selectAxes(update func(*models.AxisSelection)) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	table := mc.tableRepo.Table()
	next := mc.selection
	update(&next)
	if next == mc.selection || !next.Valid(table) {
		return
	}

	mc.selection = next
	mc.state.Highlight = models.NoRow
	mc.pan.End()
	mc.replotLocked()
}

// SelectRow highlights the point of a table row. Rows without a numeric
// point and out-of-range rows are ignored.
func (mc *MainController) SelectRow(row int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	table := mc.tableRepo.Table()
	if !mc.selection.Valid(table) || row < 0 || row >= table.RowCount() {
		return
	}
	x, y, err := table.Point(row, mc.selection.X, mc.selection.Y)
	if err != nil || !finite(x) || !finite(y) {
		mc.logger.Debug("MainController", "row has no plottable point", map[string]interface{}{
			"row": row + 1,
		})
		return
	}

	mc.state.Highlight = row
	mc.pan.End()
	mc.replotLocked()
}

// ResetView restores the fitted view, keeping any highlight
func (mc *MainController) ResetView() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.state.Ready {
		return
	}
	mc.pan.End()
	mc.replotLocked()
}

// Zoom scales the view around the cursor. The cursor is in chart image
// pixels; zooming outside the plot area does nothing.
func (mc *MainController) Zoom(x, y float64, d viewport.Direction) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.state.Ready {
		return
	}
	view, ok := viewport.ZoomAt(mc.state.Range, mc.transform, x, y, d, mc.chartService.ZoomFactor())
	if !ok {
		return
	}
	mc.setRangeLocked(view)
}

// PanStart anchors a drag at the cursor
func (mc *MainController) PanStart(x, y float64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.state.Ready {
		return
	}
	mc.pan.Start(x, y, mc.state.Range, mc.transform)
}

// PanMove drags the view so the anchored data point follows the cursor
func (mc *MainController) PanMove(x, y float64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	view, ok := mc.pan.Move(x, y)
	if !ok {
		return
	}
	mc.setRangeLocked(view)
}

// PanEnd finishes a drag
func (mc *MainController) PanEnd() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.pan.End()
}

// Resize redraws the chart at the current canvas size
func (mc *MainController) Resize() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if !mc.state.Ready {
		w, h := mc.mainView.ChartSize()
		mc.mainView.SetChart(services.Placeholder(w, h, emptyChartMessage))
		return
	}
	mc.renderLocked()
}

// Export asks for a target and writes the current chart as PNG
func (mc *MainController) Export() {
	if !mc.Ready() {
		return
	}
	mc.mainView.ChooseExportTarget("chart.png", func(name string, w io.WriteCloser) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
			defer cancel()

			err := mc.ExportPNG(ctx, w)
			if closeErr := w.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				mc.logger.Error("MainController", err, map[string]interface{}{
					"operation": "export",
					"target":    name,
				})
				mc.handleError("Export failed", err)
				return
			}
			mc.mainView.UpdateStatus(fmt.Sprintf("Exported %s", name))
		}()
	})
}

// ExportPNG renders the current view, highlight included, to w
func (mc *MainController) ExportPNG(ctx context.Context, w io.Writer) error {
	mc.mu.Lock()
	req, ok := mc.requestLocked()
	mc.mu.Unlock()
	if !ok {
		return services.ErrNothingToPlot
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return mc.chartService.Export(w, req)
}

// Ready reports whether a chart is on screen
func (mc *MainController) Ready() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.state.Ready
}

// State returns the current selection and view state
func (mc *MainController) State() (models.AxisSelection, models.ViewState) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.selection, mc.state
}

// replotLocked fits the view to the selection and draws it
func (mc *MainController) replotLocked() {
	table := mc.tableRepo.Table()
	view, err := mc.chartService.InitialView(table, mc.selection)
	if err != nil {
		mc.logger.Warning("MainController", "selection cannot be plotted", map[string]interface{}{
			"x":     mc.selection.X,
			"y":     mc.selection.Y,
			"error": err.Error(),
		})
		mc.state.Ready = false
		mc.transform = viewport.Transform{}
		mc.mainView.EnableChartOperations(false)

		w, h := mc.mainView.ChartSize()
		mc.mainView.SetChart(services.Placeholder(w, h, fmt.Sprintf("Nothing to plot for %s", mc.selection.Title())))
		return
	}

	mc.state.Range = view
	mc.state.Ready = true
	mc.mainView.EnableChartOperations(true)
	mc.renderLocked()
}

func (mc *MainController) setRangeLocked(view viewport.View) {
	if !view.Valid() {
		return
	}
	mc.state.Range = view
	mc.renderLocked()
}

func (mc *MainController) requestLocked() (services.RenderRequest, bool) {
	if !mc.state.Ready {
		return services.RenderRequest{}, false
	}
	w, h := mc.mainView.ChartSize()
	return services.RenderRequest{
		Table:     mc.tableRepo.Table(),
		Selection: mc.selection,
		View:      mc.state.Range,
		Highlight: mc.state.Highlight,
		Width:     w,
		Height:    h,
	}, true
}

func (mc *MainController) renderLocked() {
	req, ok := mc.requestLocked()
	if !ok {
		return
	}

	result, err := mc.chartService.Render(req)
	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{
			"operation": "render",
			"view":      req.View.String(),
		})
		return
	}

	mc.renders++
	mc.transform = result.Transform
	mc.mainView.SetChart(result.Image)
	mc.mainView.UpdateViewRange(mc.state.Range)
}

// handleError shows an error to the user
func (mc *MainController) handleError(title string, err error) {
	if mc.mainView != nil {
		mc.mainView.ShowError(title, err)
	}
}

// Shutdown releases the loaded table
func (mc *MainController) Shutdown() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.pan.End()
	mc.logger.Info("MainController", "controller shutdown", map[string]interface{}{
		"renders": mc.renders,
	})
	mc.tableRepo.Shutdown()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
