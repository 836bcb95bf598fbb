package views

import (
	"fmt"
	"image"
	"io"

	"easy-plotter/internal/config"
	"easy-plotter/internal/controllers"
	"easy-plotter/internal/models"
	"easy-plotter/internal/viewport"
	"easy-plotter/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
)

var _ controllers.View = (*MainView)(nil)

// MainView is the plotter window: toolbar on top, table and chart side by
// side, status bar at the bottom.
type MainView struct {
	// UI Components
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	dataTable     *components.DataTable
	chartCanvas   *components.ChartCanvas
	statusBar     *components.StatusBar
	progressBar   *components.ProgressBar
	split         *container.Split

	// Menu
	mainMenu   *fyne.MainMenu
	openItem   *fyne.MenuItem
	recentItem *fyne.MenuItem
	exportItem *fyne.MenuItem
	resetItem  *fyne.MenuItem

	// Event handlers - connected to controller
	openHandler       func()
	openRecentHandler func(string)
	resetViewHandler  func()
	exportHandler     func()
}

// NewMainView builds the main window content
func NewMainView(window fyne.Window, cfg config.Config) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents(cfg)
	view.buildLayout()
	view.buildMenu()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents(cfg config.Config) {
	mv.toolbar = components.NewToolbar()
	mv.dataTable = components.NewDataTable(cfg.Table.ColumnWidth)
	mv.chartCanvas = components.NewChartCanvas()
	mv.statusBar = components.NewStatusBar()
	mv.progressBar = components.NewProgressBar()
}

func (mv *MainView) buildLayout() {
	mv.split = container.NewHSplit(mv.dataTable.GetContainer(), mv.chartCanvas)
	mv.split.SetOffset(0.35)

	topArea := container.NewVBox(
		mv.toolbar.GetContainer(),
		mv.progressBar.GetContainer(),
	)

	mv.mainContainer = container.NewBorder(
		topArea,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		mv.split,
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) buildMenu() {
	openShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}
	resetShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault}

	mv.openItem = fyne.NewMenuItem("Open...", mv.open)
	mv.openItem.Shortcut = openShortcut

	mv.recentItem = fyne.NewMenuItem("Open Recent", nil)
	mv.recentItem.ChildMenu = fyne.NewMenu("")

	mv.exportItem = fyne.NewMenuItem("Export PNG...", mv.export)
	mv.exportItem.Disabled = true

	mv.resetItem = fyne.NewMenuItem("Reset View", mv.resetView)
	mv.resetItem.Shortcut = resetShortcut
	mv.resetItem.Disabled = true

	mv.mainMenu = fyne.NewMainMenu(
		fyne.NewMenu("File",
			mv.openItem,
			mv.recentItem,
			fyne.NewMenuItemSeparator(),
			mv.exportItem,
		),
		fyne.NewMenu("View",
			mv.resetItem,
		),
	)
	mv.window.SetMainMenu(mv.mainMenu)

	mv.window.Canvas().AddShortcut(openShortcut, func(fyne.Shortcut) { mv.open() })
	mv.window.Canvas().AddShortcut(resetShortcut, func(fyne.Shortcut) {
		if !mv.resetItem.Disabled {
			mv.resetView()
		}
	})

	mv.SetRecentFiles(nil)
}

func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetOpenHandler(mv.open)
	mv.toolbar.SetResetHandler(mv.resetView)
	mv.toolbar.SetExportHandler(mv.export)
}

func (mv *MainView) open() {
	if mv.openHandler != nil {
		mv.openHandler()
	}
}

func (mv *MainView) resetView() {
	if mv.resetViewHandler != nil {
		mv.resetViewHandler()
	}
}

func (mv *MainView) export() {
	if mv.exportHandler != nil {
		mv.exportHandler()
	}
}

// Event handler setters - called by controller

// SetOpenHandler sets the handler for Load Data and File > Open
func (mv *MainView) SetOpenHandler(handler func()) {
	mv.openHandler = handler
}

// SetOpenRecentHandler sets the handler for File > Open Recent entries
func (mv *MainView) SetOpenRecentHandler(handler func(string)) {
	mv.openRecentHandler = handler
}

// SetAxisChangeHandlers sets the handlers for the x and y pickers
func (mv *MainView) SetAxisChangeHandlers(x, y func(string)) {
	mv.toolbar.SetAxisChangeHandlers(x, y)
}

// SetRowSelectHandler sets the handler for table row selection
func (mv *MainView) SetRowSelectHandler(handler func(int)) {
	mv.dataTable.SetRowSelectHandler(handler)
}

// SetResetViewHandler sets the handler for Reset View
func (mv *MainView) SetResetViewHandler(handler func()) {
	mv.resetViewHandler = handler
}

// SetExportHandler sets the handler for Export PNG
func (mv *MainView) SetExportHandler(handler func()) {
	mv.exportHandler = handler
}

// SetChartHandlers routes chart mouse input to the controller
func (mv *MainView) SetChartHandlers(handlers controllers.ChartHandlers) {
	mv.chartCanvas.SetInput(components.ChartInput{
		OnZoom:     handlers.Zoom,
		OnPanStart: handlers.PanStart,
		OnPanMove:  handlers.PanMove,
		OnPanEnd:   handlers.PanEnd,
		OnResized:  handlers.Resized,
	})
}

// UI update methods - called by controller

// SetTable shows a newly loaded table
func (mv *MainView) SetTable(table *models.Table) {
	fyne.Do(func() {
		mv.dataTable.SetData(table)
	})
}

// SetColumns fills the axis pickers
func (mv *MainView) SetColumns(columns []string, selection models.AxisSelection) {
	fyne.Do(func() {
		mv.toolbar.SetColumns(columns, selection)
	})
}

// SetChart replaces the chart image
func (mv *MainView) SetChart(img image.Image) {
	fyne.Do(func() {
		mv.chartCanvas.SetImage(img)
	})
}

// ChartSize returns the chart area in device pixels
func (mv *MainView) ChartSize() (int, int) {
	return mv.chartCanvas.PixelSize()
}

// EnableChartOperations enables or disables Reset View and Export
func (mv *MainView) EnableChartOperations(enabled bool) {
	fyne.Do(func() {
		mv.toolbar.EnableChartOperations(enabled)
		mv.exportItem.Disabled = !enabled
		mv.resetItem.Disabled = !enabled
		mv.mainMenu.Refresh()
	})
}

// SetRecentFiles rebuilds the Open Recent submenu
func (mv *MainView) SetRecentFiles(sources []string) {
	items := make([]*fyne.MenuItem, 0, len(sources))
	for _, source := range sources {
		source := source
		items = append(items, fyne.NewMenuItem(source, func() {
			if mv.openRecentHandler != nil {
				mv.openRecentHandler(source)
			}
		}))
	}
	if len(items) == 0 {
		empty := fyne.NewMenuItem("No recent files", nil)
		empty.Disabled = true
		items = append(items, empty)
	}

	fyne.Do(func() {
		mv.recentItem.ChildMenu.Items = items
		mv.mainMenu.Refresh()
	})
}

// SetBusy shows or hides the loading indicator
func (mv *MainView) SetBusy(busy bool, stage string) {
	fyne.Do(func() {
		mv.progressBar.SetBusy(busy, stage)
	})
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

// UpdateSourceInfo shows the loaded file and its size in the status bar
// and window title
func (mv *MainView) UpdateSourceInfo(source string, rows, columns int) {
	fyne.Do(func() {
		mv.statusBar.SetSourceInfo(source, rows, columns)
		mv.window.SetTitle(fmt.Sprintf("Easy Plotter - %s", source))
	})
}

// UpdateViewRange shows the visible data range
func (mv *MainView) UpdateViewRange(view viewport.View) {
	fyne.Do(func() {
		mv.statusBar.SetViewRange(view)
	})
}

// ChooseSource shows the open dialog filtered to extensions
func (mv *MainView) ChooseSource(extensions []string, onChosen func(name string, r io.ReadCloser)) {
	fyne.Do(func() {
		d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				mv.ShowError("File selection error", err)
				return
			}
			if reader == nil {
				return
			}
			onChosen(sourceName(reader.URI()), reader)
		}, mv.window)
		d.SetFilter(storage.NewExtensionFileFilter(extensions))
		d.Show()
	})
}

// ChooseExportTarget shows the save dialog with a suggested file name
func (mv *MainView) ChooseExportTarget(suggested string, onChosen func(name string, w io.WriteCloser)) {
	fyne.Do(func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				mv.ShowError("File save error", err)
				return
			}
			if writer == nil {
				return
			}
			onChosen(sourceName(writer.URI()), writer)
		}, mv.window)
		d.SetFileName(suggested)
		d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
		d.Show()
	})
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	fyne.Do(func() {
		dialog.ShowError(fmt.Errorf("%s: %w", title, err), mv.window)
	})
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// GetToolbar returns the toolbar component
func (mv *MainView) GetToolbar() *components.Toolbar {
	return mv.toolbar
}

// GetDataTable returns the table component
func (mv *MainView) GetDataTable() *components.DataTable {
	return mv.dataTable
}

// GetChartCanvas returns the chart component
func (mv *MainView) GetChartCanvas() *components.ChartCanvas {
	return mv.chartCanvas
}

// GetStatusBar returns the status bar component
func (mv *MainView) GetStatusBar() *components.StatusBar {
	return mv.statusBar
}

// RecentFiles returns the labels of the Open Recent submenu
func (mv *MainView) RecentFiles() []string {
	labels := make([]string, 0, len(mv.recentItem.ChildMenu.Items))
	for _, item := range mv.recentItem.ChildMenu.Items {
		if !item.Disabled {
			labels = append(labels, item.Label)
		}
	}
	return labels
}

// ChartOperationsEnabled reports whether Reset View and Export are active
func (mv *MainView) ChartOperationsEnabled() bool {
	return !mv.resetItem.Disabled
}

// sourceName is a local path for file URIs and the full URI otherwise, so
// the name can be reopened from the recent files list
func sourceName(uri fyne.URI) string {
	if uri.Scheme() == "file" {
		return uri.Path()
	}
	return uri.String()
}
