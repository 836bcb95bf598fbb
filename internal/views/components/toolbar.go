package components

import (
	"easy-plotter/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the file action and the axis pickers
type Toolbar struct {
	container    *fyne.Container
	openButton   *widget.Button
	resetButton  *widget.Button
	exportButton *widget.Button
	xSelect      *widget.Select
	ySelect      *widget.Select

	// Event handlers
	openHandler    func()
	resetHandler   func()
	exportHandler  func()
	xChangeHandler func(string)
	yChangeHandler func(string)

	// Set while the controller pushes a selection, so the selects do not
	// echo it back.
	updating bool
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	toolbar.setupEventHandlers()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.openButton = widget.NewButtonWithIcon("Load Data", theme.FolderOpenIcon(), nil)
	t.openButton.Importance = widget.HighImportance

	t.resetButton = widget.NewButtonWithIcon("Reset View", theme.ViewRestoreIcon(), nil)
	t.resetButton.Disable()

	t.exportButton = widget.NewButtonWithIcon("Export PNG", theme.DocumentSaveIcon(), nil)
	t.exportButton.Disable()

	t.xSelect = widget.NewSelect(nil, nil)
	t.xSelect.PlaceHolder = "(x column)"
	t.ySelect = widget.NewSelect(nil, nil)
	t.ySelect.PlaceHolder = "(y column)"
}

func (t *Toolbar) buildLayout() {
	axisSection := container.NewHBox(
		widget.NewLabel("X:"),
		t.xSelect,
		widget.NewLabel("Y:"),
		t.ySelect,
	)

	t.container = container.NewHBox(
		t.openButton,
		widget.NewSeparator(),
		axisSection,
		widget.NewSeparator(),
		t.resetButton,
		t.exportButton,
	)
}

func (t *Toolbar) setupEventHandlers() {
	t.openButton.OnTapped = func() {
		if t.openHandler != nil {
			t.openHandler()
		}
	}

	t.resetButton.OnTapped = func() {
		if t.resetHandler != nil {
			t.resetHandler()
		}
	}

	t.exportButton.OnTapped = func() {
		if t.exportHandler != nil {
			t.exportHandler()
		}
	}

	t.xSelect.OnChanged = func(column string) {
		if !t.updating && t.xChangeHandler != nil {
			t.xChangeHandler(column)
		}
	}

	t.ySelect.OnChanged = func(column string) {
		if !t.updating && t.yChangeHandler != nil {
			t.yChangeHandler(column)
		}
	}
}

// SetOpenHandler sets the load data handler
func (t *Toolbar) SetOpenHandler(handler func()) {
	t.openHandler = handler
}

// SetResetHandler sets the reset view handler
func (t *Toolbar) SetResetHandler(handler func()) {
	t.resetHandler = handler
}

// SetExportHandler sets the export handler
func (t *Toolbar) SetExportHandler(handler func()) {
	t.exportHandler = handler
}

// SetAxisChangeHandlers sets the handlers for user changes of the x and y
// column
func (t *Toolbar) SetAxisChangeHandlers(x, y func(string)) {
	t.xChangeHandler = x
	t.yChangeHandler = y
}

// SetColumns offers columns in both pickers and shows selection without
// notifying the change handlers
func (t *Toolbar) SetColumns(columns []string, selection models.AxisSelection) {
	t.updating = true
	defer func() { t.updating = false }()

	options := append([]string(nil), columns...)
	t.xSelect.Options = options
	t.ySelect.Options = options

	if selection.X == "" {
		t.xSelect.ClearSelected()
	} else {
		t.xSelect.SetSelected(selection.X)
	}
	if selection.Y == "" {
		t.ySelect.ClearSelected()
	} else {
		t.ySelect.SetSelected(selection.Y)
	}
	t.xSelect.Refresh()
	t.ySelect.Refresh()
}

// Selection returns the columns shown in the pickers
func (t *Toolbar) Selection() models.AxisSelection {
	return models.AxisSelection{X: t.xSelect.Selected, Y: t.ySelect.Selected}
}

// EnableChartOperations enables or disables the chart-dependent buttons
func (t *Toolbar) EnableChartOperations(enabled bool) {
	for _, b := range []*widget.Button{t.resetButton, t.exportButton} {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

// GetContainer returns the toolbar container
func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
