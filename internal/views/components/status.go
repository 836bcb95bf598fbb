package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"easy-plotter/internal/viewport"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays application status and information
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	sourceInfo  *widget.Label
	rangeInfo   *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.sourceInfo = widget.NewLabel("No file loaded")
	sb.rangeInfo = widget.NewLabel("")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.sourceInfo,
		widget.NewSeparator(),
		sb.rangeInfo,
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetSourceInfo shows the loaded file and its dimensions
func (sb *StatusBar) SetSourceInfo(source string, rows, columns int) {
	name := source
	if !strings.Contains(source, "://") {
		name = filepath.Base(source)
	}
	sb.sourceInfo.SetText(fmt.Sprintf("%s: %d rows x %d columns", name, rows, columns))
}

// GetSourceInfo returns the source description
func (sb *StatusBar) GetSourceInfo() string {
	return sb.sourceInfo.Text
}

// SetViewRange shows the visible data range
func (sb *StatusBar) SetViewRange(view viewport.View) {
	sb.rangeInfo.SetText(view.String())
}

// GetViewRange returns the visible range text
func (sb *StatusBar) GetViewRange() string {
	return sb.rangeInfo.Text
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// ProgressBar is an indeterminate activity indicator shown while a file
// loads
type ProgressBar struct {
	container   *fyne.Container
	progressBar *widget.ProgressBarInfinite
	stageLabel  *widget.Label
	visible     bool
}

// NewProgressBar creates a new progress bar component
func NewProgressBar() *ProgressBar {
	pb := &ProgressBar{}
	pb.progressBar = widget.NewProgressBarInfinite()
	pb.progressBar.Stop()
	pb.stageLabel = widget.NewLabel("")
	pb.container = container.NewBorder(nil, nil, pb.stageLabel, nil, pb.progressBar)
	pb.container.Hide()
	return pb
}

// SetBusy shows the indicator with stage as its caption, or hides it
func (pb *ProgressBar) SetBusy(busy bool, stage string) {
	pb.visible = busy
	pb.stageLabel.SetText(stage)
	if busy {
		pb.container.Show()
		pb.progressBar.Start()
	} else {
		pb.progressBar.Stop()
		pb.container.Hide()
	}
}

// IsVisible returns true if the indicator is shown
func (pb *ProgressBar) IsVisible() bool {
	return pb.visible
}

// GetContainer returns the progress bar container
func (pb *ProgressBar) GetContainer() *fyne.Container {
	return pb.container
}
