package components

import (
	"image"
	"image/color"
	"sync"

	"easy-plotter/internal/viewport"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	ChartAreaWidth  = 640
	ChartAreaHeight = 480
)

// ChartInput receives chart mouse input converted to image pixels
type ChartInput struct {
	OnZoom     func(x, y float64, d viewport.Direction)
	OnPanStart func(x, y float64)
	OnPanMove  func(x, y float64)
	OnPanEnd   func()
	OnResized  func()
}

// ChartCanvas shows the rendered chart and turns wheel and middle-button
// drags into zoom and pan requests.
type ChartCanvas struct {
	widget.BaseWidget

	image   *canvas.Image
	input   ChartInput
	panning bool
	size    fyne.Size

	// device pixel size, read off the UI goroutine
	pixelMu     sync.RWMutex
	pixelWidth  int
	pixelHeight int
}

var (
	_ fyne.Scrollable   = (*ChartCanvas)(nil)
	_ fyne.Draggable    = (*ChartCanvas)(nil)
	_ desktop.Mouseable = (*ChartCanvas)(nil)
	_ desktop.Hoverable = (*ChartCanvas)(nil)
)

// NewChartCanvas creates an empty chart area
func NewChartCanvas() *ChartCanvas {
	c := &ChartCanvas{}
	c.image = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	c.image.FillMode = canvas.ImageFillStretch
	c.image.ScaleMode = canvas.ImageScaleSmooth
	c.image.SetMinSize(fyne.NewSize(ChartAreaWidth/2, ChartAreaHeight/2))
	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget
func (c *ChartCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	return widget.NewSimpleRenderer(container.NewStack(bg, c.image))
}

// SetInput replaces the input callbacks
func (c *ChartCanvas) SetInput(input ChartInput) {
	c.input = input
}

// SetImage shows img, stretched over the whole widget
func (c *ChartCanvas) SetImage(img image.Image) {
	if img == nil {
		return
	}
	c.image.Image = img
	c.image.Refresh()
}

// Image returns the image on display
func (c *ChartCanvas) Image() image.Image {
	return c.image.Image
}

// PixelSize is the size in device pixels a chart should be rendered at.
// Safe to call from any goroutine.
func (c *ChartCanvas) PixelSize() (int, int) {
	c.pixelMu.RLock()
	defer c.pixelMu.RUnlock()
	if c.pixelWidth < 1 || c.pixelHeight < 1 {
		return ChartAreaWidth, ChartAreaHeight
	}
	return c.pixelWidth, c.pixelHeight
}

// Resize implements fyne.CanvasObject and asks for a redraw at the new size
func (c *ChartCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	if size == c.size {
		return
	}
	c.size = size
	c.storePixelSize(size)
	if c.input.OnResized != nil {
		c.input.OnResized()
	}
}

func (c *ChartCanvas) storePixelSize(size fyne.Size) {
	scale := float32(1)
	if app := fyne.CurrentApp(); app != nil {
		if cv := app.Driver().CanvasForObject(c); cv != nil {
			scale = cv.Scale()
		}
	}

	c.pixelMu.Lock()
	defer c.pixelMu.Unlock()
	c.pixelWidth = int(size.Width * scale)
	c.pixelHeight = int(size.Height * scale)
}

// Scrolled zooms around the cursor, one step per wheel event
func (c *ChartCanvas) Scrolled(ev *fyne.ScrollEvent) {
	d, ok := viewport.DirectionFromScroll(ev.Scrolled.DY)
	if !ok || c.input.OnZoom == nil {
		return
	}
	x, y := c.toImage(ev.Position)
	c.input.OnZoom(x, y, d)
}

// MouseDown starts a pan on the middle button
func (c *ChartCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonTertiary {
		return
	}
	c.panning = true
	if c.input.OnPanStart != nil {
		x, y := c.toImage(ev.Position)
		c.input.OnPanStart(x, y)
	}
}

// MouseUp ends a pan on the middle button
func (c *ChartCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonTertiary || !c.panning {
		return
	}
	c.endPan()
}

func (c *ChartCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved drags the view while the middle button is held
func (c *ChartCanvas) MouseMoved(ev *desktop.MouseEvent) {
	c.panTo(ev.Position)
}

func (c *ChartCanvas) MouseOut() {}

// Dragged covers drivers that report button drags as drag events
func (c *ChartCanvas) Dragged(ev *fyne.DragEvent) {
	c.panTo(ev.Position)
}

func (c *ChartCanvas) DragEnd() {
	if c.panning {
		c.endPan()
	}
}

func (c *ChartCanvas) panTo(pos fyne.Position) {
	if !c.panning || c.input.OnPanMove == nil {
		return
	}
	x, y := c.toImage(pos)
	c.input.OnPanMove(x, y)
}

func (c *ChartCanvas) endPan() {
	c.panning = false
	if c.input.OnPanEnd != nil {
		c.input.OnPanEnd()
	}
}

// toImage maps a widget position to a pixel of the displayed image
func (c *ChartCanvas) toImage(pos fyne.Position) (float64, float64) {
	size := c.Size()
	if c.image.Image == nil || size.Width <= 0 || size.Height <= 0 {
		return float64(pos.X), float64(pos.Y)
	}
	bounds := c.image.Image.Bounds()
	x := float64(pos.X) * float64(bounds.Dx()) / float64(size.Width)
	y := float64(pos.Y) * float64(bounds.Dy()) / float64(size.Height)
	return x, y
}
