package components

import (
	"image"
	"sync"
	"testing"

	"easy-plotter/internal/models"
	"easy-plotter/internal/viewport"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedInput struct {
	zooms   []viewport.Direction
	zoomAt  [][2]float64
	starts  [][2]float64
	moves   [][2]float64
	ends    int
	resizes int
}

func (r *recordedInput) input() ChartInput {
	return ChartInput{
		OnZoom: func(x, y float64, d viewport.Direction) {
			r.zooms = append(r.zooms, d)
			r.zoomAt = append(r.zoomAt, [2]float64{x, y})
		},
		OnPanStart: func(x, y float64) { r.starts = append(r.starts, [2]float64{x, y}) },
		OnPanMove:  func(x, y float64) { r.moves = append(r.moves, [2]float64{x, y}) },
		OnPanEnd:   func() { r.ends++ },
		OnResized:  func() { r.resizes++ },
	}
}

func mouseEvent(x, y float32, button desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     button,
	}
}

func newSizedCanvas(t *testing.T, rec *recordedInput) *ChartCanvas {
	t.Helper()
	test.NewTempApp(t)

	c := NewChartCanvas()
	c.SetInput(rec.input())
	c.Resize(fyne.NewSize(400, 300))
	c.SetImage(image.NewRGBA(image.Rect(0, 0, 800, 600)))
	return c
}

func TestChartCanvasScrollZoomsInImagePixels(t *testing.T) {
	rec := &recordedInput{}
	c := newSizedCanvas(t, rec)

	c.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 50)},
		Scrolled:   fyne.Delta{DY: 1},
	})
	c.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(100, 50)},
		Scrolled:   fyne.Delta{DY: -2},
	})
	c.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DX: 3}})

	assert.Equal(t, []viewport.Direction{viewport.ZoomIn, viewport.ZoomOut}, rec.zooms)
	assert.Equal(t, [2]float64{200, 100}, rec.zoomAt[0])
}

func TestChartCanvasMiddleDragPans(t *testing.T) {
	rec := &recordedInput{}
	c := newSizedCanvas(t, rec)

	c.MouseMoved(mouseEvent(10, 10, 0))
	c.MouseDown(mouseEvent(100, 100, desktop.MouseButtonTertiary))
	c.MouseMoved(mouseEvent(120, 90, desktop.MouseButtonTertiary))
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(130, 80)}})
	c.MouseUp(mouseEvent(130, 80, desktop.MouseButtonTertiary))
	c.MouseMoved(mouseEvent(140, 70, 0))

	assert.Equal(t, [][2]float64{{200, 200}}, rec.starts)
	assert.Equal(t, [][2]float64{{240, 180}, {260, 160}}, rec.moves)
	assert.Equal(t, 1, rec.ends)
}

func TestChartCanvasIgnoresOtherButtons(t *testing.T) {
	rec := &recordedInput{}
	c := newSizedCanvas(t, rec)

	c.MouseDown(mouseEvent(100, 100, desktop.MouseButtonPrimary))
	c.MouseMoved(mouseEvent(120, 90, desktop.MouseButtonPrimary))
	c.MouseUp(mouseEvent(120, 90, desktop.MouseButtonPrimary))
	c.DragEnd()

	assert.Empty(t, rec.starts)
	assert.Empty(t, rec.moves)
	assert.Zero(t, rec.ends)
}

func TestChartCanvasResize(t *testing.T) {
	rec := &recordedInput{}
	c := newSizedCanvas(t, rec)
	require.Equal(t, 1, rec.resizes)

	c.Resize(fyne.NewSize(400, 300))
	assert.Equal(t, 1, rec.resizes)

	c.Resize(fyne.NewSize(500, 300))
	assert.Equal(t, 2, rec.resizes)

	w, h := c.PixelSize()
	assert.Equal(t, 500, w)
	assert.Equal(t, 300, h)
}

func TestChartCanvasPixelSizeReadableOffUIGoroutine(t *testing.T) {
	rec := &recordedInput{}
	c := newSizedCanvas(t, rec)

	sizes := make(chan [2]int, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w, h := c.PixelSize()
		sizes <- [2]int{w, h}
	}()
	wg.Wait()
	assert.Equal(t, [2]int{400, 300}, <-sizes)

	c.Resize(fyne.NewSize(320, 200))

	wg.Add(1)
	go func() {
		defer wg.Done()
		w, h := c.PixelSize()
		sizes <- [2]int{w, h}
	}()
	wg.Wait()
	assert.Equal(t, [2]int{320, 200}, <-sizes)

	c.Resize(fyne.NewSize(0, 0))
	w, h := c.PixelSize()
	assert.Equal(t, ChartAreaWidth, w)
	assert.Equal(t, ChartAreaHeight, h)
}

func TestChartCanvasDefaultPixelSize(t *testing.T) {
	test.NewTempApp(t)
	c := NewChartCanvas()

	w, h := c.PixelSize()
	assert.Equal(t, ChartAreaWidth, w)
	assert.Equal(t, ChartAreaHeight, h)
}

func TestToolbarSetColumnsDoesNotNotify(t *testing.T) {
	test.NewTempApp(t)
	tb := NewToolbar()

	var changes []string
	tb.SetAxisChangeHandlers(
		func(c string) { changes = append(changes, "x="+c) },
		func(c string) { changes = append(changes, "y="+c) },
	)

	tb.SetColumns([]string{"A", "B", "C"}, models.AxisSelection{X: "A", Y: "B"})
	assert.Empty(t, changes)
	assert.Equal(t, models.AxisSelection{X: "A", Y: "B"}, tb.Selection())
	assert.Equal(t, []string{"A", "B", "C"}, tb.xSelect.Options)

	tb.ySelect.SetSelected("C")
	assert.Equal(t, []string{"y=C"}, changes)

	tb.SetColumns(nil, models.AxisSelection{})
	assert.Equal(t, models.AxisSelection{}, tb.Selection())
	assert.Len(t, changes, 1)
}

func TestToolbarButtons(t *testing.T) {
	test.NewTempApp(t)
	tb := NewToolbar()

	var opened, reset, exported int
	tb.SetOpenHandler(func() { opened++ })
	tb.SetResetHandler(func() { reset++ })
	tb.SetExportHandler(func() { exported++ })

	assert.True(t, tb.resetButton.Disabled())
	test.Tap(tb.openButton)
	test.Tap(tb.resetButton)
	assert.Equal(t, 1, opened)
	assert.Zero(t, reset)

	tb.EnableChartOperations(true)
	test.Tap(tb.resetButton)
	test.Tap(tb.exportButton)
	assert.Equal(t, 1, reset)
	assert.Equal(t, 1, exported)
}

func TestDataTable(t *testing.T) {
	test.NewTempApp(t)
	dt := NewDataTable(100)
	w := test.NewWindow(dt.GetContainer())
	defer w.Close()
	w.Resize(fyne.NewSize(600, 400))

	rows, cols := dt.length()
	assert.Zero(t, rows)
	assert.Zero(t, cols)

	table, err := models.NewTable([]string{"A", "B"}, [][]string{{"1", "3"}, {"2", "4"}})
	require.NoError(t, err)
	dt.SetData(table)

	rows, cols = dt.length()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, "4", dt.cell(widget.TableCellID{Row: 1, Col: 1}))
	assert.Equal(t, "B", dt.header(widget.TableCellID{Row: -1, Col: 1}))
	assert.Equal(t, "2", dt.header(widget.TableCellID{Row: 1, Col: -1}))
	assert.Equal(t, "", dt.header(widget.TableCellID{Row: -1, Col: -1}))

	var selected []int
	dt.SetRowSelectHandler(func(row int) { selected = append(selected, row) })
	dt.table.Select(widget.TableCellID{Row: 1, Col: 0})
	dt.table.OnSelected(widget.TableCellID{Row: -1, Col: 0})
	assert.Equal(t, []int{1}, selected)
	assert.Same(t, table, dt.Data())
}

func TestStatusBar(t *testing.T) {
	test.NewTempApp(t)
	sb := NewStatusBar()

	sb.SetSourceInfo("/home/me/data/points.csv", 10, 3)
	assert.Equal(t, "points.csv: 10 rows x 3 columns", sb.GetSourceInfo())

	sb.SetSourceInfo("https://example.com/points.csv", 1, 2)
	assert.Equal(t, "https://example.com/points.csv: 1 rows x 2 columns", sb.GetSourceInfo())

	view := viewport.View{X: viewport.Range{Min: 0, Max: 1}, Y: viewport.Range{Min: 2, Max: 3}}
	sb.SetViewRange(view)
	assert.Equal(t, view.String(), sb.GetViewRange())

	pb := NewProgressBar()
	pb.SetBusy(true, "Loading")
	assert.True(t, pb.IsVisible())
	pb.SetBusy(false, "")
	assert.False(t, pb.IsVisible())
}
