package viewport

// Direction is the sense of one wheel step
type Direction int

const (
	ZoomIn Direction = iota
	ZoomOut
)

// DefaultZoomFactor is the per-step magnification
const DefaultZoomFactor = 1.2

func (d Direction) String() string {
	if d == ZoomIn {
		return "in"
	}
	return "out"
}

// DirectionFromScroll maps a vertical wheel delta to a zoom direction.
// Wheel up (positive delta) zooms in.
func DirectionFromScroll(dy float32) (Direction, bool) {
	switch {
	case dy > 0:
		return ZoomIn, true
	case dy < 0:
		return ZoomOut, true
	default:
		return ZoomIn, false
	}
}

// Scale returns the range multiplier for one step of d
func (d Direction) Scale(factor float64) float64 {
	if factor <= 1 {
		factor = DefaultZoomFactor
	}
	if d == ZoomIn {
		return 1 / factor
	}
	return factor
}

// ZoomAt scales view around the data point under the cursor. The cursor is
// given in image pixels and mapped through t; ok is false when it lies
// outside the plot area, in which case view is returned unchanged.
func ZoomAt(view View, t Transform, cursorX, cursorY float64, d Direction, factor float64) (View, bool) {
	if !t.InPlot(cursorX, cursorY) {
		return view, false
	}
	center := t.ToData(cursorX, cursorY)
	return view.Zoom(center, d.Scale(factor)), true
}
