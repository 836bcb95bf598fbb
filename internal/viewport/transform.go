package viewport

import "math"

// Transform maps between image pixels inside the plot box and data space.
// The box edges follow the chart renderer: Right and Bottom are exclusive
// of the drawable width, y grows downwards in pixels and upwards in data.
type Transform struct {
	Left   int
	Top    int
	Right  int
	Bottom int
	View   View
}

// IsZero reports whether the transform carries no plot box
func (t Transform) IsZero() bool {
	return t.Width() <= 0 || t.Height() <= 0
}

// Width returns the plot box width in pixels
func (t Transform) Width() int {
	return t.Right - t.Left
}

// Height returns the plot box height in pixels
func (t Transform) Height() int {
	return t.Bottom - t.Top
}

// InPlot reports whether the pixel lies inside the plot box
func (t Transform) InPlot(px, py float64) bool {
	if t.IsZero() {
		return false
	}
	return px >= float64(t.Left) && px <= float64(t.Right) &&
		py >= float64(t.Top) && py <= float64(t.Bottom)
}

// ToData converts an image pixel to data coordinates
func (t Transform) ToData(px, py float64) Point {
	if t.IsZero() {
		return Point{X: math.NaN(), Y: math.NaN()}
	}
	fx := (px - float64(t.Left)) / float64(t.Width())
	fy := (float64(t.Bottom) - py) / float64(t.Height())
	return Point{
		X: t.View.X.Min + fx*t.View.X.Span(),
		Y: t.View.Y.Min + fy*t.View.Y.Span(),
	}
}

// ToPixel converts a data point to image pixels, rounding up the same way
// the chart renderer places series points.
func (t Transform) ToPixel(p Point) (int, int) {
	fx := (p.X - t.View.X.Min) / t.View.X.Span()
	fy := (p.Y - t.View.Y.Min) / t.View.Y.Span()
	px := t.Left + int(math.Ceil(fx*float64(t.Width())))
	py := t.Bottom - int(math.Ceil(fy*float64(t.Height())))
	return px, py
}
