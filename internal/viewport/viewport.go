package viewport

import (
	"fmt"
	"math"
)

// Point is a position in data space or, for pan anchors, in image pixels
type Point struct {
	X float64
	Y float64
}

// Range is a closed interval along one axis
type Range struct {
	Min float64
	Max float64
}

// Span returns the width of the range
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Contains reports whether v lies inside the range, bounds included
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Shift translates the range by delta without changing its span
func (r Range) Shift(delta float64) Range {
	return Range{Min: r.Min + delta, Max: r.Max + delta}
}

// ScaleAround scales the distance of each bound from center by factor.
// The center keeps its position relative to the bounds.
func (r Range) ScaleAround(center, factor float64) Range {
	return Range{
		Min: center - (center-r.Min)*factor,
		Max: center + (r.Max-center)*factor,
	}
}

// Pad widens the range by fraction of its span on both sides
func (r Range) Pad(fraction float64) Range {
	pad := r.Span() * fraction
	return Range{Min: r.Min - pad, Max: r.Max + pad}
}

// Valid reports whether the range is finite and non-degenerate
func (r Range) Valid() bool {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return false
	}
	return r.Max > r.Min
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// View is the visible rectangle of the chart in data space
type View struct {
	X Range
	Y Range
}

// Contains reports whether p is inside the view
func (v View) Contains(p Point) bool {
	return v.X.Contains(p.X) && v.Y.Contains(p.Y)
}

// Valid reports whether both axis ranges can be rendered
func (v View) Valid() bool {
	return v.X.Valid() && v.Y.Valid()
}

// Zoom scales both axes around center by factor
func (v View) Zoom(center Point, factor float64) View {
	return View{
		X: v.X.ScaleAround(center.X, factor),
		Y: v.Y.ScaleAround(center.Y, factor),
	}
}

// Translate moves the view by (dx, dy) in data units
func (v View) Translate(dx, dy float64) View {
	return View{X: v.X.Shift(dx), Y: v.Y.Shift(dy)}
}

// Pad widens both axes by fraction of their span
func (v View) Pad(fraction float64) View {
	return View{X: v.X.Pad(fraction), Y: v.Y.Pad(fraction)}
}

func (v View) String() string {
	return fmt.Sprintf("x %s  y %s", v.X, v.Y)
}

// Extent returns the bounding view of the paired samples. Pairs with a NaN
// coordinate are ignored. Axes whose samples are all equal are widened by
// 0.5 either side so the result can still be rendered. The boolean is false
// when no pair is usable.
func Extent(xs, ys []float64) (View, bool) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}

	view := View{
		X: Range{Min: math.Inf(1), Max: math.Inf(-1)},
		Y: Range{Min: math.Inf(1), Max: math.Inf(-1)},
	}
	found := false
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		found = true
		view.X.Min = math.Min(view.X.Min, x)
		view.X.Max = math.Max(view.X.Max, x)
		view.Y.Min = math.Min(view.Y.Min, y)
		view.Y.Max = math.Max(view.Y.Max, y)
	}
	if !found {
		return View{}, false
	}

	view.X = widenDegenerate(view.X)
	view.Y = widenDegenerate(view.Y)
	return view, true
}

// Fit returns the extent of the samples padded by margin on every side
func Fit(xs, ys []float64, margin float64) (View, bool) {
	view, ok := Extent(xs, ys)
	if !ok {
		return View{}, false
	}
	return view.Pad(margin), true
}

func widenDegenerate(r Range) Range {
	if r.Span() > 0 {
		return r
	}
	return Range{Min: r.Min - 0.5, Max: r.Max + 0.5}
}
