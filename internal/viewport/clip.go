package viewport

import "math"

const (
	outsideLeft = 1 << iota
	outsideRight
	outsideBottom
	outsideTop
)

func (v View) outcode(p Point) int {
	code := 0
	switch {
	case p.X < v.X.Min:
		code |= outsideLeft
	case p.X > v.X.Max:
		code |= outsideRight
	}
	switch {
	case p.Y < v.Y.Min:
		code |= outsideBottom
	case p.Y > v.Y.Max:
		code |= outsideTop
	}
	return code
}

// ClipSegment cuts the segment a-b to the view (Cohen-Sutherland).
// ok is false when no part of the segment is visible.
func ClipSegment(v View, a, b Point) (Point, Point, bool) {
	codeA, codeB := v.outcode(a), v.outcode(b)

	for {
		switch {
		case codeA|codeB == 0:
			return a, b, true
		case codeA&codeB != 0:
			return a, b, false
		}

		code := codeA
		if code == 0 {
			code = codeB
		}

		var p Point
		switch {
		case code&outsideTop != 0:
			p = Point{X: a.X + (b.X-a.X)*(v.Y.Max-a.Y)/(b.Y-a.Y), Y: v.Y.Max}
		case code&outsideBottom != 0:
			p = Point{X: a.X + (b.X-a.X)*(v.Y.Min-a.Y)/(b.Y-a.Y), Y: v.Y.Min}
		case code&outsideRight != 0:
			p = Point{X: v.X.Max, Y: a.Y + (b.Y-a.Y)*(v.X.Max-a.X)/(b.X-a.X)}
		default:
			p = Point{X: v.X.Min, Y: a.Y + (b.Y-a.Y)*(v.X.Min-a.X)/(b.X-a.X)}
		}

		if code == codeA {
			a, codeA = p, v.outcode(p)
		} else {
			b, codeB = p, v.outcode(p)
		}
	}
}

// Polylines clips the connected line through pts to the view and returns
// the visible runs. A run breaks wherever the line leaves the view. Points
// with a NaN coordinate must be filtered out beforehand.
func Polylines(v View, pts []Point) [][]Point {
	var runs [][]Point
	var current []Point

	flush := func() {
		if len(current) > 1 {
			runs = append(runs, current)
		}
		current = nil
	}

	for i := 1; i < len(pts); i++ {
		a, b, ok := ClipSegment(v, pts[i-1], pts[i])
		if !ok {
			flush()
			continue
		}
		if len(current) == 0 || current[len(current)-1] != a {
			flush()
			current = []Point{a}
		}
		current = append(current, b)
	}
	flush()

	return runs
}

// Visible returns the points that lie inside the view
func Visible(v View, pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		if v.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}
