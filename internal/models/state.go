package models

import "easy-plotter/internal/viewport"

// NoRow marks the absence of a highlighted row
const NoRow = -1

// AxisSelection is the pair of columns plotted as x and y
type AxisSelection struct {
	X string
	Y string
}

// Valid reports whether both columns are chosen and exist in t
func (s AxisSelection) Valid(t *Table) bool {
	if t == nil || s.X == "" || s.Y == "" {
		return false
	}
	return t.HasColumn(s.X) && t.HasColumn(s.Y)
}

// Title is the chart heading for the selection
func (s AxisSelection) Title() string {
	return s.Y + " vs " + s.X
}

// DefaultSelection picks the first column for x and the second for y,
// reusing the first when the table has a single column.
func DefaultSelection(t *Table) AxisSelection {
	if t == nil || t.ColumnCount() == 0 {
		return AxisSelection{}
	}
	cols := t.Columns()
	if len(cols) == 1 {
		return AxisSelection{X: cols[0], Y: cols[0]}
	}
	return AxisSelection{X: cols[0], Y: cols[1]}
}

// ViewState is what the chart currently shows: the visible data range and
// the highlighted row, if any.
type ViewState struct {
	Range     viewport.View
	Highlight int
	Ready     bool
}

// NewViewState returns a state with nothing plotted
func NewViewState() ViewState {
	return ViewState{Highlight: NoRow}
}

// HasHighlight reports whether a row is highlighted
func (v ViewState) HasHighlight() bool {
	return v.Highlight != NoRow
}
