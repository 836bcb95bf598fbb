package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrRowOutOfRange = errors.New("row out of range")
	ErrRaggedColumns = errors.New("columns differ in length")
)

// Table is an ordered set of named columns of equal length. Cells keep the
// text they were parsed from; numeric views are derived on demand.
// A Table is not modified after construction.
type Table struct {
	columns []string
	index   map[string]int
	cells   [][]string // column-major
	rows    int
}

// NewTable builds a table from column names and column-major cell data.
func NewTable(columns []string, cells [][]string) (*Table, error) {
	if len(columns) != len(cells) {
		return nil, fmt.Errorf("%d column names for %d columns: %w", len(columns), len(cells), ErrRaggedColumns)
	}

	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		cells:   make([][]string, len(cells)),
	}

	for i, name := range t.columns {
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		t.index[name] = i
	}

	for i, column := range cells {
		if i == 0 {
			t.rows = len(column)
		} else if len(column) != t.rows {
			return nil, fmt.Errorf("column %q has %d cells, want %d: %w", t.columns[i], len(column), t.rows, ErrRaggedColumns)
		}
		t.cells[i] = append([]string(nil), column...)
	}

	return t, nil
}

// Columns returns the column names in source order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	return t.rows
}

// HasColumn reports whether name is one of the table's columns
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the text at (row, col) by position
func (t *Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.cells) || row < 0 || row >= t.rows {
		return ""
	}
	return t.cells[col][row]
}

// Floats returns the numeric view of a column. Cells that do not parse as
// numbers become NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	col, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
	}

	values := make([]float64, t.rows)
	for i, cell := range t.cells[col] {
		values[i] = ParseNumber(cell)
	}
	return values, nil
}

// Point returns the numeric (x, y) pair of one row
func (t *Table) Point(row int, xCol, yCol string) (float64, float64, error) {
	if row < 0 || row >= t.rows {
		return 0, 0, fmt.Errorf("row %d of %d: %w", row, t.rows, ErrRowOutOfRange)
	}
	xi, ok := t.index[xCol]
	if !ok {
		return 0, 0, fmt.Errorf("%q: %w", xCol, ErrUnknownColumn)
	}
	yi, ok := t.index[yCol]
	if !ok {
		return 0, 0, fmt.Errorf("%q: %w", yCol, ErrUnknownColumn)
	}
	return ParseNumber(t.cells[xi][row]), ParseNumber(t.cells[yi][row]), nil
}

// ParseNumber converts a cell to float64. Booleans map to 0 and 1, dates
// in ISO form map to Unix seconds, anything else that is not a number
// yields NaN.
func ParseNumber(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return math.NaN()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return 1
	case "false":
		return 0
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return float64(ts.Unix())
		}
	}
	return math.NaN()
}

// Series is the plottable part of an axis selection: rows whose x and y
// cells are both numeric, in table order.
type Series struct {
	X    []float64
	Y    []float64
	Rows []int
}

// Len returns the number of plottable rows
func (s Series) Len() int {
	return len(s.X)
}

// Series extracts the numeric pairs for the selection. Rows with a
// non-numeric x or y cell are skipped.
func (t *Table) Series(sel AxisSelection) (Series, error) {
	xs, err := t.Floats(sel.X)
	if err != nil {
		return Series{}, err
	}
	ys, err := t.Floats(sel.Y)
	if err != nil {
		return Series{}, err
	}

	s := Series{
		X:    make([]float64, 0, t.rows),
		Y:    make([]float64, 0, t.rows),
		Rows: make([]int, 0, t.rows),
	}
	for i := 0; i < t.rows; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			continue
		}
		s.X = append(s.X, xs[i])
		s.Y = append(s.Y, ys[i])
		s.Rows = append(s.Rows, i)
	}
	return s, nil
}
