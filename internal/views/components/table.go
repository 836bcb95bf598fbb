package components

import (
	"strconv"

	"easy-plotter/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// DataTable shows the loaded table with column names on top and 1-based
// row numbers on the left.
type DataTable struct {
	table       *widget.Table
	data        *models.Table
	columnWidth float32

	rowSelectHandler func(int)
}

// NewDataTable creates an empty table view
func NewDataTable(columnWidth float32) *DataTable {
	dt := &DataTable{columnWidth: columnWidth}
	dt.createComponents()
	return dt
}

func (dt *DataTable) createComponents() {
	dt.table = widget.NewTableWithHeaders(
		dt.length,
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(dt.cell(id))
		},
	)

	dt.table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("")
		label.TextStyle.Bold = true
		return label
	}
	dt.table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		obj.(*widget.Label).SetText(dt.header(id))
	}

	dt.table.OnSelected = func(id widget.TableCellID) {
		if id.Row < 0 || dt.rowSelectHandler == nil {
			return
		}
		dt.rowSelectHandler(id.Row)
	}
}

func (dt *DataTable) length() (int, int) {
	if dt.data == nil {
		return 0, 0
	}
	return dt.data.RowCount(), dt.data.ColumnCount()
}

func (dt *DataTable) cell(id widget.TableCellID) string {
	if dt.data == nil {
		return ""
	}
	return dt.data.Cell(id.Row, id.Col)
}

// header labels column headers with names and row headers with 1-based
// row numbers
func (dt *DataTable) header(id widget.TableCellID) string {
	switch {
	case id.Row < 0 && id.Col >= 0:
		if dt.data == nil {
			return ""
		}
		columns := dt.data.Columns()
		if id.Col >= len(columns) {
			return ""
		}
		return columns[id.Col]
	case id.Col < 0 && id.Row >= 0:
		return strconv.Itoa(id.Row + 1)
	default:
		return ""
	}
}

// SetRowSelectHandler sets the handler called with the 0-based row index
func (dt *DataTable) SetRowSelectHandler(handler func(int)) {
	dt.rowSelectHandler = handler
}

// SetData replaces the displayed table
func (dt *DataTable) SetData(data *models.Table) {
	dt.data = data
	if data != nil {
		for col := 0; col < data.ColumnCount(); col++ {
			dt.table.SetColumnWidth(col, dt.columnWidth)
		}
	}
	dt.table.UnselectAll()
	dt.table.ScrollToTop()
	dt.table.Refresh()
}

// Data returns the displayed table
func (dt *DataTable) Data() *models.Table {
	return dt.data
}

// GetContainer returns the table widget
func (dt *DataTable) GetContainer() fyne.CanvasObject {
	return dt.table
}
