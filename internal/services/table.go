package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"easy-plotter/internal/logger"
	"easy-plotter/internal/models"

	"github.com/viant/afs"
	"github.com/xuri/excelize/v2"
)

// Supported source formats
const (
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatText = "text"
	FormatXLSX = "xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TableService loads tabular sources into the table repository
type TableService struct {
	repository *models.TableRepository
	fs         afs.Service
	logger     logger.Logger
}

// NewTableService creates a table service backed by repo
func NewTableService(repo *models.TableRepository, log logger.Logger) *TableService {
	return &TableService{
		repository: repo,
		fs:         afs.New(),
		logger:     log,
	}
}

// Load reads a table from r. The format follows the extension of name.
// On success the table replaces the repository contents; on failure the
// repository is left untouched.
func (ts *TableService) Load(ctx context.Context, name string, r io.Reader) (*models.TableData, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, name, err)
	}
	return ts.store(ctx, name, data)
}

// LoadURL fetches a table from a local path or any URL scheme afs knows
func (ts *TableService) LoadURL(ctx context.Context, location string) (*models.TableData, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrUnreadableSource)
	}
	if !strings.Contains(location, "://") {
		if abs, err := filepath.Abs(location); err == nil {
			location = abs
		}
	}

	data, err := ts.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableSource, location, err)
	}
	return ts.store(ctx, location, data)
}

func (ts *TableService) store(ctx context.Context, name string, data []byte) (*models.TableData, error) {
	startTime := time.Now()

	table, format, err := Parse(name, data)
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	tableData := &models.TableData{
		Table:    table,
		Source:   name,
		Format:   format,
		LoadTime: time.Now(),
		Size:     int64(len(data)),
	}
	ts.repository.Set(tableData)

	ts.logger.Info("TableService", "table loaded", map[string]interface{}{
		"source":   name,
		"format":   format,
		"rows":     table.RowCount(),
		"columns":  table.ColumnCount(),
		"bytes":    len(data),
		"parse_ms": time.Since(startTime).Milliseconds(),
	})

	return tableData, nil
}

// Parse decodes data according to the format implied by name
func Parse(name string, data []byte) (*models.Table, string, error) {
	format, err := FormatFor(name)
	if err != nil {
		return nil, "", err
	}

	var table *models.Table
	switch format {
	case FormatXLSX:
		table, err = ParseWorkbook(name, data)
	case FormatTSV:
		table, err = ParseDelimited(name, data, '\t')
	case FormatCSV:
		table, err = ParseDelimited(name, data, ',')
	default:
		table, err = ParseDelimited(name, data, 0)
	}
	if err != nil {
		return nil, "", err
	}
	return table, format, nil
}

// FormatFor maps a file name or URL to a source format
func FormatFor(name string) (string, error) {
	if i := strings.IndexAny(name, "?#"); i >= 0 && strings.Contains(name, "://") {
		name = name[:i]
	}
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".txt", ".dat", "":
		return FormatText, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// SupportedExtensions lists the extensions offered by the open dialog
func SupportedExtensions() []string {
	return []string{".csv", ".tsv", ".tab", ".txt", ".dat", ".xlsx", ".xlsm"}
}

// ParseDelimited reads delimited text with a header row. A zero comma
// sniffs the delimiter from the header line. Short records are padded with
// empty cells; records with more fields than the header are an error.
func ParseDelimited(source string, data []byte, comma rune) (*models.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if comma == 0 {
		comma = SniffDelimiter(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyTable)
	}
	if err != nil {
		return nil, csvParseError(source, err)
	}

	var records [][]string
	var lines []int
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvParseError(source, err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}

	return buildTable(source, header, records, lines, false)
}

func csvParseError(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Source: source, Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Source: source, Err: err}
}

// SniffDelimiter picks the most frequent of comma, semicolon, tab and pipe
// outside quotes on the first line. Comma wins ties and empty input.
func SniffDelimiter(data []byte) rune {
	data = bytes.TrimPrefix(data, utf8BOM)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}

	candidates := []rune{',', ';', '\t', '|'}
	counts := make(map[rune]int, len(candidates))
	inQuotes := false
	for _, r := range string(data) {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}

	best := ','
	for _, c := range candidates {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

// ParseWorkbook reads the first sheet of an Excel workbook. The first
// non-empty row is the header; fully empty rows are skipped.
func ParseWorkbook(source string, data []byte) (*models.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyTable)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Source: source, Err: fmt.Errorf("sheet %q: %w", sheets[0], err)}
	}

	var header []string
	var records [][]string
	var lines []int
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		records = append(records, row)
		lines = append(lines, i+1)
	}
	if header == nil {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyTable)
	}

	return buildTable(source, header, records, lines, true)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// buildTable turns row-major records into a column-major table. When
// extend is set, records wider than the header add unnamed columns instead
// of failing.
func buildTable(source string, header []string, records [][]string, lines []int, extend bool) (*models.Table, error) {
	width := len(header)
	for i, record := range records {
		if len(record) <= width {
			continue
		}
		if !extend {
			return nil, &ParseError{
				Source: source,
				Line:   lines[i],
				Err:    fmt.Errorf("expected %d fields, saw %d", len(header), len(record)),
			}
		}
		width = len(record)
	}

	padded := make([]string, width)
	copy(padded, header)
	names := columnNames(padded)

	columns := make([][]string, width)
	for c := range columns {
		columns[c] = make([]string, len(records))
		for r, record := range records {
			if c < len(record) {
				columns[c][r] = record[c]
			}
		}
	}

	table, err := models.NewTable(names, columns)
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	return table, nil
}

// columnNames names blank headers "Unnamed: i" and suffixes repeated
// names with ".1", ".2" and so on.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		taken[name] = true
		names[i] = name
	}

	for i, name := range names {
		if n := seen[name]; n > 0 {
			candidate := fmt.Sprintf("%s.%d", name, n)
			for taken[candidate] {
				n++
				candidate = fmt.Sprintf("%s.%d", name, n)
			}
			seen[name] = n + 1
			taken[candidate] = true
			names[i] = candidate
			continue
		}
		seen[name] = 1
	}
	return names
}
