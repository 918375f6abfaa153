package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

// ============================================================================
// RAW TABLES — Header + string cells from CSV or XLSX
// ============================================================================
// Consumer reads the file from wherever it lives (disk, upload, S3).
// These helpers turn the raw bytes into a Table; Dataset (records.go) then
// types the cells using the discovered schema.
// ============================================================================

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptySheet        = errors.New("sheet has no header row")
)

// Table is a header row plus string cells, as read from a flat file.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ReadCSV parses CSV bytes. Malformed rows are skipped; ragged rows are
// allowed and padded later by Records.
func ReadCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	t := &Table{Headers: headers}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadXLSX reads one sheet of a workbook. An empty sheet name selects the
// first sheet. The first non-empty row is the header.
func ReadXLSX(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptySheet
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	for len(rows) > 0 && isBlankRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheet)
	}

	t := &Table{Headers: rows[0]}
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadFile loads a .csv, .xlsx or .xlsm file from disk.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ReadBytes(filepath.Base(path), data)
}

// ReadBytes parses file contents, choosing the reader by file name extension.
func ReadBytes(name string, data []byte) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", "":
		return ReadCSV(data)
	case ".xlsx", ".xlsm":
		return ReadXLSX(bytes.NewReader(data), "")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Discover infers the schema of the table.
func (t *Table) Discover(opts ...schema.DiscoverOptions) (*schema.Config, error) {
	return schema.DiscoverFromRows(t.Headers, t.Rows, opts...)
}
