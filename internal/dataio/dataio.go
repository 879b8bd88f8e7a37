// Package dataio reads and writes table rows as delimited text and workbooks.
package dataio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// ErrUnsupportedFormat is returned for file extensions with no codec.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Default export file names.
const (
	DefaultCSVName  = "table_data.csv"
	DefaultXLSXName = "table_data.xlsx"
)

// Format is a file format understood by this package.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// importFields is the fixed field set imported records are normalised to.
var importFields = []string{"name", "email", "age", "role"}

// FormatFor picks the format from a file name's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Import decodes rows in the given format.
func Import(r io.Reader, format Format) ([]table.Row, error) {
	switch format {
	case FormatCSV:
		return ImportCSV(r)
	case FormatXLSX:
		return ImportXLSX(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Export encodes the full row collection with a header of "id" followed
// by every column id in store order.
func Export(w io.Writer, format Format, rows []table.Row, cols []table.Column) error {
	switch format {
	case FormatCSV:
		return ExportCSV(w, rows, cols)
	case FormatXLSX:
		return ExportXLSX(w, rows, cols)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ReadFile imports rows from path, choosing the format by extension.
func ReadFile(path string) ([]table.Row, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) //nolint:gosec // G304: path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := Import(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", path, err)
	}
	return rows, nil
}

// WriteFile exports rows to path, choosing the format by extension.
func WriteFile(path string, rows []table.Row, cols []table.Column) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // G304: path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Export(f, format, rows, cols); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	return f.Close()
}

// normalize maps a header→value record onto the fixed import field set.
// Missing fields become "" (or 0 for age).
func normalize(id int, record map[string]string) table.Row {
	fields := make(map[string]table.Value, len(importFields))
	for _, name := range importFields {
		fields[name] = table.FieldValue(name, record[name])
	}
	return table.NewRow(id, fields)
}

// header returns the export header for cols.
func header(cols []table.Column) []string {
	h := make([]string, 0, len(cols)+1)
	h = append(h, "id")
	for _, c := range cols {
		h = append(h, c.ID)
	}
	return h
}

// recordsFromGrid turns a header-first grid into normalised rows with
// sequential ids. Records whose cells are all empty are skipped.
func recordsFromGrid(grid [][]string) []table.Row {
	if len(grid) == 0 {
		return []table.Row{}
	}
	head := grid[0]
	rows := make([]table.Row, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		if blank(cells) {
			continue
		}
		record := make(map[string]string, len(head))
		for i, name := range head {
			if i < len(cells) {
				record[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = cells[i]
			}
		}
		rows = append(rows, normalize(len(rows)+1, record))
	}
	return rows
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
