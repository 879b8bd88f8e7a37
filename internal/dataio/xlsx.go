package dataio

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/tablemgr/pkg/table"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// ImportXLSX reads the first sheet of a workbook with the same rules as ImportCSV.
func ImportXLSX(r io.Reader) ([]table.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []table.Row{}, nil
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return recordsFromGrid(grid), nil
}

// ExportXLSX writes rows into Sheet1 of a new workbook. Numeric values
// are stored as numbers.
func ExportXLSX(w io.Writer, rows []table.Row, cols []table.Column) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	head := header(cols)
	headCells := make([]any, len(head))
	for i, h := range head {
		headCells[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headCells); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cells := make([]any, 0, len(cols)+1)
		cells = append(cells, r.ID)
		for _, c := range cols {
			cells = append(cells, r.Get(c.ID).Any())
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
