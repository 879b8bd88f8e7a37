package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/leapstack-labs/tablemgr/pkg/table"
)

// ImportCSV parses comma-separated text with a header row. Each record
// gets id 1..N in file order and is normalised to name, email, age, role.
func ImportCSV(r io.Reader) ([]table.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return recordsFromGrid(grid), nil
}

// ExportCSV writes every row with an "id" column followed by one column
// per store column, hidden ones included.
func ExportCSV(w io.Writer, rows []table.Row, cols []table.Column) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(cols)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		record := make([]string, 0, len(cols)+1)
		record = append(record, strconv.Itoa(r.ID))
		for _, c := range cols {
			record = append(record, r.Text(c.ID))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
