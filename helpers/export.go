package helpers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/mindfiredigital/PivotHead-sub001/engine"
)

// WriteCSV writes a table as CSV: header, rows, then the summary row when
// the table has one.
func WriteCSV(w io.Writer, t *engine.TableData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	if t.Summary != nil && len(t.Columns) > 0 {
		row := make([]string, len(t.Columns))
		row[0] = t.Summary.Label
		for i, c := range t.Columns[1:] {
			row[i+1] = t.Summary.Values[c.Key]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV summary: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
