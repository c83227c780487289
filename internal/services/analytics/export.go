package analytics

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/findosh/holdings/internal/models"
)

// WriteCSV writes a table as CSV, header first
func WriteCSV(w io.Writer, t models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range t.Rows {
		if err := cw.Write(r); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePivotCSV writes the display form of a pivot matrix as CSV
func WritePivotCSV(w io.Writer, m *models.PivotMatrix) error {
	return WriteCSV(w, m.Display())
}
