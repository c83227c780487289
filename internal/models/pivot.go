package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PivotLabelSeparator joins the parts of a flattened column label
const PivotLabelSeparator = " | "

// PivotRowKey identifies one security row of the cross-tab
type PivotRowKey struct {
	Category string `json:"asset_category"`
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
}

// PivotColumn is one account column of the cross-tab
type PivotColumn struct {
	Parts []string `json:"parts"`
	Label string   `json:"label"`
}

// NewPivotColumn flattens the tuple parts into a single label
func NewPivotColumn(parts ...string) PivotColumn {
	p := make([]string, len(parts))
	copy(p, parts)
	return PivotColumn{Parts: p, Label: strings.Join(p, PivotLabelSeparator)}
}

// PivotRow is a security and its per-account sums, aligned with the matrix columns.
// Invalid cells have no matching record.
type PivotRow struct {
	Key   PivotRowKey           `json:"key"`
	Cells []decimal.NullDecimal `json:"cells"`
}

// Total sums the present cells of the row
func (r PivotRow) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Cells {
		if c.Valid {
			total = total.Add(c.Decimal)
		}
	}
	return total
}

// Blank reports whether every cell is absent or zero
func (r PivotRow) Blank() bool {
	for _, c := range r.Cells {
		if c.Valid && !c.Decimal.IsZero() {
			return false
		}
	}
	return true
}

// PivotMatrix is the cross-tabulation of holdings by security and account
type PivotMatrix struct {
	Columns []PivotColumn `json:"columns"`
	Rows    []PivotRow    `json:"rows"`
}

// Labels returns the flattened column labels
func (m *PivotMatrix) Labels() []string {
	labels := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		labels[i] = c.Label
	}
	return labels
}

// ColumnTotals sums each column across rows
func (m *PivotMatrix) ColumnTotals() []decimal.Decimal {
	totals := make([]decimal.Decimal, len(m.Columns))
	for i := range totals {
		totals[i] = decimal.Zero
	}
	for _, r := range m.Rows {
		for i, c := range r.Cells {
			if c.Valid && i < len(totals) {
				totals[i] = totals[i].Add(c.Decimal)
			}
		}
	}
	return totals
}

// GrandTotal sums every present cell
func (m *PivotMatrix) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, r := range m.Rows {
		total = total.Add(r.Total())
	}
	return total
}

// DisplayCell renders a cell for a grid: blank when missing or zero
func DisplayCell(c decimal.NullDecimal) string {
	if !c.Valid || c.Decimal.IsZero() {
		return ""
	}
	return c.Decimal.String()
}

// Display renders the matrix as a table: Asset Category, Name, Ticker, then one
// column per account label with blank cells where nothing is held.
func (m *PivotMatrix) Display() Table {
	t := NewTable(append([]string{ColAssetCategory, ColName, ColTicker}, m.Labels()...)...)
	for _, r := range m.Rows {
		row := make(Row, 0, 3+len(r.Cells))
		row = append(row, r.Key.Category, r.Key.Name, r.Key.Ticker)
		for _, c := range r.Cells {
			row = append(row, DisplayCell(c))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
