package models

import "strings"

// Source column headers. Lookups are exact and case-sensitive.
const (
	ColAssetCategory = "Asset Category"
	ColName          = "Name"
	ColTicker        = "Ticker"
	ColCustodian     = "Custodian"
	ColAccountType   = "Account Type"
	ColAccountNumber = "Account Number"
	ColAccountInfo   = "Account Info"
	ColValue         = "Value"
)

// ExpectedColumns lists the headers a custodian export is expected to carry
var ExpectedColumns = []string{
	ColAssetCategory,
	ColName,
	ColTicker,
	ColCustodian,
	ColAccountType,
	ColAccountNumber,
	ColValue,
}

// Row is one record of a Table, positionally aligned with Table.Columns
type Row []string

// Table is a schema-flexible record set keyed by header strings.
// Tables are treated as values: operations that change a table return a new one.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable creates a table with the given header
func NewTable(columns ...string) Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Table{Columns: cols, Rows: []Row{}}
}

// Index returns the position of a column, or -1 when absent
func (t Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Has reports whether all of the given columns exist
func (t Table) Has(columns ...string) bool {
	for _, c := range columns {
		if t.Index(c) < 0 {
			return false
		}
	}
	return true
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.Rows)
}

// Get returns the cell for row i and the named column.
// Missing columns and short rows yield "".
func (t Table) Get(i int, column string) string {
	idx := t.Index(column)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i].At(idx)
}

// At returns the cell at position idx, or "" when the row is short
func (r Row) At(idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return r[idx]
}

// Clone returns a deep copy of the table
func (t Table) Clone() Table {
	out := Table{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([]Row, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	for i, r := range t.Rows {
		out.Rows[i] = r.clone(len(t.Columns))
	}
	return out
}

// clone copies a row, padding it to width
func (r Row) clone(width int) Row {
	n := len(r)
	if width > n {
		n = width
	}
	out := make(Row, n)
	copy(out, r)
	return out
}

// WithColumn returns a copy of the table where column is set to fn(row) for
// every row. The column is appended when it does not exist yet.
func (t Table) WithColumn(column string, fn func(r Row) string) Table {
	out := t.Clone()
	idx := out.Index(column)
	if idx < 0 {
		out.Columns = append(out.Columns, column)
		idx = len(out.Columns) - 1
	}
	for i, r := range out.Rows {
		for len(r) <= idx {
			r = append(r, "")
		}
		r[idx] = fn(t.Rows[i])
		out.Rows[i] = r
	}
	return out
}

// Filter returns a copy holding only the rows for which keep returns true
func (t Table) Filter(keep func(r Row) bool) Table {
	out := Table{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r.clone(len(t.Columns)))
		}
	}
	return out
}

// IsMissing reports whether a cell value counts as absent
func IsMissing(v string) bool {
	return strings.TrimSpace(v) == ""
}
