package analytics

import (
	"sort"
	"strings"

	"github.com/findosh/holdings/internal/models"
	"github.com/shopspring/decimal"
)

// Pivot cross-tabulates holdings: one row per (Asset Category, Name, Ticker),
// one column per account. Holdings are consolidated first, so already
// aggregated input is accepted as well. Cells without a matching holding are
// left invalid, never defaulted to zero. Rows with nothing but absent or zero
// cells are dropped.
func (s *Service) Pivot(holdings []models.Holding) *models.PivotMatrix {
	consolidated := s.consolidate(append([]models.Holding(nil), holdings...))

	m := &models.PivotMatrix{
		Columns: []models.PivotColumn{},
		Rows:    []models.PivotRow{},
	}
	if len(consolidated) == 0 {
		return m
	}

	colIndex := s.pivotColumns(consolidated, m)

	rowIndex := make(map[models.PivotRowKey]int)
	for _, h := range consolidated {
		key := h.SecurityKey()
		ri, ok := rowIndex[key]
		if !ok {
			ri = len(m.Rows)
			rowIndex[key] = ri
			m.Rows = append(m.Rows, models.PivotRow{
				Key:   key,
				Cells: make([]decimal.NullDecimal, len(m.Columns)),
			})
		}

		ci := colIndex[columnKey(s.accountParts(h))]
		c := m.Rows[ri].Cells[ci]
		if c.Valid {
			c.Decimal = c.Decimal.Add(h.Value)
		} else {
			c = decimal.NewNullDecimal(h.Value)
		}
		m.Rows[ri].Cells[ci] = c
	}

	kept := m.Rows[:0]
	for _, r := range m.Rows {
		if r.Blank() {
			continue
		}
		if s.opts.DropNetZeroRows && r.Total().IsZero() {
			continue
		}
		kept = append(kept, r)
	}
	m.Rows = kept

	return m
}

// PivotTable aggregates a cleaned table and pivots the result
func (s *Service) PivotTable(t models.Table) *models.PivotMatrix {
	return s.Pivot(s.Aggregate(t))
}

// pivotColumns collects the distinct account tuples in ascending order and
// returns their positions
func (s *Service) pivotColumns(holdings []models.Holding, m *models.PivotMatrix) map[string]int {
	seen := make(map[string][]string)
	for _, h := range holdings {
		parts := s.accountParts(h)
		seen[columnKey(parts)] = parts
	}

	tuples := make([][]string, 0, len(seen))
	for _, parts := range seen {
		tuples = append(tuples, parts)
	}
	sort.Slice(tuples, func(i, j int) bool {
		return comparePartsLess(tuples[i], tuples[j])
	})

	index := make(map[string]int, len(tuples))
	for i, parts := range tuples {
		index[columnKey(parts)] = i
		m.Columns = append(m.Columns, models.NewPivotColumn(parts...))
	}
	return index
}

func columnKey(parts []string) string {
	return strings.Join(parts, "\x00")
}
