package analytics

import (
	"github.com/findosh/holdings/internal/models"
)

// GridData is the flat input for an interactive pivot grid together with the
// grouping it should apply
type GridData struct {
	Rows         []models.Holding `json:"rows"`
	RowGroups    []string         `json:"row_groups"`
	PivotColumns []string         `json:"pivot_columns"`
	ValueColumn  string           `json:"value_column"`
	AggFunc      string           `json:"agg_func"`
}

// GridData aggregates a cleaned table into grid rows. Rows group by
// Asset Category, Name and Ticker; columns pivot by the account fields of the
// configured mode; values are summed.
func (s *Service) GridData(t models.Table) *GridData {
	pivot := []string{models.ColCustodian, models.ColAccountType, models.ColAccountNumber}
	if s.opts.Columns == ColumnsAccountInfo {
		pivot = []string{models.ColCustodian, models.ColAccountInfo}
	}

	return &GridData{
		Rows:         s.Aggregate(t),
		RowGroups:    []string{models.ColAssetCategory, models.ColName, models.ColTicker},
		PivotColumns: pivot,
		ValueColumn:  models.ColValue,
		AggFunc:      "sum",
	}
}
