package analytics

import (
	"sort"
	"strings"

	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/normalizer"
	"github.com/shopspring/decimal"
)

// Aggregate groups cleaned records by security and account, sums Value and
// discards zero-sum groups. Records missing any key field or a numeric Value
// are dropped first. The result is sorted by category rank, name, ticker and
// then the account fields.
func (s *Service) Aggregate(t models.Table) []models.Holding {
	keys := s.keyColumns()
	required := append(append([]string{}, keys...), models.ColValue)
	if !t.Has(required...) {
		return []models.Holding{}
	}

	idx := make(map[string]int)
	for _, c := range append(required, models.ColAccountType, models.ColAccountNumber, models.ColAccountInfo) {
		idx[c] = t.Index(c)
	}

	var holdings []models.Holding
	for _, r := range t.Rows {
		if !hasAll(r, idx, required) {
			continue
		}
		v, ok := normalizer.ParseValue(r.At(idx[models.ColValue]))
		if !ok {
			continue
		}

		h := models.Holding{
			Category:      s.policy.Canonical(r.At(idx[models.ColAssetCategory])),
			Name:          r.At(idx[models.ColName]),
			Ticker:        r.At(idx[models.ColTicker]),
			Custodian:     r.At(idx[models.ColCustodian]),
			AccountType:   r.At(idx[models.ColAccountType]),
			AccountNumber: r.At(idx[models.ColAccountNumber]),
			AccountInfo:   r.At(idx[models.ColAccountInfo]),
			Value:         v,
		}
		if s.opts.Columns == ColumnsDetailed {
			h.AccountInfo = models.AccountInfo(strings.TrimSpace(h.AccountType), strings.TrimSpace(h.AccountNumber))
		}
		holdings = append(holdings, h)
	}

	return s.consolidate(holdings)
}

// consolidate sums holdings sharing a key, drops zero sums and sorts.
// Applying it to its own output returns the same holdings.
func (s *Service) consolidate(holdings []models.Holding) []models.Holding {
	groups := make(map[string]int)
	out := make([]models.Holding, 0, len(holdings))

	for _, h := range holdings {
		k := s.groupKey(h)
		if i, ok := groups[k]; ok {
			out[i].Value = out[i].Value.Add(h.Value)
			continue
		}
		groups[k] = len(out)
		out = append(out, h)
	}

	kept := out[:0]
	for _, h := range out {
		if !h.Value.IsZero() {
			kept = append(kept, h)
		}
	}

	s.sortHoldings(kept)
	return kept
}

func (s *Service) groupKey(h models.Holding) string {
	parts := append([]string{h.Category, h.Name, h.Ticker}, s.accountParts(h)...)
	return strings.Join(parts, "\x00")
}

func (s *Service) sortHoldings(holdings []models.Holding) {
	sort.SliceStable(holdings, func(i, j int) bool {
		a, b := holdings[i], holdings[j]
		if c := s.policy.Compare(a.Category, b.Category); c != 0 {
			return c < 0
		}
		pa := append([]string{a.Name, a.Ticker}, s.accountParts(a)...)
		pb := append([]string{b.Name, b.Ticker}, s.accountParts(b)...)
		return comparePartsLess(pa, pb)
	})
}

func comparePartsLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func hasAll(r models.Row, idx map[string]int, columns []string) bool {
	for _, c := range columns {
		if models.IsMissing(r.At(idx[c])) {
			return false
		}
	}
	return true
}

// HoldingsTable renders holdings back into a table so that they can be fed
// through Aggregate again
func HoldingsTable(holdings []models.Holding) models.Table {
	t := models.NewTable(models.HoldingColumns...)
	for _, h := range holdings {
		t.Rows = append(t.Rows, h.Row())
	}
	return t
}

// Total sums the value of all holdings
func Total(holdings []models.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Value)
	}
	return total
}
