package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Portfolio summarizes aggregated holdings for the page header
type Portfolio struct {
	Holdings    []Holding         `json:"holdings,omitempty"`
	TotalValue  decimal.Decimal   `json:"total_value"`
	ByCategory  []AllocationSlice `json:"by_category"`
	ByCustodian []AllocationSlice `json:"by_custodian"`
}

// AllocationSlice represents a portion of the portfolio
type AllocationSlice struct {
	Label      string          `json:"label"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	Count      int             `json:"count"`
}

// NewPortfolio builds the summary. Categories follow the policy order,
// custodians are sorted by name.
func NewPortfolio(holdings []Holding, policy *CategoryPolicy) *Portfolio {
	p := &Portfolio{
		Holdings:   holdings,
		TotalValue: decimal.Zero,
	}
	p.CalculateTotals(policy)
	return p
}

// CalculateTotals recalculates TotalValue and the allocation slices from holdings
func (p *Portfolio) CalculateTotals(policy *CategoryPolicy) {
	if policy == nil {
		policy = DefaultCategoryPolicy()
	}

	total := decimal.Zero
	byCategory := make(map[string]*AllocationSlice)
	byCustodian := make(map[string]*AllocationSlice)

	for _, h := range p.Holdings {
		total = total.Add(h.Value)
		addTo(byCategory, h.Category, h.Value)
		addTo(byCustodian, h.Custodian, h.Value)
	}

	p.TotalValue = total
	p.ByCategory = slices(byCategory, total, policy.Less)
	p.ByCustodian = slices(byCustodian, total, func(a, b string) bool { return a < b })
}

func addTo(m map[string]*AllocationSlice, label string, v decimal.Decimal) {
	s, ok := m[label]
	if !ok {
		s = &AllocationSlice{Label: label, Value: decimal.Zero}
		m[label] = s
	}
	s.Value = s.Value.Add(v)
	s.Count++
}

func slices(m map[string]*AllocationSlice, total decimal.Decimal, less func(a, b string) bool) []AllocationSlice {
	hundred := decimal.NewFromInt(100)
	out := make([]AllocationSlice, 0, len(m))
	for _, s := range m {
		if !total.IsZero() {
			s.Percentage = s.Value.Div(total).Mul(hundred).Round(2)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[i].Label, out[j].Label)
	})
	return out
}
