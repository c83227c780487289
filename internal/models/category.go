package models

import (
	"sort"
	"strings"
)

// Asset categories with a fixed display priority
const (
	CategoryUSEquity    = "U.S. Equity"
	CategoryUSSmallCap  = "U.S. Small Cap" // folded into U.S. Equity
	CategoryIntlEquity  = "Int'l Equity"
	CategoryFixedIncome = "Fixed Income"
	CategoryCash        = "MM, Cash & Equiv."
)

// Typographic spelling of the international label found in some exports
const intlEquityTypographic = "Int’l Equity"

// unrankedCategory is the rank shared by every category outside the fixed list
const unrankedCategory = 99

// CategoryPolicy assigns a deterministic ordering rank to asset categories
type CategoryPolicy struct {
	order []string
	rank  map[string]int
}

// NewCategoryPolicy builds the policy with the given spelling for the
// international equity label. An empty label falls back to CategoryIntlEquity.
// Both apostrophe spellings of the label share its rank.
func NewCategoryPolicy(intlLabel string) *CategoryPolicy {
	intlLabel = strings.TrimSpace(intlLabel)
	if intlLabel == "" {
		intlLabel = CategoryIntlEquity
	}

	p := &CategoryPolicy{
		order: []string{CategoryUSEquity, intlLabel, CategoryFixedIncome, CategoryCash},
		rank:  make(map[string]int),
	}
	for i, c := range p.order {
		p.rank[c] = i + 1
	}
	for _, alias := range []string{CategoryIntlEquity, intlEquityTypographic} {
		if _, ok := p.rank[alias]; !ok {
			p.rank[alias] = p.rank[intlLabel]
		}
	}
	return p
}

// DefaultCategoryPolicy returns the policy with the ASCII Int'l label
func DefaultCategoryPolicy() *CategoryPolicy {
	return NewCategoryPolicy(CategoryIntlEquity)
}

// Order returns the fixed priority list
func (p *CategoryPolicy) Order() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Rank returns 1..4 for fixed categories and 99 for everything else
func (p *CategoryPolicy) Rank(category string) int {
	if r, ok := p.rank[category]; ok {
		return r
	}
	return unrankedCategory
}

// Canonical maps either spelling of the international label to the
// configured one and returns any other category unchanged
func (p *CategoryPolicy) Canonical(category string) string {
	if category == CategoryIntlEquity || category == intlEquityTypographic {
		return p.order[1]
	}
	return category
}

// IsRanked reports whether the category belongs to the fixed list
func (p *CategoryPolicy) IsRanked(category string) bool {
	_, ok := p.rank[category]
	return ok
}

// Compare orders two categories: fixed ones first in list order, then the
// rest lexicographically. It returns -1, 0 or 1.
func (p *CategoryPolicy) Compare(a, b string) int {
	ra, rb := p.Rank(a), p.Rank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	case ra != unrankedCategory:
		return 0
	}
	return strings.Compare(a, b)
}

// Less is Compare(a, b) < 0
func (p *CategoryPolicy) Less(a, b string) bool {
	return p.Compare(a, b) < 0
}

// Sort orders a list of distinct categories by the policy
func (p *CategoryPolicy) Sort(categories []string) []string {
	out := make([]string, len(categories))
	copy(out, categories)
	sort.SliceStable(out, func(i, j int) bool {
		return p.Less(out[i], out[j])
	})
	return out
}

// Remap folds legacy category labels into their display category
func Remap(category string) string {
	if category == CategoryUSSmallCap {
		return CategoryUSEquity
	}
	return category
}
