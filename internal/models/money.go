package models

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DisplayCurrency is the currency used for every formatted amount
const DisplayCurrency = money.USD

var maxCents = decimal.NewFromInt(math.MaxInt64)

// FormatMoney renders an amount as currency with two decimals and thousands
// separators, e.g. "$1,234.50". Amounts are rounded half away from zero to cents.
func FormatMoney(amount decimal.Decimal) string {
	cur := money.GetCurrency(DisplayCurrency)
	cents := amount.Shift(int32(cur.Fraction)).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return formatWide(amount, cur)
	}
	return money.New(cents.IntPart(), DisplayCurrency).Display()
}

// formatWide renders amounts whose cents do not fit in an int64
func formatWide(amount decimal.Decimal, cur *money.Currency) string {
	fixed := amount.Abs().StringFixed(int32(cur.Fraction))
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteString("-")
	}
	b.WriteString(cur.Grapheme)
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(cur.Thousand)
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteString(cur.Decimal)
		b.WriteString(frac)
	}
	return b.String()
}

// FormatCell renders a pivot cell for display: blank when missing or zero
func FormatCell(c decimal.NullDecimal) string {
	if !c.Valid || c.Decimal.IsZero() {
		return ""
	}
	return FormatMoney(c.Decimal)
}
