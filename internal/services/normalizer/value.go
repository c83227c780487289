package normalizer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxValueScale bounds both the exponent and the coefficient digit count of
// an accepted Value; larger literals are treated as unparseable.
const maxValueScale = 64

// ParseValue coerces a Value cell to a number. Blank cells and anything that
// is not a plain decimal or exponent literal (currency symbols, thousands
// separators, NaN, Inf) are rejected, as are literals whose exponent or digit
// count exceeds maxValueScale.
func ParseValue(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c == '.', c == '-', c == '+', c == 'e', c == 'E':
		default:
			return decimal.Zero, false
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxValueScale || exp < -maxValueScale || d.NumDigits() > maxValueScale {
		return decimal.Zero, false
	}
	return d, true
}
