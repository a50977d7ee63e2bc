package money

import "github.com/shopspring/decimal"

// Round is the canonical rounding applied before any equality comparison
// on monetary sums: two decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Equal reports whether two amounts are the same after canonical rounding.
func Equal(a, b decimal.Decimal) bool {
	return Round(a).Equal(Round(b))
}
