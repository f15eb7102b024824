// Package money provides exact decimal arithmetic for currency aggregation.
package money

import "github.com/shopspring/decimal"

// Zero is the additive identity for commission amounts.
var Zero = decimal.Zero

// FromFloat converts a float64 to a Decimal. Only for constants and
// configuration values; aggregation paths must stay in Decimal.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Sum adds a slice of amounts exactly.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Percent returns amount * pct / 100 without intermediate rounding.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(decimal.NewFromInt(100))
}

// Round2 rounds half-up to cents. Applied at persistence boundaries only;
// in-flight aggregation is exact.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
