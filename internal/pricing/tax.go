package pricing

import "github.com/shopspring/decimal"

// Tax applies a flat percentage to the taxable amount, rounded half away
// from zero to cents.
func Tax(taxable, percentage decimal.Decimal) decimal.Decimal {
	if taxable.IsNegative() || percentage.IsNegative() {
		return decimal.Zero
	}
	return taxable.Mul(percentage).Div(hundred).Round(2)
}
