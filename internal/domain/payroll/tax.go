package payroll

import "github.com/shopspring/decimal"

// TaxPolicy computes tax from gross pay. Injected into the aggregator so a
// jurisdiction-specific rule can replace the flat-rate placeholder without
// touching the aggregation itself.
type TaxPolicy func(gross decimal.Decimal) decimal.Decimal

// DefaultTaxRate is the flat-rate placeholder, not a statutory tax table.
var DefaultTaxRate = decimal.RequireFromString("0.10")

// FlatRate returns a TaxPolicy charging a fixed fraction of gross pay,
// rounded to 2 decimals.
func FlatRate(rate decimal.Decimal) TaxPolicy {
	return func(gross decimal.Decimal) decimal.Decimal {
		return gross.Mul(rate).Round(2)
	}
}
