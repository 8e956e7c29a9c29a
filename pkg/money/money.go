// Package money holds the cent-precision helpers shared by the simulator and reports.
package money

import (
	"github.com/shopspring/decimal"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// Round rounds an amount to cents (half away from zero).
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Annual converts a monthly amount to annual
func Annual(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(twelve)
}

// Monthly converts an annual amount to monthly
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(twelve)
}

// NetOfTax is what remains of a gross amount after a flat tax rate.
func NetOfTax(gross, rate decimal.Decimal) decimal.Decimal {
	return gross.Mul(one.Sub(rate))
}

// Compound grows an amount by one period of rate and rounds to cents.
func Compound(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(one.Add(rate)))
}

// Format formats an amount as USD with 2 decimals.
func Format(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
