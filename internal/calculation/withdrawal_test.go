package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWaterfallNoDrawWhenIncomeCoversExpense(t *testing.T) {
	w := Waterfall{Rates: TaxRates{TaxDeferred: d("0.22"), Taxable: d("0.12")}}
	start := Balances{Cash: d("1000"), TaxDeferred: d("6000"), Taxable: d("4000")}

	got := w.Withdraw(start, d("5000"), d("7000"))

	assert.True(t, got.NetNeed.IsZero())
	assert.Equal(t, start, got.Balances)
	assert.False(t, got.Ruined)
}

func TestWaterfallCashFirst(t *testing.T) {
	w := Waterfall{Rates: TaxRates{TaxDeferred: d("0.22"), Taxable: d("0.12")}}
	start := Balances{Cash: d("10000"), TaxDeferred: d("6000"), Taxable: d("4000")}

	got := w.Withdraw(start, d("8000"), d("2000"))

	requireDecimalEqual(t, d("6000"), got.FromCash)
	requireDecimalEqual(t, d("4000"), got.Balances.Cash)
	requireDecimalEqual(t, d("6000"), got.Balances.TaxDeferred)
	requireDecimalEqual(t, d("4000"), got.Balances.Taxable)
	assert.True(t, got.Gross.IsZero())
}

func TestWaterfallProportionalGrossUp(t *testing.T) {
	w := Waterfall{Rates: TaxRates{TaxDeferred: d("0.2"), Taxable: d("0.1")}}
	start := Balances{Cash: d("1000"), TaxDeferred: d("6000"), Taxable: d("4000")}

	// need after cash = 4000; efficiency = 0.6*0.8 + 0.4*0.9 = 0.84
	got := w.Withdraw(start, d("5000"), decimal.Zero)

	requireDecimalEqual(t, d("1000"), got.FromCash)
	requireDecimalEqual(t, d("4761.90"), got.Gross)
	requireDecimalEqual(t, d("2857.14"), got.FromTaxDeferred)
	requireDecimalEqual(t, d("1904.76"), got.FromTaxable)
	requireDecimalEqual(t, d("3142.86"), got.Balances.TaxDeferred)
	requireDecimalEqual(t, d("2095.24"), got.Balances.Taxable)
	assert.True(t, got.Balances.Cash.IsZero())
	assert.False(t, got.Ruined)
}

func TestWaterfallRuinWhenBucketsEmpty(t *testing.T) {
	w := Waterfall{Rates: TaxRates{}}
	got := w.Withdraw(Balances{Cash: d("10000")}, d("12000"), decimal.Zero)

	assert.True(t, got.Ruined)
	assert.True(t, got.Balances.Cash.IsZero())
	assert.True(t, got.Balances.Investable().IsZero())
	requireDecimalEqual(t, d("10000"), got.FromCash)
}

func TestWaterfallGrossCappedAtWealth(t *testing.T) {
	w := Waterfall{Rates: TaxRates{}}
	got := w.Withdraw(Balances{TaxDeferred: d("100")}, d("1000"), decimal.Zero)

	requireDecimalEqual(t, d("100"), got.Gross)
	assert.True(t, got.Balances.Investable().IsZero())
	assert.False(t, got.Ruined, "exhausting the buckets is not ruin until a later year finds them empty")
}

func TestWaterfallEfficiencyFloor(t *testing.T) {
	w := Waterfall{Rates: TaxRates{TaxDeferred: d("0.9999999"), Taxable: d("0.9999999")}}
	got := w.Withdraw(Balances{TaxDeferred: d("300"), Taxable: d("200")}, d("1"), decimal.Zero)

	requireDecimalEqual(t, d("500"), got.Gross)
	assert.True(t, got.Balances.Investable().IsZero())
}

func TestNetPerGross(t *testing.T) {
	w := Waterfall{Rates: TaxRates{TaxDeferred: d("0.22"), Taxable: d("0.12")}}
	requireDecimalEqual(t, d("0.78"), w.NetPerGross(d("1")))
	requireDecimalEqual(t, d("0.88"), w.NetPerGross(d("0")))
	requireDecimalEqual(t, d("0.82"), w.NetPerGross(d("0.6")))
}

func TestAllocateGross(t *testing.T) {
	tests := []struct {
		name                     string
		gross, deferred, taxable string
		wantDeferred, wantTaxabl string
	}{
		{"proportional", "100", "50", "50", "50", "50"},
		{"uneven split", "100", "75", "25", "75", "25"},
		{"tax-deferred overflow left undrawn", "150", "100", "0", "100", "0"},
		{"taxable overflow left undrawn", "150", "0", "100", "0", "100"},
		{"nothing to draw from", "150", "0", "0", "0", "0"},
		{"zero gross", "0", "10", "10", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDeferred, gotTaxable := AllocateGross(d(tt.gross), d(tt.deferred), d(tt.taxable))
			requireDecimalEqual(t, d(tt.wantDeferred), gotDeferred)
			requireDecimalEqual(t, d(tt.wantTaxabl), gotTaxable)
			assert.False(t, gotDeferred.IsNegative())
			assert.False(t, gotTaxable.IsNegative())
			assert.True(t, gotDeferred.LessThanOrEqual(d(tt.deferred)))
			assert.True(t, gotTaxable.LessThanOrEqual(d(tt.taxable)))
		})
	}
}

func TestRebalanceDrawsBothDirections(t *testing.T) {
	// tax-deferred overflows: excess shifts onto taxable
	fromDeferred, fromTaxable := rebalanceDraws(d("80"), d("20"), d("50"), d("100"))
	requireDecimalEqual(t, d("50"), fromDeferred)
	requireDecimalEqual(t, d("50"), fromTaxable)

	// taxable overflows: excess shifts onto tax-deferred
	fromDeferred, fromTaxable = rebalanceDraws(d("20"), d("80"), d("100"), d("50"))
	requireDecimalEqual(t, d("50"), fromDeferred)
	requireDecimalEqual(t, d("50"), fromTaxable)
}
