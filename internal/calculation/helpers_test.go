package calculation

import (
	"testing"

	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// testParams is a small deterministic household: 55..65, zero volatility.
func testParams() domain.SimulationParameters {
	return domain.SimulationParameters{
		StartAge:            55,
		EndAge:              65,
		StartingCash:        d("20000"),
		StartingInvestments: d("500000"),
		TaxDeferredFraction: d("0.6"),
		TaxableFraction:     d("0.4"),
		InflationRate:       d("0.03"),
		ExpectedReturn:      d("0.05"),
		ReturnVolatility:    d("0"),
		TaxDeferredTaxRate:  d("0.22"),
		TaxableTaxRate:      d("0.12"),
		NumPaths:            20,
		Seed:                42,
		AnnualExpense:       d("60000"),
		AnnualPension:       d("8400"),
		AnnualBenefit:       d("29400"),
		BenefitStartAge:     62,
	}
}

func requireDecimalEqual(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, expected.Equal(actual), "expected %s, got %s %v", expected, actual, msgAndArgs)
}

func requireGridEqual(t *testing.T, a, b *domain.SimulationResult) {
	t.Helper()
	require.Equal(t, len(a.Wealth), len(b.Wealth))
	for y := range a.Wealth {
		require.Equal(t, len(a.Wealth[y]), len(b.Wealth[y]))
		for p := range a.Wealth[y] {
			requireDecimalEqual(t, a.Wealth[y][p], b.Wealth[y][p], "year", y, "path", p)
		}
	}
	require.Equal(t, a.RuinAges, b.RuinAges)
}
