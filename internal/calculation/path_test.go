package calculation

import (
	"testing"

	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathImmediateRuinFromCashOnly(t *testing.T) {
	params := domain.SimulationParameters{
		StartAge:            55,
		EndAge:              60,
		StartingCash:        d("10000"),
		TaxDeferredFraction: d("0.5"),
		TaxableFraction:     d("0.5"),
		AnnualExpense:       d("12000"),
		NumPaths:            1,
	}
	sim := NewPathSimulator(params, nil, NormalReturns{})
	outcome, records := sim.Trace(NewPathRand(1, 0))

	require.True(t, outcome.RuinAge.IsSet())
	assert.Equal(t, domain.RuinAge(55), outcome.RuinAge)
	require.Len(t, outcome.Wealth, 6)
	for y, w := range outcome.Wealth {
		assert.True(t, w.IsZero(), "year %d wealth %s", y, w)
	}

	require.Len(t, records, 5)
	requireDecimalEqual(t, d("10000"), records[0].Withdrawal.FromCash)
	assert.True(t, records[0].Withdrawal.Ruined)
	for _, r := range records {
		assert.True(t, r.Ruined)
	}
}

func TestPathConstantWealthWhenIncomeCoversExpense(t *testing.T) {
	params := testParams()
	params.ExpectedReturn = decimal.Zero
	params.AnnualExpense = d("10000")
	params.AnnualPension = d("12000")
	params.AnnualBenefit = decimal.Zero

	sim := NewPathSimulator(params, nil, NormalReturns{})
	outcome := sim.Simulate(NewPathRand(5, 0))

	assert.False(t, outcome.RuinAge.IsSet())
	for y, w := range outcome.Wealth {
		requireDecimalEqual(t, d("500000"), w, "year", y)
	}
}

func TestPathDeterministicGrowth(t *testing.T) {
	params := testParams()
	params.EndAge = 57
	params.AnnualExpense = d("10000")
	params.AnnualPension = d("10000")
	params.AnnualBenefit = decimal.Zero

	sim := NewPathSimulator(params, nil, NormalReturns{Mean: 0.10})
	outcome := sim.Simulate(NewPathRand(5, 0))

	// pension matches expense every year, so only returns move wealth
	requireDecimalEqual(t, d("500000"), outcome.Wealth[0])
	requireDecimalEqual(t, d("550000"), outcome.Wealth[1])
	requireDecimalEqual(t, d("605000"), outcome.Wealth[2])
}

func TestPathRuinIsRecordedOnceAndSticks(t *testing.T) {
	params := testParams()
	params.EndAge = 95
	params.StartingCash = decimal.Zero
	params.StartingInvestments = d("100000")
	params.AnnualExpense = d("40000")
	params.AnnualPension = decimal.Zero
	params.AnnualBenefit = d("80000")
	params.BenefitStartAge = 70 // income later exceeds expense, which must not revive the path

	sim := NewPathSimulator(params, nil, NormalReturns{})
	outcome, records := sim.Trace(NewPathRand(1, 0))

	require.True(t, outcome.RuinAge.IsSet())
	ruinIdx := int(outcome.RuinAge) - params.StartAge + 1
	for y := ruinIdx; y < len(outcome.Wealth); y++ {
		assert.True(t, outcome.Wealth[y].IsZero(), "wealth after ruin at index %d", y)
	}
	firstRuined := -1
	for i, r := range records {
		if r.Ruined && firstRuined < 0 {
			firstRuined = i
		}
		if firstRuined >= 0 {
			assert.True(t, r.Ruined)
		}
	}
	assert.Equal(t, int(outcome.RuinAge), records[firstRuined].Flows.Age)
}

func TestPathWealthNeverNegative(t *testing.T) {
	params := testParams()
	params.ReturnVolatility = d("0.35")
	params.AnnualExpense = d("90000")
	sim := NewPathSimulator(params, nil, NormalReturns{Mean: 0.05, Volatility: 0.35})

	for p := 0; p < 50; p++ {
		outcome := sim.Simulate(NewPathRand(11, p))
		for _, w := range outcome.Wealth {
			require.False(t, w.IsNegative())
		}
	}
}
