package calculation

import (
	"testing"

	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalReturnsZeroVolatilityIsExact(t *testing.T) {
	rng := NewPathRand(1, 0)
	model := NormalReturns{Mean: 0.05}
	for i := 0; i < 10; i++ {
		requireDecimalEqual(t, d("0.05"), model.Sample(rng))
	}
	requireDecimalEqual(t, decimal.Zero, NormalReturns{}.Sample(rng))
}

func TestNormalReturnsFloor(t *testing.T) {
	rng := NewPathRand(1, 0)
	requireDecimalEqual(t, d("-0.95"), NormalReturns{Mean: -3}.Sample(rng))

	wild := NormalReturns{Mean: 0, Volatility: 5}
	for i := 0; i < 1000; i++ {
		assert.True(t, wild.Sample(rng).GreaterThanOrEqual(d("-0.95")))
	}
}

func TestNormalReturnsMoments(t *testing.T) {
	rng := NewPathRand(7, 3)
	model := NormalReturns{Mean: 0.07, Volatility: 0.15}
	const n = 20000
	var sum float64
	for i := 0; i < n; i++ {
		sum += model.Sample(rng).InexactFloat64()
	}
	assert.InDelta(t, 0.07, sum/n, 0.01)
}

func TestPathRandStreams(t *testing.T) {
	a, b := NewPathRand(42, 3), NewPathRand(42, 3)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}

	c, e := NewPathRand(42, 3), NewPathRand(42, 4)
	same := true
	for i := 0; i < 5; i++ {
		if c.Uint64() != e.Uint64() {
			same = false
		}
	}
	assert.False(t, same, "distinct paths must get distinct streams")
}

func TestBootstrapReturns(t *testing.T) {
	series := []decimal.Decimal{d("0.10"), d("-0.20"), d("0.05")}
	model := BootstrapReturns{Series: series}
	rng := NewPathRand(9, 0)
	for i := 0; i < 100; i++ {
		r := model.Sample(rng)
		assert.True(t, r.Equal(series[0]) || r.Equal(series[1]) || r.Equal(series[2]), "unexpected sample %s", r)
	}

	crash := BootstrapReturns{Series: []decimal.Decimal{d("-0.99")}}
	requireDecimalEqual(t, d("-0.95"), crash.Sample(rng))
}

func TestNewReturnModel(t *testing.T) {
	params := testParams()

	m, err := NewReturnModel(domain.ReturnSettings{}, params)
	require.NoError(t, err)
	assert.Equal(t, NormalReturns{Mean: 0.05, Volatility: 0}, m)

	_, err = NewReturnModel(domain.ReturnSettings{Model: "lognormal"}, params)
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)

	_, err = NewReturnModel(domain.ReturnSettings{Model: domain.ReturnModelHistorical, HistoricalFile: "missing.csv"}, params)
	assert.Error(t, err)
}
