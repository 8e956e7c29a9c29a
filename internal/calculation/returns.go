package calculation

import (
	"fmt"
	"math/rand/v2"

	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// ReturnFloor caps a single-year loss at 95% so balances never turn negative.
const ReturnFloor = -0.95

var returnFloor = decimal.NewFromFloat(ReturnFloor)

// ReturnModel draws one aggregate annual return for a path-year.
// Implementations must consume rng deterministically.
type ReturnModel interface {
	Sample(rng *rand.Rand) decimal.Decimal
}

// NewPathRand derives the private stream for one path from the master seed.
// Streams depend only on (seed, path), never on scheduling order.
func NewPathRand(seed int64, path int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(path)))
}

// FloorReturn applies ReturnFloor.
func FloorReturn(r decimal.Decimal) decimal.Decimal {
	if r.LessThan(returnFloor) {
		return returnFloor
	}
	return r
}

// NormalReturns samples from N(Mean, Volatility²).
type NormalReturns struct {
	Mean       float64
	Volatility float64
}

// Sample implements ReturnModel.
func (n NormalReturns) Sample(rng *rand.Rand) decimal.Decimal {
	r := n.Mean + n.Volatility*rng.NormFloat64()
	if r < ReturnFloor {
		return returnFloor
	}
	return decimal.NewFromFloat(r)
}

// BootstrapReturns resamples uniformly, with replacement, from a historical series.
type BootstrapReturns struct {
	Series []decimal.Decimal
}

// Sample implements ReturnModel.
func (b BootstrapReturns) Sample(rng *rand.Rand) decimal.Decimal {
	return FloorReturn(b.Series[rng.IntN(len(b.Series))])
}

// NewReturnModel builds the configured return process.
func NewReturnModel(settings domain.ReturnSettings, params domain.SimulationParameters) (ReturnModel, error) {
	switch settings.Model {
	case "", domain.ReturnModelNormal:
		return NormalReturns{
			Mean:       params.ExpectedReturn.InexactFloat64(),
			Volatility: params.ReturnVolatility.InexactFloat64(),
		}, nil
	case domain.ReturnModelHistorical:
		series, err := LoadReturnSeries(settings.HistoricalFile)
		if err != nil {
			return nil, err
		}
		return BootstrapReturns{Series: series.Returns()}, nil
	default:
		return nil, fmt.Errorf("%w: unknown return model %q", domain.ErrInvalidParameters, settings.Model)
	}
}
