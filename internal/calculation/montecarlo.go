package calculation

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// minBootstrapYears is the series length below which bootstrap runs log a warning.
const minBootstrapYears = 20

// MonteCarloSimulator runs many independent paths over the same parameters.
type MonteCarloSimulator struct {
	Params  domain.SimulationParameters
	Policy  IncomePolicy
	Returns ReturnModel
	Workers int // concurrent paths; 0 means runtime.GOMAXPROCS(0)
	Logger  Logger
}

// NewMonteCarloSimulator validates cfg and wires the income policy and return model it describes.
func NewMonteCarloSimulator(cfg *domain.Configuration) (*MonteCarloSimulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	returns, err := NewReturnModel(cfg.Returns, cfg.Simulation)
	if err != nil {
		return nil, fmt.Errorf("failed to build return model: %w", err)
	}
	return &MonteCarloSimulator{
		Params:  cfg.Simulation,
		Policy:  NewIncomePolicy(cfg.EarnedIncome),
		Returns: returns,
		Workers: cfg.Execution.Workers,
		Logger:  NopLogger{},
	}, nil
}

// SetLogger replaces the logger; nil restores the no-op logger.
func (mcs *MonteCarloSimulator) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	mcs.Logger = l
}

// Run simulates every path and collects the wealth grid and ruin ages. Each path gets
// a stream derived from the master seed and its index, and writes only its own column
// and ruin slot, so the result is identical for any worker count.
func (mcs *MonteCarloSimulator) Run() (*domain.SimulationResult, error) {
	if err := mcs.Params.Validate(); err != nil {
		return nil, err
	}
	if mcs.Returns == nil {
		return nil, fmt.Errorf("%w: no return model configured", domain.ErrInvalidParameters)
	}
	logger := mcs.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	if b, ok := mcs.Returns.(BootstrapReturns); ok && len(b.Series) == 0 {
		return nil, fmt.Errorf("%w: empty historical return series", domain.ErrInvalidParameters)
	} else if ok && len(b.Series) < minBootstrapYears {
		logger.Warn("historical return series is short", "observations", len(b.Series), "recommended", minBootstrapYears)
	}

	seed := mcs.Params.Seed
	if seed == 0 {
		seed = seedFunc()
		logger.Debug("master seed generated", "seed", seed)
	}
	workers := mcs.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	params := mcs.Params
	numPaths := params.NumPaths
	years := params.Years()
	sim := NewPathSimulator(params, mcs.Policy, mcs.Returns)

	result := &domain.SimulationResult{
		Ages:     params.Ages(),
		Wealth:   make([][]decimal.Decimal, years+1),
		RuinAges: make([]domain.RuinAge, numPaths),
		NumPaths: numPaths,
		Seed:     seed,
	}
	for y := range result.Wealth {
		result.Wealth[y] = make([]decimal.Decimal, numPaths)
	}

	logger.Info("monte carlo run starting", "paths", numPaths, "years", years, "seed", seed, "workers", workers)
	started := time.Now()

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for p := 0; p < numPaths; p++ {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(path int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			outcome := sim.Simulate(NewPathRand(seed, path))
			for y, w := range outcome.Wealth {
				result.Wealth[y][path] = w
			}
			result.RuinAges[path] = outcome.RuinAge
		}(p)
	}

	wg.Wait()

	ruined := 0
	for _, age := range result.RuinAges {
		if age.IsSet() {
			ruined++
		}
	}
	logger.Info("monte carlo run complete", "paths", numPaths, "ruined", ruined, "elapsed", time.Since(started))
	return result, nil
}

// TracePath replays a single path with full per-year bookkeeping. The stream is the
// same one Run uses for that index, so the trace matches the grid column.
func (mcs *MonteCarloSimulator) TracePath(seed int64, path int) (PathOutcome, []YearRecord, error) {
	if err := mcs.Params.Validate(); err != nil {
		return PathOutcome{}, nil, err
	}
	if path < 0 || path >= mcs.Params.NumPaths {
		return PathOutcome{}, nil, fmt.Errorf("%w: path %d out of range [0, %d)", domain.ErrInvalidParameters, path, mcs.Params.NumPaths)
	}
	sim := NewPathSimulator(mcs.Params, mcs.Policy, mcs.Returns)
	outcome, records := sim.Trace(NewPathRand(seed, path))
	return outcome, records, nil
}
