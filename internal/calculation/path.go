package calculation

import (
	"math/rand/v2"

	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/rpgo/ruin-simulator/pkg/money"
	"github.com/shopspring/decimal"
)

// pathState is one path's state between years. Once ruined, balances stay zero and
// ruinAge keeps the first ruined year's age.
type pathState struct {
	balances Balances
	ruined   bool
	ruinAge  domain.RuinAge
}

// YearRecord is the full bookkeeping for one simulated year of one path.
type YearRecord struct {
	Flows      YearFlows       `json:"flows"`
	Withdrawal Withdrawal      `json:"withdrawal"`
	Return     decimal.Decimal `json:"return"`
	Balances   Balances        `json:"balances"` // end of year, after returns
	Ruined     bool            `json:"ruined"`
}

// PathOutcome is what one path contributes to the result grid.
type PathOutcome struct {
	Wealth  []decimal.Decimal // StartAge..EndAge, len Years+1
	RuinAge domain.RuinAge
}

// PathSimulator advances a single path through every simulated year.
// It is read-only after construction and safe to share across goroutines.
type PathSimulator struct {
	flows     []YearFlows
	waterfall Waterfall
	returns   ReturnModel
	start     Balances
}

// NewPathSimulator precomputes the income/expense schedule shared by every path.
func NewPathSimulator(params domain.SimulationParameters, policy IncomePolicy, returns ReturnModel) *PathSimulator {
	taxDeferred, taxable := params.StartingBuckets()
	return &PathSimulator{
		flows: NewIncomeSchedule(params, policy).Project(),
		waterfall: Waterfall{Rates: TaxRates{
			TaxDeferred: params.TaxDeferredTaxRate,
			Taxable:     params.TaxableTaxRate,
		}},
		returns: returns,
		start: Balances{
			Cash:        params.StartingCash,
			TaxDeferred: money.Round(taxDeferred),
			Taxable:     money.Round(taxable),
		},
	}
}

// Flows exposes the projected schedule.
func (ps *PathSimulator) Flows() []YearFlows { return ps.flows }

// Simulate runs one path on its private stream.
func (ps *PathSimulator) Simulate(rng *rand.Rand) PathOutcome {
	return ps.run(rng, nil)
}

// Trace runs one path and returns every year's bookkeeping alongside the outcome.
func (ps *PathSimulator) Trace(rng *rand.Rand) (PathOutcome, []YearRecord) {
	records := make([]YearRecord, 0, len(ps.flows))
	outcome := ps.run(rng, func(r YearRecord) { records = append(records, r) })
	return outcome, records
}

func (ps *PathSimulator) run(rng *rand.Rand, record func(YearRecord)) PathOutcome {
	state := pathState{balances: ps.start, ruinAge: domain.NotRuined}
	wealth := make([]decimal.Decimal, len(ps.flows)+1)
	wealth[0] = state.balances.Investable()

	for i, flows := range ps.flows {
		var rec YearRecord
		state, rec = ps.step(state, flows, rng)
		wealth[i+1] = state.balances.Investable()
		if record != nil {
			record(rec)
		}
	}
	return PathOutcome{Wealth: wealth, RuinAge: state.ruinAge}
}

// step is one year: waterfall, then (unless ruined) one sampled return on both buckets.
func (ps *PathSimulator) step(s pathState, flows YearFlows, rng *rand.Rand) (pathState, YearRecord) {
	rec := YearRecord{Flows: flows}
	if s.ruined {
		rec.Balances = s.balances
		rec.Ruined = true
		return s, rec
	}

	w := ps.waterfall.Withdraw(s.balances, flows.Expense, flows.Income())
	next := pathState{balances: w.Balances, ruinAge: s.ruinAge}
	rec.Withdrawal = w

	if w.Ruined {
		next.ruined = true
		if !next.ruinAge.IsSet() {
			next.ruinAge = domain.RuinAge(flows.Age)
		}
		rec.Balances = next.balances
		rec.Ruined = true
		return next, rec
	}

	r := ps.returns.Sample(rng)
	next.balances.TaxDeferred = money.Compound(next.balances.TaxDeferred, r)
	next.balances.Taxable = money.Compound(next.balances.Taxable, r)

	rec.Return = r
	rec.Balances = next.balances
	return next, rec
}
