package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidParameters is wrapped by every validation failure.
var ErrInvalidParameters = errors.New("invalid simulation parameters")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameters, fmt.Sprintf(format, args...))
}

// Validate checks the parameter set before any path is simulated.
func (p SimulationParameters) Validate() error {
	if p.NumPaths < 1 {
		return invalid("num_paths must be at least 1, got %d", p.NumPaths)
	}
	if p.StartAge < 0 {
		return invalid("start_age cannot be negative")
	}
	if p.EndAge < p.StartAge {
		return invalid("end_age %d is before start_age %d", p.EndAge, p.StartAge)
	}

	nonNegative := map[string]decimal.Decimal{
		"starting_cash":        p.StartingCash,
		"starting_investments": p.StartingInvestments,
		"annual_expense":       p.AnnualExpense,
		"annual_pension":       p.AnnualPension,
		"annual_benefit":       p.AnnualBenefit,
		"return_volatility":    p.ReturnVolatility,
	}
	for name, v := range nonNegative {
		if v.IsNegative() {
			return invalid("%s cannot be negative", name)
		}
	}

	one := decimal.NewFromInt(1)
	if p.TaxDeferredFraction.IsNegative() || p.TaxDeferredFraction.GreaterThan(one) {
		return invalid("tax_deferred_fraction must be between 0 and 1")
	}
	if p.TaxableFraction.IsNegative() || p.TaxableFraction.GreaterThan(one) {
		return invalid("taxable_fraction must be between 0 and 1")
	}
	if !p.TaxDeferredFraction.Add(p.TaxableFraction).Equal(one) {
		return invalid("bucket fractions must sum to 1, got %s + %s", p.TaxDeferredFraction, p.TaxableFraction)
	}

	if p.TaxDeferredTaxRate.IsNegative() || p.TaxDeferredTaxRate.GreaterThanOrEqual(one) {
		return invalid("tax_deferred_tax_rate must be in [0, 1)")
	}
	if p.TaxableTaxRate.IsNegative() || p.TaxableTaxRate.GreaterThanOrEqual(one) {
		return invalid("taxable_tax_rate must be in [0, 1)")
	}
	if p.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) {
		return invalid("inflation_rate cannot be less than -10%% (extreme deflation)")
	}
	if p.ExpectedReturn.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return invalid("expected_return must be greater than -100%%")
	}
	if p.BenefitStartAge < 0 || p.PensionStartAge < 0 {
		return invalid("benefit and pension start ages cannot be negative")
	}
	return nil
}

// ValidateIncomeBands rejects bands that are empty, inverted or negative.
func ValidateIncomeBands(bands []IncomeBand) error {
	for i, b := range bands {
		if b.ToAge <= b.FromAge {
			return invalid("earned_income[%d]: to_age %d must be greater than from_age %d", i, b.ToAge, b.FromAge)
		}
		if b.Annual.IsNegative() {
			return invalid("earned_income[%d]: annual amount cannot be negative", i)
		}
	}
	return nil
}

// Validate checks the return model selection.
func (r ReturnSettings) Validate() error {
	switch r.Model {
	case "", ReturnModelNormal:
		return nil
	case ReturnModelHistorical:
		if r.HistoricalFile == "" {
			return invalid("returns.historical_file is required for the historical model")
		}
		return nil
	default:
		return invalid("unknown return model %q", r.Model)
	}
}

// Validate checks checkpoint ages and percentile levels.
func (r ReportSettings) Validate() error {
	for _, age := range r.CheckpointAges {
		if age < 0 {
			return invalid("checkpoint age cannot be negative")
		}
	}
	hundred := decimal.NewFromInt(100)
	for _, lvl := range r.PercentileLevels {
		if lvl.IsNegative() || lvl.GreaterThan(hundred) {
			return invalid("percentile level %s must be between 0 and 100", lvl)
		}
	}
	return nil
}

// Validate checks the whole configuration.
func (c *Configuration) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if err := ValidateIncomeBands(c.EarnedIncome); err != nil {
		return err
	}
	if err := c.Returns.Validate(); err != nil {
		return err
	}
	if err := c.Report.Validate(); err != nil {
		return err
	}
	if c.Execution.Workers < 0 {
		return invalid("execution.workers cannot be negative")
	}
	return nil
}
