package domain

import (
	"github.com/shopspring/decimal"
)

// Return model identifiers accepted in ReturnSettings.Model.
const (
	ReturnModelNormal     = "normal"
	ReturnModelHistorical = "historical"
)

// Configuration is the complete input for one simulation run.
type Configuration struct {
	Simulation   SimulationParameters `yaml:"simulation" json:"simulation"`
	EarnedIncome []IncomeBand         `yaml:"earned_income,omitempty" json:"earned_income,omitempty"`
	Returns      ReturnSettings       `yaml:"returns,omitempty" json:"returns,omitempty"`
	Report       ReportSettings       `yaml:"report,omitempty" json:"report,omitempty"`
	Execution    ExecutionSettings    `yaml:"execution,omitempty" json:"execution,omitempty"`
	Log          LogSettings          `yaml:"log,omitempty" json:"log,omitempty"`
	Storage      StorageSettings      `yaml:"storage,omitempty" json:"storage,omitempty"`
}

// SimulationParameters holds the household and market assumptions shared by every path.
// All monetary amounts are annual and nominal at the starting age.
type SimulationParameters struct {
	StartAge int `yaml:"start_age" json:"start_age"`
	EndAge   int `yaml:"end_age" json:"end_age"`

	StartingCash        decimal.Decimal `yaml:"starting_cash" json:"starting_cash"`
	StartingInvestments decimal.Decimal `yaml:"starting_investments" json:"starting_investments"`
	TaxDeferredFraction decimal.Decimal `yaml:"tax_deferred_fraction" json:"tax_deferred_fraction"`
	TaxableFraction     decimal.Decimal `yaml:"taxable_fraction" json:"taxable_fraction"`

	InflationRate    decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	ExpectedReturn   decimal.Decimal `yaml:"expected_return" json:"expected_return"`
	ReturnVolatility decimal.Decimal `yaml:"return_volatility" json:"return_volatility"`

	// Effective flat tax applied to gross withdrawals from each bucket.
	TaxDeferredTaxRate decimal.Decimal `yaml:"tax_deferred_tax_rate" json:"tax_deferred_tax_rate"`
	TaxableTaxRate     decimal.Decimal `yaml:"taxable_tax_rate" json:"taxable_tax_rate"`

	NumPaths int   `yaml:"num_paths" json:"num_paths"`
	Seed     int64 `yaml:"seed" json:"seed"`

	AnnualExpense   decimal.Decimal `yaml:"annual_expense" json:"annual_expense"`
	AnnualPension   decimal.Decimal `yaml:"annual_pension" json:"annual_pension"`
	PensionStartAge int             `yaml:"pension_start_age,omitempty" json:"pension_start_age,omitempty"` // 0 means paid from StartAge
	AnnualBenefit   decimal.Decimal `yaml:"annual_benefit" json:"annual_benefit"`
	BenefitStartAge int             `yaml:"benefit_start_age" json:"benefit_start_age"`
}

// IncomeBand pays Annual for every age in [FromAge, ToAge).
type IncomeBand struct {
	FromAge int             `yaml:"from_age" json:"from_age"`
	ToAge   int             `yaml:"to_age" json:"to_age"`
	Annual  decimal.Decimal `yaml:"annual" json:"annual"`
}

// ReturnSettings selects the annual return process.
type ReturnSettings struct {
	Model          string `yaml:"model,omitempty" json:"model,omitempty"`
	HistoricalFile string `yaml:"historical_file,omitempty" json:"historical_file,omitempty"`
}

// ReportSettings controls which summary rows are produced.
type ReportSettings struct {
	CheckpointAges   []int             `yaml:"checkpoint_ages,omitempty" json:"checkpoint_ages,omitempty"`
	PercentileLevels []decimal.Decimal `yaml:"percentile_levels,omitempty" json:"percentile_levels,omitempty"`
}

// ExecutionSettings bounds the worker pool; zero means one worker per CPU.
type ExecutionSettings struct {
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`
}

// LogSettings controls the slog handler.
type LogSettings struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`   // debug | info | warn | error
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // text | json
}

// StorageSettings points at the run history database. Empty disables recording.
type StorageSettings struct {
	DSN string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
}

// Years returns the number of simulated years.
func (p SimulationParameters) Years() int {
	return p.EndAge - p.StartAge
}

// Ages returns the age label of every row of the wealth grid, StartAge through EndAge.
func (p SimulationParameters) Ages() []int {
	ages := make([]int, 0, p.Years()+1)
	for age := p.StartAge; age <= p.EndAge; age++ {
		ages = append(ages, age)
	}
	return ages
}

// StartingBuckets splits StartingInvestments by the configured fractions.
func (p SimulationParameters) StartingBuckets() (taxDeferred, taxable decimal.Decimal) {
	return p.StartingInvestments.Mul(p.TaxDeferredFraction), p.StartingInvestments.Mul(p.TaxableFraction)
}

// EffectivePensionStartAge resolves the zero default to StartAge.
func (p SimulationParameters) EffectivePensionStartAge() int {
	if p.PensionStartAge == 0 {
		return p.StartAge
	}
	return p.PensionStartAge
}
