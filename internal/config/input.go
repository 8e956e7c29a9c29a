package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/rpgo/ruin-simulator/pkg/money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the parameter file.
const (
	EnvPaths     = "RUIN_PATHS"
	EnvSeed      = "RUIN_SEED"
	EnvWorkers   = "RUIN_WORKERS"
	EnvLogLevel  = "RUIN_LOG_LEVEL"
	EnvLogFormat = "RUIN_LOG_FORMAT"
	EnvDSN       = "RUIN_DB"
)

// InputParser handles parsing of simulation parameter files
type InputParser struct {
	// EnvFiles are loaded with godotenv before overrides are applied.
	// Missing files are ignored.
	EnvFiles []string
}

// NewInputParser creates a new input parser that reads ./.env if present
func NewInputParser() *InputParser {
	return &InputParser{EnvFiles: []string{".env"}}
}

// LoadFromFile loads a configuration from a YAML (or JSON) file, applies
// environment overrides and defaults, and validates the result.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, overrides, defaults and validates raw configuration bytes.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.loadEnvFiles()
	if err := ApplyEnvOverrides(&config); err != nil {
		return nil, err
	}
	ApplyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

func (ip *InputParser) loadEnvFiles() {
	for _, f := range ip.EnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// existing process variables win over .env entries
		_ = godotenv.Load(f)
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	return config.Validate()
}

// ApplyEnvOverrides replaces configuration values with environment variables when set.
func ApplyEnvOverrides(config *domain.Configuration) error {
	if v := os.Getenv(EnvPaths); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPaths, v, err)
		}
		config.Simulation.NumPaths = n
	}
	if v := os.Getenv(EnvSeed); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
		config.Simulation.Seed = n
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		config.Execution.Workers = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		config.Log.Format = v
	}
	if v := os.Getenv(EnvDSN); v != "" {
		config.Storage.DSN = v
	}
	return nil
}

// ApplyDefaults fills optional settings. Household parameters are never defaulted.
func ApplyDefaults(config *domain.Configuration) {
	if config.Returns.Model == "" {
		config.Returns.Model = domain.ReturnModelNormal
	}
	if len(config.Report.CheckpointAges) == 0 {
		config.Report.CheckpointAges = []int{60, 65, 70, 75, 80, 85, 90, 95}
	}
	if len(config.Report.PercentileLevels) == 0 {
		config.Report.PercentileLevels = []decimal.Decimal{
			decimal.NewFromInt(5), decimal.NewFromInt(50), decimal.NewFromInt(95),
		}
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

// CreateExampleConfiguration creates the reference household: retiring at 55 with
// 160k cash and 1M invested 60/40 between a 401(k) and a brokerage account.
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	monthly := func(v int64) decimal.Decimal { return money.Annual(decimal.NewFromInt(v)) }

	config := &domain.Configuration{
		Simulation: domain.SimulationParameters{
			StartAge:            55,
			EndAge:              95,
			StartingCash:        decimal.NewFromInt(160_000),
			StartingInvestments: decimal.NewFromInt(1_000_000),
			TaxDeferredFraction: decimal.NewFromFloat(0.60),
			TaxableFraction:     decimal.NewFromFloat(0.40),
			InflationRate:       decimal.NewFromFloat(0.03),
			ExpectedReturn:      decimal.NewFromFloat(0.065),
			ReturnVolatility:    decimal.NewFromFloat(0.11),
			TaxDeferredTaxRate:  decimal.NewFromFloat(0.22),
			TaxableTaxRate:      decimal.NewFromFloat(0.12),
			NumPaths:            10_000,
			Seed:                42,
			AnnualExpense:       monthly(7_500),
			AnnualPension:       monthly(700),
			AnnualBenefit:       monthly(2_450),
			BenefitStartAge:     65,
		},
		EarnedIncome: []domain.IncomeBand{
			{FromAge: 55, ToAge: 65, Annual: decimal.NewFromInt(24_000)},
		},
	}
	ApplyDefaults(config)
	return config
}
