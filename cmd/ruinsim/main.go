package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rpgo/ruin-simulator/internal/config"
	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/rpgo/ruin-simulator/internal/logging"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ruinsim",
		Short: "Monte Carlo retirement ruin simulator",
		Long: `ruinsim estimates how likely a household is to run out of investable
money before a given age.

It simulates thousands of market paths year by year, drawing spending from
cash first and then from tax-deferred and taxable accounts, and reports the
probability of ruin by age together with wealth percentiles.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newTraceCmd(),
		newValidateCmd(),
		newExampleConfigCmd(),
		newHistoryCmd(),
	)
	return rootCmd
}

// loadConfig reads the parameter file named by --config.
func loadConfig(cmd *cobra.Command) (*domain.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.NewInputParser().LoadFromFile(path)
}

// applyRunFlags copies explicitly set simulation flags over the loaded configuration.
func applyRunFlags(cmd *cobra.Command, cfg *domain.Configuration) error {
	flags := cmd.Flags()
	if flags.Changed("paths") {
		cfg.Simulation.NumPaths, _ = flags.GetInt("paths")
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Execution.Workers, _ = flags.GetInt("workers")
	}
	return cfg.Validate()
}

// newLogger writes to stderr so stdout stays clean for reports.
func newLogger(cmd *cobra.Command, cfg *domain.Configuration) *slog.Logger {
	level, format := cfg.Log.Level, cfg.Log.Format
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		format = v
	}
	return logging.NewLogger(level, format, cmd.ErrOrStderr())
}

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "params.yaml", "Simulation parameter file (YAML)")
}
