package main

import (
	"encoding/json"
	"fmt"

	"github.com/rpgo/ruin-simulator/internal/calculation"
	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/rpgo/ruin-simulator/internal/output"
	"github.com/rpgo/ruin-simulator/internal/store"
	"github.com/spf13/cobra"
)

type runOutput struct {
	RunID string   `json:"run_id,omitempty"`
	Files []string `json:"files,omitempty"`
	*domain.SummaryStatistics
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Monte Carlo simulation and print the ruin summary",
		Long: `Run simulates every path described by the parameter file and prints the
probability of ruin at each checkpoint age and the wealth percentiles per year.

Examples:
  ruinsim run -c params.yaml
  ruinsim run -c params.yaml --paths 50000 --seed 7 --format all --output-dir reports
  ruinsim run -c params.yaml --db runs.db --label "retire at 55"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}
			if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
				cfg.Storage.DSN = dsn
			}
			logger := newLogger(cmd, cfg)

			sim, err := calculation.NewMonteCarloSimulator(cfg)
			if err != nil {
				return err
			}
			sim.SetLogger(logger)

			result, err := sim.Run()
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}
			summary := calculation.Summarize(result, cfg.Report)
			out := runOutput{SummaryStatistics: summary}

			if format, _ := cmd.Flags().GetString("format"); format != "" {
				dir, _ := cmd.Flags().GetString("output-dir")
				files, err := output.GenerateReport(summary, format, dir)
				if err != nil {
					return err
				}
				for _, f := range files {
					logger.Info("report written", "file", f)
				}
				out.Files = files
			}

			recorder, err := openRecorder(cfg, logger)
			if err != nil {
				return err
			}
			defer recorder.Close()
			if cfg.Storage.DSN != "" {
				label, _ := cmd.Flags().GetString("label")
				run := store.NewRunRecord(label, cfg, summary)
				if err := recorder.RecordRun(run); err != nil {
					return fmt.Errorf("failed to record run: %w", err)
				}
				out.RunID = run.ID
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			text, err := output.ConsoleFormatter{}.Format(summary)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(text); err != nil {
				return err
			}
			if out.RunID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "\nRecorded run %s\n", out.RunID)
			}
			return nil
		},
	}

	addConfigFlag(cmd)
	cmd.Flags().Int("paths", 0, "Number of paths (overrides config)")
	cmd.Flags().Int64("seed", 0, "Master seed (overrides config; 0 picks one)")
	cmd.Flags().Int("workers", 0, "Concurrent paths (overrides config; 0 uses all CPUs)")
	cmd.Flags().String("format", "", "Also write a report file: console, csv, ruin-csv, html, json or all")
	cmd.Flags().String("output-dir", ".", "Directory for report files")
	cmd.Flags().String("db", "", "SQLite file to record the run in (overrides config)")
	cmd.Flags().String("label", "", "Label stored with the recorded run")
	return cmd
}
