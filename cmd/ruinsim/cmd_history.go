package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rpgo/ruin-simulator/internal/domain"
	"github.com/rpgo/ruin-simulator/internal/output"
	"github.com/rpgo/ruin-simulator/internal/store"
	"github.com/spf13/cobra"
)

// openRecorder returns a SQLite recorder when a DSN is configured, otherwise a no-op one.
func openRecorder(cfg *domain.Configuration, logger *slog.Logger) (store.Recorder, error) {
	if cfg.Storage.DSN == "" {
		return store.NewNoopRecorder(), nil
	}
	r, err := store.NewSQLiteRecorder(cfg.Storage.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}
	return r, nil
}

func historyRecorder(cmd *cobra.Command) (store.Recorder, error) {
	dsn, _ := cmd.Flags().GetString("db")
	if dsn == "" {
		return nil, errors.New("--db is required")
	}
	cfg := &domain.Configuration{Storage: domain.StorageSettings{DSN: dsn}}
	return openRecorder(cfg, newLogger(cmd, cfg))
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			recorder, err := historyRecorder(cmd)
			if err != nil {
				return err
			}
			defer recorder.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := recorder.ListRuns(limit)
			if err != nil {
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("ID", "When", "Label", "Model", "Ages", "Paths", "Seed", "Success", "Median end")
			for _, r := range runs {
				table.Append(
					r.ID,
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Label,
					r.ReturnModel,
					fmt.Sprintf("%d-%d", r.StartAge, r.EndAge),
					strconv.Itoa(r.NumPaths),
					strconv.FormatInt(r.Seed, 10),
					output.FormatProbability(r.SuccessRate),
					output.FormatCurrency(r.MedianEndingWealth),
				)
			}
			return table.Render()
		},
	}
	cmd.PersistentFlags().String("db", "", "SQLite run history file")
	cmd.Flags().Int("limit", 20, "Maximum runs to list")
	cmd.AddCommand(newHistoryShowCmd())
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the summary of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recorder, err := historyRecorder(cmd)
			if err != nil {
				return err
			}
			defer recorder.Close()

			run, err := recorder.LoadRun(args[0])
			if err != nil {
				return err
			}
			var f output.Formatter = output.ConsoleFormatter{}
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				f = output.JSONFormatter{}
			}
			text, err := f.Format(run.Summary())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(text)
			return err
		},
	}
}
