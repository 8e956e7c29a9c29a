package main

import (
	"fmt"

	"github.com/rpgo/ruin-simulator/internal/config"
	"github.com/rpgo/ruin-simulator/internal/output"
	"github.com/spf13/cobra"
)

func newExampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config [file]",
		Short: "Write an example parameter file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "params.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if err := output.SaveConfiguration(cfg, path); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example parameters written to %s\n", path)
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a parameter file without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p := cfg.Simulation
			fmt.Fprintf(cmd.OutOrStdout(), "Parameters OK: ages %d-%d, %d paths, %s returns\n",
				p.StartAge, p.EndAge, p.NumPaths, cfg.Returns.Model)
			return nil
		},
	}
	addConfigFlag(cmd)
	return cmd
}
