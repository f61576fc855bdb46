package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/perds/app"
	"github.com/kilianp07/perds/config"
	"github.com/kilianp07/perds/core/simulation"
	"github.com/kilianp07/perds/infra/logger"
	"github.com/kilianp07/perds/pkg/export"
)

var (
	simSeed  int64
	simSteps int
	simCSV   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a seeded incident load simulation and print the report",
	RunE:  simulate,
}

func init() {
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "override the configured random seed")
	simulateCmd.Flags().IntVar(&simSteps, "steps", 0, "override the configured step count")
	simulateCmd.Flags().StringVar(&simCSV, "csv", "", "write per-severity distance stats to this file")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if simSeed != 0 {
		cfg.Simulation.Seed = simSeed
	}
	if simSteps != 0 {
		cfg.Simulation.Steps = simSteps
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("simulate").Errorf("service close: %v", err)
		}
	}()

	sim, err := simulation.New(cfg.Simulation, svc.Graph, svc.Engine, svc.Demand, svc.Repositioner, logger.New("simulation"))
	if err != nil {
		return err
	}
	sim.SetRegressor(svc.Regressor)

	report, err := sim.Run()
	if err != nil {
		return err
	}
	if err := export.WriteReportJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if simCSV != "" {
		f, err := os.Create(simCSV)
		if err != nil {
			return fmt.Errorf("create csv: %w", err)
		}
		defer f.Close()
		if err := export.WriteDistancesCSV(f, report); err != nil {
			return err
		}
	}
	return nil
}
