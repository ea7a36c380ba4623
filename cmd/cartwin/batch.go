package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/cartwin/internal/automation"
	"github.com/san-kum/cartwin/internal/config"
	"github.com/san-kum/cartwin/internal/storage"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	jitter     float64
	seed       int64
)

// newBatchCmds returns the scenario, sweep and montecarlo commands.
func newBatchCmds() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a YAML scenario and save each run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a preset across a range of one parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().String("preset", "", "base preset")
	sweepCmd.Flags().String("config", "", "config file path (yaml)")
	sweepCmd.Flags().Float64("time", config.DefaultDuration, "duration in seconds")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "accelerator", "parameter (kp, ki, kd, target, accelerator, brake, temperature, fuel)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 100, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "jitter throttle and start temperature and count clean runs",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	mcCmd.Flags().String("preset", "", "base preset")
	mcCmd.Flags().String("config", "", "config file path (yaml)")
	mcCmd.Flags().Float64("time", config.DefaultDuration, "duration in seconds")
	mcCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	mcCmd.Flags().Float64Var(&jitter, "jitter", 15, "half-width of the jitter")
	mcCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for time based")

	return []*cobra.Command{scenarioCmd, sweepCmd, mcCmd}
}

func runScenario(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(runsDir())
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}

	results, runErr := automation.RunScenario(cmd.Context(), sc, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tRUN ID\tTOP MPH\tFUEL L\tEFF")
	for _, r := range results {
		runID, err := st.Save(storage.RunInfo{
			Name:      r.Name,
			SessionID: r.SessionID,
			Driver:    r.Config.Driver,
			Mode:      string(r.Result.Report.Mode),
			Dt:        r.Config.Dt,
			Duration:  r.Config.Duration,
		}, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.3f\t%d%%\n",
			r.Name, runID, r.Result.Metrics["top_speed"], r.Result.Metrics["fuel_used"], r.Result.Report.Efficiency)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:     cfg,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	}, newLogger(os.Stderr))
	if err != nil {
		return err
	}

	fmt.Printf("swept %s over %d values in %v\n\n", sweepParam, len(results), time.Since(start))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTOP MPH\tAVG MPH\tFUEL L\tKM/L\tSTABILITY\tFINAL °C\n", sweepParam)
	for _, r := range results {
		m := r.Metrics
		fmt.Fprintf(w, "%.2f\t%.1f\t%.1f\t%.3f\t%.1f\t%.2f\t%.1f\n",
			r.Value, m["top_speed"], m["avg_speed"], m["fuel_used"], m["economy"], m["stability"], r.Final.Temperature)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: jitter,
		NumTrials:    trials,
		Seed:         seed,
	}, newLogger(os.Stderr))
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("clean: %d\n", stable)
	fmt.Printf("redline or overheating: %d\n", unstable)
	return nil
}
