package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/cartwin/internal/analysis"
	"github.com/san-kum/cartwin/internal/config"
	"github.com/san-kum/cartwin/internal/experiment"
	"github.com/san-kum/cartwin/internal/export"
	"github.com/san-kum/cartwin/internal/optim"
	"github.com/san-kum/cartwin/internal/sim"
	"github.com/san-kum/cartwin/internal/storage"
	"github.com/san-kum/cartwin/internal/tui"
)

var (
	dataDir   string
	verbose   bool
	dt        float64
	driverID  string
	mode      string
	gear      string
	accel     float64
	brake     float64
	kp        float64
	ki        float64
	kd        float64
	autoShift bool
	// Snapshot interval in simulated seconds
	snapshotEvery float64
	plotField     string
	sessionFilter string
	listLimit     int
	analyzeField string
	svgOut       string
	theme        string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flags that several commands register
// under one name (preset, config, time, target, x-axis, y-axis) are left
// unbound and read back from the running command.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cartwin",
		Short: "vehicle dynamics and telemetry simulator",
		RunE:  runDrive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory (overrides storage.data_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulated drive and save its telemetry",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	runCmd.Flags().Float64("time", config.DefaultDuration, "duration in seconds")
	runCmd.Flags().StringVar(&driverID, "driver", "throttle", "driver (coast, throttle, cruise, script)")
	runCmd.Flags().StringVar(&mode, "mode", "EFFICIENCY", "analyzer mode (EFFICIENCY, POWER)")
	runCmd.Flags().StringVar(&gear, "gear", "D", "gear for the throttle driver")
	runCmd.Flags().Float64Var(&accel, "accel", 30, "accelerator percent for the throttle driver")
	runCmd.Flags().Float64Var(&brake, "brake", 0, "brake percent for the throttle driver")
	runCmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "cruise kp")
	runCmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "cruise ki")
	runCmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "cruise kd")
	runCmd.Flags().Float64("target", 0, "cruise target speed in mph")
	runCmd.Flags().BoolVar(&autoShift, "auto-shift", false, "cruise shifts the manual gearbox")
	runCmd.Flags().String("config", "", "config file path (yaml)")
	runCmd.Flags().String("preset", "", "use preset configuration")
	runCmd.Flags().Float64Var(&snapshotEvery, "snapshot-interval", config.DefaultSnapshotInterval, "seconds between snapshots, 0 disables")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "", "single field to plot")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "scatter one telemetry field against another",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().String("x-axis", "speed", "field for x-axis")
	phaseCmd.Flags().String("y-axis", "rpm", "field for y-axis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a telemetry field",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeField, "field", "speed", "field to analyze")

	svgCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw one telemetry field against another as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().String("x-axis", "time", "field for x-axis")
	svgCmd.Flags().String("y-axis", "speed", "field for y-axis")
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default stdout)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search cruise control gains",
		Args:  cobra.NoArgs,
		RunE:  tuneCruise,
	}
	tuneCmd.Flags().Float64("time", 60, "duration of each trial in seconds")
	tuneCmd.Flags().Float64("target", 55, "target speed in mph")
	tuneCmd.Flags().String("config", "", "config file path (yaml)")
	tuneCmd.Flags().String("preset", "cruise", "base preset")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and telemetry to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run telemetry to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, p := range config.ListPresets() {
				fmt.Fprintf(w, "  %s\t%s\n", p, config.DescribePreset(p))
			}
			return w.Flush()
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [preset] ...",
		Short: "run presets side by side",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}
	compareCmd.Flags().Float64("time", 0, "override duration in seconds")

	driveCmd := &cobra.Command{
		Use:   "drive",
		Short: "drive interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runDrive,
	}
	driveCmd.Flags().StringVar(&mode, "mode", "EFFICIENCY", "analyzer mode (EFFICIENCY, POWER)")
	driveCmd.Flags().String("config", "", "config file path (yaml)")
	driveCmd.Flags().Float64Var(&snapshotEvery, "snapshot-interval", config.DefaultSnapshotInterval, "seconds between snapshots, 0 disables")
	driveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", fmt.Sprintf("dashboard colors %v", tui.ThemeNames()))

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, analyzeCmd, exportCmd, exportCSVCmd, svgCmd, presetsCmd, compareCmd, tuneCmd, driveCmd, newSnapshotsCmd())
	rootCmd.AddCommand(newBatchCmds()...)

	return rootCmd
}

// stringFlag reads a flag registered on cmd; commands without it read "".
func stringFlag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func floatFlag(cmd *cobra.Command, name string) float64 {
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runsDir() string      { return filepath.Join(dataDir, "runs") }
func snapshotsDir() string { return filepath.Join(dataDir, "snapshots") }

// loadConfig layers defaults, preset, config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	preset := stringFlag(cmd, "preset")
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	// Config file overrides preset
	if configFile := stringFlag(cmd, "config"); configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = floatFlag(cmd, "time")
	}
	if flags.Changed("driver") {
		cfg.Driver = driverID
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("gear") {
		cfg.DriverParams.Gear = gear
	}
	if flags.Changed("accel") {
		cfg.DriverParams.Accelerator = accel
	}
	if flags.Changed("brake") {
		cfg.DriverParams.Brake = brake
	}
	if flags.Changed("kp") {
		cfg.DriverParams.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.DriverParams.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.DriverParams.Kd = kd
	}
	if flags.Changed("target") {
		cfg.DriverParams.Target = floatFlag(cmd, "target")
	}
	if flags.Changed("auto-shift") {
		cfg.DriverParams.AutoShift = autoShift
	}
	if flags.Changed("snapshot-interval") {
		cfg.Storage.SnapshotInterval = snapshotEvery
	}
	if flags.Changed("data") || cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = dataDir
	} else {
		dataDir = cfg.Storage.DataDir
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(runsDir())
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(logger); err != nil {
		return err
	}

	var rec *storage.Recorder
	if cfg.Storage.SnapshotInterval > 0 {
		snaps, err := storage.NewSnapshotStore(snapshotsDir())
		if err != nil {
			return err
		}
		rec = storage.NewRecorder(snaps, cfg.Storage.SnapshotInterval, exp.SessionID(), exp.Start(), logger)
		exp.GetSimulator().AddObserver(rec)
	}

	name := cfg.Driver
	if preset := stringFlag(cmd, "preset"); preset != "" {
		name = preset
	}

	fmt.Printf("running %s drive...\n", name)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunInfo{
		Name:      name,
		SessionID: exp.SessionID(),
		Driver:    cfg.Driver,
		Mode:      string(result.Report.Mode),
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("session: %s\n", exp.SessionID())
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if rec != nil {
		fmt.Printf("snapshots: %d\n", rec.Saved())
	}
	printResult(result)

	return nil
}

func printResult(result *sim.Result) {
	f := result.Final
	fmt.Printf("\nfinal: gear %s  %.1f mph  %.0f rpm  %.1f°C  %.2f L\n", f.Gear, f.Speed, f.RPM, f.Temperature, f.Fuel)
	fmt.Printf("efficiency: %d%% (%s)\n", result.Report.Efficiency, result.Report.Mode)

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	h := result.History
	fmt.Println("\nhistory (last 100 samples):")
	fmt.Printf("  rpm:         mean %.0f  sd %.0f  max %.0f\n", h.RPM.Mean, h.RPM.StdDev, h.RPM.Max)
	fmt.Printf("  temperature: mean %.1f  sd %.2f  max %.1f\n", h.Temperature.Mean, h.Temperature.StdDev, h.Temperature.Max)
	fmt.Printf("  horsepower:  mean %.0f  sd %.0f  max %.0f\n", h.Horsepower.Mean, h.Horsepower.StdDev, h.Horsepower.Max)

	if len(result.Report.Recommendations) > 0 {
		fmt.Println("\nrecommendations:")
		for _, r := range result.Report.Recommendations {
			fmt.Printf("  [%s/%s] %s\n", r.Type, r.Severity, r.Message)
		}
	}

	for _, err := range result.Errors {
		fmt.Printf("warning: %v\n", err)
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir())
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDRIVER\tTIME\tDURATION\tDT\tEFF")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d%%\n",
			run.ID,
			run.Name,
			run.Driver,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Efficiency,
		)
	}

	return w.Flush()
}

type plotSpec struct {
	field   string
	caption string
}

var plotCaptions = []plotSpec{
	{"speed", "speed (mph)"},
	{"rpm", "engine rpm"},
	{"temperature", "temperature (°C)"},
	{"horsepower", "horsepower"},
	{"fuel", "fuel (L)"},
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(runsDir())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("driver: %s\n", meta.Driver)
	fmt.Printf("samples: %d\n\n", len(samples))

	plots := plotCaptions
	if plotField != "" {
		plots = []plotSpec{{plotField, plotField}}
	}

	for _, p := range plots {
		data, err := analysis.Series(samples, p.field)
		if err != nil {
			return err
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]
	xAxis, yAxis := stringFlag(cmd, "x-axis"), stringFlag(cmd, "y-axis")

	st := storage.New(runsDir())
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	portrait, err := analysis.NewPortrait(samples, xAxis, yAxis)
	if err != nil {
		return err
	}
	if len(portrait.Points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	w := cmd.OutOrStdout()
	minX, maxX, minY, maxY := portrait.Bounds()
	fmt.Fprintf(w, "%s vs %s: %s\n\n", yAxis, xAxis, runID)
	fmt.Fprintf(w, "  %s %.1f..%.1f\n", yAxis, minY, maxY)
	fmt.Fprint(w, portrait.ASCII(70, 20))
	fmt.Fprintf(w, "  %s %.1f..%.1f\n", xAxis, minX, maxX)
	fmt.Fprintf(w, "\nLegend: . = early, o = middle, • = late\n")

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(runsDir())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	ps, err := analysis.Spectrum(samples, analyzeField, meta.Dt)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("field: %s\n\n", analyzeField)

	plotData := ps.Power[1:]
	if len(plotData) > 4 {
		plotData = plotData[:len(plotData)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", analyzeField)),
	)
	fmt.Println(graph)
	fmt.Println()

	if ps.Dominant == 0 {
		fmt.Println("no oscillation detected")
		return nil
	}
	fmt.Printf("dominant frequency: %.3f hz\n", ps.Dominant)
	fmt.Printf("period: %.3f s\n", ps.Period())
	return nil
}

func tuneCruise(cmd *cobra.Command, args []string) error {
	logger := newLogger(io.Discard)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("target") && cfg.DriverParams.Target <= 0 {
		cfg.DriverParams.Target = floatFlag(cmd, "target")
	}
	cfg.Duration = floatFlag(cmd, "time")

	fmt.Printf("tuning cruise gains for %.0f mph over %.0fs...\n", cfg.DriverParams.Target, cfg.Duration)
	start := time.Now()

	best, rms, err := optim.TuneCruise(cmd.Context(), cfg, optim.DefaultCruiseGrid(), logger)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("kp=%.2f ki=%.2f kd=%.2f  rms speed error %.3f mph\n", best["kp"], best["ki"], best["kd"], rms)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(runsDir())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, *meta, samples)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(runsDir())
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.ExportCSV(os.Stdout, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir())
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	portrait, err := analysis.NewPortrait(samples, stringFlag(cmd, "x-axis"), stringFlag(cmd, "y-axis"))
	if err != nil {
		return err
	}

	if svgOut == "" {
		return export.PortraitSVG(os.Stdout, portrait, 800, 400, "")
	}

	f, err := os.Create(svgOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.PortraitSVG(f, portrait, 800, 400, ""); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)

	var (
		sessions []sim.Session
		registry *experiment.Registry
		first    *experiment.Experiment
	)
	for _, name := range args {
		cfg := config.GetPreset(name)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		if cmd.Flags().Changed("time") {
			cfg.Duration = floatFlag(cmd, "time")
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(logger); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		sess, err := exp.Session(name)
		if err != nil {
			return err
		}
		sessions = append(sessions, sess)
		if first == nil {
			first = exp
			registry = exp.Registry()
		}
	}

	ens := sim.NewEnsemble(first.Model(), sessions, registry.DefaultMetrics)

	start := time.Now()
	results, err := ens.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("compared %d presets in %v\n\n", len(results), time.Since(start))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tTOP MPH\tAVG MPH\tFUEL L\tKM/L\tSTABILITY\tEFF")
	for i, res := range results {
		m := res.Metrics
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.3f\t%.1f\t%.2f\t%d%%\n",
			sessions[i].Name,
			m["top_speed"],
			m["avg_speed"],
			m["fuel_used"],
			m["economy"],
			m["stability"],
			res.Report.Efficiency,
		)
	}
	return w.Flush()
}

func runDrive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	analyzerMode, err := cfg.GetMode()
	if err != nil {
		return err
	}

	logger := newLogger(io.Discard)
	if verbose {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		f, err := os.Create(filepath.Join(dataDir, "drive.log"))
		if err != nil {
			return err
		}
		defer f.Close()
		logger = newLogger(f)
	}

	opts := tui.Options{Mode: analyzerMode, Logger: logger, Theme: theme}
	if cfg.Storage.SnapshotInterval > 0 {
		snaps, err := storage.NewSnapshotStore(snapshotsDir())
		if err != nil {
			return err
		}
		opts.Observer = storage.NewRecorder(snaps, cfg.Storage.SnapshotInterval, uuid.NewString(), time.Now(), logger)
	}

	return tui.Run(tui.NewDashboard(cfg.Vehicle.Clone(), opts))
}
