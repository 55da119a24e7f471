package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/intercept/internal/config"
	"github.com/san-kum/intercept/internal/dynamo"
	"github.com/san-kum/intercept/internal/export"
	"github.com/san-kum/intercept/internal/integrators"
	"github.com/san-kum/intercept/internal/logging"
	"github.com/san-kum/intercept/internal/metrics"
	"github.com/san-kum/intercept/internal/mission"
	"github.com/san-kum/intercept/internal/orbit"
	"github.com/san-kum/intercept/internal/search"
	"github.com/san-kum/intercept/internal/study"
	"github.com/san-kum/intercept/internal/viz"
)

var (
	configFile string
	preset     string
	logLevel   string

	// integration
	integrator string
	step       float64
	steps      int
	velocity   float64

	// search
	vMin         float64
	vMax         float64
	tolerance    float64
	maxIter      int
	checkBracket bool
	scanPoints   int
	quiet        bool

	// sweep
	holdDuration bool
	workers      int

	// output
	stopAtTarget bool
	format       string
	outPath      string
	plotWidth    int
	plotHeight   int
	svgWidth     int
	svgHeight    int
	interval     time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "intercept",
		Short:         "orbital intercept simulator and launch velocity search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, none)")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "bisect the launch velocity that reaches the asteroid",
		RunE:  runSearch,
	}
	addIntegrationFlags(searchCmd)
	addSearchFlags(searchCmd)
	searchCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the final report")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "integrate one trajectory and print the final state",
		RunE:  runSimulate,
	}
	addIntegrationFlags(simulateCmd)
	addVelocityFlag(simulateCmd)
	simulateCmd.Flags().BoolVar(&stopAtTarget, "stop-at-target", false, "stop when the target angle is reached")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "step-size convergence study at a fixed launch velocity",
		RunE:  runSweep,
	}
	addIntegrationFlags(sweepCmd)
	addVelocityFlag(sweepCmd)
	sweepCmd.Flags().BoolVar(&holdDuration, "hold-duration", false, "keep N*h fixed instead of N")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel simulations (0 = GOMAXPROCS)")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot the trajectory against the asteroid",
		RunE:  runPlot,
	}
	addIntegrationFlags(plotCmd)
	addVelocityFlag(plotCmd)
	addPlotFlags(plotCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "replay the velocity search interactively",
		RunE:  runWatch,
	}
	addIntegrationFlags(watchCmd)
	addSearchFlags(watchCmd)
	watchCmd.Flags().DurationVar(&interval, "interval", 250*time.Millisecond, "delay between iterations")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export a trajectory as csv, json or svg",
		RunE:  runExport,
	}
	addIntegrationFlags(exportCmd)
	addVelocityFlag(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "csv", "output format (csv, json, svg, braille-svg)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().IntVar(&svgWidth, "width", 800, "svg width")
	exportCmd.Flags().IntVar(&svgHeight, "height", 600, "svg height")
	exportCmd.Flags().IntVar(&plotWidth, "cells", 70, "braille-svg width (cells)")
	exportCmd.Flags().IntVar(&plotHeight, "rows", 24, "braille-svg height (cells)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		RunE:  runConfig,
	}
	configCmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(searchCmd, simulateCmd, sweepCmd, plotCmd, watchCmd, exportCmd, presetsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addIntegrationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().Float64Var(&step, "step", mission.DefaultStep, "time step h (s)")
	cmd.Flags().IntVar(&steps, "steps", mission.DefaultSteps, "number of steps N")
}

func addVelocityFlag(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&velocity, "velocity", config.DefaultVelocity, "launch velocity (m/s)")
}

func addSearchFlags(cmd *cobra.Command) {
	def := search.DefaultOptions()
	cmd.Flags().Float64Var(&vMin, "vmin", def.VMin, "lower velocity bracket (m/s)")
	cmd.Flags().Float64Var(&vMax, "vmax", def.VMax, "upper velocity bracket (m/s)")
	cmd.Flags().Float64Var(&tolerance, "tol", def.Tolerance, "radial tolerance (m)")
	cmd.Flags().IntVar(&maxIter, "max-iter", def.MaxIterations, "iteration ceiling")
	cmd.Flags().BoolVar(&checkBracket, "check-bracket", def.CheckBracket, "reject brackets without a sign change")
	cmd.Flags().IntVar(&scanPoints, "scan", 0, "narrow the bracket with a coarse scan of this many intervals first")
}

func addPlotFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&plotWidth, "width", 70, "plot width (cells)")
	cmd.Flags().IntVar(&plotHeight, "height", 24, "plot height (cells)")
}

// loadConfig resolves defaults, then the preset, then the config file over
// the preset, then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("integrator") {
		cfg.Integration.Integrator = integrator
	}
	if flags.Changed("step") {
		cfg.Integration.Step = step
	}
	if flags.Changed("steps") {
		cfg.Integration.Steps = steps
	}
	if flags.Changed("velocity") {
		cfg.Study.Velocity = velocity
	}
	if flags.Changed("vmin") {
		cfg.Search.VMin = vMin
	}
	if flags.Changed("vmax") {
		cfg.Search.VMax = vMax
	}
	if flags.Changed("tol") {
		cfg.Search.Tolerance = tolerance
	}
	if flags.Changed("max-iter") {
		cfg.Search.MaxIterations = maxIter
	}
	if flags.Changed("check-bracket") {
		cfg.Search.CheckBracket = checkBracket
	}
	if flags.Changed("hold-duration") {
		cfg.Study.HoldDuration = holdDuration
	}
	if flags.Changed("workers") {
		cfg.Study.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type env struct {
	cfg    *config.Config
	sim    *mission.Simulator
	logger log.Logger
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	sim, err := cfg.Simulator()
	if err != nil {
		return nil, err
	}
	level.Debug(logger).Log("msg", "configured",
		"integrator", cfg.Integration.Integrator,
		"h", cfg.Integration.Step,
		"n", cfg.Integration.Steps)
	return &env{cfg: cfg, sim: sim, logger: logger}, nil
}

func (e *env) intercept(ctx context.Context, observe func(search.Iteration)) (*mission.Encounter, error) {
	opts := e.cfg.Search
	h, n := e.cfg.Integration.Step, e.cfg.Integration.Steps
	if scanPoints > 0 {
		scan, err := search.Scan(ctx, e.sim.Objective(h, n), opts.VMin, opts.VMax, scanPoints)
		if err != nil {
			return nil, err
		}
		if opts, err = scan.Narrow(opts); err != nil {
			return nil, err
		}
		level.Info(e.logger).Log("msg", "bracket narrowed", "vmin", opts.VMin, "vmax", opts.VMax, "failed", scan.Failed)
	}

	b := search.NewBisection(opts).WithLogger(e.logger)
	if observe != nil {
		b.OnIteration(observe)
	}
	return e.sim.Intercept(ctx, b, h, n, e.cfg.ImpactEvaluator())
}

func runSearch(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	var observe func(search.Iteration)
	if !quiet {
		observe = func(it search.Iteration) { fmt.Println(viz.FormatIteration(it)) }
	}

	start := time.Now()
	enc, err := e.intercept(cmd.Context(), observe)
	if err != nil {
		return err
	}
	level.Info(e.logger).Log("msg", "search finished", "elapsed", time.Since(start))

	fmt.Println()
	fmt.Println(viz.FormatEncounter(enc))
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	cfg := e.sim.Config(e.cfg.Study.Velocity, e.cfg.Integration.Step, e.cfg.Integration.Steps)
	cfg.StopAtTarget = stopAtTarget
	cfg.Metrics = metrics.Standard(e.sim.Dynamics())

	result, err := e.sim.Simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	f := result.Final
	impact := e.cfg.ImpactEvaluator().Evaluate(f)

	fmt.Println(viz.Title.Render("SIMULATION"))
	circular, escape := e.sim.LaunchSpeeds()
	fmt.Println(viz.Field("v0", fmt.Sprintf("%.4f m/s (circular %.4f, escape %.4f)", cfg.Velocity, circular, escape)))
	fmt.Println(viz.Field("steps", fmt.Sprintf("%d (stopped at target: %v)", result.StepsTaken, result.Stopped)))
	fmt.Println(viz.Field("t", fmt.Sprintf("%.1f s", result.FinalTime)))
	fmt.Println(viz.Field("r", fmt.Sprintf("%.3f km", f[orbit.R]/1000)))
	fmt.Println(viz.Field("theta", fmt.Sprintf("%.6f rad", f[orbit.Theta])))
	fmt.Println(viz.Field("v_r", fmt.Sprintf("%.6f km/s", f[orbit.VR]/1000)))
	fmt.Println(viz.Field("v_theta", fmt.Sprintf("%.6f km/s", f[orbit.VTheta]/1000)))
	fmt.Println(viz.Field("diff", fmt.Sprintf("%.3f km (hit: %v)", impact.Residual/1000, impact.Hit)))

	names := make([]string, 0, len(result.Metrics))
	for k := range result.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Println(viz.Field(k, fmt.Sprintf("%.6g", result.Metrics[k])))
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	sweep := &study.Sweep{
		Sim:          e.sim,
		Impact:       e.cfg.ImpactEvaluator(),
		Velocity:     e.cfg.Study.Velocity,
		Steps:        e.cfg.Study.StepSizes,
		Count:        e.cfg.Integration.Steps,
		HoldDuration: e.cfg.Study.HoldDuration,
		Duration:     e.cfg.Integration.Step * float64(e.cfg.Integration.Steps),
		Workers:      e.cfg.Study.Workers,
		Logger:       e.logger,
	}
	rows, err := sweep.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(viz.SweepHeader())
	for _, row := range rows {
		fmt.Println(viz.FormatSweepRow(row, sweep.Velocity))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nh pair\t|Δr| (m)\t|Δstate|")
	radial := study.Differences(rows, orbit.R)
	full := study.Differences(rows, -1)
	for i := range radial {
		fmt.Fprintf(w, "%g → %g\t%.6g\t%.6g\n", rows[i].Step, rows[i+1].Step, radial[i], full[i])
	}
	w.Flush()

	if chart := viz.PlotSweep(rows, 60, 10); chart != "" {
		fmt.Println()
		fmt.Println(chart)
	}
	return nil
}

func trajectory(ctx context.Context, e *env) (*dynamo.Result, error) {
	cfg := e.sim.Config(e.cfg.Study.Velocity, e.cfg.Integration.Step, e.cfg.Integration.Steps)
	cfg.Record = true
	cfg.Metrics = metrics.Standard(e.sim.Dynamics())
	result, err := e.sim.Simulate(ctx, cfg)
	if err != nil && result != nil && len(result.States) > 1 {
		// keep the valid prefix of a degenerate run for plotting
		level.Warn(e.logger).Log("msg", "trajectory truncated", "err", err, "states", len(result.States))
		return result, nil
	}
	return result, err
}

func runPlot(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	result, err := trajectory(cmd.Context(), e)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("TRAJECTORY v0=%.4f m/s", e.cfg.Study.Velocity)))
	fmt.Print(viz.PlotPath(result.States, e.sim.Target(), plotWidth, plotHeight))
	fmt.Println(viz.Subtle.Render("+ small: earth   + large: asteroid"))
	fmt.Println()
	fmt.Println(viz.PlotSeries(viz.Component(result.States, orbit.R, 1e-3), "r(t) km", plotWidth, 10))
	fmt.Println()
	fmt.Println(viz.PlotSeries(viz.Component(result.States, orbit.Theta, 1), "theta(t) rad", plotWidth, 6))
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	enc, err := e.intercept(cmd.Context(), nil)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewSearchModel(enc.Search, interval), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	fmt.Println(viz.FormatEncounter(enc))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	result, err := trajectory(cmd.Context(), e)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		file, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	run := export.NewRun(e.cfg.Integration.Integrator, e.cfg.Study.Velocity, e.cfg.Integration.Step, result)
	switch format {
	case "csv":
		err = export.WriteCSV(w, run)
	case "json":
		err = export.WriteJSON(w, run)
	case "svg":
		err = export.WriteSVG(w, result.States, e.sim.Target(), svgWidth, svgHeight)
	case "braille-svg":
		err = export.WriteBrailleSVG(w, result.States, e.sim.Target(), plotWidth, plotHeight, 4)
	default:
		return fmt.Errorf("unknown format: %s (available: csv, json, svg, braille-svg)", format)
	}
	if err != nil {
		return err
	}
	if outPath != "" {
		level.Info(e.logger).Log("msg", "exported", "format", format, "path", outPath, "states", len(result.States))
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if outPath != "" {
		return config.Save(outPath, cfg)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
