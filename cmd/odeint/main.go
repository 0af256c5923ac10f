package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/odeint/internal/automation"
	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/driver"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	stepper    string
	controller string
	t0, t1     float64
	intervals  int
	absTol     float64
	relTol     float64
	initStep   float64
	minStep    float64
	maxStep    float64
	maxSteps   int
	initState  []float64
	params     []string
	noSave     bool
	jsonOut    string
	// plotting
	xAxis     int
	yAxis     int
	component int
	threshold float64
	// sweeps
	paramName  string
	paramMin   float64
	paramMax   float64
	numSteps   int
	transient  float64
	trials     int
	perturb    float64
	seed       int64
	bound      float64
	lyapunovD0 float64
	// export and tuning
	svgOut string
	stroke string
	grid   []string
	metric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "odeint",
		Short:         "adaptive ODE integration lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			driver.SetLogger(l)
			automation.SetLogger(l)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".odeint", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log driver decisions to stderr")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also write the run as JSON to this path (- for stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "integrate with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	liveCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [stepper1] [stepper2] ...",
		Short: "compare steppers on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSteppers,
	}
	addRunFlags(compareCmd)

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [model]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLyapunov,
	}
	addRunFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&lyapunovD0, "d0", 1e-8, "initial separation")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation [model]",
		Short: "sweep a parameter and plot peak values",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBifurcation,
	}
	addRunFlags(bifurcationCmd)
	addSweepFlags(bifurcationCmd)
	bifurcationCmd.Flags().IntVar(&component, "component", 0, "state index to record")
	bifurcationCmd.Flags().Float64Var(&transient, "transient", 0, "time to skip before recording")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run one integration per parameter value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	addSweepFlags(sweepCmd)

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "integrate randomly perturbed initial states",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.01, "maximum perturbation per component")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	monteCarloCmd.Flags().Float64Var(&bound, "bound", 1e6, "final magnitude above which a trial is unstable")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	steppersCmd := &cobra.Command{
		Use:   "steppers",
		Short: "list stepper kernels",
		RunE:  listSteppers,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models and their parameters",
		RunE:  listModels,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot every component of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print run states as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	poincareCmd := &cobra.Command{
		Use:   "poincare [run_id]",
		Short: "Poincaré section of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  poincarePlot,
	}
	poincareCmd.Flags().IntVar(&component, "cross", 0, "state index whose upward crossing is recorded")
	poincareCmd.Flags().Float64Var(&threshold, "threshold", 0, "crossing value")
	poincareCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	poincareCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of one component",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}
	spectrumCmd.Flags().IntVar(&component, "component", 0, "state index")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "write the phase portrait of a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	svgCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().StringVar(&stroke, "stroke", "#00ffff", "line color")

	tuneCmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "grid search model parameters for the smallest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter values as name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "steps", "metric to minimize")
	_ = tuneCmd.MarkFlagRequired("grid")

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, lyapunovCmd, bifurcationCmd, sweepCmd, monteCarloCmd, scenarioCmd, tuneCmd,
		steppersCmd, modelsCmd, presetsCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, phaseCmd, poincareCmd, spectrumCmd, svgCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&stepper, "stepper", config.DefaultStepper, "stepper kernel")
	f.StringVar(&controller, "controller", config.DefaultController, "step size controller")
	f.Float64Var(&t0, "t0", 0, "start time")
	f.Float64Var(&t1, "t1", config.DefaultT1, "end time")
	f.IntVar(&intervals, "intervals", config.DefaultIntervals, "number of output intervals")
	f.Float64Var(&absTol, "atol", config.DefaultAbsTol, "absolute tolerance")
	f.Float64Var(&relTol, "rtol", config.DefaultRelTol, "relative tolerance")
	f.Float64Var(&initStep, "h0", 0, "initial step (0 estimates one)")
	f.Float64Var(&minStep, "min-step", 0, "smallest step magnitude before giving up")
	f.Float64Var(&maxStep, "max-step", 0, "largest step magnitude (0 is unbounded)")
	f.IntVar(&maxSteps, "max-steps", driver.DefaultConfig().MaxSteps, "accepted steps allowed per output interval")
	f.Float64SliceVar(&initState, "init", nil, "initial state, comma separated")
	f.StringSliceVar(&params, "param", nil, "model parameter as name=value (repeatable)")
}

func addSweepFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&paramName, "sweep-param", "", "parameter to sweep")
	f.Float64Var(&paramMin, "min", 0, "first parameter value")
	f.Float64Var(&paramMax, "max", 1, "last parameter value")
	f.IntVar(&numSteps, "steps", 10, "number of parameter values")
	_ = cmd.MarkFlagRequired("sweep-param")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for %s (available: %v)", preset, cfg.Model, config.ListPresets(cfg.Model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Model = args[0]
		}
	}

	f := cmd.Flags()
	if f.Changed("stepper") {
		cfg.Stepper = stepper
	}
	if f.Changed("controller") {
		cfg.Controller = controller
	}
	if f.Changed("t0") {
		cfg.T0 = t0
	}
	if f.Changed("t1") {
		cfg.T1 = t1
	}
	if f.Changed("intervals") {
		cfg.Intervals = intervals
	}
	if f.Changed("atol") {
		cfg.Tol.Absolute = absTol
	}
	if f.Changed("rtol") {
		cfg.Tol.Relative = relTol
	}
	if f.Changed("h0") {
		cfg.Limits.InitialStep = initStep
	}
	if f.Changed("min-step") {
		cfg.Limits.MinStep = minStep
	}
	if f.Changed("max-step") {
		cfg.Limits.MaxStep = maxStep
	}
	if f.Changed("max-steps") {
		cfg.Limits.MaxSteps = maxSteps
	}
	if f.Changed("init") {
		cfg.InitState = initState
	}
	if len(params) > 0 {
		parsed, err := parseParams(params)
		if err != nil {
			return nil, err
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		for k, v := range parsed {
			cfg.Params[k] = v
		}
	}

	return cfg, cfg.Validate()
}

func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q: want name=value", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

// parseGrid reads name=v1,v2,... entries.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid %q: want name=v1,v2,...", e)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %q: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}
