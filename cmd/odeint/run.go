package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/odeint/internal/analysis"
	"github.com/san-kum/odeint/internal/automation"
	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/experiment"
	"github.com/san-kum/odeint/internal/optim"
	"github.com/san-kum/odeint/internal/storage"
	"github.com/san-kum/odeint/internal/viz"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("integrating %s with %s on [%g, %g]...\n", cfg.Model, cfg.Stepper, cfg.T0, cfg.T1)
	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result, runErr)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	if jsonOut == "-" {
		if err := storage.ExportJSONStdout(cfg, result); err != nil {
			return err
		}
	} else if jsonOut != "" {
		if err := storage.ExportJSON(jsonOut, cfg, result); err != nil {
			return err
		}
	}

	printResult(result)
	return runErr
}

func printResult(result *experiment.Result) {
	s := result.Stats
	fmt.Printf("completed in %v\n", result.Duration)
	fmt.Printf("reached t = %g\n", result.Times[len(result.Times)-1])
	fmt.Printf("steps: %d accepted, %d rejected\n", s.Steps, s.Rejected)
	fmt.Printf("evaluations: %d f, %d jacobian\n", s.Evaluations, s.JacobianEvaluations)
	fmt.Printf("step size: min %.3e, max %.3e\n", result.MinStep, result.MaxStep)
	fmt.Printf("final state: %v\n", result.Final())
	if len(result.Metrics) == 0 {
		return
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	if exp.Model().System().Dim() == 1 {
		yAxis = 0
	}
	l, err := viz.NewLive(exp, xAxis, yAxis)
	if err != nil {
		return err
	}
	return viz.RunLive(l)
}

func compareSteppers(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()

	ctx, cancel := signalContext()
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPPER\tSTEPS\tREJECTED\tF-EVALS\tJ-EVALS\tTIME\tFINAL\tSTATUS")

	var reference dynamo.State
	for _, name := range args[1:] {
		c := cfg.Clone()
		c.Stepper = name
		exp, err := experiment.New(c, reg)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t-\t%v\n", name, err)
			continue
		}
		result, err := exp.Run(ctx)
		if result == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t-\t%v\n", name, err)
			continue
		}
		status := "ok"
		if err != nil {
			status = string(dynamo.KindOf(err))
			if status == "" {
				status = err.Error()
			}
		}
		final := result.Final()
		diff := "-"
		if reference == nil && err == nil {
			reference = final
		} else if reference != nil && err == nil {
			diff = fmt.Sprintf("Δ%.2e", maxDiff(reference, final))
		}
		s := result.Stats
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%v\t%s\t%s\n",
			name, s.Steps, s.Rejected, s.Evaluations, s.JacobianEvaluations, result.Duration, diff, status)
	}
	return w.Flush()
}

func maxDiff(a, b dynamo.State) float64 {
	m := 0.0
	for i := range a {
		m = max(m, abs(a[i]-b[i]))
	}
	return m
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	lambda, err := analysis.LyapunovExponent(ctx, cfg, experiment.NewRegistry(), lyapunovD0)
	if err != nil {
		return err
	}
	fmt.Printf("largest Lyapunov exponent: %.6g\n", lambda)
	if lambda > 0 {
		fmt.Println("trajectory is chaotic")
	}
	return nil
}

func runBifurcation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	b := &analysis.Bifurcation{
		Base:       cfg,
		Param:      paramName,
		Min:        paramMin,
		Max:        paramMax,
		Steps:      numSteps,
		StateIndex: component,
		Transient:  transient,
	}
	points, err := b.Run(ctx, experiment.NewRegistry())
	if err != nil {
		return err
	}
	fmt.Printf("%s: y%d peaks for %s in [%g, %g]\n\n", cfg.Model, component, paramName, paramMin, paramMax)
	fmt.Print(analysis.BifurcationASCII(points, 80, 24))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  numSteps,
	}
	results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tENERGY RANGE\tFINAL\n", paramName)
	for _, r := range results {
		energy := "-"
		if r.MaxEnergy >= r.MinEnergy && (r.MaxEnergy != 0 || r.MinEnergy != 0) {
			energy = fmt.Sprintf("[%.4g, %.4g]", r.MinEnergy, r.MaxEnergy)
		}
		fmt.Fprintf(w, "%g\t%d\t%s\t%.6g\n", r.ParamValue, r.Steps, energy, r.FinalState)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	mc := &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
		Bound:        bound,
	}
	results, err := automation.RunMonteCarlo(ctx, mc, experiment.NewRegistry())
	if err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("%d trials: %d stable, %d unstable\n", len(results), stable, unstable)

	finals := make([]float64, len(results))
	for i, r := range results {
		finals[i] = r.FinalState[0]
	}
	fmt.Println(asciigraph.Plot(finals, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("final y0 per trial")))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry())
	for i, r := range results {
		fmt.Printf("\nstep %d: %s with %s\n", i+1, r.Model, r.Stepper)
		printResult(r)
	}
	return err
}

func listSteppers(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tORDER\tJACOBIAN\tDESCRIPTION")
	for _, info := range experiment.NewRegistry().ListSteppers() {
		jac := "no"
		if info.NeedsJacobian {
			jac = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", info.Name, info.Order, jac, info.Description)
	}
	return w.Flush()
}

func listModels(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tDIM\tJACOBIAN\tPARAMETERS")
	for _, name := range reg.ListModels() {
		m, err := reg.GetModel(name)
		if err != nil {
			return err
		}
		sys := m.System()
		jac := "no"
		if sys.HasJacobian() {
			jac = "yes"
		}
		p := m.GetParams()
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		desc := ""
		for i, k := range keys {
			if i > 0 {
				desc += " "
			}
			desc += fmt.Sprintf("%s=%g", k, p[k])
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", name, sys.Dim(), jac, desc)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	models := config.PresetModels()
	if len(args) > 0 {
		models = args
	}
	for _, model := range models {
		presets := config.ListPresets(model)
		if len(presets) == 0 {
			fmt.Printf("no presets for model: %s\n", model)
			continue
		}
		fmt.Printf("presets for %s:\n", model)
		for _, p := range presets {
			c := config.GetPreset(model, p)
			fmt.Printf("  %-10s %s, %s controller, t1=%g\n", p, c.Stepper, c.Controller, c.T1)
		}
	}
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	out, err := g.Search(ctx, cfg, experiment.NewRegistry(), metric)
	if err != nil {
		return err
	}
	fmt.Printf("best %s: %.6g\n", metric, out.Value)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, out.Params[name])
	}
	if out.Failed > 0 {
		fmt.Printf("%d grid points failed\n", out.Failed)
	}
	return nil
}
