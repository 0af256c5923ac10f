package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/experiment"
)

func TestLoadAndRunScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `name: smoke
description: two short runs
steps:
  - model: decay
    stepper: rk45
    t1: 1
    intervals: 4
  - model: robertson
    stepper: bsimp
    t1: 1
    intervals: 2
    tolerances:
      absolute: 1.0e-8
      relative: 1.0e-6
      scale_y: 1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(scenario.Steps) != 2 {
		t.Fatalf("got %d steps", len(scenario.Steps))
	}
	if scenario.Steps[0].Controller != config.DefaultController {
		t.Errorf("defaults not applied: %+v", scenario.Steps[0])
	}

	results, err := RunScenario(context.Background(), scenario, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || len(results[0].States) != 5 || len(results[1].States) != 3 {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("decay", "accurate")
	sweep := &ParameterSweep{Base: base, ParamName: "k", ParamMin: 1, ParamMax: 3, NumSteps: 3}

	results, err := RunSweep(context.Background(), sweep, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		k := float64(i + 1)
		if r.ParamValue != k {
			t.Errorf("sweep %d: param %g", i, r.ParamValue)
		}
		if math.Abs(r.FinalState[0]-math.Exp(-k)) > 1e-6 {
			t.Errorf("k=%g: final %g, want %g", k, r.FinalState[0], math.Exp(-k))
		}
	}
	if base.Params != nil {
		t.Error("sweep mutated its base config")
	}
}

func TestSweepEnergyRange(t *testing.T) {
	base := config.GetPreset("pendulum", "small")
	base.T1, base.Intervals = 2, 20
	results, err := RunSweep(context.Background(),
		&ParameterSweep{Base: base, ParamName: "length", ParamMin: 1, ParamMax: 2, NumSteps: 2},
		experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.MaxEnergy < r.MinEnergy || r.MaxEnergy-r.MinEnergy > 1e-6*r.MaxEnergy {
			t.Errorf("length %g: energy range [%g, %g]", r.ParamValue, r.MinEnergy, r.MaxEnergy)
		}
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.GetPreset("decay", "accurate")
	cfg := &MonteCarloConfig{Base: base, Perturbation: 0.1, NumTrials: 6, Seed: 7}

	results, err := RunMonteCarlo(context.Background(), cfg, experiment.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	stable, unstable := MonteCarloStats(results)
	if stable != 6 || unstable != 0 {
		t.Errorf("stable %d unstable %d", stable, unstable)
	}
	for _, r := range results {
		if math.Abs(r.InitState[0]-1) > 0.1 {
			t.Errorf("perturbation out of range: %v", r.InitState)
		}
		if math.Abs(r.FinalState[0]-r.InitState[0]*math.Exp(-1)) > 1e-6 {
			t.Errorf("trial %d: final %v from %v", r.TrialID, r.FinalState, r.InitState)
		}
	}

	again, _ := RunMonteCarlo(context.Background(), cfg, experiment.NewRegistry())
	for i := range results {
		if again[i].InitState[0] != results[i].InitState[0] {
			t.Error("same seed produced different trials")
		}
	}
}
