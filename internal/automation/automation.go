package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/driver"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/experiment"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Steps       []*config.Config `yaml:"steps"`
}

// LoadScenario loads a scenario from a YAML file. Fields a step leaves out
// take the values of config.DefaultConfig.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Steps       []yaml.Node `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	scenario := &Scenario{Name: raw.Name, Description: raw.Description}
	for i := range raw.Steps {
		cfg := config.DefaultConfig()
		if err := raw.Steps[i].Decode(cfg); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		scenario.Steps = append(scenario.Steps, cfg)
	}
	return scenario, nil
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		Logger().Info("scenario step",
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("model", step.Model),
			zap.String("stepper", step.Stepper),
		)

		exp, err := experiment.New(step, registry)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// ParameterSweep integrates one configuration across a range of values
// of a single model parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds the outcome for one parameter value.
type SweepResult struct {
	ParamValue float64      `json:"param_value"`
	FinalState dynamo.State `json:"final_state"`
	MaxEnergy  float64      `json:"max_energy"`
	MinEnergy  float64      `json:"min_energy"`
	Steps      int          `json:"steps"`
}

func (s *ParameterSweep) value(i int) float64 {
	if s.NumSteps == 1 {
		return s.ParamMin
	}
	return s.ParamMin + float64(i)*(s.ParamMax-s.ParamMin)/float64(s.NumSteps-1)
}

// RunSweep integrates every parameter value concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps <= 0 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	exps := make([]*experiment.Experiment, sweep.NumSteps)

	build := func(i int) (*driver.Driver, error) {
		cfg := sweep.Base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		cfg.Params[sweep.ParamName] = sweep.value(i)
		exp, err := experiment.New(cfg, registry)
		if err != nil {
			return nil, err
		}
		exps[i] = exp
		return exp.Driver(), nil
	}

	runs, err := driver.RunEnsemble(ctx, sweep.NumSteps, build, sweep.Base.T1, sweep.Base.Intervals)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, sweep.NumSteps)
	for i, run := range runs {
		r := SweepResult{
			ParamValue: sweep.value(i),
			FinalState: run.Final(),
			Steps:      run.Stats.Steps,
		}
		if h, ok := exps[i].Model().(dynamo.Hamiltonian); ok && len(run.States) > 0 {
			r.MinEnergy, r.MaxEnergy = math.Inf(1), math.Inf(-1)
			for _, s := range run.States {
				e := h.Energy(s)
				r.MinEnergy = math.Min(r.MinEnergy, e)
				r.MaxEnergy = math.Max(r.MaxEnergy, e)
			}
		}
		results[i] = r
	}

	Logger().Info("sweep complete", zap.String("param", sweep.ParamName), zap.Int("runs", sweep.NumSteps))
	return results, nil
}

// MonteCarloConfig perturbs the initial state of a base configuration.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	// Bound is the magnitude beyond which a final state counts as unstable.
	Bound float64
}

// MonteCarloResult holds the outcome of one perturbed trial.
type MonteCarloResult struct {
	TrialID    int          `json:"trial_id"`
	InitState  dynamo.State `json:"init_state"`
	FinalState dynamo.State `json:"final_state"`
	Stable     bool         `json:"stable"`
}

// RunMonteCarlo integrates NumTrials randomly perturbed initial conditions
// concurrently. The perturbations are drawn up front so a seed reproduces
// the same trials regardless of scheduling.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("monte carlo needs at least one trial, got %d", cfg.NumTrials)
	}
	bound := cfg.Bound
	if bound == 0 {
		bound = 1e6
	}

	base := cfg.Base.InitState
	if base == nil {
		model, err := registry.GetModel(cfg.Base.Model)
		if err != nil {
			return nil, err
		}
		base = model.DefaultState()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	inits := make([]dynamo.State, cfg.NumTrials)
	for trial := range inits {
		inits[trial] = make(dynamo.State, len(base))
		for i, v := range base {
			inits[trial][i] = v + (rng.Float64()-0.5)*2*cfg.Perturbation
		}
	}

	build := func(i int) (*driver.Driver, error) {
		c := cfg.Base.Clone()
		c.InitState = inits[i]
		exp, err := experiment.New(c, registry)
		if err != nil {
			return nil, err
		}
		return exp.Driver(), nil
	}

	runs, err := driver.RunEnsemble(ctx, cfg.NumTrials, build, cfg.Base.T1, cfg.Base.Intervals)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	for trial, run := range runs {
		final := run.Final()
		stable := final.IsValid() && final.MaxAbs() <= bound
		results[trial] = MonteCarloResult{
			TrialID:    trial,
			InitState:  inits[trial],
			FinalState: final,
			Stable:     stable,
		}
	}
	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
