package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/driver"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/metrics"
	"github.com/san-kum/odeint/internal/models"
)

// Result is a sampled run together with its metrics.
type Result struct {
	*driver.Result
	Model    string             `json:"model"`
	Metrics  map[string]float64 `json:"metrics"`
	MinStep  float64            `json:"min_step"`
	MaxStep  float64            `json:"max_step"`
	Duration time.Duration      `json:"duration"`
}

// Experiment is a driver built from a run configuration.
type Experiment struct {
	cfg     *config.Config
	model   models.Model
	driver  *driver.Driver
	metrics []dynamo.Metric
	steps   *metrics.StepSizes
}

// New resolves every name in cfg and prepares a driver at (T0, initial state).
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := reg.GetModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	if err := models.ApplyParams(model, cfg.Params); err != nil {
		return nil, err
	}
	stepper, err := reg.GetStepper(cfg.Stepper)
	if err != nil {
		return nil, err
	}
	ctrl, err := reg.GetController(cfg.Controller, stepper.Order())
	if err != nil {
		return nil, err
	}

	d, err := driver.New(model.System(), stepper, cfg.Tolerances(), cfg.DriverConfig())
	if err != nil {
		return nil, fmt.Errorf("%s with %s: %w", cfg.Model, cfg.Stepper, err)
	}
	d.SetController(ctrl)

	y0 := model.DefaultState()
	if cfg.InitState != nil {
		y0 = dynamo.State(cfg.InitState).Clone()
	}
	if err := d.Reset(cfg.T0, y0); err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:     cfg,
		model:   model,
		driver:  d,
		metrics: reg.DefaultMetrics(model),
		steps:   metrics.NewStepSizes(),
	}
	d.AddObserver(e.steps)
	return e, nil
}

func (e *Experiment) Driver() *driver.Driver        { return e.driver }
func (e *Experiment) Model() models.Model           { return e.model }
func (e *Experiment) Config() *config.Config        { return e.cfg }
func (e *Experiment) AddObserver(o dynamo.Observer) { e.driver.AddObserver(o) }

// AddMetric tracks m over the sampled states.
func (e *Experiment) AddMetric(m dynamo.Metric) { e.metrics = append(e.metrics, m) }

// Run samples the configured interval. A failed run still returns the
// partial trajectory.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	for _, m := range e.metrics {
		m.Reset()
	}
	start := time.Now()
	res, err := e.driver.Sample(ctx, e.cfg.T1, e.cfg.Intervals)
	if res == nil {
		return nil, err
	}
	metrics.Observe(e.metrics, res.Times, res.States)

	out := &Result{
		Result:   res,
		Model:    e.cfg.Model,
		Metrics:  metrics.Collect(e.metrics),
		MinStep:  e.steps.Min(),
		MaxStep:  e.steps.Max(),
		Duration: time.Since(start),
	}
	return out, err
}
