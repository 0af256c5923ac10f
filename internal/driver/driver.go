package driver

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/odeint/internal/control"
	"github.com/san-kum/odeint/internal/dynamo"
)

// Driver advances one system with one kernel. The zero step size means
// "estimate one on the next Advance".
type Driver struct {
	sys        *countingSystem
	stepper    dynamo.Stepper
	controller control.Controller
	tol        dynamo.Tolerances
	cfg        Config
	observers  []dynamo.Observer

	t    float64
	h    float64
	y    dynamo.State
	dydt dynamo.State // f(t, y), nil when stale

	status Status
	stats  Stats
}

// New binds a system, a kernel and tolerances. The driver starts at t = 0
// with a zero state; call Reset to set the initial condition.
func New(sys dynamo.System, stepper dynamo.Stepper, tol dynamo.Tolerances, cfg Config) (*Driver, error) {
	if sys == nil || stepper == nil {
		return nil, fmt.Errorf("driver: system and stepper are required")
	}
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sys.Dim() <= 0 {
		return nil, &dynamo.EvalError{
			Kind:   dynamo.KindDimensionMismatch,
			Op:     "driver",
			Detail: fmt.Sprintf("system dimension %d", sys.Dim()),
		}
	}
	if stepper.NeedsJacobian() && !sys.HasJacobian() {
		return nil, &dynamo.EvalError{
			Kind:   dynamo.KindNoJacobian,
			Op:     "driver",
			Detail: fmt.Sprintf("stepper %s needs a Jacobian", stepper.Name()),
		}
	}
	stepper.Reset()
	return &Driver{
		sys:        &countingSystem{System: sys},
		stepper:    stepper,
		controller: control.NewStandard(),
		tol:        tol,
		cfg:        cfg.withDefaults(),
		y:          make(dynamo.State, sys.Dim()),
	}, nil
}

// SetController replaces the standard error controller.
func (d *Driver) SetController(c control.Controller) { d.controller = c }

// AddObserver registers o to be told about every accepted step.
func (d *Driver) AddObserver(o dynamo.Observer) { d.observers = append(d.observers, o) }

// Reset moves the driver to (t0, y0), forgets the step size and clears
// stats. Kernel and controller history is dropped as well.
func (d *Driver) Reset(t0 float64, y0 dynamo.State) error {
	if math.IsNaN(t0) || math.IsInf(t0, 0) {
		return fmt.Errorf("driver: start time must be finite, got %g", t0)
	}
	if len(y0) != d.sys.Dim() {
		return &dynamo.EvalError{
			Kind:   dynamo.KindDimensionMismatch,
			Op:     "reset",
			Time:   t0,
			Detail: fmt.Sprintf("state has length %d, want %d", len(y0), d.sys.Dim()),
		}
	}
	d.t = t0
	d.y = y0.Clone()
	d.h = 0
	d.dydt = nil
	d.status = Idle
	d.stats = Stats{}
	d.sys.derivs, d.sys.jacobians = 0, 0
	d.stepper.Reset()
	if r, ok := d.controller.(interface{ Reset() }); ok {
		r.Reset()
	}
	return nil
}

// SetStep overrides the step size used for the next trial step.
func (d *Driver) SetStep(h float64) { d.h = h }

func (d *Driver) Time() float64           { return d.t }
func (d *Driver) Step() float64           { return d.h }
func (d *Driver) State() dynamo.State     { return d.y.Clone() }
func (d *Driver) Status() Status          { return d.status }
func (d *Driver) Stepper() dynamo.Stepper { return d.stepper }

func (d *Driver) Stats() Stats {
	s := d.stats
	s.Evaluations = d.sys.derivs
	s.JacobianEvaluations = d.sys.jacobians
	s.NextStep = d.h
	return s
}

// Advance integrates from the current time to target, in either direction.
// On failure the driver keeps the last accepted point, returns it with the
// error and remains usable.
func (d *Driver) Advance(target float64) (dynamo.State, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return d.y.Clone(), fmt.Errorf("driver: target time must be finite, got %g", target)
	}
	if d.t == target {
		d.status = Reached
		return d.y.Clone(), nil
	}

	dir := 1.0
	if target < d.t {
		dir = -1
	}
	if err := d.refreshSlope(); err != nil {
		return d.fail(err)
	}
	if d.h == 0 || math.IsNaN(d.h) || math.IsInf(d.h, 0) || (d.h > 0) != (dir > 0) {
		h, err := d.startStep(dir)
		if err != nil {
			return d.fail(err)
		}
		d.h = h
	}

	order := d.stepper.Order()
	rejects := 0
	steps := 0
	for d.t != target {
		d.status = Stepping

		h := d.h
		if d.cfg.MaxStep > 0 && math.Abs(h) > d.cfg.MaxStep {
			h = dir * d.cfg.MaxStep
		}
		clamped := false
		if (d.t+h-target)*dir >= 0 {
			h = target - d.t
			clamped = true
		}

		res, err := d.stepper.Step(d.sys, d.t, h, d.y, d.dydt)
		if err != nil {
			return d.fail(err)
		}

		dec := d.controller.Evaluate(res.Err, d.y, d.dydt, h, d.tol, order)
		if dec.Action == control.Accept && !res.Y.IsValid() {
			dec = control.Decision{Action: control.Shrink, NextH: h * 0.2, Error: math.NaN()}
		}

		if dec.Action == control.Shrink {
			d.status = Rejected
			d.stats.Rejected++
			rejects++
			next := dec.NextH
			if ce := Logger().Check(zap.DebugLevel, "step rejected"); ce != nil {
				ce.Write(zap.Float64("t", d.t), zap.Float64("h", h), zap.Float64("error", dec.Error), zap.Float64("next_h", next))
			}
			minStep := math.Max(d.cfg.MinStep, 16*epsilon*math.Abs(d.t))
			switch {
			case next == 0 || math.IsNaN(next) || math.IsInf(next, 0):
				return d.fail(d.noConvergence("step size is %g", next))
			case math.Abs(next) < minStep:
				return d.fail(d.noConvergence("step size %g fell below %g", next, minStep))
			case d.t+next == d.t:
				return d.fail(d.noConvergence("step size %g is lost in t", next))
			case rejects > d.cfg.MaxRejects:
				return d.fail(d.noConvergence("%d consecutive rejected steps", rejects))
			}
			d.h = next
			continue
		}

		prev := d.h
		if clamped {
			d.t = target
		} else {
			d.t += h
		}
		d.y = res.Y
		d.dydt = res.DydtOut
		d.status = Accepted
		d.stats.Steps++
		d.stats.LastStep = h
		rejects = 0
		steps++

		next := dec.NextH
		if clamped && math.Abs(prev) > math.Abs(next) {
			next = prev
		}
		d.h = next

		for _, o := range d.observers {
			o.OnStep(d.t, h, d.y.Clone())
		}

		if d.t == target {
			break
		}
		if steps >= d.cfg.MaxSteps {
			return d.fail(&dynamo.EvalError{
				Kind:   dynamo.KindMaxSteps,
				Op:     "advance",
				Time:   d.t,
				Detail: fmt.Sprintf("%d steps taken before reaching t=%g", steps, target),
			})
		}
		if err := d.refreshSlope(); err != nil {
			return d.fail(err)
		}
	}

	d.status = Reached
	Logger().Debug("target reached",
		zap.Float64("t", d.t),
		zap.Int("steps", d.stats.Steps),
		zap.Int("rejected", d.stats.Rejected),
	)
	return d.y.Clone(), nil
}

const epsilon = 2.220446049250313e-16

func (d *Driver) startStep(dir float64) (float64, error) {
	if d.cfg.InitialStep != 0 {
		return dir * math.Abs(d.cfg.InitialStep), nil
	}
	h, err := estimateStep(d.sys, d.t, d.y, d.dydt, d.tol, d.stepper.Order(), dir)
	if err != nil {
		return 0, err
	}
	if d.cfg.MaxStep > 0 && math.Abs(h) > d.cfg.MaxStep {
		h = dir * d.cfg.MaxStep
	}
	return h, nil
}

func (d *Driver) refreshSlope() error {
	if d.dydt != nil {
		return nil
	}
	dydt, err := d.sys.Derive(d.t, d.y)
	if err != nil {
		return err
	}
	d.dydt = dydt.Clone()
	return nil
}

func (d *Driver) noConvergence(format string, args ...any) error {
	return &dynamo.EvalError{
		Kind:   dynamo.KindNoConvergence,
		Op:     "advance",
		Time:   d.t,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (d *Driver) fail(err error) (dynamo.State, error) {
	d.status = Failed
	Logger().Warn("integration failed",
		zap.String("stepper", d.stepper.Name()),
		zap.Float64("t", d.t),
		zap.Float64("h", d.h),
		zap.Error(err),
	)
	return d.y.Clone(), err
}
