package driver_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/odeint/internal/control"
	"github.com/san-kum/odeint/internal/driver"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/integrators"
	"github.com/san-kum/odeint/internal/models"
)

type recorder struct {
	ts, hs []float64
}

func (r *recorder) OnStep(t, h float64, _ dynamo.State) {
	r.ts = append(r.ts, t)
	r.hs = append(r.hs, h)
}

// scribbler overwrites whatever state it is shown.
type scribbler struct{}

func (scribbler) OnStep(_, _ float64, y dynamo.State) { y[0] = 1e6 }

var kernelNames = []string{"rk2", "rk4", "rkf45", "rkck", "rk45", "rk8pd", "bsimp", "eulerimp"}

func newDriver(m models.Model, stepper string, tol dynamo.Tolerances, cfg driver.Config) *driver.Driver {
	k, err := integrators.New(stepper)
	Expect(err).NotTo(HaveOccurred())
	d, err := driver.New(m.System(), k, tol, cfg)
	Expect(err).NotTo(HaveOccurred())
	Expect(d.Reset(0, m.DefaultState())).To(Succeed())
	return d
}

// failsAfter is dy/dt = -y that reports a coded failure past tFail.
func failsAfter(tFail float64) dynamo.System {
	return dynamo.MustDescriptor(1,
		func(t float64, y []float64, limit float64) ([]float64, error) {
			if t > limit {
				return nil, dynamo.UserError(42, "past %g", limit)
			}
			return []float64{-y[0]}, nil
		},
		nil,
		tFail,
	)
}

var _ = Describe("Driver", func() {
	tight := dynamo.NewTolerances(1e-8, 1e-8)

	Describe("construction", func() {
		It("rejects invalid tolerances", func() {
			_, err := driver.New(models.NewDecay().System(), integrators.NewRK45(),
				dynamo.Tolerances{Absolute: -1, Relative: 0, ScaleY: 1}, driver.DefaultConfig())
			Expect(err).To(MatchError(dynamo.ErrInvalidTolerances))
		})

		It("rejects an implicit kernel for a system without Jacobian", func() {
			_, err := driver.New(models.NewDoublePendulum().System(), integrators.NewBSimp(),
				tight, driver.DefaultConfig())
			Expect(err).To(MatchError(dynamo.ErrNoJacobian))
		})

		It("rejects a bad config", func() {
			_, err := driver.New(models.NewDecay().System(), integrators.NewRK45(), tight,
				driver.Config{MinStep: 1, MaxStep: 0.5})
			Expect(err).To(HaveOccurred())
		})

		It("rejects a state of the wrong length", func() {
			d, err := driver.New(models.NewDecay().System(), integrators.NewRK45(), tight, driver.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Reset(0, dynamo.State{1, 2})).To(MatchError(dynamo.ErrDimensionMismatch))
		})

		It("rejects a non-finite start time", func() {
			d := newDriver(models.NewDecay(), "rk45", tight, driver.DefaultConfig())
			Expect(d.Reset(math.NaN(), dynamo.State{1})).NotTo(Succeed())
			Expect(d.Reset(math.Inf(-1), dynamo.State{1})).NotTo(Succeed())
			Expect(d.Time()).To(BeZero())
		})

		It("starts idle", func() {
			d := newDriver(models.NewDecay(), "rk45", tight, driver.DefaultConfig())
			Expect(d.Status()).To(Equal(driver.Idle))
			Expect(d.Time()).To(BeZero())
		})
	})

	Describe("exponential decay to t=1", func() {
		for _, name := range kernelNames {
			It("is accurate with "+name, func() {
				d := newDriver(models.NewDecay(), name, tight, driver.DefaultConfig())
				y, err := d.Advance(1)
				Expect(err).NotTo(HaveOccurred())
				Expect(d.Status()).To(Equal(driver.Reached))
				Expect(d.Time()).To(Equal(1.0))
				Expect(y[0]).To(BeNumerically("~", math.Exp(-1), 1e-6))
			})
		}

		It("integrates backwards with negative steps", func() {
			d := newDriver(models.NewDecay(), "rk45", tight, driver.DefaultConfig())
			Expect(d.Reset(1, dynamo.State{math.Exp(-1)})).To(Succeed())
			rec := &recorder{}
			d.AddObserver(rec)

			y, err := d.Advance(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(y[0]).To(BeNumerically("~", 1, 1e-6))
			Expect(rec.hs).NotTo(BeEmpty())
			for _, h := range rec.hs {
				Expect(h).To(BeNumerically("<", 0))
			}
		})
	})

	Describe("step sequence", func() {
		It("keeps every accepted step pointing at the target and lands on it exactly", func() {
			// Backwards in time the Van der Pol limit cycle repels, so keep mu mild.
			vdp := models.NewVanDerPol()
			Expect(vdp.SetParam("mu", 1)).To(Succeed())
			d := newDriver(vdp, "rk45", dynamo.NewTolerances(1e-6, 1e-6), driver.DefaultConfig())
			rec := &recorder{}
			d.AddObserver(rec)

			_, err := d.Advance(3.7)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.ts[len(rec.ts)-1]).To(Equal(3.7))
			for i, h := range rec.hs {
				Expect(h).To(BeNumerically(">", 0))
				Expect(rec.ts[i]).To(BeNumerically("<=", 3.7))
			}

			forward := len(rec.hs)
			_, err = d.Advance(1.2)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Time()).To(Equal(1.2))
			Expect(len(rec.hs)).To(BeNumerically(">", forward))
			for _, h := range rec.hs[forward:] {
				Expect(h).To(BeNumerically("<", 0))
			}
		})

		It("does nothing when already at the target", func() {
			d := newDriver(models.NewDecay(), "rk45", tight, driver.DefaultConfig())
			first, err := d.Advance(0.5)
			Expect(err).NotTo(HaveOccurred())
			before := d.Stats()

			again, err := d.Advance(0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(first))
			Expect(d.Status()).To(Equal(driver.Reached))
			Expect(d.Stats()).To(Equal(before))
		})

		It("takes exactly the fixed step with the fixed controller", func() {
			d := newDriver(models.NewDecay(), "rk4", tight, driver.Config{InitialStep: 0.125})
			d.SetController(control.NewFixed())
			_, err := d.Advance(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Stats().Steps).To(Equal(8))
			Expect(d.Stats().Rejected).To(BeZero())
		})

		It("respects the maximum step", func() {
			d := newDriver(models.NewDecay(), "rk8pd", dynamo.NewTolerances(1e-3, 0), driver.Config{MaxStep: 0.05})
			rec := &recorder{}
			d.AddObserver(rec)
			_, err := d.Advance(1)
			Expect(err).NotTo(HaveOccurred())
			for _, h := range rec.hs {
				Expect(math.Abs(h)).To(BeNumerically("<=", 0.05))
			}
			Expect(d.Stats().Steps).To(BeNumerically(">=", 20))
		})

		It("stops after the step budget", func() {
			d := newDriver(models.NewDecay(), "rk2", tight, driver.Config{MaxSteps: 5})
			_, err := d.Advance(10)
			Expect(err).To(MatchError(dynamo.ErrMaxSteps))
			Expect(d.Status()).To(Equal(driver.Failed))
			Expect(d.Stats().Steps).To(Equal(5))
		})

		It("repeats the same step sequence after a reset with the PI controller", func() {
			d := newDriver(models.NewVanDerPol(), "rkck", dynamo.NewTolerances(1e-6, 1e-6), driver.DefaultConfig())
			d.SetController(control.NewPI())
			_, err := d.Advance(2)
			Expect(err).NotTo(HaveOccurred())
			first := d.Stats()

			Expect(d.Reset(0, models.NewVanDerPol().DefaultState())).To(Succeed())
			_, err = d.Advance(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Stats()).To(Equal(first))
		})

		It("hands observers a copy of the state", func() {
			d := newDriver(models.NewDecay(), "rk45", tight, driver.DefaultConfig())
			d.AddObserver(scribbler{})
			y, err := d.Advance(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(y[0]).To(BeNumerically("~", math.Exp(-1), 1e-6))
		})

		It("counts evaluations and clears them on reset", func() {
			d := newDriver(models.NewRobertson(), "bsimp", dynamo.NewTolerances(1e-8, 1e-6), driver.DefaultConfig())
			_, err := d.Advance(1)
			Expect(err).NotTo(HaveOccurred())
			s := d.Stats()
			Expect(s.Evaluations).To(BeNumerically(">", s.Steps))
			Expect(s.JacobianEvaluations).To(BeNumerically(">=", s.Steps))
			Expect(s.LastStep).NotTo(BeZero())

			Expect(d.Reset(0, models.NewRobertson().DefaultState())).To(Succeed())
			Expect(d.Stats()).To(Equal(driver.Stats{}))
		})
	})

	Describe("failures", func() {
		for _, name := range kernelNames {
			It("reports no convergence at the singularity of dy/dt = -1/y with "+name, func() {
				d := newDriver(models.NewInverseDecay(), name, tight, driver.DefaultConfig())
				y, err := d.Advance(1)
				Expect(err).To(MatchError(dynamo.ErrNoConvergence))
				Expect(d.Status()).To(Equal(driver.Failed))
				Expect(d.Time()).To(BeNumerically(">", 0.4))
				Expect(d.Time()).To(BeNumerically("<=", 0.5+1e-6))
				Expect(y.IsValid()).To(BeTrue())
			})
		}

		It("gives up when the step falls below the minimum step", func() {
			d := newDriver(models.NewInverseDecay(), "rk45", tight, driver.Config{MinStep: 1e-3})
			y, err := d.Advance(1)
			Expect(err).To(MatchError(dynamo.ErrNoConvergence))
			Expect(err.Error()).To(ContainSubstring("fell below"))
			Expect(d.Status()).To(Equal(driver.Failed))
			Expect(d.Time()).To(BeNumerically(">", 0.4))
			Expect(d.Time()).To(BeNumerically("<", 0.5))
			Expect(y.IsValid()).To(BeTrue())
		})

		It("gives up after too many consecutive rejections", func() {
			d := newDriver(models.NewDecay(), "rk45", tight, driver.Config{InitialStep: 10, MaxRejects: 2})
			y, err := d.Advance(100)
			Expect(err).To(MatchError(dynamo.ErrNoConvergence))
			Expect(err.Error()).To(ContainSubstring("3 consecutive rejected steps"))
			Expect(d.Time()).To(BeZero())
			Expect(d.Stats().Rejected).To(Equal(3))
			Expect(y).To(Equal(dynamo.State{1}))
		})

		It("keeps the last accepted point when the derivative fails and stays usable", func() {
			k := integrators.NewRK45()
			d, err := driver.New(failsAfter(0.5), k, tight, driver.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Reset(0, dynamo.State{1})).To(Succeed())

			y, err := d.Advance(1)
			Expect(err).To(MatchError(dynamo.ErrUserFunction))
			var ev *dynamo.EvalError
			Expect(errors.As(err, &ev)).To(BeTrue())
			Expect(ev.Code).To(Equal(42))
			Expect(d.Status()).To(Equal(driver.Failed))

			t := d.Time()
			Expect(t).To(BeNumerically("<=", 0.5))
			Expect(y[0]).To(BeNumerically("~", math.Exp(-t), 1e-6))
			Expect(d.State()).To(Equal(y))

			y, err = d.Advance(0.25)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Status()).To(Equal(driver.Reached))
			Expect(y[0]).To(BeNumerically("~", math.Exp(-0.25), 1e-6))
		})
	})

	Describe("stiff problems", func() {
		robertsonTol := dynamo.NewTolerances(1e-8, 1e-6)

		It("solves Robertson with few implicit steps", func() {
			d := newDriver(models.NewRobertson(), "bsimp", robertsonTol, driver.DefaultConfig())
			y, err := d.Advance(40)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Stats().Steps).To(BeNumerically("<", 100))
			Expect(y[0]).To(BeNumerically("~", 0.715827, 1e-4))
			Expect(y[1]).To(BeNumerically("~", 9.1855e-6, 1e-7))
			Expect(y[2]).To(BeNumerically("~", 0.284164, 1e-4))
			Expect(y[0] + y[1] + y[2]).To(BeNumerically("~", 1, 1e-6))
		})

		It("needs far more explicit steps on Robertson", func() {
			implicit := newDriver(models.NewRobertson(), "bsimp", robertsonTol, driver.DefaultConfig())
			_, err := implicit.Advance(40)
			Expect(err).NotTo(HaveOccurred())

			explicit := newDriver(models.NewRobertson(), "rk45", robertsonTol, driver.DefaultConfig())
			_, err = explicit.Advance(40)
			Expect(err).NotTo(HaveOccurred())
			Expect(explicit.Stats().Steps).To(BeNumerically(">", 10*implicit.Stats().Steps))
		})
	})
})
