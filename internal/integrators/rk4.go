package integrators

import (
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

// RK4 is the classical fourth order method. It has no embedded pair, so the
// local error comes from step doubling: one full step against two half
// steps, Err = 4|y2-y1|/15 with y2 propagated.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string        { return "rk4" }
func (r *RK4) Order() int          { return 4 }
func (r *RK4) NeedsJacobian() bool { return false }

func (r *RK4) Reset() {
	r.k1, r.k2, r.k3, r.k4, r.scratch = nil, nil, nil, nil, nil
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(sys dynamo.System, t, h float64, y, dydtIn dynamo.State) (*dynamo.StepResult, error) {
	n := len(y)
	r.ensureScratch(n)

	dydt := make(dynamo.State, n)
	if err := initialSlope(sys, t, y, dydtIn, dydt); err != nil {
		return nil, err
	}

	y1 := make(dynamo.State, n)
	if err := r.single(sys, t, h, y, dydt, y1); err != nil {
		return nil, err
	}

	half := make(dynamo.State, n)
	if err := r.single(sys, t, h/2, y, dydt, half); err != nil {
		return nil, err
	}
	mid, err := sys.Derive(t+h/2, half)
	if err != nil {
		return nil, err
	}
	y2 := make(dynamo.State, n)
	if err := r.single(sys, t+h/2, h/2, half, mid, y2); err != nil {
		return nil, err
	}

	yErr := make(dynamo.State, n)
	for i := range yErr {
		yErr[i] = 4 * math.Abs(y2[i]-y1[i]) / 15
	}
	return &dynamo.StepResult{Y: y2, Err: yErr}, nil
}

// single takes one classical RK4 step of size h from (t, y) with k1 given.
func (r *RK4) single(sys dynamo.System, t, h float64, y, k1, out dynamo.State) error {
	n := len(y)
	copy(r.k1, k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*0.5*r.k1[i]
	}
	k2, err := sys.Derive(t+h*0.5, r.scratch)
	if err != nil {
		return err
	}
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*0.5*r.k2[i]
	}
	k3, err := sys.Derive(t+h*0.5, r.scratch)
	if err != nil {
		return err
	}
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + h*r.k3[i]
	}
	k4, err := sys.Derive(t+h, r.scratch)
	if err != nil {
		return err
	}
	copy(r.k4, k4)

	h6 := h / 6.0
	for i := 0; i < n; i++ {
		out[i] = y[i] + h6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return nil
}
