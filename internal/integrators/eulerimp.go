package integrators

import (
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

// EulerImplicit is the linearly implicit Euler method
//
//	(I - hJ) dy = h (f(t, y) + h df/dt)
//
// with step doubling. The propagated solution is the Richardson
// combination 2*y2 - y1 and the error estimate is |y2 - y1|.
type EulerImplicit struct {
	solver linearSolver
}

func NewEulerImplicit() *EulerImplicit {
	return &EulerImplicit{}
}

func (e *EulerImplicit) Name() string        { return "eulerimp" }
func (e *EulerImplicit) Order() int          { return 1 }
func (e *EulerImplicit) NeedsJacobian() bool { return true }
func (e *EulerImplicit) Reset()              { e.solver = linearSolver{} }

func (e *EulerImplicit) Step(sys dynamo.System, t, h float64, y, dydtIn dynamo.State) (*dynamo.StepResult, error) {
	if !sys.HasJacobian() {
		return nil, &dynamo.EvalError{Kind: dynamo.KindNoJacobian, Op: e.Name(), Time: t}
	}
	n := len(y)
	dydt := make(dynamo.State, n)
	if err := initialSlope(sys, t, y, dydtIn, dydt); err != nil {
		return nil, err
	}

	y1, err := e.single(sys, t, h, y, dydt)
	if err != nil {
		return nil, err
	}
	half, err := e.single(sys, t, h/2, y, dydt)
	if err != nil {
		return nil, err
	}
	mid, err := sys.Derive(t+h/2, half)
	if err != nil {
		return nil, err
	}
	y2, err := e.single(sys, t+h/2, h/2, half, mid)
	if err != nil {
		return nil, err
	}

	res := &dynamo.StepResult{
		Y:   make(dynamo.State, n),
		Err: make(dynamo.State, n),
	}
	for i := 0; i < n; i++ {
		res.Y[i] = 2*y2[i] - y1[i]
		res.Err[i] = math.Abs(y2[i] - y1[i])
	}
	return res, nil
}

func (e *EulerImplicit) single(sys dynamo.System, t, h float64, y, dydt dynamo.State) (dynamo.State, error) {
	dfdy, dfdt, err := sys.Jacobian(t, y)
	if err != nil {
		return nil, err
	}
	if err := e.solver.factorize(e.Name(), t, h, dfdy); err != nil {
		return nil, err
	}
	n := len(y)
	rhs := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		rhs[i] = h * (dydt[i] + h*dfdt[i])
	}
	dy := make(dynamo.State, n)
	if err := e.solver.solve(dy, rhs); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		dy[i] += y[i]
	}
	return dy, nil
}
