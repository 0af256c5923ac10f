package integrators

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

// linearSolver factorizes I - h*J once and solves against many right-hand sides.
type linearSolver struct {
	lu mat.LU
	a  *mat.Dense
	x  *mat.VecDense
	n  int
	op string
	t  float64
}

func (s *linearSolver) factorize(op string, t, h float64, dfdy *mat.Dense) error {
	n, _ := dfdy.Dims()
	if s.n != n {
		s.a = mat.NewDense(n, n, nil)
		s.x = mat.NewVecDense(n, nil)
		s.n = n
	}
	s.a.Scale(-h, dfdy)
	for i := 0; i < n; i++ {
		s.a.Set(i, i, 1+s.a.At(i, i))
	}
	s.op, s.t = op, t
	s.lu.Factorize(s.a)
	if math.IsInf(s.lu.Cond(), 1) {
		return &dynamo.EvalError{
			Kind:   dynamo.KindNoConvergence,
			Op:     op,
			Time:   t,
			Detail: "iteration matrix I - hJ is singular",
		}
	}
	return nil
}

// solve writes (I - hJ)^-1 b into dst.
func (s *linearSolver) solve(dst, b dynamo.State) error {
	if err := s.lu.SolveVecTo(s.x, false, mat.NewVecDense(len(b), b)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return &dynamo.EvalError{Kind: dynamo.KindNoConvergence, Op: s.op, Time: s.t, Cause: err}
		}
	}
	for i := range dst {
		dst[i] = s.x.AtVec(i)
	}
	return nil
}
