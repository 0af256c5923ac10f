package integrators

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

func decaySystem(withJacobian bool) dynamo.System {
	derive := func(t float64, y []float64, k float64) ([]float64, error) {
		return []float64{-k * y[0]}, nil
	}
	var jac dynamo.JacobianFunc[float64]
	if withJacobian {
		jac = func(t float64, y []float64, k float64) (*mat.Dense, []float64, error) {
			return mat.NewDense(1, 1, []float64{-k}), []float64{0}, nil
		}
	}
	return dynamo.MustDescriptor(1, derive, jac, 1.0)
}

func oscillatorSystem() dynamo.System {
	return dynamo.MustDescriptor(2,
		func(t float64, y []float64, _ struct{}) ([]float64, error) {
			return []float64{y[1], -y[0]}, nil
		},
		func(t float64, y []float64, _ struct{}) (*mat.Dense, []float64, error) {
			return mat.NewDense(2, 2, []float64{0, 1, -1, 0}), []float64{0, 0}, nil
		},
		struct{}{},
	)
}

var errBoom = errors.New("boom")

func failingSystem() dynamo.System {
	return dynamo.MustDescriptor(1,
		func(t float64, y []float64, _ struct{}) ([]float64, error) {
			if t > 0 {
				return nil, dynamo.UserError(7, "blew up at %g", t)
			}
			return []float64{1}, nil
		},
		func(t float64, y []float64, _ struct{}) (*mat.Dense, []float64, error) {
			return nil, nil, errBoom
		},
		struct{}{},
	)
}

func allKernels() []dynamo.Stepper {
	return []dynamo.Stepper{
		NewRK2(), NewRK4(), NewRKF45(), NewRKCK(), NewRK45(), NewRK8PD(),
		NewBSimp(), NewEulerImplicit(),
	}
}
