package driver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Stats accumulates over the lifetime of a driver until Reset.
type Stats struct {
	Steps               int     `json:"steps"`
	Rejected            int     `json:"rejected"`
	Evaluations         int     `json:"evaluations"`
	JacobianEvaluations int     `json:"jacobian_evaluations"`
	LastStep            float64 `json:"last_step"`
	NextStep            float64 `json:"next_step"`
}

// countingSystem counts calls into the wrapped system.
type countingSystem struct {
	dynamo.System
	derivs    int
	jacobians int
}

func (c *countingSystem) Derive(t float64, y dynamo.State) (dynamo.State, error) {
	c.derivs++
	return c.System.Derive(t, y)
}

func (c *countingSystem) Jacobian(t float64, y dynamo.State) (*mat.Dense, dynamo.State, error) {
	c.jacobians++
	return c.System.Jacobian(t, y)
}
