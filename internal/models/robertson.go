package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Robertson is the stiff three-species reaction
//
//	A -> B         (K1)
//	B + C -> A + C (K2)
//	2B -> B + C    (K3)
type Robertson struct {
	K1, K2, K3 float64
}

func NewRobertson() *Robertson {
	return &Robertson{K1: 0.04, K2: 1e4, K3: 3e7}
}

func (r *Robertson) Name() string { return "robertson" }

func (r *Robertson) System() dynamo.System {
	return dynamo.MustDescriptor(3, robertsonDerive, robertsonJacobian, *r)
}

func robertsonDerive(_ float64, y []float64, p Robertson) ([]float64, error) {
	a := p.K1 * y[0]
	b := p.K2 * y[1] * y[2]
	c := p.K3 * y[1] * y[1]
	return []float64{-a + b, a - b - c, c}, nil
}

func robertsonJacobian(_ float64, y []float64, p Robertson) (*mat.Dense, []float64, error) {
	dfdy := mat.NewDense(3, 3, []float64{
		-p.K1, p.K2 * y[2], p.K2 * y[1],
		p.K1, -p.K2*y[2] - 2*p.K3*y[1], -p.K2 * y[1],
		0, 2 * p.K3 * y[1], 0,
	})
	return dfdy, []float64{0, 0, 0}, nil
}

func (r *Robertson) DefaultState() dynamo.State { return dynamo.State{1, 0, 0} }

func (r *Robertson) GetParams() map[string]float64 {
	return map[string]float64{"k1": r.K1, "k2": r.K2, "k3": r.K3}
}

func (r *Robertson) SetParam(name string, value float64) error {
	switch name {
	case "k1":
		r.K1 = value
	case "k2":
		r.K2 = value
	case "k3":
		r.K3 = value
	default:
		return unknownParam(r.Name(), name)
	}
	return nil
}
