package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

// VanDerPol is the relaxation oscillator
//
//	dx/dt = v
//	dv/dt = -x + mu*v*(1 - x^2)
//
// It becomes stiff for large mu.
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{Mu: 10}
}

func (v *VanDerPol) Name() string { return "vanderpol" }

func (v *VanDerPol) System() dynamo.System {
	return dynamo.MustDescriptor(2, vanDerPolDerive, vanDerPolJacobian, *v)
}

func vanDerPolDerive(_ float64, y []float64, p VanDerPol) ([]float64, error) {
	return []float64{
		y[1],
		-y[0] + p.Mu*y[1]*(1-y[0]*y[0]),
	}, nil
}

func vanDerPolJacobian(_ float64, y []float64, p VanDerPol) (*mat.Dense, []float64, error) {
	dfdy := mat.NewDense(2, 2, []float64{
		0, 1,
		-2*p.Mu*y[0]*y[1] - 1, p.Mu * (1 - y[0]*y[0]),
	})
	return dfdy, []float64{0, 0}, nil
}

func (v *VanDerPol) DefaultState() dynamo.State {
	return dynamo.State{1.0, 0.0}
}

func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{"mu": v.Mu}
}

func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return unknownParam(v.Name(), name)
	}
	v.Mu = value
	return nil
}
