package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Decay is dy/dt = -K*y with solution y0*exp(-K*t).
type Decay struct {
	K float64
}

func NewDecay() *Decay {
	return &Decay{K: 1}
}

func (d *Decay) Name() string { return "decay" }

func (d *Decay) System() dynamo.System {
	return dynamo.MustDescriptor(1,
		func(_ float64, y []float64, p Decay) ([]float64, error) {
			return []float64{-p.K * y[0]}, nil
		},
		func(_ float64, _ []float64, p Decay) (*mat.Dense, []float64, error) {
			return mat.NewDense(1, 1, []float64{-p.K}), []float64{0}, nil
		},
		*d,
	)
}

func (d *Decay) DefaultState() dynamo.State { return dynamo.State{1} }

func (d *Decay) GetParams() map[string]float64 {
	return map[string]float64{"k": d.K}
}

func (d *Decay) SetParam(name string, value float64) error {
	if name != "k" {
		return unknownParam(d.Name(), name)
	}
	d.K = value
	return nil
}

// InverseDecay is dy/dt = -1/y. From y(0) = 1 the solution sqrt(1 - 2t)
// reaches zero at t = 1/2 and cannot be continued.
type InverseDecay struct{}

func NewInverseDecay() *InverseDecay { return &InverseDecay{} }

func (d *InverseDecay) Name() string { return "inverse-decay" }

func (d *InverseDecay) System() dynamo.System {
	return dynamo.MustDescriptor(1,
		func(_ float64, y []float64, _ struct{}) ([]float64, error) {
			return []float64{-1 / y[0]}, nil
		},
		func(_ float64, y []float64, _ struct{}) (*mat.Dense, []float64, error) {
			return mat.NewDense(1, 1, []float64{1 / (y[0] * y[0])}), []float64{0}, nil
		},
		struct{}{},
	)
}

func (d *InverseDecay) DefaultState() dynamo.State { return dynamo.State{1} }

func (d *InverseDecay) GetParams() map[string]float64 { return map[string]float64{} }

func (d *InverseDecay) SetParam(name string, _ float64) error {
	return unknownParam(d.Name(), name)
}
