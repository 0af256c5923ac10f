package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Rossler is a three-variable chaotic flow with a single nonlinear term.
type Rossler struct {
	A, B, C float64
}

func NewRossler() *Rossler { return &Rossler{A: 0.2, B: 0.2, C: 5.7} }

func (r *Rossler) Name() string { return "rossler" }

func (r *Rossler) System() dynamo.System {
	return dynamo.MustDescriptor(3, rosslerDerive, rosslerJacobian, *r)
}

func rosslerDerive(_ float64, s []float64, p Rossler) ([]float64, error) {
	x, y, z := s[0], s[1], s[2]
	return []float64{-y - z, x + p.A*y, p.B + z*(x-p.C)}, nil
}

func rosslerJacobian(_ float64, s []float64, p Rossler) (*mat.Dense, []float64, error) {
	x, z := s[0], s[2]
	return mat.NewDense(3, 3, []float64{
		0, -1, -1,
		1, p.A, 0,
		z, 0, x - p.C,
	}), []float64{0, 0, 0}, nil
}

func (r *Rossler) DefaultState() dynamo.State { return dynamo.State{1, 1, 1} }

func (r *Rossler) GetParams() map[string]float64 {
	return map[string]float64{"a": r.A, "b": r.B, "c": r.C}
}

func (r *Rossler) SetParam(name string, value float64) error {
	switch name {
	case "a":
		r.A = value
	case "b":
		r.B = value
	case "c":
		r.C = value
	default:
		return unknownParam(r.Name(), name)
	}
	return nil
}
