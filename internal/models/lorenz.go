package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Lorenz is the classic chaotic convection model.
type Lorenz struct {
	Sigma, Rho, Beta float64
}

func NewLorenz() *Lorenz {
	return &Lorenz{Sigma: 10, Rho: 28, Beta: 8.0 / 3.0}
}

func (l *Lorenz) Name() string { return "lorenz" }

func (l *Lorenz) System() dynamo.System {
	return dynamo.MustDescriptor(3, lorenzDerive, lorenzJacobian, *l)
}

func lorenzDerive(_ float64, s []float64, p Lorenz) ([]float64, error) {
	x, y, z := s[0], s[1], s[2]
	return []float64{
		p.Sigma * (y - x),
		x*(p.Rho-z) - y,
		x*y - p.Beta*z,
	}, nil
}

func lorenzJacobian(_ float64, s []float64, p Lorenz) (*mat.Dense, []float64, error) {
	x, y, z := s[0], s[1], s[2]
	dfdy := mat.NewDense(3, 3, []float64{
		-p.Sigma, p.Sigma, 0,
		p.Rho - z, -1, -x,
		y, x, -p.Beta,
	})
	return dfdy, []float64{0, 0, 0}, nil
}

func (l *Lorenz) DefaultState() dynamo.State { return dynamo.State{1, 1, 1} }

func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.Sigma, "rho": l.Rho, "beta": l.Beta}
}

func (l *Lorenz) SetParam(name string, value float64) error {
	switch name {
	case "sigma":
		l.Sigma = value
	case "rho":
		l.Rho = value
	case "beta":
		l.Beta = value
	default:
		return unknownParam(l.Name(), name)
	}
	return nil
}
