package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Pendulum is a damped rigid pendulum with state [theta, omega].
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    DefaultMass,
		Length:  DefaultLength,
		Damping: 0,
		Gravity: DefaultGravity,
	}
}

func (p *Pendulum) Name() string { return "pendulum" }

func (p *Pendulum) System() dynamo.System {
	return dynamo.MustDescriptor(2, pendulumDerive, pendulumJacobian, *p)
}

func pendulumDerive(_ float64, x []float64, p Pendulum) ([]float64, error) {
	theta, omega := x[0], x[1]
	alpha := (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta)) / (p.Mass * p.Length * p.Length)
	return []float64{omega, alpha}, nil
}

func pendulumJacobian(_ float64, x []float64, p Pendulum) (*mat.Dense, []float64, error) {
	inertia := p.Mass * p.Length * p.Length
	dfdy := mat.NewDense(2, 2, []float64{
		0, 1,
		-p.Mass * p.Gravity * p.Length * math.Cos(x[0]) / inertia, -p.Damping / inertia,
	})
	return dfdy, []float64{0, 0}, nil
}

func (p *Pendulum) DefaultState() dynamo.State {
	return dynamo.State{math.Pi / 4, 0}
}

// Energy is kinetic plus potential energy, zero at rest at the bottom.
func (p *Pendulum) Energy(x dynamo.State) float64 {
	theta, omega := x[0], x[1]
	ke := 0.5 * p.Mass * p.Length * p.Length * omega * omega
	pe := p.Mass * p.Gravity * p.Length * (1 - math.Cos(theta))
	return ke + pe
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    p.Mass,
		"length":  p.Length,
		"damping": p.Damping,
		"gravity": p.Gravity,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		p.Mass = value
	case "length":
		p.Length = value
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	default:
		return unknownParam(p.Name(), name)
	}
	return nil
}
