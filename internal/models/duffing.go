package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Duffing is a driven oscillator with a cubic restoring force:
//
//	x'' + δx' + αx + βx³ = γ cos(ωt)
//
// The forcing makes it non-autonomous, so its Jacobian has a non-zero df/dt.
type Duffing struct {
	Alpha, Beta, Delta, Gamma, Omega float64
}

// NewDuffing returns the double-well chaotic regime.
func NewDuffing() *Duffing {
	return &Duffing{Alpha: -1, Beta: 1, Delta: 0.3, Gamma: 0.5, Omega: 1.2}
}

func (d *Duffing) Name() string { return "duffing" }

func (d *Duffing) System() dynamo.System {
	return dynamo.MustDescriptor(2, duffingDerive, duffingJacobian, *d)
}

func duffingDerive(t float64, s []float64, p Duffing) ([]float64, error) {
	x, v := s[0], s[1]
	return []float64{
		v,
		-p.Delta*v - p.Alpha*x - p.Beta*x*x*x + p.Gamma*math.Cos(p.Omega*t),
	}, nil
}

func duffingJacobian(t float64, s []float64, p Duffing) (*mat.Dense, []float64, error) {
	x := s[0]
	dfdy := mat.NewDense(2, 2, []float64{
		0, 1,
		-p.Alpha - 3*p.Beta*x*x, -p.Delta,
	})
	return dfdy, []float64{0, -p.Gamma * p.Omega * math.Sin(p.Omega*t)}, nil
}

func (d *Duffing) DefaultState() dynamo.State { return dynamo.State{1, 0} }

// Energy of the unforced oscillator.
func (d *Duffing) Energy(s dynamo.State) float64 {
	x, v := s[0], s[1]
	return 0.5*v*v + 0.5*d.Alpha*x*x + 0.25*d.Beta*x*x*x*x
}

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{"alpha": d.Alpha, "beta": d.Beta, "delta": d.Delta, "gamma": d.Gamma, "omega": d.Omega}
}

func (d *Duffing) SetParam(name string, value float64) error {
	switch name {
	case "alpha":
		d.Alpha = value
	case "beta":
		d.Beta = value
	case "delta":
		d.Delta = value
	case "gamma":
		d.Gamma = value
	case "omega":
		d.Omega = value
	default:
		return unknownParam(d.Name(), name)
	}
	return nil
}
