package control

import (
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

// PI is a proportional-integral step-size controller. On acceptance it
// scales h by Safety * E^(-Alpha/(q+1)) * Eprev^(Beta/(q+1)) for a method of
// order q, which damps the step-size oscillation the standard controller
// shows on mildly stiff problems. Rejections fall back to the standard
// formula.
type PI struct {
	Safety   float64
	Alpha    float64
	Beta     float64
	MinScale float64
	MaxScale float64
	prevErr  float64
}

func NewPI() *PI {
	return &PI{
		Safety:   0.9,
		Alpha:    0.7,
		Beta:     0.4,
		MinScale: 0.2,
		MaxScale: 5.0,
		prevErr:  1e-4,
	}
}

func (p *PI) Evaluate(yErr, y, dydt dynamo.State, h float64, tol dynamo.Tolerances, order int) Decision {
	e := NormalizedError(yErr, y, dydt, h, tol)
	q := exponentOrder(order)

	if math.IsNaN(e) || math.IsInf(e, 0) {
		return Decision{Action: Shrink, NextH: h * p.MinScale, Error: e}
	}

	if e <= 1 {
		scale := p.MaxScale
		if e > 0 {
			scale = p.Safety * math.Pow(e, -p.Alpha/(q+1)) * math.Pow(p.prevErr, p.Beta/(q+1))
			scale = math.Min(p.MaxScale, math.Max(p.MinScale, scale))
		}
		p.prevErr = math.Max(e, 1e-4)
		return Decision{Action: Accept, NextH: h * scale, Error: e}
	}

	scale := math.Max(p.MinScale, p.Safety*math.Pow(e, -1/q))
	return Decision{Action: Shrink, NextH: h * scale, Error: e}
}

// Reset forgets the error history.
func (p *PI) Reset() {
	p.prevErr = 1e-4
}
