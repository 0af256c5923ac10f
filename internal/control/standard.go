package control

import (
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Standard is the elementary controller
//
//	accept (E <= 1): h * min(MaxScale, max(MinScale, Safety*E^(-1/(q+1))))
//	shrink (E > 1):  h * max(MinScale, Safety*E^(-1/q))
//
// A non-finite E always shrinks by MinScale.
type Standard struct {
	Safety   float64
	MinScale float64
	MaxScale float64
}

func NewStandard() *Standard {
	return &Standard{
		Safety:   0.9,
		MinScale: 0.2,
		MaxScale: 5.0,
	}
}

func (s *Standard) Evaluate(yErr, y, dydt dynamo.State, h float64, tol dynamo.Tolerances, order int) Decision {
	e := NormalizedError(yErr, y, dydt, h, tol)
	q := exponentOrder(order)

	if math.IsNaN(e) || math.IsInf(e, 0) {
		return Decision{Action: Shrink, NextH: h * s.MinScale, Error: e}
	}

	if e <= 1 {
		scale := s.MaxScale
		if e > 0 {
			scale = math.Min(s.MaxScale, math.Max(s.MinScale, s.Safety*math.Pow(e, -1/(q+1))))
		}
		return Decision{Action: Accept, NextH: h * scale, Error: e}
	}

	scale := math.Max(s.MinScale, s.Safety*math.Pow(e, -1/q))
	return Decision{Action: Shrink, NextH: h * scale, Error: e}
}
