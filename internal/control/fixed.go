package control

import "github.com/san-kum/odeint/internal/dynamo"

// Fixed accepts every step and keeps the step size unchanged.
type Fixed struct{}

func NewFixed() *Fixed {
	return &Fixed{}
}

func (f *Fixed) Evaluate(yErr, y, dydt dynamo.State, h float64, tol dynamo.Tolerances, order int) Decision {
	return Decision{Action: Accept, NextH: h, Error: NormalizedError(yErr, y, dydt, h, tol)}
}
