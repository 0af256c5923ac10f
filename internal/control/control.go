package control

import (
	"math"

	"github.com/san-kum/odeint/internal/dynamo"
)

type Action int

const (
	Accept Action = iota
	Shrink
)

func (a Action) String() string {
	if a == Accept {
		return "accept"
	}
	return "shrink"
}

// Decision is the outcome of evaluating one trial step.
type Decision struct {
	Action Action
	NextH  float64
	// Error is the normalised error E the decision was based on.
	Error float64
}

type Controller interface {
	Evaluate(yErr, y, dydt dynamo.State, h float64, tol dynamo.Tolerances, order int) Decision
}

// NormalizedError returns max_i |yErr_i| / D_i with
// D_i = abs + rel*(scaleY*|y_i| + scaleDydt*|h*dydt_i|).
// dydt may be nil when tol.ScaleDydt is zero. Any NaN yields NaN.
func NormalizedError(yErr, y, dydt dynamo.State, h float64, tol dynamo.Tolerances) float64 {
	e := 0.0
	for i := range yErr {
		d := tol.Absolute
		scaled := 0.0
		if i < len(y) {
			scaled += tol.ScaleY * math.Abs(y[i])
		}
		if tol.ScaleDydt != 0 && i < len(dydt) {
			scaled += tol.ScaleDydt * math.Abs(h*dydt[i])
		}
		d += tol.Relative * scaled

		ei := math.Abs(yErr[i])
		switch {
		case math.IsNaN(ei) || math.IsNaN(d):
			return math.NaN()
		case ei == 0:
			continue
		case d == 0:
			ei = math.Inf(1)
		default:
			ei /= d
		}
		if ei > e {
			e = ei
		}
	}
	return e
}

func exponentOrder(order int) float64 {
	if order < 1 {
		return 1
	}
	return float64(order)
}
