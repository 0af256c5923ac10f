package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxAbs returns the infinity norm of s.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is the right-hand side of dy/dt = f(t, y) as seen by steppers.
type System interface {
	Dim() int
	Derive(t float64, y State) (State, error)
	// Jacobian returns df/dy as a Dim x Dim matrix and df/dt.
	Jacobian(t float64, y State) (*mat.Dense, State, error)
	HasJacobian() bool
}

// StepResult is the outcome of a single trial step.
type StepResult struct {
	Y State
	// Err holds the per-component magnitude of the local error estimate.
	Err State
	// DydtOut is f(t+h, Y) when the stepper computed it as a by-product.
	DydtOut State
}

// Stepper advances a system by one trial step and estimates the local error.
type Stepper interface {
	Name() string
	// Order is the exponent base used by the error controller.
	Order() int
	NeedsJacobian() bool
	// Step never mutates y. dydtIn may be nil.
	Step(sys System, t, h float64, y, dydtIn State) (*StepResult, error)
	// Reset drops any scratch carried between steps.
	Reset()
}

type Hamiltonian interface {
	Energy(y State) float64
}

// Observer is notified after every accepted step. y is a copy of the
// committed state.
type Observer interface {
	OnStep(t, h float64, y State)
}

type Metric interface {
	Name() string
	Observe(y State, t float64)
	Value() float64
	Reset()
}

type Configurable interface {
	GetParams() map[string]float64
}
