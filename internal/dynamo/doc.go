// Package dynamo provides the core primitives for adaptive ODE integration.
//
// The package defines the types shared by every other part of the engine:
//
//   - [State]: vector representing the system state y(t)
//   - [System]: the right-hand side dy/dt = f(t, y), optionally with a Jacobian
//   - [Descriptor]: a typed [System] built from plain functions and a parameter block
//   - [Tolerances]: absolute/relative weights used to normalise error estimates
//   - [Stepper]: a single-step kernel producing a solution and an error estimate
//   - [EvalError]: the structured error returned by every evaluation failure
//
// # Example
//
//	sys, _ := dynamo.NewDescriptor(1, func(t float64, y []float64, k float64) ([]float64, error) {
//		return []float64{-k * y[0]}, nil
//	}, nil, 1.0)
//	d, _ := driver.New(sys, integrators.NewRK8PD(), dynamo.NewTolerances(1e-8, 1e-8), driver.DefaultConfig())
//	d.Reset(0, dynamo.State{1})
//	y, err := d.Advance(1)
//
// # Thread Safety
//
// Descriptors are immutable and may be shared. Steppers own scratch buffers and
// must not be shared between concurrently running drivers.
package dynamo
