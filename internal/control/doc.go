// Package control provides step-size controllers for adaptive integration.
//
// A controller turns a stepper's local error estimate into an accept/shrink
// decision and the next trial step size:
//
//   - [Standard]: classic elementary controller with safety factor and clamps
//   - [PI]: proportional-integral controller that also weighs the previous error
//   - [Fixed]: accepts every step and keeps h (fixed-step integration)
//
// # Usage
//
//	ctrl := control.NewStandard()
//	dec := ctrl.Evaluate(res.Err, y, dydt, h, tol, stepper.Order())
//	if dec.Action == control.Accept {
//	    // commit res.Y, continue with dec.NextH
//	}
//
// Errors are normalised per component by [NormalizedError] and combined with
// the infinity norm.
package control
