// Package integrators provides single-step kernels for adaptive ODE integration.
//
// Every kernel implements [dynamo.Stepper]: given (t, h, y) it returns the
// next state and a per-component local error estimate.
//
//   - Explicit embedded Runge-Kutta pairs driven by a [Tableau]:
//     rk2, rkf45, rkck, rk45 (Dormand-Prince) and rk8pd (Prince-Dormand 8(7))
//   - [RK4]: classical Runge-Kutta with a step-doubling error estimate
//   - [BSimp]: semi-implicit extrapolation for stiff systems (needs a Jacobian)
//   - [EulerImplicit]: linearly implicit Euler with step doubling (needs a Jacobian)
//
// Kernels own their scratch buffers. Use one kernel instance per driver;
// [Registry.New] always returns a fresh instance.
package integrators
