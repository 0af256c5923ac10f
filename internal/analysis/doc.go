// Package analysis characterizes trajectories produced by the driver.
//
// Most functions work on sampled output (times and states from
// [driver.Driver.Sample]); the Lyapunov estimate and the bifurcation sweep
// drive their own integrations:
//
//   - [Spectrum], [DominantFrequency]: power spectrum of one component
//   - [LyapunovExponent]: largest exponent by renormalized separation
//   - [Bifurcation]: peak values of one component across a parameter sweep
//   - [NewPhasePortrait], [NewPoincareSection]: 2D projections
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(ctx, cfg, reg, 1e-8)
//	if err == nil && lambda > 0 {
//	    // chaotic
//	}
package analysis
