package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/experiment"
)

// LyapunovExponent estimates the largest Lyapunov exponent of the
// configured run. A reference and a perturbed trajectory, d0 apart, are
// advanced over cfg.Intervals equal windows; after each window the
// separation is logged and the perturbed state pulled back to distance d0.
//
// λ ≈ Σ ln(|δ_k|/d0) / (T1 - T0)
func LyapunovExponent(ctx context.Context, cfg *config.Config, reg *experiment.Registry, d0 float64) (float64, error) {
	if d0 <= 0 {
		return 0, fmt.Errorf("analysis: perturbation must be positive, got %g", d0)
	}
	ref, err := experiment.New(cfg, reg)
	if err != nil {
		return 0, err
	}
	pert, err := experiment.New(cfg, reg)
	if err != nil {
		return 0, err
	}
	rd, pd := ref.Driver(), pert.Driver()

	yp := rd.State()
	yp[0] += d0
	if err := pd.Reset(cfg.T0, yp); err != nil {
		return 0, err
	}

	window := (cfg.T1 - cfg.T0) / float64(cfg.Intervals)
	sumLog := 0.0
	for k := 1; k <= cfg.Intervals; k++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		t := cfg.T0 + float64(k)*window
		if k == cfg.Intervals {
			t = cfg.T1
		}
		y, err := rd.Advance(t)
		if err != nil {
			return 0, err
		}
		yp, err := pd.Advance(t)
		if err != nil {
			return 0, err
		}

		sep := separation(y, yp)
		if sep == 0 || math.IsNaN(sep) {
			return 0, fmt.Errorf("analysis: trajectories collapsed at t=%g", t)
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for i := range yp {
			yp[i] = y[i] + (yp[i]-y[i])*scale
		}
		if err := pd.Reset(t, yp); err != nil {
			return 0, err
		}
	}
	return sumLog / (cfg.T1 - cfg.T0), nil
}

func separation(a, b dynamo.State) float64 {
	sum := 0.0
	for i := range a {
		d := b[i] - a[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
