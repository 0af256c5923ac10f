// Package optim searches model parameter grids for the run that minimizes a
// result metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/odeint/internal/config"
	"github.com/san-kum/odeint/internal/experiment"
)

// GridSearch tries every combination of the listed parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: no values for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Outcome is the best grid point found.
type Outcome struct {
	Params map[string]float64
	Value  float64
	// Failed counts grid points whose run did not reach T1.
	Failed int
}

// Metric reads a named value from a result: any entry of Metrics, or one of
// steps, rejected, evaluations, jacobian_evaluations and seconds.
func Metric(res *experiment.Result, name string) (float64, bool) {
	switch name {
	case "steps":
		return float64(res.Stats.Steps), true
	case "rejected":
		return float64(res.Stats.Rejected), true
	case "evaluations":
		return float64(res.Stats.Evaluations), true
	case "jacobian_evaluations":
		return float64(res.Stats.JacobianEvaluations), true
	case "seconds":
		return res.Duration.Seconds(), true
	}
	v, ok := res.Metrics[name]
	return v, ok
}

func (g *GridSearch) points() []map[string]float64 {
	out := []map[string]float64{{}}
	for i, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(out)*len(g.ranges[i]))
		for _, p := range out {
			for _, v := range g.ranges[i] {
				q := make(map[string]float64, len(p)+1)
				for k, pv := range p {
					q[k] = pv
				}
				q[name] = v
				next = append(next, q)
			}
		}
		out = next
	}
	return out
}

// Search runs base once per grid point, concurrently, and returns the point
// with the smallest metric. Runs that fail are skipped; it is an error only
// when every run fails.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, metric string) (*Outcome, error) {
	points := g.points()
	values := make([]float64, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	var mu sync.Mutex
	var lastErr error
	for i, p := range points {
		i, p := i, p
		eg.Go(func() error {
			values[i] = math.NaN()
			cfg := base.Clone()
			if cfg.Params == nil {
				cfg.Params = make(map[string]float64)
			}
			for k, v := range p {
				cfg.Params[k] = v
			}
			exp, err := experiment.New(cfg, reg)
			if err != nil {
				return err
			}
			res, err := exp.Run(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				mu.Lock()
				lastErr = err
				mu.Unlock()
				return nil
			}
			v, ok := Metric(res, metric)
			if !ok {
				return fmt.Errorf("optim: result has no metric %q", metric)
			}
			values[i] = v
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := &Outcome{Value: math.Inf(1)}
	for i, v := range values {
		if math.IsNaN(v) {
			out.Failed++
			continue
		}
		if v < out.Value {
			out.Value, out.Params = v, points[i]
		}
	}
	if out.Params == nil {
		return nil, fmt.Errorf("optim: all %d runs failed: %w", len(points), lastErr)
	}
	return out, nil
}
