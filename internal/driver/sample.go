package driver

import (
	"context"
	"fmt"

	"github.com/san-kum/odeint/internal/dynamo"
)

// Result is a trajectory sampled at evenly spaced reporting times.
type Result struct {
	Times   []float64      `json:"times"`
	States  []dynamo.State `json:"states"`
	Stats   Stats          `json:"stats"`
	Stepper string         `json:"stepper"`
}

// Final returns the last sampled state.
func (r *Result) Final() dynamo.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

// Sample advances from the current time to tEnd in the given number of
// equal reporting intervals and records the state at each boundary,
// including the starting point. ctx is checked between intervals; a step
// in progress is never interrupted. On error the partial trajectory is
// returned with it.
func (d *Driver) Sample(ctx context.Context, tEnd float64, intervals int) (*Result, error) {
	if intervals <= 0 {
		return nil, fmt.Errorf("driver: intervals must be positive, got %d", intervals)
	}

	t0 := d.t
	res := &Result{
		Times:   make([]float64, 0, intervals+1),
		States:  make([]dynamo.State, 0, intervals+1),
		Stepper: d.stepper.Name(),
	}
	res.Times = append(res.Times, t0)
	res.States = append(res.States, d.y.Clone())

	span := tEnd - t0
	for i := 1; i <= intervals; i++ {
		select {
		case <-ctx.Done():
			res.Stats = d.Stats()
			return res, ctx.Err()
		default:
		}

		ti := t0 + float64(i)*span/float64(intervals)
		if i == intervals {
			ti = tEnd
		}
		y, err := d.Advance(ti)
		if err != nil {
			res.Stats = d.Stats()
			return res, err
		}
		res.Times = append(res.Times, ti)
		res.States = append(res.States, y)
	}

	res.Stats = d.Stats()
	return res, nil
}
