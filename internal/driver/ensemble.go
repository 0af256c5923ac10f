package driver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BuildFunc constructs the i-th independent driver of an ensemble, already
// reset to its initial condition.
type BuildFunc func(i int) (*Driver, error)

// RunEnsemble samples n independent drivers concurrently. Members share no
// state; the first failure cancels the rest and is returned.
func RunEnsemble(ctx context.Context, n int, build BuildFunc, tEnd float64, intervals int) ([]*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("driver: ensemble size must be positive, got %d", n)
	}

	results := make([]*Result, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			d, err := build(i)
			if err != nil {
				return fmt.Errorf("ensemble member %d: %w", i, err)
			}
			res, err := d.Sample(gctx, tEnd, intervals)
			results[i] = res
			if err != nil {
				return fmt.Errorf("ensemble member %d: %w", i, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
