package simulator

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"solar_simulator/internal/model"
)

// SweepResult pairs a parameter set with the summary of its run.
type SweepResult struct {
	Params  model.Params
	Summary Summary
	Monthly [12]MonthBucket
}

// Sweep runs every parameter set against the same profile. Runs are
// independent, each with its own battery, and execute on up to workers
// goroutines (GOMAXPROCS when workers <= 0). Results keep input order.
func (e *Engine) Sweep(ctx context.Context, profile *model.Profile, sets []model.Params, workers int) ([]SweepResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]SweepResult, len(sets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, params := range sets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results, err := e.Run(profile, params)
			if err != nil {
				return fmt.Errorf("sweep run %d: %w", i, err)
			}
			out[i] = SweepResult{
				Params:  params,
				Summary: Summarize(results),
				Monthly: Monthly(results),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
