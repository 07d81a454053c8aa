// Package batch runs a function over a slice with bounded concurrency.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every element of in using at most workers goroutines.
// Results keep the input order. The first error cancels the remaining work
// and is returned.
func Map[In, Out any](ctx context.Context, workers int, in []In, fn func(context.Context, In) (Out, error)) ([]Out, error) {
	out := make([]Out, len(in))
	if len(in) == 0 {
		return out, nil
	}
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, item := range in {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := fn(gctx, item)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
