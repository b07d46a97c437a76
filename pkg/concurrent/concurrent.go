package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every item with at most limit goroutines in flight and
// returns the results in input order. A limit below one means no limit.
// The first error cancels the context passed to the remaining calls and is
// returned once all started calls have finished.
func Map[T any, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for idx, item := range items {
		idx, item := idx, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ForEach runs action for every item with at most limit goroutines in flight.
// It returns the first error encountered.
func ForEach[T any](ctx context.Context, items []T, limit int, action func(context.Context, T) error) error {
	_, err := Map(ctx, items, limit, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, action(ctx, item)
	})
	return err
}
