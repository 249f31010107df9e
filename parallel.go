// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunWorkers calls fn in n goroutines, each one with its own Arena created
// with options. Diagrams built in one worker must stay in this worker. The
// context passed to fn is canceled as soon as one call returns an error, and
// RunWorkers returns the first error.
func RunWorkers(ctx context.Context, n int, options []func(*configs), fn func(ctx context.Context, worker int, a *Arena) error) error {
	g, gCtx := errgroup.WithContext(ctx)
	for w := 0; w < n; w++ {
		w := w // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			a := NewArena(options...)
			err := fn(gCtx, w, a)
			if _LOGLEVEL > 0 {
				a.logger.Debug("worker done", "worker", w, "produced", a.produced, "live", a.Live(), "error", err)
			}
			return err
		})
	}
	return g.Wait()
}
