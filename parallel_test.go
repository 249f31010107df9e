// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWorkers(t *testing.T) {
	counts := make([]int64, 4)
	err := RunWorkers(context.Background(), len(counts), []func(*configs){Nodesize(16)}, func(ctx context.Context, w int, a *Arena) error {
		doms := make(Domains, w+2)
		for i := range doms {
			doms[i] = []int{0, 1, 2, 3, 4, 5}
		}
		d, err := Universal(a, doms)
		if err != nil {
			return err
		}
		res, err := Intersect(d, AllDifferent([]int{0, 1, 2, 3, 4, 5}))
		if err != nil {
			return err
		}
		counts[w] = res.Count().Int64()
		return nil
	})
	require.NoError(t, err)
	// arrangements of w+2 values among 6
	assert.Equal(t, []int64{30, 120, 360, 720}, counts)
}

func TestRunWorkersError(t *testing.T) {
	boom := errors.New("boom")
	err := RunWorkers(context.Background(), 3, nil, func(ctx context.Context, w int, a *Arena) error {
		if w == 1 {
			return boom
		}
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = RunWorkers(ctx, 2, nil, func(ctx context.Context, w int, a *Arena) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
