// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pooled struct {
	value int
	refs  []int
}

func TestPoolReuse(t *testing.T) {
	p := NewPool[pooled](4)
	h1, o1 := p.Allocate()
	o1.value = 42
	o1.refs = []int{1, 2, 3}
	require.True(t, p.Valid(h1))
	assert.Equal(t, 42, p.Get(h1).value)

	p.Free(h1)
	assert.False(t, p.Valid(h1), "handle must be stale after Free")
	assert.Nil(t, p.Get(h1))

	h2, o2 := p.Allocate()
	assert.Equal(t, h1.Slot(), h2.Slot(), "slot is reused")
	assert.NotEqual(t, h1, h2, "generation changes on reuse")
	assert.Zero(t, o2.value, "reused object is cleared")
	assert.Nil(t, o2.refs, "references are dropped on Free")

	s := p.Stats()
	assert.Equal(t, 1, s.Live)
	assert.Equal(t, uint64(2), s.Allocated)
	assert.Equal(t, uint64(1), s.Reused)
	assert.Equal(t, 4, s.Capacity)
}

func TestPoolPointerStability(t *testing.T) {
	p := NewPool[pooled](2)
	h, o := p.Allocate()
	o.value = 7
	var handles []Handle
	for i := 0; i < 100; i++ {
		hh, oo := p.Allocate()
		oo.value = i
		handles = append(handles, hh)
	}
	assert.Equal(t, 7, o.value)
	assert.Same(t, o, p.Get(h), "pointers survive growth")
	assert.Equal(t, 101, p.Live())
	for _, hh := range handles {
		p.Free(hh)
	}
	assert.Equal(t, 1, p.Live())
	p.Free(h)
	p.Free(h) // stale handle, no-op
	assert.Equal(t, 0, p.Live())
}

func TestArenaStatePools(t *testing.T) {
	a := NewArena(Pagesize(8))
	d, err := Universal(a, Domains{{0, 1, 2}, {0, 1, 2}, {0, 1, 2}})
	require.NoError(t, err)
	res, err := Intersect(d, AllDifferent([]int{0, 1, 2}))
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Count().Int64())

	s := a.Snapshot()
	require.Contains(t, s.States, KindAllDifferent)
	assert.Zero(t, s.States[KindAllDifferent].Live, "all states are released")
	assert.Positive(t, s.States[KindAllDifferent].Allocated)
	assert.Zero(t, s.Params[KindAllDifferent].Live, "parameters are released")
	assert.Contains(t, a.Stats(), "alldiff:")
}
