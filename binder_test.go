// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinder(t *testing.T) {
	x := NodeID{index: 1, gen: 1}
	y := NodeID{index: 2, gen: 1}
	r := NodeID{index: 9, gen: 3}

	b := NewBinder()
	p := b.Path(x, y)
	_, ok := p.Leaf()
	assert.False(t, ok, "new binding is empty")
	p.SetLeaf(r)

	n, ok := b.Path(x, y).Leaf()
	assert.True(t, ok)
	assert.Equal(t, r, n, "equal tuples yield the same node")

	_, ok = b.Path(y, x).Leaf()
	assert.False(t, ok, "order of the tuple matters")
	_, ok = b.Path(x, NilNode).Leaf()
	assert.False(t, ok)
	assert.Equal(t, 5, b.Len())

	b.Clear()
	assert.Equal(t, 0, b.Len())
	_, ok = b.Path(x, y).Leaf()
	assert.False(t, ok, "bindings do not survive Clear")
	assert.Equal(t, 2, b.Len())
	assert.Len(t, b.free, 3, "released bindings are recycled")
}
