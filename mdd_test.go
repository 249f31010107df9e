// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds the diagram root -0-> n1 -1-> t and root -1-> n2 -0-> t.
func diamond(t *testing.T, a *Arena) (*MDD, [4]NodeID) {
	t.Helper()
	d := New(a, 3)
	var ids [4]NodeID
	var err error
	for k, l := range []int{0, 1, 1, 2} {
		ids[k], err = d.AddNode(l)
		require.NoError(t, err)
	}
	require.NoError(t, d.AddArc(ids[0], 0, ids[1]))
	require.NoError(t, d.AddArc(ids[0], 1, ids[2]))
	require.NoError(t, d.AddArc(ids[1], 1, ids[3]))
	require.NoError(t, d.AddArc(ids[2], 0, ids[3]))
	return d, ids
}

func TestGraph(t *testing.T) {
	a := NewArena()
	d, ids := diamond(t, a)
	assert.Equal(t, 3, d.Size())
	assert.Equal(t, 4, d.NodeCount())
	assert.Equal(t, 4, d.ArcCount())
	assert.Equal(t, ids[0], d.Root())
	assert.Equal(t, ids[3], d.Terminal())
	assert.Equal(t, []int{0, 1}, d.Labels(ids[0]))
	assert.Equal(t, Domains{{0, 1}, {0, 1}}, d.Domains())
	assert.Len(t, d.Parents(ids[3]), 2)

	c, ok := d.Child(ids[0], 1)
	assert.True(t, ok)
	assert.Equal(t, ids[2], c)
	_, ok = d.Child(ids[0], 5)
	assert.False(t, ok)

	assert.False(t, d.IsEmpty())
	assert.Equal(t, map[string]bool{"[0 1]": true, "[1 0]": true}, language(t, d))
	assert.True(t, d.Contains([]int{1, 0}))
	assert.False(t, d.Contains([]int{1, 1}))
	assert.False(t, d.Contains([]int{1}))
}

func TestAddArcErrors(t *testing.T) {
	a := NewArena()
	d, ids := diamond(t, a)

	err := d.AddArc(ids[0], 0, ids[3])
	assert.ErrorIs(t, err, ErrLayer)

	err = d.AddArc(ids[1], 1, ids[3])
	assert.NoError(t, err, "adding an existing arc is a no-op")

	extra, err := d.AddNode(2)
	require.NoError(t, err)
	err = d.AddArc(ids[1], 1, extra)
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	_, err = d.AddNode(3)
	assert.ErrorIs(t, err, ErrLayer)

	other := New(a, 3)
	n, err := other.AddNode(1)
	require.NoError(t, err)
	err = d.AddArc(ids[0], 2, n)
	assert.ErrorIs(t, err, ErrStaleNode, "nodes of another diagram are rejected")

	err = d.RemoveArc(ids[0], 7, ids[1])
	assert.ErrorIs(t, err, ErrNoLabel)
}

func TestNondeterministic(t *testing.T) {
	a := NewArena()
	d := New(a, 2, Nondeterministic())
	r, _ := d.AddNode(0)
	t1, _ := d.AddNode(1)
	t2, _ := d.AddNode(1)
	require.NoError(t, d.AddArc(r, 0, t1))
	require.NoError(t, d.AddArc(r, 0, t2))
	assert.Len(t, d.Children(r, 0), 2)
	assert.True(t, d.IsNondeterministic())

	_, err := Union(d, d)
	assert.ErrorIs(t, err, ErrNondeterministic)

	d.Reduce()
	assert.Equal(t, 2, d.NodeCount(), "the two terminals are merged")
	assert.Len(t, d.Children(r, 0), 1)
}

func TestRemoveAndFree(t *testing.T) {
	a := NewArena()
	d, ids := diamond(t, a)
	live := a.Live()

	require.NoError(t, d.RemoveAndFree(ids[1]))
	assert.Equal(t, live-1, a.Live())
	assert.Equal(t, []int{1}, d.Labels(ids[0]))
	assert.Len(t, d.Parents(ids[3]), 1)
	assert.Len(t, d.Layer(1), 1)
	assert.Equal(t, 0, d.Index(ids[2]), "last node of the layer takes the free position")

	assert.ErrorIs(t, d.RemoveAndFree(ids[1]), ErrStaleNode)
	assert.Nil(t, d.Arcs(ids[1]))

	// the slot is reused with another generation
	n, err := d.AddNode(1)
	require.NoError(t, err)
	assert.Equal(t, ids[1].index, n.index)
	assert.NotEqual(t, ids[1], n)
	assert.Equal(t, -1, d.Depth(ids[1]))
}

func TestReplaceReferencesBy(t *testing.T) {
	a := NewArena()
	d, ids := diamond(t, a)
	require.NoError(t, d.ReplaceReferencesBy(ids[2], ids[1]))
	assert.Empty(t, d.Parents(ids[2]))
	assert.Len(t, d.Parents(ids[1]), 2)
	c, _ := d.Child(ids[0], 1)
	assert.Equal(t, ids[1], c)
	require.NoError(t, d.RemoveAndFree(ids[2]))
	assert.Equal(t, map[string]bool{"[0 1]": true, "[1 1]": true}, language(t, d))

	assert.ErrorIs(t, d.ReplaceReferencesBy(ids[0], ids[1]), ErrLayer)
}

func TestSetSizeAndFree(t *testing.T) {
	a := NewArena()
	d, _ := diamond(t, a)
	require.NoError(t, d.SetSize(2))
	assert.Equal(t, 3, d.NodeCount())
	assert.Equal(t, 0, len(d.Arcs(d.Layer(1)[0])), "arcs leaving the new last layer are removed")
	require.NoError(t, d.SetSize(4))
	assert.Equal(t, 4, d.Size())
	assert.ErrorIs(t, d.SetSize(0), ErrSize)

	d.Free()
	assert.Equal(t, 0, d.NodeCount())
	assert.Equal(t, 0, a.Live())
	assert.True(t, d.IsEmpty())
}

func TestCopy(t *testing.T) {
	a := NewArena()
	d, _ := diamond(t, a)
	b := NewArena()
	target := New(b, 4)
	binding, err := d.Copy(target, 1, 0, 2, nil)
	require.NoError(t, err)
	assert.Len(t, binding, 4)
	assert.Equal(t, 4, target.NodeCount())
	assert.Empty(t, target.Layer(0))
	assert.Equal(t, 4, b.Live())

	_, err = d.Copy(target, 2, 0, 2, nil)
	assert.ErrorIs(t, err, ErrLayer)
	_, err = d.Copy(d, 0, 0, 2, nil)
	assert.ErrorIs(t, err, ErrArena)

	clone, err := d.Clone()
	require.NoError(t, err)
	assert.True(t, Isomorphic(d, clone))
}

func TestArenaResize(t *testing.T) {
	a := NewArena(Nodesize(4), Maxnodeincrease(4))
	doms := Domains{{0, 1}, {0, 1}, {0, 1}, {0, 1}, {0, 1}}
	d, err := Universal(a, doms)
	require.NoError(t, err)
	assert.Equal(t, 6, a.Live())
	assert.GreaterOrEqual(t, a.Snapshot().Resizes, 1)
	assert.Equal(t, int64(32), d.Count().Int64())

	small := NewArena(Nodesize(4), Maxnodesize(4))
	_, err = Universal(small, doms)
	assert.ErrorIs(t, err, ErrMemory)
	assert.Equal(t, 0, small.Live(), "partial result is released")
}

func TestEmptyAndUniversal(t *testing.T) {
	a := NewArena()
	e := Empty(a, 4)
	assert.True(t, e.IsEmpty())
	assert.Equal(t, 0, e.Count().Sign())
	checkReduced(t, e)

	u, err := Universal(a, Domains{{1, 2}, {}, {3}})
	require.NoError(t, err)
	assert.True(t, u.IsEmpty(), "an empty domain gives no solution")
	checkReduced(t, u)

	one, err := Universal(a, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), one.Count().Int64(), "the empty sequence")
}
