// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"sort"
)

// NodeID is a reference to a node in the node table of an Arena. It is made of
// the index of the slot and of its generation. The generation changes each
// time the slot is freed, so that a NodeID kept after a node has been released
// can never be confused with the node that reuses the slot.
type NodeID struct {
	index int32
	gen   uint32
}

// NilNode is the zero value of NodeID. It never refers to a node.
var NilNode NodeID

// IsNil reports whether n is NilNode.
func (n NodeID) IsNil() bool {
	return n == NilNode
}

func (n NodeID) String() string {
	if n.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%d.%d", n.index, n.gen)
}

// less gives an arbitrary, but stable, total order over NodeID. It is used to
// sort arcs sharing the same label in nondeterministic diagrams.
func (n NodeID) less(m NodeID) bool {
	if n.index != m.index {
		return n.index < m.index
	}
	return n.gen < m.gen
}

// Arc is a labelled reference to another node. For outgoing arcs, Node is the
// child; for incoming arcs, Node is the parent.
type Arc struct {
	Label int
	Node  NodeID
}

// node is an entry in the node table. When a slot is unused, live is false and
// next gives the next free position (0 if it is the last one).
type node struct {
	gen   uint32 // generation of the slot, never 0 once the table is initialized
	live  bool   // whether the slot holds a node
	mark  bool   // used by traversals
	layer int32  // depth of the node in its diagram
	pos   int32  // position of the node in its layer
	next  int32  // next free slot, only meaningful when !live
	owner *MDD   // diagram this node belongs to
	out   []Arc  // outgoing arcs, sorted by label (then by child)
	in    []Arc  // incoming arcs, in no particular order
}

// reset clears every field that could hold a reference to another object. We
// keep the capacity of the arc slices so that they can be reused by the next
// node allocated in this slot.
func (n *node) reset() {
	n.live = false
	n.mark = false
	n.layer = -1
	n.pos = -1
	n.owner = nil
	n.out = n.out[:0]
	n.in = n.in[:0]
}

// findLabel returns the position of the first arc with label l in a slice of
// arcs sorted by label, and whether there is one.
func findLabel(arcs []Arc, l int) (int, bool) {
	k := sort.Search(len(arcs), func(i int) bool { return arcs[i].Label >= l })
	return k, k < len(arcs) && arcs[k].Label == l
}

// arcLess is the order used for outgoing arcs.
func arcLess(a, b Arc) bool {
	if a.Label != b.Label {
		return a.Label < b.Label
	}
	return a.Node.less(b.Node)
}

// insertArc adds arc a in the sorted slice arcs. We optimize the frequent case
// where labels are added in increasing order.
func insertArc(arcs []Arc, a Arc) []Arc {
	if n := len(arcs); n == 0 || arcLess(arcs[n-1], a) {
		return append(arcs, a)
	}
	k := sort.Search(len(arcs), func(i int) bool { return !arcLess(arcs[i], a) })
	arcs = append(arcs, Arc{})
	copy(arcs[k+1:], arcs[k:])
	arcs[k] = a
	return arcs
}

// removeArc deletes the first occurrence of a in arcs, keeping the order of
// the remaining elements.
func removeArc(arcs []Arc, a Arc) []Arc {
	for k, v := range arcs {
		if v == a {
			copy(arcs[k:], arcs[k+1:])
			return arcs[:len(arcs)-1]
		}
	}
	return arcs
}

func sameArcs(a, b []Arc) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}
