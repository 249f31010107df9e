// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"math"
	"unsafe"
)

// Arena holds the node table shared by a set of diagrams, together with the
// pools used for automaton states and constraint parameters. Nodes are never
// reclaimed implicitly: they go back to the free list when a diagram releases
// them (see MDD.RemoveAndFree and MDD.Free).
//
// An Arena is not safe for concurrent use. The intended use is one Arena per
// worker (see RunWorkers), passed explicitly to every function that allocates.
type Arena struct {
	nodes    []node           // node table; slot 0 is never used
	freepos  int32            // first free slot, 0 if there is none
	freenum  int              // number of free slots
	produced int              // total number of nodes ever allocated
	freed    int              // total number of nodes ever released
	resizes  int              // number of times the node table was extended
	reduced  int              // number of calls to Reduce
	merged   int              // nodes removed by reductions because they had an equivalent
	states   [kindCount]any   // one *Pool per kind of automaton state
	params   [kindCount]any   // one *Pool per kind of constraint parameters
	binders  []*Binder        // binders available for reuse
	configs                   // configurable parameters
}

// NewArena returns a new Arena. Options are configuration functions such as
// Nodesize or Maxnodesize.
func NewArena(options ...func(*configs)) *Arena {
	c := makeconfigs()
	for _, f := range options {
		f(c)
	}
	if c.maxnodesize > 0 && c.nodesize > c.maxnodesize {
		c.nodesize = c.maxnodesize
	}
	if c.nodesize < 2 {
		c.nodesize = 2
	}
	a := &Arena{configs: *c}
	a.nodes = make([]node, a.nodesize)
	for k := range a.nodes {
		a.nodes[k] = node{gen: 1, layer: -1, pos: -1, next: int32(k + 1)}
	}
	a.nodes[a.nodesize-1].next = 0
	a.freepos = 1
	a.freenum = a.nodesize - 1
	return a
}

// allocnode returns a fresh node in layer, owned by diagram d.
func (a *Arena) allocnode(d *MDD, layer int) (NodeID, error) {
	if a.freepos == 0 {
		if err := a.noderesize(); err != nil {
			return NilNode, err
		}
	}
	res := a.freepos
	n := &a.nodes[res]
	a.freepos = n.next
	a.freenum--
	a.produced++
	n.live = true
	n.next = 0
	n.layer = int32(layer)
	n.owner = d
	return NodeID{index: res, gen: n.gen}, nil
}

// freenode puts the slot of id back on the free list. The node must have been
// detached from every other node beforehand.
func (a *Arena) freenode(id NodeID) {
	n := &a.nodes[id.index]
	if _DEBUG && (len(n.in) != 0 || len(n.out) != 0) {
		debugPanic("freenode(%s) with %d incoming and %d outgoing arcs", id, len(n.in), len(n.out))
	}
	n.reset()
	n.gen++
	if n.gen == 0 {
		n.gen = 1
	}
	n.next = a.freepos
	a.freepos = id.index
	a.freenum++
	a.freed++
}

// noderesize extends the node table. We typically double its size, unless we
// are limited by maxnodeincrease or maxnodesize.
func (a *Arena) noderesize() error {
	oldsize := len(a.nodes)
	nodesize := oldsize
	if (oldsize >= a.maxnodesize) && (a.maxnodesize > 0) {
		if _DEBUG {
			a.logTable()
		}
		return a.errorf(ErrMemory, "already at max capacity (%d nodes)", a.maxnodesize)
	}
	if oldsize > (math.MaxInt32 >> 1) {
		nodesize = _MAXNODES
	} else {
		nodesize = nodesize << 1
	}
	if a.maxnodeincrease > 0 && nodesize > (oldsize+a.maxnodeincrease) {
		nodesize = oldsize + a.maxnodeincrease
	}
	if (nodesize > a.maxnodesize) && (a.maxnodesize > 0) {
		nodesize = a.maxnodesize
	}
	if nodesize <= oldsize {
		return a.errorf(ErrMemory, "unable to grow node table (%d nodes)", oldsize)
	}

	tmp := a.nodes
	a.nodes = make([]node, nodesize)
	copy(a.nodes, tmp)
	for n := oldsize; n < nodesize; n++ {
		a.nodes[n] = node{gen: 1, layer: -1, pos: -1, next: int32(n + 1)}
	}
	a.nodes[nodesize-1].next = a.freepos
	a.freepos = int32(oldsize)
	a.freenum += nodesize - oldsize
	a.resizes++
	if _LOGLEVEL > 0 {
		a.logger.Debug("node table resized", "from", oldsize, "to", nodesize)
	}
	return nil
}

// valid reports whether id refers to a live node.
func (a *Arena) valid(id NodeID) bool {
	if id.index <= 0 || int(id.index) >= len(a.nodes) {
		return false
	}
	n := &a.nodes[id.index]
	return n.live && n.gen == id.gen
}

// at returns the node referenced by id without checks. The pointer is only
// valid until the next allocation in the arena.
func (a *Arena) at(id NodeID) *node {
	return &a.nodes[id.index]
}

// check returns the node referenced by id, or an error if id is stale.
func (a *Arena) check(id NodeID) (*node, error) {
	if !a.valid(id) {
		debugPanic("access to stale node %s", id)
		return nil, a.errorf(ErrStaleNode, "node %s", id)
	}
	return &a.nodes[id.index], nil
}

// getbinder returns an empty Binder, reusing a released one if possible.
func (a *Arena) getbinder() *Binder {
	if n := len(a.binders); n > 0 {
		b := a.binders[n-1]
		a.binders = a.binders[:n-1]
		return b
	}
	return NewBinder()
}

// putbinder clears b and keeps it for the next operation.
func (a *Arena) putbinder(b *Binder) {
	b.Clear()
	a.binders = append(a.binders, b)
}

// Live returns the number of nodes currently allocated in the arena.
func (a *Arena) Live() int {
	return len(a.nodes) - 1 - a.freenum
}

// ArenaStats is a snapshot of the counters of an Arena.
type ArenaStats struct {
	Allocated int                // size of the node table
	Live      int                // nodes in use
	Free      int                // free slots in the node table
	Produced  int                // nodes ever allocated
	Freed     int                // nodes ever released
	Resizes   int                // extensions of the node table
	Reduced   int                // calls to Reduce
	Merged    int                // nodes merged by reductions
	States    map[Kind]PoolStats // automaton state pools, by constraint kind
	Params    map[Kind]PoolStats // parameter pools, by constraint kind
}

// statser is implemented by every *Pool.
type statser interface {
	Stats() PoolStats
}

// Snapshot returns the current value of the counters of a.
func (a *Arena) Snapshot() ArenaStats {
	res := ArenaStats{
		Allocated: len(a.nodes),
		Live:      a.Live(),
		Free:      a.freenum,
		Produced:  a.produced,
		Freed:     a.freed,
		Resizes:   a.resizes,
		Reduced:   a.reduced,
		Merged:    a.merged,
		States:    make(map[Kind]PoolStats),
		Params:    make(map[Kind]PoolStats),
	}
	for k := Kind(0); k < kindCount; k++ {
		if p, ok := a.states[k].(statser); ok {
			res.States[k] = p.Stats()
		}
		if p, ok := a.params[k].(statser); ok {
			res.Params[k] = p.Stats()
		}
	}
	return res
}

// Stats returns information about the arena.
func (a *Arena) Stats() string {
	s := a.Snapshot()
	res := fmt.Sprintf("Allocated:  %d\n", s.Allocated)
	res += fmt.Sprintf("Produced:   %d\n", s.Produced)
	r := (float64(s.Free) / float64(s.Allocated)) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", s.Free, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", s.Live, (100.0 - r))
	res += fmt.Sprintf("Size:       %s\n", humanSize(s.Allocated, unsafe.Sizeof(node{})))
	res += "==============\n"
	res += fmt.Sprintf("# resizes:  %d\n", s.Resizes)
	res += fmt.Sprintf("# reduce:   %d\n", s.Reduced)
	res += fmt.Sprintf("Merged:     %d\n", s.Merged)
	for k := Kind(0); k < kindCount; k++ {
		if ps, ok := s.States[k]; ok {
			res += fmt.Sprintf("%-12s%s\n", k.String()+":", ps)
		}
	}
	return res
}

// logTable prints the live entries of the node table. It is called in debug
// builds when the table is full.
func (a *Arena) logTable() {
	for k := 1; k < len(a.nodes); k++ {
		n := &a.nodes[k]
		if !n.live {
			continue
		}
		a.logger.Debug("node", "index", k, "gen", n.gen, "layer", n.layer, "pos", n.pos, "out", n.out, "in", len(n.in))
	}
}

// humanSize returns a description of the memory used by b elements of size
// s, using the largest suitable unit.
func humanSize(b int, s uintptr) string {
	bytes := float64(b) * float64(s)
	units := []string{"B", "KB", "MB", "GB", "TB"}
	u := 0
	for bytes >= 1024 && u < len(units)-1 {
		bytes /= 1024
		u++
	}
	return fmt.Sprintf("%.3g %s", bytes, units[u])
}
