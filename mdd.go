// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "sort"

// MDD is a multi-valued decision diagram: an ordered sequence of layers of
// nodes, where every arc goes from a node of layer i to a node of layer i+1.
// Layer 0 holds the root and the last layer holds the terminal. Each path from
// the root to the terminal is a solution, that is a sequence of size-1 labels.
//
// The nodes of a diagram live in the node table of its Arena. A diagram is
// deterministic (no two arcs with the same label leave a node) unless it is
// created with option Nondeterministic.
type MDD struct {
	arena  *Arena
	layers [][]NodeID
	nondet bool
}

// New returns an empty diagram with size layers, allocating its nodes in
// arena a.
func New(a *Arena, size int, options ...func(*MDD)) *MDD {
	if size < 1 {
		size = 1
	}
	d := &MDD{arena: a, layers: make([][]NodeID, size)}
	for _, f := range options {
		f(d)
	}
	return d
}

// Nondeterministic is a configuration option (function) for New. It allows
// several arcs with the same label to leave a node.
func Nondeterministic() func(*MDD) {
	return func(d *MDD) {
		d.nondet = true
	}
}

// Arena returns the arena where the nodes of d are allocated.
func (d *MDD) Arena() *Arena {
	return d.arena
}

// IsNondeterministic reports whether d accepts several arcs with the same
// label from one node.
func (d *MDD) IsNondeterministic() bool {
	return d.nondet
}

// Size returns the number of layers of d.
func (d *MDD) Size() int {
	return len(d.layers)
}

// Layer returns the nodes in layer i. The result is a view on the diagram and
// must not be modified; it is invalidated by any change to the layer.
func (d *MDD) Layer(i int) []NodeID {
	if i < 0 || i >= len(d.layers) {
		return nil
	}
	return d.layers[i]
}

// node returns the record of n, checking that n is live and belongs to d.
func (d *MDD) node(n NodeID) (*node, error) {
	nd, err := d.arena.check(n)
	if err != nil {
		return nil, err
	}
	if nd.owner != d {
		return nil, d.arena.errorf(ErrStaleNode, "node %s does not belong to this diagram", n)
	}
	return nd, nil
}

// AddNode creates a new node in layer i.
func (d *MDD) AddNode(i int) (NodeID, error) {
	if i < 0 || i >= len(d.layers) {
		return NilNode, d.arena.errorf(ErrLayer, "layer %d not in [0, %d)", i, len(d.layers))
	}
	id, err := d.arena.allocnode(d, i)
	if err != nil {
		return NilNode, err
	}
	d.arena.at(id).pos = int32(len(d.layers[i]))
	d.layers[i] = append(d.layers[i], id)
	return id, nil
}

// AddArc adds an arc labelled label from parent to child. The child must be in
// the layer following the one of parent. On a deterministic diagram, it is an
// error to add a second arc with the same label from the same parent. Adding
// an arc that already exists is a no-op.
func (d *MDD) AddArc(parent NodeID, label int, child NodeID) error {
	p, err := d.node(parent)
	if err != nil {
		return err
	}
	c, err := d.node(child)
	if err != nil {
		return err
	}
	if c.layer != p.layer+1 {
		return d.arena.errorf(ErrLayer, "arc from layer %d to layer %d", p.layer, c.layer)
	}
	if k, ok := findLabel(p.out, label); ok {
		if !d.nondet {
			if p.out[k].Node == child {
				return nil
			}
			return d.arena.errorf(ErrDuplicateLabel, "label %d on node %s", label, parent)
		}
		for ; k < len(p.out) && p.out[k].Label == label; k++ {
			if p.out[k].Node == child {
				return nil
			}
		}
	}
	p.out = insertArc(p.out, Arc{Label: label, Node: child})
	c.in = append(c.in, Arc{Label: label, Node: parent})
	return nil
}

// RemoveArc deletes the arc labelled label from parent to child.
func (d *MDD) RemoveArc(parent NodeID, label int, child NodeID) error {
	p, err := d.node(parent)
	if err != nil {
		return err
	}
	c, err := d.node(child)
	if err != nil {
		return err
	}
	n := len(p.out)
	p.out = removeArc(p.out, Arc{Label: label, Node: child})
	if n == len(p.out) {
		return d.arena.errorf(ErrNoLabel, "no arc %d from %s to %s", label, parent, child)
	}
	c.in = removeArc(c.in, Arc{Label: label, Node: parent})
	return nil
}

// Arcs returns the outgoing arcs of n, sorted by label. The result is a view on
// the diagram and must not be modified.
func (d *MDD) Arcs(n NodeID) []Arc {
	nd, err := d.node(n)
	if err != nil {
		return nil
	}
	return nd.out
}

// Parents returns the incoming arcs of n; the Node of each arc is a parent.
// The result is a view on the diagram and must not be modified.
func (d *MDD) Parents(n NodeID) []Arc {
	nd, err := d.node(n)
	if err != nil {
		return nil
	}
	return nd.in
}

// Labels returns the sorted list of distinct labels leaving n.
func (d *MDD) Labels(n NodeID) []int {
	nd, err := d.node(n)
	if err != nil {
		return nil
	}
	res := make([]int, 0, len(nd.out))
	for k, a := range nd.out {
		if k == 0 || a.Label != nd.out[k-1].Label {
			res = append(res, a.Label)
		}
	}
	return res
}

// Child returns the child of n for label. On a nondeterministic diagram, it
// returns the first child (see Children).
func (d *MDD) Child(n NodeID, label int) (NodeID, bool) {
	nd, err := d.node(n)
	if err != nil {
		return NilNode, false
	}
	if k, ok := findLabel(nd.out, label); ok {
		return nd.out[k].Node, true
	}
	return NilNode, false
}

// Children returns all the children of n for label.
func (d *MDD) Children(n NodeID, label int) []NodeID {
	nd, err := d.node(n)
	if err != nil {
		return nil
	}
	var res []NodeID
	k, _ := findLabel(nd.out, label)
	for ; k < len(nd.out) && nd.out[k].Label == label; k++ {
		res = append(res, nd.out[k].Node)
	}
	return res
}

// Depth returns the layer of n, or -1 if n is not a node of d.
func (d *MDD) Depth(n NodeID) int {
	nd, err := d.node(n)
	if err != nil {
		return -1
	}
	return int(nd.layer)
}

// Index returns the position of n in its layer, or -1 if n is not a node of d.
func (d *MDD) Index(n NodeID) int {
	nd, err := d.node(n)
	if err != nil {
		return -1
	}
	return int(nd.pos)
}

// Root returns the first node of layer 0, or NilNode if there is none.
func (d *MDD) Root() NodeID {
	if len(d.layers[0]) == 0 {
		return NilNode
	}
	return d.layers[0][0]
}

// Terminal returns the first node of the last layer, or NilNode if there is
// none.
func (d *MDD) Terminal() NodeID {
	last := d.layers[len(d.layers)-1]
	if len(last) == 0 {
		return NilNode
	}
	return last[0]
}

// IsEmpty reports whether d accepts no solution, meaning that there is no path
// from the root to the terminal.
func (d *MDD) IsEmpty() bool {
	root := d.Root()
	if root.IsNil() || d.Terminal().IsNil() {
		return true
	}
	reached := map[NodeID]bool{root: true}
	for i := 0; i < len(d.layers)-1; i++ {
		found := false
		for _, n := range d.layers[i] {
			if !reached[n] {
				continue
			}
			for _, a := range d.arena.at(n).out {
				reached[a.Node] = true
				found = true
			}
		}
		if !found {
			return true
		}
	}
	for _, n := range d.layers[len(d.layers)-1] {
		if reached[n] {
			return false
		}
	}
	return true
}

// NodeCount returns the number of nodes in d.
func (d *MDD) NodeCount() int {
	res := 0
	for _, l := range d.layers {
		res += len(l)
	}
	return res
}

// ArcCount returns the number of arcs in d.
func (d *MDD) ArcCount() int {
	res := 0
	for _, l := range d.layers {
		for _, n := range l {
			res += len(d.arena.at(n).out)
		}
	}
	return res
}

// Domains returns, for each layer but the last, the sorted list of labels on
// arcs leaving this layer.
func (d *MDD) Domains() Domains {
	res := make(Domains, len(d.layers)-1)
	for i := range res {
		seen := make(map[int]bool)
		for _, n := range d.layers[i] {
			for _, a := range d.arena.at(n).out {
				if !seen[a.Label] {
					seen[a.Label] = true
					res[i] = append(res[i], a.Label)
				}
			}
		}
		sort.Ints(res[i])
	}
	return res
}

// RemoveAndFree detaches n from all its parents and children, removes it from
// its layer and returns its slot to the arena. The NodeID n, and every copy of
// it, becomes stale.
func (d *MDD) RemoveAndFree(n NodeID) error {
	nd, err := d.node(n)
	if err != nil {
		return err
	}
	for _, a := range nd.out {
		c := d.arena.at(a.Node)
		c.in = removeArc(c.in, Arc{Label: a.Label, Node: n})
	}
	for _, a := range nd.in {
		p := d.arena.at(a.Node)
		p.out = removeArc(p.out, Arc{Label: a.Label, Node: n})
	}
	nd.out = nd.out[:0]
	nd.in = nd.in[:0]
	d.unlink(n, nd)
	d.arena.freenode(n)
	return nil
}

// unlink removes n from its layer, moving the last node of the layer at its
// position.
func (d *MDD) unlink(n NodeID, nd *node) {
	l := d.layers[nd.layer]
	last := len(l) - 1
	if int(nd.pos) != last {
		moved := l[last]
		l[nd.pos] = moved
		d.arena.at(moved).pos = nd.pos
	}
	d.layers[nd.layer] = l[:last]
}

// ReplaceReferencesBy redirects every arc entering old so that it enters n
// instead. Both nodes must be in the same layer. After the call old has no
// parents; it is not freed.
func (d *MDD) ReplaceReferencesBy(old, n NodeID) error {
	o, err := d.node(old)
	if err != nil {
		return err
	}
	nn, err := d.node(n)
	if err != nil {
		return err
	}
	if o.layer != nn.layer {
		return d.arena.errorf(ErrLayer, "cannot replace node of layer %d by node of layer %d", o.layer, nn.layer)
	}
	if old == n {
		return nil
	}
	for _, a := range o.in {
		p := d.arena.at(a.Node)
		if !d.nondet {
			// labels are unique, we can overwrite the arc where it is
			k, _ := findLabel(p.out, a.Label)
			p.out[k].Node = n
			nn.in = append(nn.in, a)
			continue
		}
		p.out = removeArc(p.out, Arc{Label: a.Label, Node: old})
		if !hasArc(p.out, Arc{Label: a.Label, Node: n}) {
			p.out = insertArc(p.out, Arc{Label: a.Label, Node: n})
			nn.in = append(nn.in, a)
		}
	}
	o.in = o.in[:0]
	return nil
}

func hasArc(arcs []Arc, a Arc) bool {
	k, _ := findLabel(arcs, a.Label)
	for ; k < len(arcs) && arcs[k].Label == a.Label; k++ {
		if arcs[k].Node == a.Node {
			return true
		}
	}
	return false
}

// SetSize changes the number of layers of d. When the diagram shrinks, the
// nodes of the removed layers are freed and the arcs leaving the new last
// layer are deleted.
func (d *MDD) SetSize(n int) error {
	if n < 1 {
		return d.arena.errorf(ErrSize, "size %d is not positive", n)
	}
	if n >= len(d.layers) {
		for len(d.layers) < n {
			d.layers = append(d.layers, nil)
		}
		return nil
	}
	for _, id := range d.layers[n-1] {
		nd := d.arena.at(id)
		nd.out = nd.out[:0]
	}
	for i := n; i < len(d.layers); i++ {
		for _, id := range d.layers[i] {
			nd := d.arena.at(id)
			nd.out = nd.out[:0]
			nd.in = nd.in[:0]
			d.arena.freenode(id)
		}
		d.layers[i] = nil
	}
	d.layers = d.layers[:n]
	return nil
}

// Free releases every node of d. The diagram is left with no nodes, but keeps
// its number of layers.
func (d *MDD) Free() {
	for i, l := range d.layers {
		for _, id := range l {
			nd := d.arena.at(id)
			nd.out = nd.out[:0]
			nd.in = nd.in[:0]
			d.arena.freenode(id)
		}
		d.layers[i] = nil
	}
}

// Copy duplicates the nodes of layers from to to (included) of d into target,
// starting at layer offset of target. Arcs between copied layers are copied
// too. The binding maps nodes of d to nodes of target; nodes already bound are
// reused instead of being created, which can be used to graft d onto an
// existing node of target. A nil binding is allowed. Copy returns the binding
// completed with the new nodes. The target can live in another arena.
func (d *MDD) Copy(target *MDD, offset, from, to int, binding map[NodeID]NodeID) (map[NodeID]NodeID, error) {
	if target == d {
		return nil, d.arena.errorf(ErrArena, "cannot copy a diagram into itself")
	}
	if from < 0 || to >= len(d.layers) || from > to {
		return nil, d.arena.errorf(ErrLayer, "cannot copy layers [%d, %d] of a diagram of size %d", from, to, len(d.layers))
	}
	if offset < 0 || offset+to-from >= target.Size() {
		return nil, d.arena.errorf(ErrLayer, "cannot copy %d layers at offset %d in a diagram of size %d", to-from+1, offset, target.Size())
	}
	if binding == nil {
		binding = make(map[NodeID]NodeID)
	}
	for i := from; i <= to; i++ {
		for _, n := range d.layers[i] {
			if _, ok := binding[n]; ok {
				continue
			}
			m, err := target.AddNode(offset + i - from)
			if err != nil {
				return binding, err
			}
			binding[n] = m
		}
	}
	for i := from; i < to; i++ {
		for _, n := range d.layers[i] {
			for _, a := range d.arena.at(n).out {
				if err := target.AddArc(binding[n], a.Label, binding[a.Node]); err != nil {
					return binding, err
				}
			}
		}
	}
	return binding, nil
}

// markReachable sets the mark of every node reachable from the root of d.
func (d *MDD) markReachable() {
	root := d.Root()
	if root.IsNil() {
		return
	}
	d.arena.at(root).mark = true
	for i := 0; i < len(d.layers)-1; i++ {
		for _, n := range d.layers[i] {
			nd := d.arena.at(n)
			if !nd.mark {
				continue
			}
			for _, a := range nd.out {
				d.arena.at(a.Node).mark = true
			}
		}
	}
}

// unmarkall clears the marks set by markReachable.
func (d *MDD) unmarkall() {
	for _, l := range d.layers {
		for _, n := range l {
			d.arena.at(n).mark = false
		}
	}
}
