// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "sort"

// Apply performs all of the basic set operations between diagrams, such as
// union, intersection, etc. These operations are selected by the parameter
// op. Both diagrams must have the same size, live in the same arena and be
// deterministic. The result is a new, reduced, diagram in the same arena.
//
// Apply does not accept OPinclusion, which returns a boolean (see Included).
func Apply(d1, d2 *MDD, op Operator) (*MDD, error) {
	if op < 0 || op >= opcount || op == OPinclusion {
		return nil, d1.arena.errorf(ErrOperator, "operator %s not supported by Apply", op)
	}
	if err := checkOperands(d1, d2); err != nil {
		return nil, err
	}
	return applyk([]*MDD{d1, d2}, func(present []bool, final bool) bool {
		return op.eval(present[0], present[1], final)
	}, op)
}

// Union returns the diagram accepting the solutions of d1 or d2.
func Union(d1, d2 *MDD) (*MDD, error) {
	return Apply(d1, d2, OPunion)
}

// Intersection returns the diagram accepting the solutions of both d1 and d2.
func Intersection(d1, d2 *MDD) (*MDD, error) {
	return Apply(d1, d2, OPintersection)
}

// Minus returns the diagram accepting the solutions of d1 that are not
// solutions of d2.
func Minus(d1, d2 *MDD) (*MDD, error) {
	return Apply(d1, d2, OPminus)
}

// Diamond returns the symmetric difference of d1 and d2.
func Diamond(d1, d2 *MDD) (*MDD, error) {
	return Apply(d1, d2, OPdiamond)
}

// ApplyN computes the union or the intersection of a sequence of diagrams in
// one pass. Any other operator yields an error wrapping ErrOperator.
func ApplyN(op Operator, ds ...*MDD) (*MDD, error) {
	if len(ds) == 0 {
		return nil, ErrSize
	}
	if op != OPunion && op != OPintersection {
		return nil, ds[0].arena.errorf(ErrOperator, "operator %s not supported by ApplyN", op)
	}
	if err := checkOperands(ds...); err != nil {
		return nil, err
	}
	return applyk(ds, func(present []bool, _ bool) bool {
		return op.evalN(present)
	}, op)
}

// Included reports whether every solution of d1 is also a solution of d2. The
// empty diagram is included in every diagram.
func Included(d1, d2 *MDD) (bool, error) {
	if err := checkOperands(d1, d2); err != nil {
		return false, err
	}
	a := d1.arena
	alive := d1.alive()
	if !alive[d1.Root()] {
		return true, nil
	}
	if d2.Root().IsNil() {
		return false, nil
	}
	type pair struct{ x1, x2 NodeID }
	cur := []pair{{d1.Root(), d2.Root()}}
	for i := 0; i < d1.Size()-1; i++ {
		seen := make(map[pair]bool)
		var next []pair
		for _, p := range cur {
			out2 := a.at(p.x2).out
			for _, arc := range a.at(p.x1).out {
				if !alive[arc.Node] {
					continue
				}
				k, ok := findLabel(out2, arc.Label)
				if !ok {
					if _LOGLEVEL > 0 {
						a.logger.Debug("inclusion fails", "layer", i, "label", arc.Label)
					}
					return false, nil
				}
				np := pair{arc.Node, out2[k].Node}
				if !seen[np] {
					seen[np] = true
					next = append(next, np)
				}
			}
		}
		cur = next
	}
	return true, nil
}

// checkOperands verifies that the diagrams can be combined.
func checkOperands(ds ...*MDD) error {
	a := ds[0].arena
	for _, d := range ds {
		if d.arena != a {
			return a.errorf(ErrArena, "operands live in different arenas")
		}
		if d.Size() != ds[0].Size() {
			return a.errorf(ErrSize, "operands of size %d and %d", ds[0].Size(), d.Size())
		}
		if d.nondet {
			return a.errorf(ErrNondeterministic, "operand is nondeterministic")
		}
	}
	return nil
}

// applyk is the generic cross-product over a sequence of diagrams. Each node
// of the result is associated with a tuple of provenance nodes, one per
// operand (NilNode when an operand has no matching path). The tuples are kept
// in a table aligned with the layers of the result, so that they disappear
// with the pass. The function keep decides whether a label is followed,
// depending on which operands have an arc with this label.
func applyk(ds []*MDD, keep func(present []bool, final bool) bool, op Operator) (*MDD, error) {
	a := ds[0].arena
	size := ds[0].Size()
	k := len(ds)
	res := New(a, size)

	roots := make([]NodeID, k)
	present := make([]bool, k)
	for t, d := range ds {
		roots[t] = d.Root()
		present[t] = !roots[t].IsNil()
	}
	if size == 1 {
		if keep(present, true) {
			if _, err := res.AddNode(0); err != nil {
				return nil, err
			}
		}
		return res, nil
	}
	if _, err := res.AddNode(0); err != nil {
		return nil, err
	}

	b := a.getbinder()
	defer a.putbinder(b)
	prov := [][]NodeID{roots}
	children := make([]NodeID, k)
	var labels []int
	for i := 0; i < size-1; i++ {
		final := i == size-2
		var next [][]NodeID
		terminal := NilNode
		for j, x := range prov {
			parent := res.layers[i][j]
			labels = unionLabels(a, x, labels[:0])
			for _, l := range labels {
				for t := range ds {
					children[t], present[t] = childOf(a, x[t], l)
				}
				if !keep(present, final) {
					continue
				}
				var child NodeID
				if final {
					if terminal.IsNil() {
						t, err := res.AddNode(i + 1)
						if err != nil {
							res.Free()
							return nil, err
						}
						terminal = t
					}
					child = terminal
				} else {
					bnd := b.Path(children...)
					c, ok := bnd.Leaf()
					if !ok {
						var err error
						if c, err = res.AddNode(i + 1); err != nil {
							res.Free()
							return nil, err
						}
						bnd.SetLeaf(c)
						next = append(next, append([]NodeID(nil), children...))
					}
					child = c
				}
				if err := res.AddArc(parent, l, child); err != nil {
					res.Free()
					return nil, err
				}
			}
		}
		b.Clear()
		if len(res.layers[i+1]) == 0 {
			if _LOGLEVEL > 0 {
				a.logger.Debug("apply stops on empty layer", "op", op, "layer", i+1)
			}
			break
		}
		prov = next
	}
	res.Reduce()
	if _LOGLEVEL > 0 {
		a.logger.Debug("apply", "op", op, "operands", k, "nodes", res.NodeCount(), "arcs", res.ArcCount())
	}
	return res, nil
}

// childOf returns the child of x for label l in the node table of a.
func childOf(a *Arena, x NodeID, l int) (NodeID, bool) {
	if x.IsNil() {
		return NilNode, false
	}
	out := a.at(x).out
	if k, ok := findLabel(out, l); ok {
		return out[k].Node, true
	}
	return NilNode, false
}

// unionLabels appends to buf the sorted list of labels leaving at least one of
// the nodes in x.
func unionLabels(a *Arena, x []NodeID, buf []int) []int {
	for _, n := range x {
		if n.IsNil() {
			continue
		}
		for _, arc := range a.at(n).out {
			buf = append(buf, arc.Label)
		}
	}
	sort.Ints(buf)
	k := 0
	for i, l := range buf {
		if i == 0 || l != buf[k-1] {
			buf[k] = l
			k++
		}
	}
	return buf[:k]
}

// alive returns the set of nodes of d that are on a path from the root to the
// terminal.
func (d *MDD) alive() map[NodeID]bool {
	res := make(map[NodeID]bool)
	last := len(d.layers) - 1
	for _, n := range d.layers[last] {
		res[n] = true
	}
	for i := last - 1; i >= 0; i-- {
		for _, n := range d.layers[i] {
			for _, arc := range d.arena.at(n).out {
				if res[arc.Node] {
					res[n] = true
					break
				}
			}
		}
	}
	d.markReachable()
	for n := range res {
		if !d.arena.at(n).mark {
			delete(res, n)
		}
	}
	d.unmarkall()
	return res
}
