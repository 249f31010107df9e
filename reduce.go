// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Reduce computes the reduced form of d, in place, with the strategy selected
// for its arena (see option Reduction). After the call, no two nodes of a
// layer have the same outgoing arcs, every node but the terminal has at least
// one child, and every node but the root has at least one parent. When d
// accepts no solution, only the root is left.
func (d *MDD) Reduce() {
	d.ReduceWith(d.arena.strategy)
}

// ReduceWith is like Reduce but uses strategy s. Both strategies yield the same
// diagram, up to node identity.
func (d *MDD) ReduceWith(s Strategy) {
	a := d.arena
	a.reduced++
	size := len(d.layers)
	if size == 1 {
		return
	}
	// nodes of the last layer have no arcs; they are all equivalent
	merged := d.mergeInto(d.layers[size-1])
	removed := 0
	h := &arcHasher{}
	for i := size - 2; i >= 1; i-- {
		removed += d.removeDead(i)
		switch s {
		case Partition:
			merged += d.refine(i)
		default:
			merged += d.mergeBuckets(i, h)
		}
	}
	removed += d.removeOrphans()
	a.merged += merged
	if _LOGLEVEL > 0 {
		a.logger.Debug("reduce", "strategy", s, "merged", merged, "removed", removed, "nodes", d.NodeCount())
	}
}

// removeDead frees the nodes of layer i that have no children.
func (d *MDD) removeDead(i int) int {
	res := 0
	for _, n := range append([]NodeID(nil), d.layers[i]...) {
		if len(d.arena.at(n).out) == 0 {
			d.RemoveAndFree(n)
			res++
		}
	}
	return res
}

// removeOrphans frees, from top to bottom, every node that has no parent,
// except the root.
func (d *MDD) removeOrphans() int {
	res := 0
	for i := 1; i < len(d.layers); i++ {
		for _, n := range append([]NodeID(nil), d.layers[i]...) {
			if len(d.arena.at(n).in) == 0 {
				d.RemoveAndFree(n)
				res++
			}
		}
	}
	return res
}

// mergeBuckets merges the equivalent nodes of layer i, assuming that the layers
// below are already reduced. Nodes are dispatched in buckets according to a
// hash of their arcs; we compare arcs only inside a bucket. The first node of
// each class, in layer order, is kept.
func (d *MDD) mergeBuckets(i int, h *arcHasher) int {
	a := d.arena
	res := 0
	buckets := make(map[uint64][]NodeID, len(d.layers[i]))
	for _, n := range append([]NodeID(nil), d.layers[i]...) {
		out := a.at(n).out
		key := h.hash(out)
		found := false
		for _, r := range buckets[key] {
			if sameArcs(a.at(r).out, out) {
				d.ReplaceReferencesBy(n, r)
				d.RemoveAndFree(n)
				res++
				found = true
				break
			}
		}
		if !found {
			buckets[key] = append(buckets[key], n)
		}
	}
	return res
}

// mergeInto redirects the parents of all the nodes in class to the first one,
// then frees the others.
func (d *MDD) mergeInto(class []NodeID) int {
	if len(class) < 2 {
		return 0
	}
	class = append([]NodeID(nil), class...)
	for _, n := range class[1:] {
		d.ReplaceReferencesBy(n, class[0])
		d.RemoveAndFree(n)
	}
	return len(class) - 1
}
