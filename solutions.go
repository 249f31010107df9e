// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "math/big"

// Count computes the number of paths from the root to the last layer of d,
// that is the number of solutions when d is deterministic. Every node of the
// last layer counts as a terminal, so Count also works on diagrams that are not
// reduced. We return a result using arbitrary-precision arithmetic to avoid
// possible overflows.
func (d *MDD) Count() *big.Int {
	res := big.NewInt(0)
	root := d.Root()
	if root.IsNil() || d.Terminal().IsNil() {
		return res
	}
	// we compute the number of paths bottom-up, layer by layer
	count := make(map[NodeID]*big.Int)
	for _, n := range d.layers[len(d.layers)-1] {
		count[n] = big.NewInt(1)
	}
	for i := len(d.layers) - 2; i >= 0; i-- {
		for _, n := range d.layers[i] {
			c := big.NewInt(0)
			for _, a := range d.arena.at(n).out {
				if v, ok := count[a.Node]; ok {
					c.Add(c, v)
				}
			}
			count[n] = c
		}
	}
	if c, ok := count[root]; ok {
		res.Set(c)
	}
	return res
}

// Solutions iterates through all the solutions of d and calls the function f
// on each of them. The slice passed to f is reused between calls and must be
// copied if it is kept. We stop and return the error if f returns an error at
// some point.
//
// The following is an example of a callback handler that counts the number of
// solutions:
//
//	acc := new(int)
//	d.Solutions(func(sol []int) error {
//		*acc++
//		return nil
//	})
func (d *MDD) Solutions(f func([]int) error) error {
	root := d.Root()
	if root.IsNil() || d.Terminal().IsNil() {
		return nil
	}
	// the function does not create new nodes, so we do not need to take care of
	// possible resizing
	prof := make([]int, len(d.layers)-1)
	return d.solutions(root, 0, prof, f)
}

// solutions follows every path from n. Arcs always go to the next layer, so a
// path of length len(prof) ends on a terminal.
func (d *MDD) solutions(n NodeID, layer int, prof []int, f func([]int) error) error {
	if layer == len(prof) {
		return f(prof)
	}
	for _, a := range d.arena.at(n).out {
		prof[layer] = a.Label
		if err := d.solutions(a.Node, layer+1, prof, f); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether seq is a solution of d.
func (d *MDD) Contains(seq []int) bool {
	if len(seq) != len(d.layers)-1 {
		return false
	}
	cur := []NodeID{d.Root()}
	if cur[0].IsNil() {
		return false
	}
	for _, l := range seq {
		var next []NodeID
		for _, n := range cur {
			out := d.arena.at(n).out
			k, _ := findLabel(out, l)
			for ; k < len(out) && out[k].Label == l; k++ {
				next = append(next, out[k].Node)
			}
		}
		if len(next) == 0 {
			return false
		}
		cur = next
	}
	return true
}

// Allnodes applies function f over all the nodes of d, layer by layer, from
// the root to the terminal. We stop the computation and return an error if f
// returns an error at some point.
func (d *MDD) Allnodes(f func(id NodeID, layer int, arcs []Arc) error) error {
	for i, l := range d.layers {
		for _, n := range l {
			if err := f(n, i, d.arena.at(n).out); err != nil {
				return err
			}
		}
	}
	return nil
}

// Isomorphic reports whether d1 and d2 have the same structure, up to the
// identity of their nodes. Two reduced deterministic diagrams are isomorphic if
// and only if they have the same solutions.
func Isomorphic(d1, d2 *MDD) bool {
	if d1.Size() != d2.Size() || d1.NodeCount() != d2.NodeCount() {
		return false
	}
	r1, r2 := d1.Root(), d2.Root()
	if r1.IsNil() || r2.IsNil() {
		return r1.IsNil() == r2.IsNil()
	}
	fwd := map[NodeID]NodeID{r1: r2}
	bwd := map[NodeID]NodeID{r2: r1}
	queue := []NodeID{r1}
	for len(queue) > 0 {
		n1 := queue[0]
		queue = queue[1:]
		n2 := fwd[n1]
		out1, out2 := d1.arena.at(n1).out, d2.arena.at(n2).out
		if len(out1) != len(out2) {
			return false
		}
		for k := range out1 {
			if out1[k].Label != out2[k].Label {
				return false
			}
			c1, c2 := out1[k].Node, out2[k].Node
			m2, ok1 := fwd[c1]
			m1, ok2 := bwd[c2]
			switch {
			case !ok1 && !ok2:
				fwd[c1], bwd[c2] = c2, c1
				queue = append(queue, c1)
			case ok1 && ok2 && m2 == c2 && m1 == c1:
			default:
				return false
			}
		}
	}
	return len(fwd) == d1.NodeCount()
}
