// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Intersect returns the diagram accepting the solutions of d that satisfy the
// constraint c. The automaton of c is never built: we follow the arcs of d
// layer by layer, and create the automaton states reached on the way. Two
// paths that reach the same node of d with states of equal signature end up on
// the same node of the result.
//
// The result is a new, reduced, diagram in the arena of d. An unsatisfiable
// constraint gives the empty diagram, not an error.
func Intersect(d *MDD, c Constraint) (*MDD, error) {
	a := d.arena
	if d.nondet {
		return nil, a.errorf(ErrNondeterministic, "cannot intersect constraint %s", c.Kind())
	}
	st, params, err := c.Start(a, d.Domains())
	if err != nil {
		return nil, err
	}
	defer params.Free()
	res, err := intersect(d, st, c.Kind())
	if err != nil {
		return nil, err
	}
	res.Reduce()
	return res, nil
}

// IntersectAll intersects d with every constraint in cs, one after the other.
// Each step starts from the (reduced) result of the previous one.
func IntersectAll(d *MDD, cs ...Constraint) (*MDD, error) {
	cur := d
	for _, c := range cs {
		res, err := Intersect(cur, c)
		if cur != d {
			cur.Free()
		}
		if err != nil {
			return nil, err
		}
		cur = res
	}
	if cur == d {
		return d.Clone()
	}
	return cur, nil
}

// IntersectComposed intersects d with the conjunction of the constraints in cs,
// in a single pass over a composed automaton (see Compose).
func IntersectComposed(d *MDD, cs ...Constraint) (*MDD, error) {
	return Intersect(d, Compose(cs...))
}

// Clone returns a copy of d in the same arena.
func (d *MDD) Clone() (*MDD, error) {
	res := New(d.arena, d.Size(), func(m *MDD) { m.nondet = d.nondet })
	if _, err := d.Copy(res, 0, 0, d.Size()-1, nil); err != nil {
		res.Free()
		return nil, err
	}
	return res, nil
}

// entry is a node of the result under construction, together with its
// provenance node in the operand and its automaton state.
type entry struct {
	src NodeID
	st  State
}

// entryKey identifies the successor of an entry: the node of the operand it
// comes from, and the signature of its state.
type entryKey struct {
	src NodeID
	sig Key
}

// intersect builds the product of d with the automaton starting at root. The
// entries of the current layer are aligned with the nodes of the layer in the
// result. States of a layer are freed as soon as the next layer is built.
func intersect(d *MDD, root State, kind Kind) (*MDD, error) {
	a := d.arena
	size := d.Size()
	res := New(a, size)
	if d.Root().IsNil() {
		root.Free()
		return res, nil
	}
	if _, err := res.AddNode(0); err != nil {
		root.Free()
		return nil, err
	}
	cur := []entry{{src: d.Root(), st: root}}
	freeall := func(es []entry) {
		for _, e := range es {
			e.st.Free()
		}
	}
	created, merged := 0, 0
	for i := 0; i < size-1; i++ {
		final := i == size-2
		var next []entry
		index := make(map[entryKey]int)
		terminal := NilNode
		for j, e := range cur {
			parent := res.layers[i][j]
			for _, arc := range a.at(e.src).out {
				if !e.st.Valid(arc.Label, i, size) {
					continue
				}
				var child NodeID
				switch {
				case final:
					if terminal.IsNil() {
						t, err := res.AddNode(i + 1)
						if err != nil {
							freeall(cur)
							freeall(next)
							res.Free()
							return nil, err
						}
						terminal = t
					}
					child = terminal
				default:
					key := entryKey{src: arc.Node, sig: e.st.Signature(arc.Label, i, size)}
					if k, ok := index[key]; ok {
						child = res.layers[i+1][k]
						if ns := next[k].st.Merge(e.st, arc.Label, i, size); ns != nil {
							next[k].st.Free()
							next[k].st = ns
						}
						merged++
						break
					}
					c, err := res.AddNode(i + 1)
					if err != nil {
						freeall(cur)
						freeall(next)
						res.Free()
						return nil, err
					}
					index[key] = len(next)
					next = append(next, entry{src: arc.Node, st: e.st.Next(arc.Label, i, size)})
					created++
					child = c
				}
				if err := res.AddArc(parent, arc.Label, child); err != nil {
					freeall(cur)
					freeall(next)
					res.Free()
					return nil, err
				}
			}
		}
		freeall(cur)
		cur = next
		if len(res.layers[i+1]) == 0 {
			break
		}
	}
	freeall(cur)
	if _LOGLEVEL > 0 {
		a.logger.Debug("intersect", "constraint", kind, "states", created, "merged", merged, "nodes", res.NodeCount())
	}
	return res, nil
}
