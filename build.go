// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Universal returns the diagram accepting every sequence of labels such that
// the i-th label is in doms[i]. It has one node per layer.
func Universal(a *Arena, doms Domains) (*MDD, error) {
	d := New(a, doms.Size())
	prev, err := d.AddNode(0)
	if err != nil {
		return nil, err
	}
	for i, dom := range doms {
		if len(dom) == 0 {
			d.Reduce()
			return d, nil
		}
		n, err := d.AddNode(i + 1)
		if err != nil {
			d.Free()
			return nil, err
		}
		for _, l := range dom {
			if err := d.AddArc(prev, l, n); err != nil {
				d.Free()
				return nil, err
			}
		}
		prev = n
	}
	return d, nil
}

// FromSolutions returns the reduced diagram accepting exactly the sequences in
// sols. Every sequence must have length size-1.
func FromSolutions(a *Arena, size int, sols [][]int) (*MDD, error) {
	d := New(a, size)
	root, err := d.AddNode(0)
	if err != nil {
		return nil, err
	}
	terminal := NilNode
	for _, s := range sols {
		if len(s) != size-1 {
			d.Free()
			return nil, a.errorf(ErrSize, "solution %v has length %d, expected %d", s, len(s), size-1)
		}
		cur := root
		for i, l := range s {
			child, ok := d.Child(cur, l)
			if !ok {
				if i == size-2 {
					if terminal.IsNil() {
						if terminal, err = d.AddNode(size - 1); err != nil {
							d.Free()
							return nil, err
						}
					}
					child = terminal
				} else if child, err = d.AddNode(i + 1); err != nil {
					d.Free()
					return nil, err
				}
				if err := d.AddArc(cur, l, child); err != nil {
					d.Free()
					return nil, err
				}
			}
			cur = child
		}
	}
	if size == 1 && len(sols) == 0 {
		d.Free()
	}
	d.Reduce()
	return d, nil
}

// Concat returns the diagram accepting the sequences u.v, where u is a
// solution of d1 and v a solution of d2. The result has d1.Size()+d2.Size()-1
// layers: the terminal of d1 is identified with the root of d2. Both operands
// must live in the same arena.
func Concat(d1, d2 *MDD) (*MDD, error) {
	a := d1.arena
	if d2.arena != a {
		return nil, a.errorf(ErrArena, "operands live in different arenas")
	}
	res := New(a, d1.Size()+d2.Size()-1, func(d *MDD) { d.nondet = d1.nondet || d2.nondet })
	if d1.IsEmpty() || d2.IsEmpty() {
		if _, err := res.AddNode(0); err != nil {
			return nil, err
		}
		return res, nil
	}
	join, err := res.AddNode(d1.Size() - 1)
	if err != nil {
		return nil, err
	}
	glue := make(map[NodeID]NodeID)
	for _, t := range d1.Layer(d1.Size() - 1) {
		glue[t] = join
	}
	if _, err := d1.Copy(res, 0, 0, d1.Size()-1, glue); err != nil {
		res.Free()
		return nil, err
	}
	if _, err := d2.Copy(res, d1.Size()-1, 0, d2.Size()-1, map[NodeID]NodeID{d2.Root(): join}); err != nil {
		res.Free()
		return nil, err
	}
	res.Reduce()
	return res, nil
}
