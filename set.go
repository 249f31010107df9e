// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// UnionAll returns the union of a sequence of diagrams. With no argument, the
// result is the empty diagram of size 1.
func UnionAll(a *Arena, ds ...*MDD) (*MDD, error) {
	if len(ds) == 0 {
		return Empty(a, 1), nil
	}
	if len(ds) == 1 {
		return ds[0].Clone()
	}
	return ApplyN(OPunion, ds...)
}

// IntersectionAll returns the intersection of a sequence of diagrams. With no
// argument, the result is the diagram of size 1 accepting the empty sequence.
func IntersectionAll(a *Arena, ds ...*MDD) (*MDD, error) {
	if len(ds) == 0 {
		return Universal(a, nil)
	}
	if len(ds) == 1 {
		return ds[0].Clone()
	}
	return ApplyN(OPintersection, ds...)
}

// Equal tests whether two diagrams have the same solutions.
func Equal(d1, d2 *MDD) (bool, error) {
	if d1 == d2 {
		return true, nil
	}
	ok, err := Included(d1, d2)
	if err != nil || !ok {
		return false, err
	}
	return Included(d2, d1)
}

// Empty returns the diagram with size layers and no solution. It is made of a
// single root without arcs.
func Empty(a *Arena, size int) *MDD {
	d := New(a, size)
	if size > 1 {
		// without a root, d is still empty
		_, _ = d.AddNode(0)
	}
	return d
}
