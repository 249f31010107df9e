// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "math/bits"

// Sequence returns the constraint that, on every window of q consecutive
// layers in scope, the number of layers taking a value in values is in the
// interval [lo, hi]. The window size is limited to 64. When there are less
// than q layers in scope, the constraint is always satisfied.
func Sequence(values []int, q, lo, hi int, opts ...Option) Constraint {
	return &sequence{set: makeset(values), q: q, lo: lo, hi: hi, opts: makeoptions(opts)}
}

type sequence struct {
	set       map[int]bool
	q, lo, hi int
	opts      options
}

func (c *sequence) Kind() Kind { return KindSequence }

type sequenceParams struct {
	scope
	h         Handle
	pool      *Pool[sequenceParams]
	states    *Pool[sequenceState]
	set       map[int]bool
	q, lo, hi int
	mask      uint64 // keeps the last q-1 positions
	vacuous   bool   // less than q layers in scope
}

func (p *sequenceParams) Kind() Kind { return KindSequence }

func (p *sequenceParams) Free() { p.pool.Free(p.h) }

// sequenceState records which of the last q-1 layers in scope took a value in
// the set (bit 0 is the most recent), and how many of these positions exist.
type sequenceState struct {
	h    Handle
	p    *sequenceParams
	hist uint64
	seen int
}

func (c *sequence) Start(a *Arena, doms Domains) (State, Parameters, error) {
	if c.q < 1 || c.q > 64 {
		return nil, nil, a.errorf(ErrConstraint, "sequence window %d not in [1, 64]", c.q)
	}
	if c.lo < 0 || c.lo > c.hi {
		return nil, nil, a.errorf(ErrConstraint, "sequence bounds [%d, %d]", c.lo, c.hi)
	}
	sc, err := a.makescope(c.opts, doms)
	if err != nil {
		return nil, nil, err
	}
	pool := poolOf[sequenceParams](&a.params[KindSequence], a.pagesize)
	h, p := pool.Allocate()
	p.scope, p.h, p.pool = sc, h, pool
	p.states = poolOf[sequenceState](&a.states[KindSequence], a.pagesize)
	p.set, p.q, p.lo, p.hi = c.set, c.q, c.lo, c.hi
	p.mask = (uint64(1) << (c.q - 1)) - 1
	p.vacuous = p.remaining(0) < c.q
	h, s := p.states.Allocate()
	s.h, s.p = h, p
	return s, p, nil
}

func (s *sequenceState) bit(label int) uint64 {
	if s.p.set[s.p.Value(label)] {
		return 1
	}
	return 0
}

func (s *sequenceState) Valid(label, layer, size int) bool {
	if s.p.vacuous || !s.p.IsVariable(layer) {
		return true
	}
	c := bits.OnesCount64(s.hist) + int(s.bit(label))
	if s.seen+1 >= s.p.q {
		return c >= s.p.lo && c <= s.p.hi
	}
	// the first window is not complete yet
	return c <= s.p.hi && c+s.p.q-(s.seen+1) >= s.p.lo
}

func (s *sequenceState) next(label, layer int) (uint64, int) {
	if s.p.vacuous || !s.p.IsVariable(layer) {
		return s.hist, s.seen
	}
	return ((s.hist << 1) | s.bit(label)) & s.p.mask, min(s.seen+1, s.p.q-1)
}

func (s *sequenceState) Next(label, layer, size int) State {
	h, res := s.p.states.Allocate()
	res.h, res.p = h, s.p
	res.hist, res.seen = s.next(label, layer)
	return res
}

func (s *sequenceState) Signature(label, layer, size int) Key {
	if s.p.vacuous || s.p.remaining(layer+1) == 0 {
		return ""
	}
	hist, seen := s.next(label, layer)
	var b KeyBuilder
	return b.Int(int64(hist)).Int(int64(seen)).Key()
}

func (s *sequenceState) Merge(parent State, label, layer, size int) State { return nil }

func (s *sequenceState) Free() { s.p.states.Free(s.h) }
