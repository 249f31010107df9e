// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// IntervalSum is a relaxation of Sum. All the paths reaching a node of the
// operand share one state, which keeps the interval of their partial sums.
// The result of the intersection never has more nodes than the operand and
// accepts at least the solutions of the exact constraint.
func IntervalSum(lo, hi int, opts ...Option) Constraint {
	return &intervalSum{lo: int64(lo), hi: int64(hi), opts: makeoptions(opts)}
}

type intervalSum struct {
	lo, hi int64
	opts   options
}

func (c *intervalSum) Kind() Kind { return KindIntervalSum }

type intervalParams struct {
	scope
	h      Handle
	pool   *Pool[intervalParams]
	states *Pool[intervalState]
	lo, hi int64
	minRem []int64
	maxRem []int64
}

func (p *intervalParams) Kind() Kind { return KindIntervalSum }

func (p *intervalParams) Free() { p.pool.Free(p.h) }

type intervalState struct {
	h      Handle
	p      *intervalParams
	lo, hi int64 // bounds of the partial sums of the paths merged in this state
}

func (c *intervalSum) Start(a *Arena, doms Domains) (State, Parameters, error) {
	if c.lo > c.hi {
		return nil, nil, a.errorf(ErrConstraint, "interval sum bounds [%d, %d]", c.lo, c.hi)
	}
	sc, err := a.makescope(c.opts, doms)
	if err != nil {
		return nil, nil, err
	}
	pool := poolOf[intervalParams](&a.params[KindIntervalSum], a.pagesize)
	h, p := pool.Allocate()
	p.scope, p.h, p.pool = sc, h, pool
	p.states = poolOf[intervalState](&a.states[KindIntervalSum], a.pagesize)
	p.lo, p.hi = c.lo, c.hi
	p.minRem, p.maxRem = p.remainingRange(doms)
	h, s := p.states.Allocate()
	s.h, s.p = h, p
	return s, p, nil
}

func (s *intervalState) shift(label, layer int) int64 {
	if !s.p.IsVariable(layer) {
		return 0
	}
	return int64(s.p.Value(label))
}

func (s *intervalState) Valid(label, layer, size int) bool {
	v := s.shift(label, layer)
	return s.lo+v+s.p.minRem[layer+1] <= s.p.hi && s.hi+v+s.p.maxRem[layer+1] >= s.p.lo
}

func (s *intervalState) Next(label, layer, size int) State {
	h, res := s.p.states.Allocate()
	v := s.shift(label, layer)
	res.h, res.p = h, s.p
	res.lo, res.hi = s.lo+v, s.hi+v
	return res
}

// Signature is always empty: paths reaching the same node are never split.
func (s *intervalState) Signature(label, layer, size int) Key {
	return ""
}

// Merge widens the interval of s so that it also contains the partial sum of
// the paths going through parent and label.
func (s *intervalState) Merge(parent State, label, layer, size int) State {
	ps, ok := parent.(*intervalState)
	if !ok {
		debugPanic("merge of %T into interval sum state", parent)
		return nil
	}
	v := ps.shift(label, layer)
	s.lo = min(s.lo, ps.lo+v)
	s.hi = max(s.hi, ps.hi+v)
	return nil
}

func (s *intervalState) Free() { s.p.states.Free(s.h) }
