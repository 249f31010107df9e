// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Sum returns the constraint that the sum of the values of the layers in scope
// is in the interval [lo, hi].
func Sum(lo, hi int, opts ...Option) Constraint {
	return &sum{lo: int64(lo), hi: int64(hi), opts: makeoptions(opts)}
}

type sum struct {
	lo, hi int64
	opts   options
}

func (c *sum) Kind() Kind { return KindSum }

type sumParams struct {
	scope
	h      Handle
	pool   *Pool[sumParams]
	states *Pool[sumState]
	lo, hi int64
	minRem []int64 // minRem[i]: smallest sum reachable with the layers from i
	maxRem []int64 // maxRem[i]: largest sum reachable with the layers from i
}

func (p *sumParams) Kind() Kind { return KindSum }

func (p *sumParams) Free() { p.pool.Free(p.h) }

type sumState struct {
	h   Handle
	p   *sumParams
	sum int64
}

func (c *sum) Start(a *Arena, doms Domains) (State, Parameters, error) {
	if c.lo > c.hi {
		return nil, nil, a.errorf(ErrConstraint, "sum bounds [%d, %d]", c.lo, c.hi)
	}
	sc, err := a.makescope(c.opts, doms)
	if err != nil {
		return nil, nil, err
	}
	pool := poolOf[sumParams](&a.params[KindSum], a.pagesize)
	h, p := pool.Allocate()
	p.scope, p.h, p.pool = sc, h, pool
	p.states = poolOf[sumState](&a.states[KindSum], a.pagesize)
	p.lo, p.hi = c.lo, c.hi
	p.minRem, p.maxRem = p.remainingRange(doms)
	h, s := p.states.Allocate()
	s.h, s.p = h, p
	return s, p, nil
}

// remainingRange returns the tables of the smallest and largest sums of the
// values that can be taken from each layer to the end of the diagram.
func (sc *scope) remainingRange(doms Domains) ([]int64, []int64) {
	lo := make([]int64, len(doms)+1)
	hi := make([]int64, len(doms)+1)
	for i := len(doms) - 1; i >= 0; i-- {
		lo[i], hi[i] = lo[i+1], hi[i+1]
		if !sc.vars[i] || len(doms[i]) == 0 {
			continue
		}
		vs := sc.domainValues(doms[i])
		lo[i] += int64(vs[0])
		hi[i] += int64(vs[len(vs)-1])
	}
	return lo, hi
}

func (s *sumState) next(label, layer int) int64 {
	if !s.p.IsVariable(layer) {
		return s.sum
	}
	return s.sum + int64(s.p.Value(label))
}

func (s *sumState) Valid(label, layer, size int) bool {
	v := s.next(label, layer)
	return v+s.p.minRem[layer+1] <= s.p.hi && v+s.p.maxRem[layer+1] >= s.p.lo
}

func (s *sumState) Next(label, layer, size int) State {
	h, res := s.p.states.Allocate()
	res.h, res.p = h, s.p
	res.sum = s.next(label, layer)
	return res
}

func (s *sumState) Signature(label, layer, size int) Key {
	v := s.next(label, layer)
	if v+s.p.minRem[layer+1] >= s.p.lo && v+s.p.maxRem[layer+1] <= s.p.hi {
		// every completion is a solution
		return ""
	}
	var b KeyBuilder
	return b.Int(v).Key()
}

func (s *sumState) Merge(parent State, label, layer, size int) State { return nil }

func (s *sumState) Free() { s.p.states.Free(s.h) }
