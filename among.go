// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Among returns the constraint that the number of layers in scope taking a
// value in values is in the interval [lo, hi].
func Among(values []int, lo, hi int, opts ...Option) Constraint {
	return &among{set: makeset(values), lo: lo, hi: hi, opts: makeoptions(opts)}
}

type among struct {
	set    map[int]bool
	lo, hi int
	opts   options
}

func (c *among) Kind() Kind { return KindAmong }

func makeset(values []int) map[int]bool {
	res := make(map[int]bool, len(values))
	for _, v := range values {
		res[v] = true
	}
	return res
}

type amongParams struct {
	scope
	h      Handle
	pool   *Pool[amongParams]
	states *Pool[amongState]
	set    map[int]bool
	lo, hi int
	minRem []int // minRem[i]: layers from i that must take a value in the set
	maxRem []int // maxRem[i]: layers from i that can take a value in the set
}

func (p *amongParams) Kind() Kind { return KindAmong }

func (p *amongParams) Free() { p.pool.Free(p.h) }

type amongState struct {
	h     Handle
	p     *amongParams
	count int
}

func (c *among) Start(a *Arena, doms Domains) (State, Parameters, error) {
	if c.lo < 0 || c.lo > c.hi {
		return nil, nil, a.errorf(ErrConstraint, "among bounds [%d, %d]", c.lo, c.hi)
	}
	sc, err := a.makescope(c.opts, doms)
	if err != nil {
		return nil, nil, err
	}
	pool := poolOf[amongParams](&a.params[KindAmong], a.pagesize)
	h, p := pool.Allocate()
	p.scope, p.h, p.pool = sc, h, pool
	p.states = poolOf[amongState](&a.states[KindAmong], a.pagesize)
	p.set, p.lo, p.hi = c.set, c.lo, c.hi
	p.minRem, p.maxRem = p.countRange(doms, c.set)
	h, s := p.states.Allocate()
	s.h, s.p = h, p
	return s, p, nil
}

// countRange returns, for each layer, the smallest and largest number of
// layers from this one that can take a value in set.
func (sc *scope) countRange(doms Domains, set map[int]bool) ([]int, []int) {
	lo := make([]int, len(doms)+1)
	hi := make([]int, len(doms)+1)
	for i := len(doms) - 1; i >= 0; i-- {
		lo[i], hi[i] = lo[i+1], hi[i+1]
		if !sc.vars[i] || len(doms[i]) == 0 {
			continue
		}
		in, out := 0, 0
		for _, v := range sc.domainValues(doms[i]) {
			if set[v] {
				in++
			} else {
				out++
			}
		}
		if out == 0 {
			lo[i]++
		}
		if in > 0 {
			hi[i]++
		}
	}
	return lo, hi
}

func (s *amongState) next(label, layer int) int {
	if s.p.IsVariable(layer) && s.p.set[s.p.Value(label)] {
		return s.count + 1
	}
	return s.count
}

func (s *amongState) Valid(label, layer, size int) bool {
	c := s.next(label, layer)
	return c+s.p.minRem[layer+1] <= s.p.hi && c+s.p.maxRem[layer+1] >= s.p.lo
}

func (s *amongState) Next(label, layer, size int) State {
	h, res := s.p.states.Allocate()
	res.h, res.p = h, s.p
	res.count = s.next(label, layer)
	return res
}

func (s *amongState) Signature(label, layer, size int) Key {
	c := s.next(label, layer)
	if c+s.p.minRem[layer+1] >= s.p.lo && c+s.p.maxRem[layer+1] <= s.p.hi {
		return ""
	}
	var b KeyBuilder
	return b.Int(int64(c)).Key()
}

func (s *amongState) Merge(parent State, label, layer, size int) State { return nil }

func (s *amongState) Free() { s.p.states.Free(s.h) }
