// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "sort"

// GlobalCardinality returns the constraint that, for every value v in bounds,
// the number of layers in scope taking value v is in the interval
// [bounds[v][0], bounds[v][1]]. Other values are not restricted.
func GlobalCardinality(bounds map[int][2]int, opts ...Option) Constraint {
	c := &gcc{opts: makeoptions(opts)}
	for v := range bounds {
		c.values = append(c.values, v)
	}
	sort.Ints(c.values)
	for _, v := range c.values {
		c.bounds = append(c.bounds, bounds[v])
	}
	return c
}

type gcc struct {
	values []int
	bounds [][2]int
	opts   options
}

func (c *gcc) Kind() Kind { return KindGCC }

type gccParams struct {
	scope
	h      Handle
	pool   *Pool[gccParams]
	states *Pool[gccState]
	index  map[int]int // position of each constrained value
	bounds [][2]int
}

func (p *gccParams) Kind() Kind { return KindGCC }

func (p *gccParams) Free() { p.pool.Free(p.h) }

type gccState struct {
	h      Handle
	p      *gccParams
	counts []int
}

func (c *gcc) Start(a *Arena, doms Domains) (State, Parameters, error) {
	for k, b := range c.bounds {
		if b[0] < 0 || b[0] > b[1] {
			return nil, nil, a.errorf(ErrConstraint, "gcc bounds [%d, %d] for value %d", b[0], b[1], c.values[k])
		}
	}
	sc, err := a.makescope(c.opts, doms)
	if err != nil {
		return nil, nil, err
	}
	pool := poolOf[gccParams](&a.params[KindGCC], a.pagesize)
	h, p := pool.Allocate()
	p.scope, p.h, p.pool = sc, h, pool
	p.states = poolOf[gccState](&a.states[KindGCC], a.pagesize)
	p.bounds = c.bounds
	p.index = make(map[int]int, len(c.values))
	for k, v := range c.values {
		p.index[v] = k
	}
	h, s := p.states.Allocate()
	s.h, s.p, s.counts = h, p, make([]int, len(c.values))
	return s, p, nil
}

// slot returns the position of the value of label taken at layer, or -1 if
// it is not counted.
func (s *gccState) slot(label, layer int) int {
	if !s.p.IsVariable(layer) {
		return -1
	}
	if k, ok := s.p.index[s.p.Value(label)]; ok {
		return k
	}
	return -1
}

func (s *gccState) Valid(label, layer, size int) bool {
	k := s.slot(label, layer)
	if k >= 0 && s.counts[k]+1 > s.p.bounds[k][1] {
		return false
	}
	// the values below their lower bound need enough layers to be completed
	deficit := 0
	for i, c := range s.counts {
		if i == k {
			c++
		}
		if c < s.p.bounds[i][0] {
			deficit += s.p.bounds[i][0] - c
		}
	}
	return deficit <= s.p.remaining(layer+1)
}

func (s *gccState) Next(label, layer, size int) State {
	h, res := s.p.states.Allocate()
	res.h, res.p = h, s.p
	res.counts = append([]int(nil), s.counts...)
	if k := s.slot(label, layer); k >= 0 {
		res.counts[k]++
	}
	return res
}

func (s *gccState) Signature(label, layer, size int) Key {
	if s.p.remaining(layer+1) == 0 {
		return ""
	}
	k := s.slot(label, layer)
	var b KeyBuilder
	for i, c := range s.counts {
		if i == k {
			c++
		}
		b.Int(int64(c))
	}
	return b.Key()
}

func (s *gccState) Merge(parent State, label, layer, size int) State { return nil }

func (s *gccState) Free() { s.p.states.Free(s.h) }
