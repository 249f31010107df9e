// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "math"

// Product returns the constraint that the product of the values of the layers
// in scope is in the interval [lo, hi]. Intermediate products saturate at the
// bounds of int64.
func Product(lo, hi int, opts ...Option) Constraint {
	return &product{lo: int64(lo), hi: int64(hi), opts: makeoptions(opts)}
}

type product struct {
	lo, hi int64
	opts   options
}

func (c *product) Kind() Kind { return KindProduct }

type productParams struct {
	scope
	h      Handle
	pool   *Pool[productParams]
	states *Pool[productState]
	lo, hi int64
	rem    [][2]int64 // rem[i]: interval hull of the products of the layers from i
}

func (p *productParams) Kind() Kind { return KindProduct }

func (p *productParams) Free() { p.pool.Free(p.h) }

type productState struct {
	h    Handle
	p    *productParams
	prod int64
}

func (c *product) Start(a *Arena, doms Domains) (State, Parameters, error) {
	if c.lo > c.hi {
		return nil, nil, a.errorf(ErrConstraint, "product bounds [%d, %d]", c.lo, c.hi)
	}
	sc, err := a.makescope(c.opts, doms)
	if err != nil {
		return nil, nil, err
	}
	pool := poolOf[productParams](&a.params[KindProduct], a.pagesize)
	h, p := pool.Allocate()
	p.scope, p.h, p.pool = sc, h, pool
	p.states = poolOf[productState](&a.states[KindProduct], a.pagesize)
	p.lo, p.hi = c.lo, c.hi
	p.rem = make([][2]int64, len(doms)+1)
	p.rem[len(doms)] = [2]int64{1, 1}
	for i := len(doms) - 1; i >= 0; i-- {
		p.rem[i] = p.rem[i+1]
		if !p.vars[i] || len(doms[i]) == 0 {
			continue
		}
		vs := p.domainValues(doms[i])
		p.rem[i] = mulInterval([2]int64{int64(vs[0]), int64(vs[len(vs)-1])}, p.rem[i+1])
	}
	h, s := p.states.Allocate()
	s.h, s.p, s.prod = h, p, 1
	return s, p, nil
}

// satMul returns x*y, saturated at the bounds of int64.
func satMul(x, y int64) int64 {
	if x == 0 || y == 0 {
		return 0
	}
	res := x * y
	if res/y == x && !(x == -1 && y == math.MinInt64) && !(y == -1 && x == math.MinInt64) {
		return res
	}
	if (x > 0) == (y > 0) {
		return math.MaxInt64
	}
	return math.MinInt64
}

// mulInterval returns the interval hull of the products of elements of x and
// y.
func mulInterval(x, y [2]int64) [2]int64 {
	c := [4]int64{satMul(x[0], y[0]), satMul(x[0], y[1]), satMul(x[1], y[0]), satMul(x[1], y[1])}
	res := [2]int64{c[0], c[0]}
	for _, v := range c[1:] {
		res[0] = min(res[0], v)
		res[1] = max(res[1], v)
	}
	return res
}

func (s *productState) next(label, layer int) int64 {
	if !s.p.IsVariable(layer) {
		return s.prod
	}
	return satMul(s.prod, int64(s.p.Value(label)))
}

// reach returns the interval of the products reachable from v at layer.
func (s *productState) reach(v int64, layer int) [2]int64 {
	return mulInterval([2]int64{v, v}, s.p.rem[layer])
}

func (s *productState) Valid(label, layer, size int) bool {
	r := s.reach(s.next(label, layer), layer+1)
	return r[0] <= s.p.hi && r[1] >= s.p.lo
}

func (s *productState) Next(label, layer, size int) State {
	h, res := s.p.states.Allocate()
	res.h, res.p = h, s.p
	res.prod = s.next(label, layer)
	return res
}

func (s *productState) Signature(label, layer, size int) Key {
	v := s.next(label, layer)
	if r := s.reach(v, layer+1); r[0] >= s.p.lo && r[1] <= s.p.hi {
		return ""
	}
	var b KeyBuilder
	return b.Int(v).Key()
}

func (s *productState) Merge(parent State, label, layer, size int) State { return nil }

func (s *productState) Free() { s.p.states.Free(s.h) }
