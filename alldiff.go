// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// AllDifferent returns the constraint that the values of the layers in scope
// are pairwise distinct, when they belong to values. Values outside of the
// set can be repeated.
func AllDifferent(values []int, opts ...Option) Constraint {
	return &allDifferent{values: append([]int(nil), values...), opts: makeoptions(opts)}
}

type allDifferent struct {
	values []int
	opts   options
}

func (c *allDifferent) Kind() Kind { return KindAllDifferent }

type alldiffParams struct {
	scope
	h      Handle
	pool   *Pool[alldiffParams]
	states *Pool[alldiffState]
	index  map[int]int // position of each value in the bitset
	forced []int       // forced[i]: layers in scope from i whose domain is included in the values
}

func (p *alldiffParams) Kind() Kind { return KindAllDifferent }

func (p *alldiffParams) Free() { p.pool.Free(p.h) }

type alldiffState struct {
	h    Handle
	p    *alldiffParams
	used []uint64 // values already taken
	n    int      // number of bits set in used
}

func (c *allDifferent) Start(a *Arena, doms Domains) (State, Parameters, error) {
	sc, err := a.makescope(c.opts, doms)
	if err != nil {
		return nil, nil, err
	}
	pool := poolOf[alldiffParams](&a.params[KindAllDifferent], a.pagesize)
	h, p := pool.Allocate()
	p.scope, p.h, p.pool = sc, h, pool
	p.states = poolOf[alldiffState](&a.states[KindAllDifferent], a.pagesize)
	p.index = make(map[int]int, len(c.values))
	for _, v := range c.values {
		if _, ok := p.index[v]; !ok {
			p.index[v] = len(p.index)
		}
	}
	p.forced = make([]int, len(doms)+1)
	for i := len(doms) - 1; i >= 0; i-- {
		p.forced[i] = p.forced[i+1]
		if !p.vars[i] || len(doms[i]) == 0 {
			continue
		}
		included := true
		for _, v := range p.domainValues(doms[i]) {
			if _, ok := p.index[v]; !ok {
				included = false
				break
			}
		}
		if included {
			p.forced[i]++
		}
	}
	root := p.newState()
	root.used = make([]uint64, (len(p.index)+63)/64)
	return root, p, nil
}

func (p *alldiffParams) newState() *alldiffState {
	h, s := p.states.Allocate()
	s.h, s.p = h, p
	return s
}

func (s *alldiffState) Free() { s.p.states.Free(s.h) }

// bit returns the position of the value of label in the bitset, or -1 if the
// value is not constrained.
func (s *alldiffState) bit(label int) int {
	if k, ok := s.p.index[s.p.Value(label)]; ok {
		return k
	}
	return -1
}

func (s *alldiffState) isUsed(k int) bool {
	return s.used[k/64]&(1<<(k%64)) != 0
}

func (s *alldiffState) Valid(label, layer, size int) bool {
	if !s.p.IsVariable(layer) {
		return true
	}
	n := s.n
	if k := s.bit(label); k >= 0 {
		if s.isUsed(k) {
			return false
		}
		n++
	}
	// every remaining layer whose domain is within the values takes a new one
	return s.p.forced[layer+1] <= len(s.p.index)-n
}

func (s *alldiffState) Next(label, layer, size int) State {
	res := s.p.newState()
	res.used = append([]uint64(nil), s.used...)
	res.n = s.n
	if !s.p.IsVariable(layer) {
		return res
	}
	if k := s.bit(label); k >= 0 {
		res.used[k/64] |= 1 << (k % 64)
		res.n++
	}
	return res
}

func (s *alldiffState) Signature(label, layer, size int) Key {
	if s.p.remaining(layer+1) == 0 {
		return ""
	}
	k := -1
	if s.p.IsVariable(layer) {
		k = s.bit(label)
	}
	var b KeyBuilder
	for i, w := range s.used {
		if k >= 0 && i == k/64 {
			w |= 1 << (k % 64)
		}
		b.Int(int64(w))
	}
	return b.Key()
}

func (s *alldiffState) Merge(parent State, label, layer, size int) State { return nil }
