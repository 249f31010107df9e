// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// DFA is a deterministic finite automaton over positive symbols. States are
// numbered 1..States and state 0 stands for "no transition". Delta[s-1][v] is
// the state reached from s with symbol v, for v in 1..len(Delta[s-1])-1; the
// entry at index 0 of each row is unused.
type DFA struct {
	States int
	Start  int
	Accept []int
	Delta  [][]int
}

// Regular returns the constraint that the sequence of values of the layers in
// scope is a word accepted by dfa. Values outside the alphabet of dfa have no
// transition.
func Regular(dfa DFA, opts ...Option) Constraint {
	return &regular{dfa: dfa, opts: makeoptions(opts)}
}

type regular struct {
	dfa  DFA
	opts options
}

func (c *regular) Kind() Kind { return KindRegular }

type regularParams struct {
	scope
	h      Handle
	pool   *Pool[regularParams]
	states *Pool[regularState]
	delta  [][]int
	live   [][]bool // live[i][s]: from state s before layer i, an accepting state is reachable
}

func (p *regularParams) Kind() Kind { return KindRegular }

func (p *regularParams) Free() { p.pool.Free(p.h) }

type regularState struct {
	h Handle
	p *regularParams
	q int
}

// validate checks dfa with the same rules as the constraint solvers: states
// in range, rows of equal width, transitions in [0, States].
func (dfa DFA) validate(a *Arena) error {
	if dfa.States < 1 {
		return a.errorf(ErrConstraint, "regular: number of states must be >= 1")
	}
	if dfa.Start < 1 || dfa.Start > dfa.States {
		return a.errorf(ErrConstraint, "regular: start state %d out of range [1..%d]", dfa.Start, dfa.States)
	}
	if len(dfa.Accept) == 0 {
		return a.errorf(ErrConstraint, "regular: no accepting state")
	}
	for _, s := range dfa.Accept {
		if s < 1 || s > dfa.States {
			return a.errorf(ErrConstraint, "regular: accept state %d out of range [1..%d]", s, dfa.States)
		}
	}
	if len(dfa.Delta) != dfa.States {
		return a.errorf(ErrConstraint, "regular: delta must have %d rows, got %d", dfa.States, len(dfa.Delta))
	}
	width := len(dfa.Delta[0])
	for s, row := range dfa.Delta {
		if len(row) == 0 || len(row) != width {
			return a.errorf(ErrConstraint, "regular: delta rows must have equal length; row %d has %d, expected %d", s+1, len(row), width)
		}
		for v := 1; v < len(row); v++ {
			if row[v] < 0 || row[v] > dfa.States {
				return a.errorf(ErrConstraint, "regular: delta[%d][%d]=%d out of range [0..%d]", s+1, v, row[v], dfa.States)
			}
		}
	}
	return nil
}

func (c *regular) Start(a *Arena, doms Domains) (State, Parameters, error) {
	if err := c.dfa.validate(a); err != nil {
		return nil, nil, err
	}
	sc, err := a.makescope(c.opts, doms)
	if err != nil {
		return nil, nil, err
	}
	pool := poolOf[regularParams](&a.params[KindRegular], a.pagesize)
	h, p := pool.Allocate()
	p.scope, p.h, p.pool = sc, h, pool
	p.states = poolOf[regularState](&a.states[KindRegular], a.pagesize)
	p.delta = c.dfa.Delta
	// backward pass: states from which the remaining layers can reach an
	// accepting state
	n := len(doms)
	p.live = make([][]bool, n+1)
	p.live[n] = make([]bool, c.dfa.States+1)
	for _, s := range c.dfa.Accept {
		p.live[n][s] = true
	}
	for i := n - 1; i >= 0; i-- {
		if !p.vars[i] {
			p.live[i] = p.live[i+1]
			continue
		}
		p.live[i] = make([]bool, c.dfa.States+1)
		vs := p.domainValues(doms[i])
		for s := 1; s <= c.dfa.States; s++ {
			for _, v := range vs {
				if t := p.step(s, v); t != 0 && p.live[i+1][t] {
					p.live[i][s] = true
					break
				}
			}
		}
	}
	h, s := p.states.Allocate()
	s.h, s.p, s.q = h, p, c.dfa.Start
	return s, p, nil
}

// step returns the state reached from s with value v, or 0.
func (p *regularParams) step(s, v int) int {
	row := p.delta[s-1]
	if v < 1 || v >= len(row) {
		return 0
	}
	return row[v]
}

func (s *regularState) next(label, layer int) int {
	if !s.p.IsVariable(layer) {
		return s.q
	}
	return s.p.step(s.q, s.p.Value(label))
}

func (s *regularState) Valid(label, layer, size int) bool {
	t := s.next(label, layer)
	return t != 0 && s.p.live[layer+1][t]
}

func (s *regularState) Next(label, layer, size int) State {
	h, res := s.p.states.Allocate()
	res.h, res.p = h, s.p
	res.q = s.next(label, layer)
	return res
}

func (s *regularState) Signature(label, layer, size int) Key {
	if s.p.remaining(layer+1) == 0 {
		return ""
	}
	var b KeyBuilder
	return b.Int(int64(s.next(label, layer))).Key()
}

func (s *regularState) Merge(parent State, label, layer, size int) State { return nil }

func (s *regularState) Free() { s.p.states.Free(s.h) }
