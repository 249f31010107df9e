// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Compose returns the conjunction of the constraints in cs, checked in a single
// pass. A label is valid when it is valid for every constraint; two composed
// states are equivalent when all their components are, and the signature is
// empty only when the signature of every component is empty.
func Compose(cs ...Constraint) Constraint {
	return &composed{cs: append([]Constraint(nil), cs...)}
}

type composed struct {
	cs []Constraint
}

func (c *composed) Kind() Kind { return KindComposed }

type composedParams struct {
	h      Handle
	pool   *Pool[composedParams]
	states *Pool[composedState]
	parts  []Parameters
}

func (p *composedParams) Kind() Kind { return KindComposed }

// IsVariable reports whether layer is in the scope of one of the components.
func (p *composedParams) IsVariable(layer int) bool {
	for _, q := range p.parts {
		if q.IsVariable(layer) {
			return true
		}
	}
	return false
}

// Value is the identity; each component applies its own mapping.
func (p *composedParams) Value(label int) int { return label }

func (p *composedParams) Free() {
	for _, q := range p.parts {
		q.Free()
	}
	p.pool.Free(p.h)
}

type composedState struct {
	h     Handle
	p     *composedParams
	parts []State
}

func (c *composed) Start(a *Arena, doms Domains) (State, Parameters, error) {
	pool := poolOf[composedParams](&a.params[KindComposed], a.pagesize)
	h, p := pool.Allocate()
	p.h, p.pool = h, pool
	p.states = poolOf[composedState](&a.states[KindComposed], a.pagesize)
	parts := make([]State, 0, len(c.cs))
	for _, sub := range c.cs {
		st, q, err := sub.Start(a, doms)
		if err != nil {
			for _, s := range parts {
				s.Free()
			}
			p.Free()
			return nil, nil, err
		}
		parts = append(parts, st)
		p.parts = append(p.parts, q)
	}
	h, s := p.states.Allocate()
	s.h, s.p, s.parts = h, p, parts
	return s, p, nil
}

func (s *composedState) Valid(label, layer, size int) bool {
	for _, st := range s.parts {
		if !st.Valid(label, layer, size) {
			return false
		}
	}
	return true
}

func (s *composedState) Next(label, layer, size int) State {
	h, res := s.p.states.Allocate()
	res.h, res.p = h, s.p
	res.parts = make([]State, len(s.parts))
	for k, st := range s.parts {
		res.parts[k] = st.Next(label, layer, size)
	}
	return res
}

func (s *composedState) Signature(label, layer, size int) Key {
	var b KeyBuilder
	empty := true
	for _, st := range s.parts {
		k := st.Signature(label, layer, size)
		empty = empty && k.IsEmpty()
		b.Sub(k)
	}
	if empty {
		return ""
	}
	return b.Key()
}

// Merge forwards the merge to each component. Components that return a new
// state are replaced in place.
func (s *composedState) Merge(parent State, label, layer, size int) State {
	ps, ok := parent.(*composedState)
	if !ok {
		debugPanic("merge of %T into composed state", parent)
		return nil
	}
	for k, st := range s.parts {
		if ns := st.Merge(ps.parts[k], label, layer, size); ns != nil {
			st.Free()
			s.parts[k] = ns
		}
	}
	return nil
}

func (s *composedState) Free() {
	for _, st := range s.parts {
		st.Free()
	}
	s.p.states.Free(s.h)
}
