// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "sort"

// Kind identifies a family of constraints. Each kind pairs one type of
// parameters with one type of automaton state, and has its own pools in an
// Arena.
type Kind int

const (
	KindAllDifferent Kind = iota // all-different over a set of values
	KindSum                      // bounded sum
	KindProduct                  // bounded product
	KindGCC                      // global cardinality
	KindAmong                    // bounded number of values in a set
	KindSequence                 // among on every window of consecutive variables
	KindRegular                  // word accepted by a DFA
	KindIntervalSum              // relaxed sum, merging states as intervals
	KindComposed                 // conjunction of several constraints
	kindCount
)

var kindnames = [kindCount]string{
	KindAllDifferent: "alldiff",
	KindSum:          "sum",
	KindProduct:      "product",
	KindGCC:          "gcc",
	KindAmong:        "among",
	KindSequence:     "sequence",
	KindRegular:      "regular",
	KindIntervalSum:  "intervalsum",
	KindComposed:     "composed",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindnames[k]
}

// State is a per-path summary of a constraint, sufficient to decide whether a
// label can be taken at a given layer. The layer is the depth of the node that
// holds the state, so that the label is the value of the arc going from layer
// to layer+1; size is the number of layers of the diagram.
//
// States are immutable once created: Next always returns a new state. The only
// exception is Merge, used by relaxations.
type State interface {
	// Next returns the successor state for taking label at this layer.
	Next(label, layer, size int) State
	// Valid reports whether label is admissible at this layer. It includes a
	// feasibility lookahead over the remaining layers.
	Valid(label, layer, size int) bool
	// Signature returns the equivalence key of the state that Next would
	// return. Two states with equal signatures must accept the same suffixes.
	Signature(label, layer, size int) Key
	// Merge updates the state so that it also accounts for the path going
	// through parent and label. It returns nil if the merge is done in place,
	// or a new state that replaces the receiver. Exact states do nothing.
	Merge(parent State, label, layer, size int) State
	// Free returns the state to its pool.
	Free()
}

// Parameters holds the immutable definition of a constraint during one
// application. It is shared, read-only, by every State derived from it and
// must outlive them.
type Parameters interface {
	// Kind returns the kind of constraint.
	Kind() Kind
	// IsVariable reports whether the arcs leaving layer are in the scope of
	// the constraint.
	IsVariable(layer int) bool
	// Value returns the value associated with a label.
	Value(label int) int
	// Free returns the parameters to their pool.
	Free()
}

// Constraint is the definition of a constraint, independent of any diagram.
// Start computes the parameters of the constraint for a diagram with the
// given domains and returns the state at the root.
type Constraint interface {
	Kind() Kind
	Start(a *Arena, domains Domains) (State, Parameters, error)
}

// Domains lists, for each layer of a diagram but the last, the sorted set of
// labels found on arcs leaving this layer.
type Domains [][]int

// Size returns the number of layers of the diagram the domains come from.
func (d Domains) Size() int {
	return len(d) + 1
}

// ************************************************************

// Option is a configuration function shared by all constraints.
type Option func(*options)

type options struct {
	scope  []int       // layers in the scope of the constraint; nil means all
	values map[int]int // label to value mapping; nil means identity
}

// Scope restricts a constraint to the arcs leaving the given layers.
func Scope(layers ...int) Option {
	return func(o *options) {
		o.scope = append([]int(nil), layers...)
	}
}

// Values sets the mapping from labels to the values used by a constraint.
// Labels absent from the map keep their own value.
func Values(m map[int]int) Option {
	return func(o *options) {
		o.values = m
	}
}

func makeoptions(opts []Option) options {
	var o options
	for _, f := range opts {
		f(&o)
	}
	return o
}

// scope is embedded in every kind of parameters.
type scope struct {
	vars   []bool      // vars[i] is true if layer i is in scope
	values map[int]int // label to value, nil for identity
	rest   []int       // rest[i] is the number of layers in scope in [i, size-1)
}

func (a *Arena) makescope(o options, doms Domains) (scope, error) {
	n := len(doms)
	s := scope{vars: make([]bool, n), values: o.values, rest: make([]int, n+1)}
	if o.scope == nil {
		for i := range s.vars {
			s.vars[i] = true
		}
	} else {
		for _, l := range o.scope {
			if l < 0 || l >= n {
				return s, a.errorf(ErrConstraint, "layer %d out of scope [0, %d)", l, n)
			}
			s.vars[l] = true
		}
	}
	for i := n - 1; i >= 0; i-- {
		s.rest[i] = s.rest[i+1]
		if s.vars[i] {
			s.rest[i]++
		}
	}
	return s, nil
}

// IsVariable reports whether layer is in the scope.
func (s *scope) IsVariable(layer int) bool {
	return layer >= 0 && layer < len(s.vars) && s.vars[layer]
}

// Value returns the value of label.
func (s *scope) Value(label int) int {
	if s.values == nil {
		return label
	}
	if v, ok := s.values[label]; ok {
		return v
	}
	return label
}

// remaining returns the number of layers in scope from layer (included) to the
// end of the diagram.
func (s *scope) remaining(layer int) int {
	if layer < 0 {
		layer = 0
	}
	if layer >= len(s.rest) {
		return 0
	}
	return s.rest[layer]
}

// domainValues returns the sorted, distinct values of the labels in dom.
func (s *scope) domainValues(dom []int) []int {
	res := make([]int, 0, len(dom))
	for _, l := range dom {
		res = append(res, s.Value(l))
	}
	sort.Ints(res)
	k := 0
	for i, v := range res {
		if i == 0 || v != res[k-1] {
			res[k] = v
			k++
		}
	}
	return res[:k]
}
