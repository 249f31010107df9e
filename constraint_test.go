// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naive returns the solutions of d accepted by c, obtained by running the
// states of c along every solution of d, without any sharing of states.
func naive(t *testing.T, d *MDD, c Constraint) map[string]bool {
	t.Helper()
	root, params, err := c.Start(d.Arena(), d.Domains())
	require.NoError(t, err)
	defer params.Free()
	defer root.Free()
	res := make(map[string]bool)
	size := d.Size()
	err = d.Solutions(func(sol []int) error {
		var created []State
		defer func() {
			for _, s := range created {
				s.Free()
			}
		}()
		cur := root
		for i, l := range sol {
			if !cur.Valid(l, i, size) {
				return nil
			}
			cur = cur.Next(l, i, size)
			created = append(created, cur)
		}
		res[fmt.Sprint(sol)] = true
		return nil
	})
	require.NoError(t, err)
	return res
}

// restrict returns the elements of lang accepted by pred.
func restrict(t *testing.T, d *MDD, pred func([]int) bool) map[string]bool {
	t.Helper()
	res := make(map[string]bool)
	require.NoError(t, d.Solutions(func(sol []int) error {
		if pred(sol) {
			res[fmt.Sprint(sol)] = true
		}
		return nil
	}))
	return res
}

func countIn(sol []int, set map[int]bool) int {
	res := 0
	for _, v := range sol {
		if set[v] {
			res++
		}
	}
	return res
}

// noConsecutiveOnes accepts the words over {1, 2} without two consecutive 1.
var noConsecutiveOnes = DFA{
	States: 2,
	Start:  1,
	Accept: []int{1, 2},
	Delta: [][]int{
		{0, 2, 1},
		{0, 0, 1},
	},
}

type testedConstraint struct {
	name string
	c    Constraint
	pred func([]int) bool
}

func testedConstraints() []testedConstraint {
	return []testedConstraint{
		{"alldiff", AllDifferent([]int{0, 1, 2}), func(s []int) bool {
			seen := map[int]bool{}
			for _, v := range s {
				if v <= 2 && seen[v] {
					return false
				}
				seen[v] = true
			}
			return true
		}},
		{"sum", Sum(4, 6), func(s []int) bool {
			sum := 0
			for _, v := range s {
				sum += v
			}
			return sum >= 4 && sum <= 6
		}},
		{"product", Product(2, 12), func(s []int) bool {
			p := 1
			for _, v := range s {
				p *= v
			}
			return p >= 2 && p <= 12
		}},
		{"gcc", GlobalCardinality(map[int][2]int{0: {1, 2}, 3: {0, 1}}), func(s []int) bool {
			c0, c3 := 0, 0
			for _, v := range s {
				switch v {
				case 0:
					c0++
				case 3:
					c3++
				}
			}
			return c0 >= 1 && c0 <= 2 && c3 <= 1
		}},
		{"among", Among([]int{1, 3}, 1, 2), func(s []int) bool {
			c := countIn(s, map[int]bool{1: true, 3: true})
			return c >= 1 && c <= 2
		}},
		{"sequence", Sequence([]int{0}, 2, 0, 1), func(s []int) bool {
			for i := 0; i+1 < len(s); i++ {
				if s[i] == 0 && s[i+1] == 0 {
					return false
				}
			}
			return true
		}},
		{"regular", Regular(noConsecutiveOnes), func(s []int) bool {
			for i, v := range s {
				if v != 1 && v != 2 {
					return false
				}
				if i > 0 && v == 1 && s[i-1] == 1 {
					return false
				}
			}
			return true
		}},
		{"scoped sum", Sum(1, 2, Scope(0, 2)), func(s []int) bool {
			sum := s[0] + s[2]
			return sum >= 1 && sum <= 2
		}},
		{"mapped among", Among([]int{10}, 2, 2, Values(map[int]int{1: 10, 2: 10})), func(s []int) bool {
			return countIn(s, map[int]bool{1: true, 2: true}) == 2
		}},
	}
}

// TestSignatureSoundness compares the intersection with deduplicated states,
// the naive simulation of the states along each solution, and a direct check
// of the constraint.
func TestSignatureSoundness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 15; round++ {
		a := NewArena()
		doms := randomDomains(rng, 4+rng.Intn(2), 4)
		d, _ := randomMDD(t, rng, a, doms, 0.7)
		for _, tc := range testedConstraints() {
			res, err := Intersect(d, tc.c)
			require.NoError(t, err, tc.name)
			expected := restrict(t, d, tc.pred)
			assert.Equal(t, keys(expected), keys(language(t, res)), "round %d, %s", round, tc.name)
			assert.Equal(t, keys(expected), keys(naive(t, d, tc.c)), "round %d, naive %s", round, tc.name)
			checkReduced(t, res)
			ok, err := Included(res, d)
			require.NoError(t, err)
			assert.True(t, ok)
		}
		for k, ps := range a.Snapshot().States {
			assert.Zero(t, ps.Live, "states of kind %s are leaked", k)
		}
	}
}

func TestAllDifferentPermutations(t *testing.T) {
	a := NewArena()
	d, err := Universal(a, Domains{{0, 1, 2}, {0, 1, 2}, {0, 1, 2}})
	require.NoError(t, err)
	res, err := Intersect(d, AllDifferent([]int{0, 1, 2}))
	require.NoError(t, err)
	assert.Equal(t, []string{"[0 1 2]", "[0 2 1]", "[1 0 2]", "[1 2 0]", "[2 0 1]", "[2 1 0]"}, keys(language(t, res)))
	checkReduced(t, res)
}

func TestSumScenario(t *testing.T) {
	a := NewArena()
	d, err := Universal(a, Domains{{1, 2}, {1, 2}})
	require.NoError(t, err)
	res, err := Intersect(d, Sum(3, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"[1 2]", "[2 1]"}, keys(language(t, res)))
}

func TestUnsatisfiable(t *testing.T) {
	a := NewArena()
	d, err := Universal(a, Domains{{1, 2}, {1, 2}, {1, 2}})
	require.NoError(t, err)
	res, err := Intersect(d, Sum(100, 100))
	require.NoError(t, err, "an unsatisfiable constraint is not an error")
	assert.True(t, res.IsEmpty())
	assert.Empty(t, res.Layer(1))
	assert.Equal(t, 0, res.Count().Sign())
	checkReduced(t, res)
}

// TestComposition checks that the single pass over composed states gives the
// same diagram as the intersection with each constraint in turn.
func TestComposition(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	tcs := testedConstraints()
	for round := 0; round < 10; round++ {
		a := NewArena()
		doms := randomDomains(rng, 5, 4)
		d, _ := randomMDD(t, rng, a, doms, 0.8)
		// two or three random constraints
		n := 2 + rng.Intn(2)
		var cs []Constraint
		var preds []func([]int) bool
		var names []string
		for _, k := range rng.Perm(len(tcs))[:n] {
			cs = append(cs, tcs[k].c)
			preds = append(preds, tcs[k].pred)
			names = append(names, tcs[k].name)
		}
		seq, err := IntersectAll(d, cs...)
		require.NoError(t, err)
		comp, err := IntersectComposed(d, cs...)
		require.NoError(t, err)
		expected := restrict(t, d, func(s []int) bool {
			for _, p := range preds {
				if !p(s) {
					return false
				}
			}
			return true
		})
		assert.Equal(t, keys(expected), keys(language(t, comp)), "round %d, %v", round, names)
		assert.True(t, Isomorphic(seq, comp), "round %d, %v", round, names)
		assert.Equal(t, keys(expected), keys(naive(t, d, Compose(cs...))))
	}
}

// TestRelaxation checks that the relaxed sum accepts at least the solutions of
// the exact sum, without adding nodes.
func TestRelaxation(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for round := 0; round < 10; round++ {
		a := NewArena()
		doms := randomDomains(rng, 5, 4)
		d, _ := randomMDD(t, rng, a, doms, 0.6)
		exact, err := Intersect(d, Sum(5, 7))
		require.NoError(t, err)
		relaxed, err := Intersect(d, IntervalSum(5, 7))
		require.NoError(t, err)
		ok, err := Included(exact, relaxed)
		require.NoError(t, err)
		assert.True(t, ok, "round %d", round)
		ok, err = Included(relaxed, d)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.LessOrEqual(t, relaxed.NodeCount(), d.NodeCount())

		// a relaxed constraint composed with the exact one is exact
		both, err := IntersectComposed(d, Sum(5, 7), IntervalSum(5, 7))
		require.NoError(t, err)
		assert.Equal(t, language(t, exact), language(t, both))
	}
}

func TestRelaxationMerge(t *testing.T) {
	a := NewArena()
	// every path reaches the same node of layer 2 with partial sums 0, 2 or 4
	d, err := Universal(a, Domains{{0, 2}, {0, 2}, {0, 5}})
	require.NoError(t, err)
	relaxed, err := Intersect(d, IntervalSum(5, 5))
	require.NoError(t, err)
	exact, err := Intersect(d, Sum(5, 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"[0 0 5]"}, keys(language(t, exact)))
	// the interval [0, 4] cannot distinguish the paths
	assert.Equal(t, []string{"[0 0 5]", "[0 2 5]", "[2 0 5]", "[2 2 5]"}, keys(language(t, relaxed)))
}

func TestConstraintErrors(t *testing.T) {
	a := NewArena()
	d, err := Universal(a, Domains{{1, 2}, {1, 2}})
	require.NoError(t, err)
	var errorTests = []struct {
		name string
		c    Constraint
	}{
		{"sum bounds", Sum(5, 1)},
		{"product bounds", Product(5, 1)},
		{"among bounds", Among([]int{1}, 3, 1)},
		{"gcc bounds", GlobalCardinality(map[int][2]int{1: {2, 1}})},
		{"sequence window", Sequence([]int{1}, 0, 0, 1)},
		{"scope", Sum(0, 10, Scope(5))},
		{"regular start", Regular(DFA{States: 1, Start: 2, Accept: []int{1}, Delta: [][]int{{0, 1}}})},
		{"regular rows", Regular(DFA{States: 2, Start: 1, Accept: []int{1}, Delta: [][]int{{0, 1}}})},
		{"regular delta", Regular(DFA{States: 1, Start: 1, Accept: []int{1}, Delta: [][]int{{0, 3}}})},
		{"composed", Compose(Sum(0, 10), Sum(5, 1))},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Intersect(d, tt.c)
			assert.ErrorIs(t, err, ErrConstraint)
		})
	}
	for k, ps := range a.Snapshot().Params {
		assert.Zero(t, ps.Live, "parameters of kind %s are leaked", k)
	}

	nd := New(a, 2, Nondeterministic())
	_, err = Intersect(nd, Sum(0, 1))
	assert.ErrorIs(t, err, ErrNondeterministic)
}
