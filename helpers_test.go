// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// language returns the set of solutions of d, each solution printed as a
// string.
func language(t *testing.T, d *MDD) map[string]bool {
	t.Helper()
	res := make(map[string]bool)
	err := d.Solutions(func(sol []int) error {
		res[fmt.Sprint(sol)] = true
		return nil
	})
	require.NoError(t, err)
	return res
}

// sequences returns every sequence of labels over doms.
func sequences(doms Domains) [][]int {
	res := [][]int{{}}
	for _, dom := range doms {
		var next [][]int
		for _, s := range res {
			for _, l := range dom {
				next = append(next, append(append([]int(nil), s...), l))
			}
		}
		res = next
	}
	return res
}

// randomDomains returns size-1 non-empty random subsets of [0, labels).
func randomDomains(rng *rand.Rand, size, labels int) Domains {
	doms := make(Domains, size-1)
	for i := range doms {
		for l := 0; l < labels; l++ {
			if rng.Intn(3) > 0 {
				doms[i] = append(doms[i], l)
			}
		}
		if len(doms[i]) == 0 {
			doms[i] = []int{rng.Intn(labels)}
		}
	}
	return doms
}

// randomMDD returns a reduced diagram accepting a random subset of the
// sequences over doms, together with the set of its solutions.
func randomMDD(t *testing.T, rng *rand.Rand, a *Arena, doms Domains, density float64) (*MDD, map[string]bool) {
	t.Helper()
	var sols [][]int
	lang := make(map[string]bool)
	for _, s := range sequences(doms) {
		if rng.Float64() < density {
			sols = append(sols, s)
			lang[fmt.Sprint(s)] = true
		}
	}
	d, err := FromSolutions(a, doms.Size(), sols)
	require.NoError(t, err)
	return d, lang
}

// filter returns the sequences over doms accepted by pred.
func filter(doms Domains, pred func([]int) bool) map[string]bool {
	res := make(map[string]bool)
	for _, s := range sequences(doms) {
		if pred(s) {
			res[fmt.Sprint(s)] = true
		}
	}
	return res
}

func keys(m map[string]bool) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// checkReduced verifies the structural invariants of a reduced diagram.
func checkReduced(t *testing.T, d *MDD) {
	t.Helper()
	a := d.Arena()
	last := d.Size() - 1
	require.LessOrEqual(t, len(d.Layer(0)), 1, "at most one root")
	if d.IsEmpty() {
		for i := 1; i <= last; i++ {
			require.Empty(t, d.Layer(i), "empty diagram has nodes in layer %d", i)
		}
		return
	}
	require.Len(t, d.Layer(last), 1, "one terminal")
	for i := 0; i <= last; i++ {
		seen := make(map[string]NodeID)
		for k, n := range d.Layer(i) {
			require.True(t, a.valid(n))
			require.Equal(t, k, d.Index(n))
			require.Equal(t, i, d.Depth(n))
			if i < last {
				require.NotEmpty(t, d.Arcs(n), "dead node %s in layer %d", n, i)
			}
			if i > 0 {
				require.NotEmpty(t, d.Parents(n), "orphan node %s in layer %d", n, i)
			}
			key := fmt.Sprint(d.Arcs(n))
			if m, ok := seen[key]; ok {
				t.Fatalf("nodes %s and %s are equivalent in layer %d", m, n, i)
			}
			seen[key] = n
		}
	}
}
