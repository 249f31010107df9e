// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// pack is a group of nodes of one layer whose first pos arcs are identical.
type pack struct {
	nodes []NodeID
	pos   int
}

// refine merges the equivalent nodes of layer i by partition refinement,
// assuming that the layers below are already reduced, so that two children
// are equivalent only if they are the same node. We start with a single pack
// holding the whole layer and split packs on the arc found at their current
// position. Nodes that run out of arcs at the same position are equivalent.
func (d *MDD) refine(i int) int {
	a := d.arena
	res := 0
	queue := []pack{{nodes: append([]NodeID(nil), d.layers[i]...)}}
	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if len(p.nodes) < 2 {
			continue
		}
		var ended []NodeID
		var order []Arc
		groups := make(map[Arc][]NodeID)
		for _, n := range p.nodes {
			out := a.at(n).out
			if p.pos >= len(out) {
				ended = append(ended, n)
				continue
			}
			arc := out[p.pos]
			if _, ok := groups[arc]; !ok {
				order = append(order, arc)
			}
			groups[arc] = append(groups[arc], n)
		}
		res += d.mergeInto(ended)
		for _, arc := range order {
			if g := groups[arc]; len(g) > 1 {
				queue = append(queue, pack{nodes: g, pos: p.pos + 1})
			}
		}
	}
	return res
}
