// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"errors"
	"io"
)

// Edge is an arc in the streamed form of a diagram: Child is the position of
// the child in the next layer.
type Edge struct {
	Label int
	Child int
}

// LayerWriter receives the layers of a diagram, from the root to the terminal.
// The k-th element of nodes lists the arcs of the k-th node of the layer.
type LayerWriter interface {
	WriteLayer(layer int, nodes [][]Edge) error
}

// LayerReader returns the layers of a diagram, in the format used by
// LayerWriter. ReadLayer returns io.EOF after the last layer.
type LayerReader interface {
	ReadLayer() ([][]Edge, error)
}

// Export streams d, one layer at a time, to w.
func (d *MDD) Export(w LayerWriter) error {
	for i, l := range d.layers {
		nodes := make([][]Edge, len(l))
		for k, n := range l {
			out := d.arena.at(n).out
			nodes[k] = make([]Edge, len(out))
			for j, a := range out {
				nodes[k][j] = Edge{Label: a.Label, Child: int(d.arena.at(a.Node).pos)}
			}
		}
		if err := w.WriteLayer(i, nodes); err != nil {
			return err
		}
	}
	return nil
}

// Import builds a diagram in arena a from the layers read from r. The nodes of
// a layer are created when the layer is read, and the arcs leaving them when
// the next layer is read.
func Import(a *Arena, r LayerReader, options ...func(*MDD)) (*MDD, error) {
	d := New(a, 1, options...)
	var prev []NodeID
	var pending [][]Edge
	for i := 0; ; i++ {
		nodes, err := r.ReadLayer()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			d.Free()
			return nil, err
		}
		if i > 0 {
			if err := d.SetSize(i + 1); err != nil {
				d.Free()
				return nil, err
			}
		}
		cur := make([]NodeID, len(nodes))
		for k := range nodes {
			if cur[k], err = d.AddNode(i); err != nil {
				d.Free()
				return nil, err
			}
		}
		for k, edges := range pending {
			for _, e := range edges {
				if e.Child < 0 || e.Child >= len(cur) {
					d.Free()
					return nil, a.errorf(ErrStream, "layer %d: child %d out of range [0, %d)", i-1, e.Child, len(cur))
				}
				if err := d.AddArc(prev[k], e.Label, cur[e.Child]); err != nil {
					d.Free()
					return nil, err
				}
			}
		}
		prev, pending = cur, nodes
	}
	for _, edges := range pending {
		if len(edges) != 0 {
			d.Free()
			return nil, a.errorf(ErrStream, "arcs leaving the last layer")
		}
	}
	return d, nil
}

// LayerBuffer is an in-memory LayerWriter and LayerReader. Layers are read in
// the order they were written.
type LayerBuffer struct {
	layers [][][]Edge
	pos    int
}

// WriteLayer appends a layer to the buffer.
func (b *LayerBuffer) WriteLayer(layer int, nodes [][]Edge) error {
	if layer != len(b.layers) {
		return ErrStream
	}
	b.layers = append(b.layers, nodes)
	return nil
}

// ReadLayer returns the next layer in the buffer, or io.EOF.
func (b *LayerBuffer) ReadLayer() ([][]Edge, error) {
	if b.pos >= len(b.layers) {
		return nil, io.EOF
	}
	b.pos++
	return b.layers[b.pos-1], nil
}

// Len returns the number of layers in the buffer.
func (b *LayerBuffer) Len() int {
	return len(b.layers)
}
