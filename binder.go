// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Binder is a trie from tuples of node references to a result node. It is used
// during one layer of an Apply or Intersect pass to make sure that two requests
// for the same tuple of provenance nodes yield the same result node. A Binder
// is cleared between layers; its bindings are recycled by the next layer.
type Binder struct {
	root  *Binding
	free  []*Binding // bindings released by Clear
	count int        // number of bindings in the trie, for statistics
}

// Binding is a position in the trie of a Binder. When it is reached by a full
// tuple it can hold the node bound to this tuple (see SetLeaf).
type Binding struct {
	next map[NodeID]*Binding
	leaf NodeID
}

// NewBinder returns an empty Binder.
func NewBinder() *Binder {
	return &Binder{root: &Binding{}}
}

// Path walks the trie along refs, creating the missing bindings, and returns the
// binding at the end of the path. NilNode is a valid element of a tuple; it is
// used for an operand without a matching child.
func (b *Binder) Path(refs ...NodeID) *Binding {
	cur := b.root
	for _, r := range refs {
		nxt, ok := cur.next[r]
		if !ok {
			nxt = b.newbinding()
			if cur.next == nil {
				cur.next = make(map[NodeID]*Binding)
			}
			cur.next[r] = nxt
		}
		cur = nxt
	}
	return cur
}

// Leaf returns the node bound at b, if any.
func (b *Binding) Leaf() (NodeID, bool) {
	return b.leaf, !b.leaf.IsNil()
}

// SetLeaf binds n at b.
func (b *Binding) SetLeaf(n NodeID) {
	b.leaf = n
}

// Clear empties the trie. Bindings are kept for reuse.
func (b *Binder) Clear() {
	b.release(b.root)
	b.root.leaf = NilNode
	b.count = 0
}

// Len returns the number of bindings currently in the trie.
func (b *Binder) Len() int {
	return b.count
}

func (b *Binder) newbinding() *Binding {
	b.count++
	if n := len(b.free); n > 0 {
		res := b.free[n-1]
		b.free = b.free[:n-1]
		return res
	}
	return &Binding{}
}

// release recycles every binding below cur. The maps are emptied but not
// deallocated.
func (b *Binder) release(cur *Binding) {
	for k, nxt := range cur.next {
		b.release(nxt)
		nxt.leaf = NilNode
		b.free = append(b.free, nxt)
		delete(cur.next, k)
	}
}
