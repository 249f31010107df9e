// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Key is an equivalence key over automaton states. Keys are built with a
// KeyBuilder that packs fixed-width integers, so two keys are equal exactly
// when they were built from the same sequence of values; there is no separator
// that could collide with a value.
//
// The empty Key is a sentinel meaning that no further distinction is possible
// between the states that use it, from the current layer down to the terminal.
type Key string

// IsEmpty reports whether k is the "no further distinction" sentinel.
func (k Key) IsEmpty() bool {
	return len(k) == 0
}

// KeyBuilder accumulates values into a Key. The zero value is ready to use.
type KeyBuilder struct {
	buf []byte
}

// Int appends v to the key.
func (b *KeyBuilder) Int(v int64) *KeyBuilder {
	b.buf = binary.LittleEndian.AppendUint64(b.buf, uint64(v))
	return b
}

// Ints appends all the values in vs, preceded by their number.
func (b *KeyBuilder) Ints(vs ...int64) *KeyBuilder {
	b.buf = binary.AppendUvarint(b.buf, uint64(len(vs)))
	for _, v := range vs {
		b.Int(v)
	}
	return b
}

// Words appends a bitset, preceded by its length.
func (b *KeyBuilder) Words(ws []uint64) *KeyBuilder {
	b.buf = binary.AppendUvarint(b.buf, uint64(len(ws)))
	for _, w := range ws {
		b.buf = binary.LittleEndian.AppendUint64(b.buf, w)
	}
	return b
}

// Sub appends another key, preceded by its length. It is used to compose the
// keys of several states.
func (b *KeyBuilder) Sub(k Key) *KeyBuilder {
	b.buf = binary.AppendUvarint(b.buf, uint64(len(k)))
	b.buf = append(b.buf, k...)
	return b
}

// Key returns the key built so far.
func (b *KeyBuilder) Key() Key {
	return Key(b.buf)
}

// Reset empties the builder, keeping its buffer.
func (b *KeyBuilder) Reset() {
	b.buf = b.buf[:0]
}

// ************************************************************

// arcHasher computes the structural hash of a node used by the hash-bucket
// reduction: #(out-degree, label_1, child_1, ..., label_k, child_k).
type arcHasher struct {
	digest xxhash.Digest
	buf    [16]byte
}

func (h *arcHasher) hash(arcs []Arc) uint64 {
	h.digest.Reset()
	binary.LittleEndian.PutUint64(h.buf[:8], uint64(len(arcs)))
	h.digest.Write(h.buf[:8])
	for _, a := range arcs {
		binary.LittleEndian.PutUint64(h.buf[:8], uint64(int64(a.Label)))
		binary.LittleEndian.PutUint32(h.buf[8:12], uint32(a.Node.index))
		binary.LittleEndian.PutUint32(h.buf[12:16], a.Node.gen)
		h.digest.Write(h.buf[:])
	}
	return h.digest.Sum64()
}
