// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "fmt"

// Handle identifies an object allocated in a Pool. The generation changes each
// time the slot is freed, so that a handle kept after a call to Free can be
// detected (see Pool.Valid).
type Handle struct {
	slot int32
	gen  uint32
}

// Slot returns the index of the slot in the pool (the allocatedIndex of the
// object).
func (h Handle) Slot() int { return int(h.slot) }

// Pool is a typed pool of reusable objects. Objects are stored in pages of
// fixed size so that a pointer returned by Allocate stays valid when the pool
// grows. A Pool is not safe for concurrent use; each worker should own its
// Arena, and therefore its pools.
type Pool[T any] struct {
	pages     [][]T
	gens      []uint32 // generation of each slot; odd when the slot is in use
	free      []int32  // stack of free slots
	next      int32    // first slot never allocated
	pagesize  int
	live      int
	allocated uint64 // total number of calls to Allocate
	reused    uint64 // allocations served from the free list
}

// PoolStats stores status information about a Pool.
type PoolStats struct {
	Live      int    // objects currently allocated
	Capacity  int    // slots available without growing
	Allocated uint64 // total number of allocations
	Reused    uint64 // allocations that reused a freed slot
}

// NewPool returns an empty pool allocating pagesize objects at a time.
func NewPool[T any](pagesize int) *Pool[T] {
	if pagesize <= 0 {
		pagesize = _DEFAULTPAGESIZE
	}
	return &Pool[T]{pagesize: pagesize}
}

// Allocate returns a handle and a pointer to an object in the pool. The object
// is always the zero value of T; the caller is in charge of its
// initialization. The pool extends its capacity by one page when there are no
// free slots left.
func (p *Pool[T]) Allocate() (Handle, *T) {
	var slot int32
	if n := len(p.free); n > 0 {
		slot = p.free[n-1]
		p.free = p.free[:n-1]
		p.reused++
	} else {
		slot = p.next
		p.next++
		if int(slot)/p.pagesize >= len(p.pages) {
			p.pages = append(p.pages, make([]T, p.pagesize))
		}
		p.gens = append(p.gens, 0)
	}
	p.gens[slot]++
	p.live++
	p.allocated++
	return Handle{slot: slot, gen: p.gens[slot]}, p.at(slot)
}

// Free returns the slot of h to the pool. The object is reset to the zero
// value of T so that every reference it holds is dropped before the slot is
// reused. Freeing a stale handle is a no-op (and a panic in debug builds).
func (p *Pool[T]) Free(h Handle) {
	if !p.Valid(h) {
		debugPanic("free of stale pool handle %v", h)
		return
	}
	var zero T
	*p.at(h.slot) = zero
	p.gens[h.slot]++
	p.free = append(p.free, h.slot)
	p.live--
}

// Get returns the object associated with h, or nil if h is stale.
func (p *Pool[T]) Get(h Handle) *T {
	if !p.Valid(h) {
		return nil
	}
	return p.at(h.slot)
}

// Valid reports whether h refers to an object currently allocated.
func (p *Pool[T]) Valid(h Handle) bool {
	if h.slot < 0 || h.slot >= p.next {
		return false
	}
	return p.gens[h.slot] == h.gen && h.gen&1 == 1
}

// Live returns the number of objects currently allocated.
func (p *Pool[T]) Live() int {
	return p.live
}

// Stats returns information about the usage of the pool.
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		Live:      p.live,
		Capacity:  len(p.pages) * p.pagesize,
		Allocated: p.allocated,
		Reused:    p.reused,
	}
}

func (p *Pool[T]) at(slot int32) *T {
	return &p.pages[int(slot)/p.pagesize][int(slot)%p.pagesize]
}

func (s PoolStats) String() string {
	return fmt.Sprintf("live: %d, capacity: %d, allocated: %d, reused: %d", s.Live, s.Capacity, s.Allocated, s.Reused)
}

// poolOf returns the pool stored in slot, creating it the first time. Arenas
// keep one pool per kind of automaton state and per kind of parameters.
func poolOf[T any](slot *any, pagesize int) *Pool[T] {
	if p, ok := (*slot).(*Pool[T]); ok {
		return p
	}
	p := NewPool[T](pagesize)
	*slot = p
	return p
}
