// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "log/slog"

// Strategy selects the algorithm used by Reduce.
type Strategy int

const (
	// HashBucket merges nodes sharing the same hashed arc list. It is simple
	// and adequate for moderate layer widths.
	HashBucket Strategy = iota
	// Partition uses partition refinement, splitting packs of nodes arc by
	// arc. It scales better on very wide layers.
	Partition
)

func (s Strategy) String() string {
	switch s {
	case HashBucket:
		return "hash-bucket"
	case Partition:
		return "partition"
	}
	return "unknown"
}

// configs is used to store the values of the different parameters of an
// Arena.
type configs struct {
	nodesize        int          // initial number of slots in the node table
	maxnodesize     int          // Maximum total number of nodes (0 if no limit)
	maxnodeincrease int          // Maximum number of nodes that can be added to the table at each resize (0 if no limit)
	pagesize        int          // number of objects allocated at once by state and parameter pools
	strategy        Strategy     // default reduction algorithm
	logger          *slog.Logger // destination of debug messages
}

func makeconfigs() *configs {
	return &configs{
		nodesize:        _DEFAULTNODESIZE,
		maxnodeincrease: _DEFAULTMAXNODEINC,
		pagesize:        _DEFAULTPAGESIZE,
		strategy:        HashBucket,
		logger:          slog.Default(),
	}
}

// Nodesize is a configuration option (function). Used as a parameter in
// NewArena it sets a preferred initial size for the node table. The size of
// the table can increase during computation.
func Nodesize(size int) func(*configs) {
	return func(c *configs) {
		if size > 1 {
			c.nodesize = size
		}
	}
}

// Maxnodesize is a configuration option (function). Used as a parameter in
// NewArena it sets a limit to the number of nodes in the arena. An operation
// trying to raise the number of nodes above this limit fails with ErrMemory.
// The default value (0) means that there is no limit, in which case
// allocation can panic if we exhaust all the available memory.
func Maxnodesize(size int) func(*configs) {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// Maxnodeincrease is a configuration option (function). Used as a parameter
// in NewArena it sets a limit on the increase in size of the node table.
// Below this limit we typically double the size of the node list each time we
// need to resize it. The default value is about a million nodes. Set the value
// to zero to avoid imposing a limit.
func Maxnodeincrease(size int) func(*configs) {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Pagesize is a configuration option (function). It sets the number of
// automaton states (or constraint parameters) that a pool allocates at once
// when all its slots are in use.
func Pagesize(size int) func(*configs) {
	return func(c *configs) {
		if size > 0 {
			c.pagesize = size
		}
	}
}

// Reduction is a configuration option (function). It selects the algorithm
// used when diagrams built in the arena are reduced.
func Reduction(s Strategy) func(*configs) {
	return func(c *configs) {
		c.strategy = s
	}
}

// Logger is a configuration option (function). It sets the logger used to
// report resize events and operation summaries. Messages are emitted at the
// Debug level and only when the package is compiled with the debug tag.
func Logger(l *slog.Logger) func(*configs) {
	return func(c *configs) {
		if l != nil {
			c.logger = l
		}
	}
}
