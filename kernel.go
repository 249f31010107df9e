// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"errors"
	"math"
)

// _DEFAULTNODESIZE is the initial number of slots in the node table of a new
// Arena when no Nodesize option is given.
const _DEFAULTNODESIZE int = 1 << 10

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes (1 048 576).
const _DEFAULTMAXNODEINC int = 1 << 20

// _DEFAULTPAGESIZE is the number of objects allocated at once by a Pool when
// it runs out of free slots.
const _DEFAULTPAGESIZE int = 256

// _MAXNODES is the largest number of slots we accept in a node table. Node
// indexes are stored on 32 bits and slot 0 is reserved.
const _MAXNODES int = math.MaxInt32 - 1

// Sentinel errors returned by the operations of the package. They are always
// wrapped with the context of the failing call, so callers should test them
// with errors.Is.
var (
	// ErrMemory is returned when the node table cannot grow anymore (see
	// option Maxnodesize).
	ErrMemory = errors.New("mdd: unable to resize arena")

	// ErrStaleNode is returned when a NodeID refers to a freed slot, or to a
	// slot that has been reused for another node since.
	ErrStaleNode = errors.New("mdd: stale or invalid node")

	// ErrLayer is returned when a layer index is out of range, or when an arc
	// does not go from one layer to the next.
	ErrLayer = errors.New("mdd: bad layer")

	// ErrDuplicateLabel is returned when adding a second arc with the same
	// label to a node of a deterministic diagram.
	ErrDuplicateLabel = errors.New("mdd: duplicate label")

	// ErrNoLabel is returned when asking for the child of a label that the
	// node does not admit.
	ErrNoLabel = errors.New("mdd: label not admitted")

	// ErrOperator is returned when an operator is not supported by a call.
	ErrOperator = errors.New("mdd: unsupported operator")

	// ErrSize is returned when combining diagrams with different sizes.
	ErrSize = errors.New("mdd: size mismatch")

	// ErrArena is returned when combining diagrams that do not share the same
	// Arena.
	ErrArena = errors.New("mdd: arena mismatch")

	// ErrNondeterministic is returned when an operation requires a
	// deterministic diagram.
	ErrNondeterministic = errors.New("mdd: nondeterministic diagram")

	// ErrConstraint is returned when the parameters of a constraint are not
	// valid for the diagram it is applied to.
	ErrConstraint = errors.New("mdd: invalid constraint")

	// ErrStream is returned by Import when the layers read are not consistent.
	ErrStream = errors.New("mdd: malformed stream")
)
