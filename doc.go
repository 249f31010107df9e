// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package mdd defines a concrete type for Multi-valued Decision Diagrams (MDD), a
data structure used to represent large sets of sequences of integers (labels)
with a fixed length, and algorithms to build, combine and minimize them. It is
the diagram engine of a constraint solver: constraints such as all-different,
sum or global cardinality are intersected with a diagram without ever building
their full automaton.

# Basics

A diagram (type MDD) is an ordered sequence of layers. The first layer holds
the root and the last one holds the terminal; every arc goes from a node of
layer i to a node of layer i+1 and carries a label. Each path from the root to
the terminal is a solution. A diagram with size layers has solutions of length
size-1. A diagram without a path from the root to the terminal has no solution;
this is a normal result, not an error.

Nodes live in the node table of an Arena and are referenced by a NodeID, made of
the index of a slot and of a generation. Nodes are never collected implicitly:
they are released by MDD.RemoveAndFree or MDD.Free, after which every NodeID
referring to them becomes stale. An Arena also holds typed pools (type Pool) for
automaton states and constraint parameters. An Arena is not safe for concurrent
use: use one Arena per goroutine (see RunWorkers).

# Operations

Function Apply computes the union, intersection, difference and symmetric
difference of two diagrams (see type Operator), and ApplyN the union or
intersection of several ones. Included tests the inclusion of the solutions of
two diagrams and Concat builds their concatenation. All these operations build
their result layer by layer, using a Binder to create at most one node for each
tuple of operand nodes, and then call Reduce.

Function Intersect applies a Constraint to a diagram. A constraint is given by
parameters, computed once from the domains of the diagram, and by automaton
states (interface State) created on the fly. States reaching the same node of
the operand with the same signature (type Key) share the same node in the
result. Relaxed constraints, such as IntervalSum, merge the states of all the
paths reaching a node.

# Reduction

Method Reduce removes dead nodes and merges equivalent ones, bottom-up. Two
algorithms are available (see option Reduction): a hash-bucket merge, and a
partition refinement that splits groups of nodes arc by arc. Both yield the
same diagram, up to the identity of nodes.

# Use of build tags

To unlock logging of some operations, and consistency checks that panic on the
use of a stale NodeID, you can compile your executable with the build tag
`debug`. Messages are sent at the Debug level to the logger of the arena (see
option Logger).
*/
package mdd
