// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package oracle computes expected graph-query answers from a graph.Index.
// Every function is pure and never touches a store.
package oracle

import (
	"github.com/sigil-dev/graphcheck/internal/graph"
)

// Unbounded is the remaining depth that never runs out.
const Unbounded = -1

// Explore walks depth-first from origin, never stepping straight back over
// arrival, and returns every node and edge seen within remainingDepth hops.
// A negative depth is unbounded and zero yields only the origin.
func Explore(idx *graph.Index, origin, arrival string, remainingDepth int) Subgraph {
	e := explorer{
		idx:      idx,
		result:   newSubgraph(),
		expanded: make(map[visitKey]int),
	}
	e.visit(origin, arrival, remainingDepth)
	return e.result
}

// Reachable returns the whole connected component containing origin.
func Reachable(idx *graph.Index, origin string) Subgraph {
	return Explore(idx, origin, "", Unbounded)
}

// visitKey is a node together with the edge it was entered through. The
// edges a node expands over depend on both.
type visitKey struct {
	node, arrival string
}

type explorer struct {
	idx    *graph.Index
	result Subgraph
	// expanded holds the largest remaining depth each (node, arrival) pair
	// has been expanded with. Anything a smaller budget could reach from the
	// same pair is already in result.
	expanded map[visitKey]int
}

func (e *explorer) visit(node, arrival string, remaining int) {
	e.result.Nodes.Add(node)
	if remaining == 0 {
		return
	}
	key := visitKey{node: node, arrival: arrival}
	if prev, ok := e.expanded[key]; ok && covers(prev, remaining) {
		return
	}
	e.expanded[key] = remaining

	next := remaining
	if next > 0 {
		next--
	}

	for _, end := range []graph.End{graph.End1, graph.End2} {
		for _, edgeID := range e.idx.Incident(node, end) {
			if edgeID == arrival {
				continue
			}
			neighbor, ok := e.idx.Neighbor(node, edgeID)
			if !ok {
				continue
			}
			e.result.Edges.Add(edgeID)
			e.visit(neighbor, edgeID, next)
		}
	}
}

// covers reports whether an expansion with budget prev reaches at least as far
// as one with budget next.
func covers(prev, next int) bool {
	if prev < 0 {
		return true
	}
	return next >= 0 && prev >= next
}
