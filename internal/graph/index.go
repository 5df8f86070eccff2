// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package graph holds the in-memory model of a synthetic graph built inside a
// store under test. It records only identifiers, never store objects.
package graph

import (
	"fmt"
	"sort"

	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// End identifies which role a node plays on an edge.
type End int

const (
	End1 End = iota
	End2
)

func (e End) String() string {
	if e == End1 {
		return "end1"
	}
	return "end2"
}

// Index is a bidirectional adjacency structure. edges maps an edge to its
// (end1, end2) endpoints and nodes maps a node to the edges where it is end1
// and the edges where it is end2. An Index is not safe for concurrent
// mutation and belongs to a single run.
type Index struct {
	edges map[string][2]string
	nodes map[string][2][]string
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		edges: make(map[string][2]string),
		nodes: make(map[string][2][]string),
	}
}

// AddNode registers a node with no incident edges. Registering an existing
// node is a no-op.
func (x *Index) AddNode(id string) {
	if _, ok := x.nodes[id]; ok {
		return
	}
	x.nodes[id] = [2][]string{}
}

// AddEdge records an edge and its endpoints, registering either endpoint that
// is not yet known.
func (x *Index) AddEdge(edgeID, end1, end2 string) error {
	if edgeID == "" || end1 == "" || end2 == "" {
		return gcerr.New(gcerr.CodeGraphIndexInvalid, "edge and endpoint ids must be non-empty",
			gcerr.FieldEdgeID(edgeID))
	}
	if _, ok := x.edges[edgeID]; ok {
		return gcerr.New(gcerr.CodeGraphIndexInvalid, "edge already indexed", gcerr.FieldEdgeID(edgeID))
	}

	x.edges[edgeID] = [2]string{end1, end2}

	x.AddNode(end1)
	roles := x.nodes[end1]
	roles[End1] = append(roles[End1], edgeID)
	x.nodes[end1] = roles

	x.AddNode(end2)
	roles = x.nodes[end2]
	roles[End2] = append(roles[End2], edgeID)
	x.nodes[end2] = roles

	return nil
}

// HasNode reports whether id is a registered node.
func (x *Index) HasNode(id string) bool {
	_, ok := x.nodes[id]
	return ok
}

// Nodes returns all node ids in sorted order.
func (x *Index) Nodes() []string {
	return sortedKeys(x.nodes)
}

// Edges returns all edge ids in sorted order.
func (x *Index) Edges() []string {
	return sortedKeys(x.edges)
}

func (x *Index) NodeCount() int { return len(x.nodes) }
func (x *Index) EdgeCount() int { return len(x.edges) }

// Endpoints returns the (end1, end2) pair of an edge.
func (x *Index) Endpoints(edgeID string) (end1, end2 string, ok bool) {
	ends, ok := x.edges[edgeID]
	return ends[End1], ends[End2], ok
}

// Incident returns the edges where node occupies the given end, in insertion
// order. The returned slice is a copy.
func (x *Index) Incident(nodeID string, end End) []string {
	roles, ok := x.nodes[nodeID]
	if !ok {
		return nil
	}
	out := make([]string, len(roles[end]))
	copy(out, roles[end])
	return out
}

// Neighbor returns the node at the other end of edgeID as seen from nodeID.
func (x *Index) Neighbor(nodeID, edgeID string) (string, bool) {
	ends, ok := x.edges[edgeID]
	if !ok {
		return "", false
	}
	switch nodeID {
	case ends[End1]:
		return ends[End2], true
	case ends[End2]:
		return ends[End1], true
	}
	return "", false
}

// ConnectivityMap flattens both incidence roles into an undirected view:
// node -> (edge -> neighbor).
type ConnectivityMap map[string]map[string]string

// Connectivity derives the undirected adjacency view used by path search.
func (x *Index) Connectivity() ConnectivityMap {
	conn := make(ConnectivityMap, len(x.nodes))
	for id := range x.nodes {
		conn[id] = make(map[string]string)
	}
	for edgeID, ends := range x.edges {
		conn[ends[End1]][edgeID] = ends[End2]
		conn[ends[End2]][edgeID] = ends[End1]
	}
	return conn
}

// EdgesOf returns the edge ids incident to node in sorted order.
func (c ConnectivityMap) EdgesOf(nodeID string) []string {
	return sortedKeys(c[nodeID])
}

// Validate checks bidirectional consistency between the two maps.
func (x *Index) Validate() error {
	seen := make(map[string]int, len(x.edges))

	for _, nodeID := range x.Nodes() {
		roles := x.nodes[nodeID]
		for _, end := range []End{End1, End2} {
			for _, edgeID := range roles[end] {
				ends, ok := x.edges[edgeID]
				if !ok {
					return gcerr.New(gcerr.CodeGraphIndexInvalid, "node references unknown edge",
						gcerr.FieldNodeID(nodeID), gcerr.FieldEdgeID(edgeID))
				}
				if ends[end] != nodeID {
					return gcerr.New(gcerr.CodeGraphIndexInvalid,
						fmt.Sprintf("edge %s does not have node at %s", edgeID, end),
						gcerr.FieldNodeID(nodeID), gcerr.FieldEdgeID(edgeID))
				}
				seen[edgeID]++
			}
		}
	}

	for _, edgeID := range x.Edges() {
		if seen[edgeID] != 2 {
			return gcerr.New(gcerr.CodeGraphIndexInvalid,
				fmt.Sprintf("edge referenced %d times by nodes, want 2", seen[edgeID]),
				gcerr.FieldEdgeID(edgeID))
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
