// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"sort"
	"time"
)

// NodeStatus is the lifecycle state of a node.
type NodeStatus string

const (
	NodeStatusActive  NodeStatus = "active"
	NodeStatusDeleted NodeStatus = "deleted"
)

// Node is a typed vertex owned by the store.
type Node struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Status    NodeStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// Edge is a typed connection between two nodes. End order is significant.
type Edge struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	End1      string    `json:"end1"`
	End2      string    `json:"end2"`
	CreatedAt time.Time `json:"created_at"`
}

// Graph is a query result. A nil collection means the store returned none,
// which callers treat the same as an empty one.
type Graph struct {
	Nodes []*Node `json:"nodes,omitempty"`
	Edges []*Edge `json:"edges,omitempty"`
}

// NodeIDs returns the ids of non-nil nodes.
func (g *Graph) NodeIDs() []string {
	if g == nil {
		return nil
	}
	return NodeIDs(g.Nodes)
}

// EdgeIDs returns the ids of non-nil edges.
func (g *Graph) EdgeIDs() []string {
	if g == nil {
		return nil
	}
	ids := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		if e != nil {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// NodeIDs returns the ids of non-nil nodes.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Sort orders nodes and edges by id so results are stable on the wire.
func (g *Graph) Sort() {
	if g == nil {
		return
	}
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	sort.Slice(g.Edges, func(i, j int) bool { return g.Edges[i].ID < g.Edges[j].ID })
}

// Function names an optional store function for capability reporting.
type Function string

const (
	FuncNeighborhood Function = "neighborhood"
	FuncRelatedNodes Function = "related_nodes"
	FuncLinkingPath  Function = "linking_path"
	FuncDeleteNode   Function = "delete_node"
)

// OptionalFunctions lists every function a store may decline.
var OptionalFunctions = []Function{FuncNeighborhood, FuncRelatedNodes, FuncLinkingPath, FuncDeleteNode}

// Valid reports whether f names an optional function.
func (f Function) Valid() bool {
	for _, o := range OptionalFunctions {
		if f == o {
			return true
		}
	}
	return false
}
