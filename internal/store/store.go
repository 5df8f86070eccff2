// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import "context"

// GraphStore is the capability surface of a metadata-graph store under test.
// Optional functions return an error for which errors.IsUnsupported is true
// when the store does not implement them.
type GraphStore interface {
	CreateNode(ctx context.Context, typeName string) (string, error)
	CreateEdge(ctx context.Context, typeName, end1, end2 string) (string, error)
	GetNode(ctx context.Context, id string) (*Node, error)

	// Neighborhood returns every node within depth hops of id and every edge
	// traversed to reach them. Depth 0 returns only the origin.
	Neighborhood(ctx context.Context, id string, depth int) (*Graph, error)
	// RelatedNodes returns the connected component containing id.
	RelatedNodes(ctx context.Context, id string) ([]*Node, error)
	// LinkingPath returns the nodes and edges lying on any path from start to
	// end. No path yields nil collections.
	LinkingPath(ctx context.Context, start, end string) (*Graph, error)

	// DeleteNode soft-deletes a node.
	DeleteNode(ctx context.Context, typeName, id string) error
	// PurgeNode removes a node and its edges permanently.
	PurgeNode(ctx context.Context, typeName, id string) error

	Close() error
}
