// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package graph

// CorruptEdgeForTest rewrites an edge's endpoints without touching the node
// map so Validate can be exercised.
func (x *Index) CorruptEdgeForTest(edgeID, end1, end2 string) {
	x.edges[edgeID] = [2]string{end1, end2}
}

// DropEdgeForTest removes an edge from the edge map only.
func (x *Index) DropEdgeForTest(edgeID string) {
	delete(x.edges, edgeID)
}
