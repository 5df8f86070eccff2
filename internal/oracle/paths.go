// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package oracle

import (
	"github.com/sigil-dev/graphcheck/internal/graph"
)

// FindPaths enumerates every edge-simple path from start to target. A path
// ends the moment it reaches target. start == target yields one empty path;
// no route yields nil.
func FindPaths(conn graph.ConnectivityMap, start, target string) [][]string {
	if _, ok := conn[start]; !ok {
		return nil
	}

	var (
		paths [][]string
		trail []string
		used  = make(map[string]bool)
	)

	var walk func(node string)
	walk = func(node string) {
		if node == target {
			path := make([]string, len(trail))
			copy(path, trail)
			paths = append(paths, path)
			return
		}
		for _, edgeID := range conn.EdgesOf(node) {
			if used[edgeID] {
				continue
			}
			used[edgeID] = true
			trail = append(trail, edgeID)
			walk(conn[node][edgeID])
			trail = trail[:len(trail)-1]
			used[edgeID] = false
		}
	}
	walk(start)

	return paths
}

// PathMembership is the union of nodes and edges over all paths from start to
// target. It is ({start}, {}) when start == target and empty when no path
// exists.
func PathMembership(conn graph.ConnectivityMap, start, target string) Subgraph {
	result := newSubgraph()
	for _, path := range FindPaths(conn, start, target) {
		node := start
		result.Nodes.Add(node)
		for _, edgeID := range path {
			result.Edges.Add(edgeID)
			node = conn[node][edgeID]
			result.Nodes.Add(node)
		}
	}
	return result
}
