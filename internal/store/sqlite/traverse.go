// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"sort"

	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// reachableBounded walks edge triples breadth-first over active nodes and
// keeps the shortest hop count per node.
const reachableBounded = `WITH RECURSIVE
live(id) AS (
	SELECT subject FROM triples WHERE predicate = ? AND rel_id = '' AND status = 'active'
),
reachable(node, depth) AS (
	SELECT ?, 0
	UNION
	SELECT CASE WHEN t.subject = r.node THEN t.object ELSE t.subject END, r.depth + 1
	FROM reachable r
	JOIN triples t ON (t.subject = r.node OR t.object = r.node) AND t.rel_id <> ''
	WHERE r.depth < ?
		AND (CASE WHEN t.subject = r.node THEN t.object ELSE t.subject END) IN (SELECT id FROM live)
)
SELECT node, MIN(depth) FROM reachable GROUP BY node`

// reachableAll drops the depth column so UNION deduplicates on node alone
// and the recursion terminates on cycles.
const reachableAll = `WITH RECURSIVE
live(id) AS (
	SELECT subject FROM triples WHERE predicate = ? AND rel_id = '' AND status = 'active'
),
reachable(node) AS (
	SELECT ?
	UNION
	SELECT CASE WHEN t.subject = r.node THEN t.object ELSE t.subject END
	FROM reachable r
	JOIN triples t ON (t.subject = r.node OR t.object = r.node) AND t.rel_id <> ''
	WHERE (CASE WHEN t.subject = r.node THEN t.object ELSE t.subject END) IN (SELECT id FROM live)
)
SELECT node, 0 FROM reachable`

// reach returns node -> hop count from origin. A negative depth is
// unbounded and reports every hop count as 0.
func (g *GraphStore) reach(ctx context.Context, origin string, depth int) (map[string]int, error) {
	q, args := reachableAll, []any{predicateType, origin}
	if depth >= 0 {
		q, args = reachableBounded, []any{predicateType, origin, depth}
	}

	rows, err := g.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "traversing from %s: %w", origin, err)
	}
	defer func() { _ = rows.Close() }()

	dist := make(map[string]int)
	for rows.Next() {
		var node string
		var d int
		if err := rows.Scan(&node, &d); err != nil {
			return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "scanning traversal node: %w", err)
		}
		dist[node] = d
	}
	if err := rows.Err(); err != nil {
		return nil, gcerr.Errorf(gcerr.CodeStoreDatabaseFailure, "iterating traversal nodes: %w", err)
	}
	return dist, nil
}

// Neighborhood returns nodes within depth hops and the edges incident to
// nodes closer than depth.
func (g *GraphStore) Neighborhood(ctx context.Context, id string, depth int) (*store.Graph, error) {
	if err := store.ValidateDepth(depth); err != nil {
		return nil, err
	}
	if _, err := g.liveNode(ctx, id); err != nil {
		return nil, err
	}

	dist, err := g.reach(ctx, id, depth)
	if err != nil {
		return nil, err
	}

	var near []string
	for node, d := range dist {
		if d < depth {
			near = append(near, node)
		}
	}
	sort.Strings(near)

	edges, err := g.edgesTouching(ctx, near)
	if err != nil {
		return nil, err
	}

	out := &store.Graph{}
	for _, e := range edges {
		_, ok1 := dist[e.End1]
		_, ok2 := dist[e.End2]
		if ok1 && ok2 {
			out.Edges = append(out.Edges, e)
		}
	}

	out.Nodes, err = g.nodesByID(ctx, keys(dist))
	if err != nil {
		return nil, err
	}
	out.Sort()
	return out, nil
}

func (g *GraphStore) RelatedNodes(ctx context.Context, id string) ([]*store.Node, error) {
	if _, err := g.liveNode(ctx, id); err != nil {
		return nil, err
	}

	dist, err := g.reach(ctx, id, -1)
	if err != nil {
		return nil, err
	}
	return g.nodesByID(ctx, keys(dist))
}

// LinkingPath loads the component containing start and enumerates trails
// that stop on first arrival at end.
func (g *GraphStore) LinkingPath(ctx context.Context, start, end string) (*store.Graph, error) {
	from, err := g.liveNode(ctx, start)
	if err != nil {
		return nil, err
	}
	if _, err := g.liveNode(ctx, end); err != nil {
		return nil, err
	}
	if start == end {
		return &store.Graph{Nodes: []*store.Node{from}}, nil
	}

	component, err := g.reach(ctx, start, -1)
	if err != nil {
		return nil, err
	}
	if _, ok := component[end]; !ok {
		return &store.Graph{}, nil
	}

	edges, err := g.edgesTouching(ctx, keys(component))
	if err != nil {
		return nil, err
	}

	adj := make(map[string][]*store.Edge)
	for _, e := range edges {
		_, ok1 := component[e.End1]
		_, ok2 := component[e.End2]
		if !ok1 || !ok2 {
			continue
		}
		adj[e.End1] = append(adj[e.End1], e)
		if e.End2 != e.End1 {
			adj[e.End2] = append(adj[e.End2], e)
		}
	}

	hit := trails(adj, start, end)
	if len(hit) == 0 {
		return &store.Graph{}, nil
	}

	nodeIDs := make(map[string]int)
	out := &store.Graph{}
	for _, e := range hit {
		out.Edges = append(out.Edges, e)
		nodeIDs[e.End1] = 0
		nodeIDs[e.End2] = 0
	}
	out.Nodes, err = g.nodesByID(ctx, keys(nodeIDs))
	if err != nil {
		return nil, err
	}
	out.Sort()
	return out, nil
}

// trails returns every edge on some edge-simple walk from start that ends on
// first arrival at end.
func trails(adj map[string][]*store.Edge, start, end string) map[string]*store.Edge {
	hit := make(map[string]*store.Edge)
	used := make(map[string]bool)
	var path []*store.Edge

	var walk func(node string)
	walk = func(node string) {
		if node == end {
			for _, e := range path {
				hit[e.ID] = e
			}
			return
		}
		for _, e := range adj[node] {
			if used[e.ID] {
				continue
			}
			next := e.End2
			if next == node {
				next = e.End1
			}
			used[e.ID] = true
			path = append(path, e)
			walk(next)
			path = path[:len(path)-1]
			used[e.ID] = false
		}
	}
	walk(start)
	return hit
}

func keys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
