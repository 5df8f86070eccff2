// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package memory

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/graph"

	"github.com/sigil-dev/graphcheck/internal/store"
)

func (s *GraphStore) Neighborhood(_ context.Context, id string, depth int) (*store.Graph, error) {
	if err := store.ValidateDepth(depth); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	origin, err := s.liveNode(id)
	if err != nil {
		return nil, err
	}

	dist := s.distances(origin.gid, depth)

	out := &store.Graph{}
	seen := make(map[lineKey]bool)
	for gid, d := range dist {
		out.Nodes = append(out.Nodes, s.nodeByGID(gid))
		if d >= depth {
			continue
		}
		for _, l := range s.incidentLines(gid) {
			k := keyOf(l)
			if seen[k] {
				continue
			}
			seen[k] = true
			out.Edges = append(out.Edges, s.edgeByLine(l))
		}
	}
	out.Sort()
	return out, nil
}

func (s *GraphStore) RelatedNodes(_ context.Context, id string) ([]*store.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	origin, err := s.liveNode(id)
	if err != nil {
		return nil, err
	}

	dist := s.distances(origin.gid, -1)
	nodes := make([]*store.Node, 0, len(dist))
	for gid := range dist {
		nodes = append(nodes, s.nodeByGID(gid))
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, nil
}

// LinkingPath enumerates trails from start that end on first arrival at end
// and returns the union of their nodes and edges.
func (s *GraphStore) LinkingPath(_ context.Context, start, end string) (*store.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, err := s.liveNode(start)
	if err != nil {
		return nil, err
	}
	to, err := s.liveNode(end)
	if err != nil {
		return nil, err
	}

	if from.gid == to.gid {
		return &store.Graph{Nodes: []*store.Node{s.nodeByGID(from.gid)}}, nil
	}

	var (
		onPath   = make(map[lineKey]bool)
		nodesHit = make(map[int64]bool)
		linesHit = make(map[lineKey]graph.Line)
		trail    []graph.Line
	)

	var walk func(gid int64)
	walk = func(gid int64) {
		if gid == to.gid {
			for _, l := range trail {
				linesHit[keyOf(l)] = l
				nodesHit[l.From().ID()] = true
				nodesHit[l.To().ID()] = true
			}
			return
		}
		for _, l := range s.incidentLines(gid) {
			k := keyOf(l)
			if onPath[k] {
				continue
			}
			next := l.To().ID()
			if next == gid {
				next = l.From().ID()
			}
			onPath[k] = true
			trail = append(trail, l)
			walk(next)
			trail = trail[:len(trail)-1]
			onPath[k] = false
		}
	}
	walk(from.gid)

	if len(linesHit) == 0 {
		return &store.Graph{}, nil
	}

	out := &store.Graph{}
	for gid := range nodesHit {
		out.Nodes = append(out.Nodes, s.nodeByGID(gid))
	}
	for _, l := range linesHit {
		out.Edges = append(out.Edges, s.edgeByLine(l))
	}
	out.Sort()
	return out, nil
}
