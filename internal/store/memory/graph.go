// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package memory is a reference GraphStore held in a gonum multigraph. It
// needs no external service and backs the default conformance self-test.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/sigil-dev/graphcheck/internal/store"
)

const backendName = "memory"

// Compile-time interface check.
var _ store.GraphStore = (*GraphStore)(nil)

type nodeRecord struct {
	gid  int64
	node store.Node
}

type edgeRecord struct {
	line multi.Line
	edge store.Edge
}

// lineKey identifies a line across the whole graph. gonum numbers lines per
// node pair, so the line id alone repeats.
type lineKey struct {
	x, y, id int64
}

func keyOf(l graph.Line) lineKey {
	x, y := l.From().ID(), l.To().ID()
	if x > y {
		x, y = y, x
	}
	return lineKey{x: x, y: y, id: l.ID()}
}

// GraphStore keeps nodes and edges in an undirected multigraph. Edge end
// order is kept on the edge record, not in the gonum line.
type GraphStore struct {
	mu     sync.RWMutex
	g      *multi.UndirectedGraph
	nodes  map[string]*nodeRecord
	byGID  map[int64]string
	edges  map[string]*edgeRecord
	byLine map[lineKey]string
	now    func() time.Time
	logger *slog.Logger
}

// New returns an empty store.
func New() *GraphStore {
	return &GraphStore{
		g:      multi.NewUndirectedGraph(),
		nodes:  make(map[string]*nodeRecord),
		byGID:  make(map[int64]string),
		edges:  make(map[string]*edgeRecord),
		byLine: make(map[lineKey]string),
		now:    time.Now,
		logger: slog.Default(),
	}
}

func (s *GraphStore) Close() error { return nil }

func (s *GraphStore) CreateNode(_ context.Context, typeName string) (string, error) {
	if err := store.ValidateNodeType(typeName); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.g.NewNode()
	s.g.AddNode(n)

	id := uuid.NewString()
	s.nodes[id] = &nodeRecord{
		gid: n.ID(),
		node: store.Node{
			ID:        id,
			Type:      typeName,
			Status:    store.NodeStatusActive,
			CreatedAt: s.now().UTC(),
		},
	}
	s.byGID[n.ID()] = id
	return id, nil
}

func (s *GraphStore) CreateEdge(_ context.Context, typeName, end1, end2 string) (string, error) {
	if err := store.ValidateEdge(typeName, end1, end2); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r1, err := s.liveNode(end1)
	if err != nil {
		return "", err
	}
	r2, err := s.liveNode(end2)
	if err != nil {
		return "", err
	}

	l := s.g.NewLine(s.g.Node(r1.gid), s.g.Node(r2.gid)).(multi.Line)
	s.g.SetLine(l)

	id := uuid.NewString()
	s.edges[id] = &edgeRecord{
		line: l,
		edge: store.Edge{
			ID:        id,
			Type:      typeName,
			End1:      end1,
			End2:      end2,
			CreatedAt: s.now().UTC(),
		},
	}
	s.byLine[keyOf(l)] = id
	return id, nil
}

func (s *GraphStore) GetNode(_ context.Context, id string) (*store.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.nodes[id]
	if !ok {
		return nil, store.NodeNotFound(id)
	}
	n := r.node
	return &n, nil
}

func (s *GraphStore) DeleteNode(_ context.Context, typeName, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.liveNode(id)
	if err != nil {
		return err
	}
	if err := store.CheckType(&r.node, typeName); err != nil {
		return err
	}
	r.node.Status = store.NodeStatusDeleted
	return nil
}

func (s *GraphStore) PurgeNode(_ context.Context, typeName, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.nodes[id]
	if !ok {
		return store.NodeNotFound(id)
	}
	if err := store.CheckType(&r.node, typeName); err != nil {
		return err
	}

	purged := 0
	for edgeID, e := range s.edges {
		if e.edge.End1 == id || e.edge.End2 == id {
			delete(s.byLine, keyOf(e.line))
			delete(s.edges, edgeID)
			purged++
		}
	}
	// Removing the gonum node drops its lines too.
	s.g.RemoveNode(r.gid)
	delete(s.byGID, r.gid)
	delete(s.nodes, id)

	s.logger.Debug("purged node", "backend", backendName, "node_id", id, "edges", purged)
	return nil
}

// liveNode returns an active node. Soft-deleted nodes are invisible to
// everything except GetNode and PurgeNode.
func (s *GraphStore) liveNode(id string) (*nodeRecord, error) {
	r, ok := s.nodes[id]
	if !ok || r.node.Status == store.NodeStatusDeleted {
		return nil, store.NodeNotFound(id)
	}
	return r, nil
}

func (s *GraphStore) live(gid int64) bool {
	id, ok := s.byGID[gid]
	return ok && s.nodes[id].node.Status == store.NodeStatusActive
}

// distances runs a breadth-first walk over live nodes and returns the hop
// count of every node reached, stopping past maxDepth when it is not negative.
func (s *GraphStore) distances(origin int64, maxDepth int) map[int64]int {
	dist := make(map[int64]int)
	bf := traverse.BreadthFirst{
		Traverse: func(e graph.Edge) bool {
			return s.live(e.To().ID())
		},
	}
	bf.Walk(s.g, s.g.Node(origin), func(n graph.Node, d int) bool {
		if maxDepth >= 0 && d > maxDepth {
			return true
		}
		dist[n.ID()] = d
		return false
	})
	return dist
}

// incidentLines returns every line from gid to a live neighbour.
func (s *GraphStore) incidentLines(gid int64) []graph.Line {
	var out []graph.Line
	to := s.g.From(gid)
	for to.Next() {
		nid := to.Node().ID()
		if !s.live(nid) {
			continue
		}
		lines := s.g.Lines(gid, nid)
		for lines.Next() {
			out = append(out, lines.Line())
		}
	}
	return out
}

func (s *GraphStore) nodeByGID(gid int64) *store.Node {
	n := s.nodes[s.byGID[gid]].node
	return &n
}

func (s *GraphStore) edgeByLine(l graph.Line) *store.Edge {
	e := s.edges[s.byLine[keyOf(l)]].edge
	return &e
}
