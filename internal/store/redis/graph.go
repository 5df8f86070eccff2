// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package redis is a GraphStore kept in Redis hashes and sets. It answers
// neighborhood and related-node queries, but has no path query and no soft
// delete: nodes can only be purged.
package redis

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

const (
	backendName   = "redis"
	defaultPrefix = "graphcheck"
)

// Compile-time interface check.
var _ store.GraphStore = (*GraphStore)(nil)

// GraphStore keys:
//
//	<prefix>:node:<id>  hash {type, status, created}
//	<prefix>:edge:<id>  hash {type, end1, end2, created}
//	<prefix>:adj:<id>   set of incident edge ids
type GraphStore struct {
	rdb    *redis.Client
	prefix string
	logger *slog.Logger
}

// New connects to Redis and verifies the connection. An empty prefix uses
// "graphcheck".
func New(ctx context.Context, opts *redis.Options, prefix string) (*GraphStore, error) {
	if prefix == "" {
		prefix = defaultPrefix
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, gcerr.Wrapf(err, gcerr.CodeStoreDatabaseFailure, "connecting to redis at %s", opts.Addr)
	}
	return &GraphStore{rdb: rdb, prefix: prefix, logger: slog.Default()}, nil
}

func (s *GraphStore) Close() error {
	return s.rdb.Close()
}

func (s *GraphStore) nodeKey(id string) string { return s.prefix + ":node:" + id }
func (s *GraphStore) edgeKey(id string) string { return s.prefix + ":edge:" + id }
func (s *GraphStore) adjKey(id string) string  { return s.prefix + ":adj:" + id }

func (s *GraphStore) CreateNode(ctx context.Context, typeName string) (string, error) {
	if err := store.ValidateNodeType(typeName); err != nil {
		return "", err
	}

	id := uuid.NewString()
	err := s.rdb.HSet(ctx, s.nodeKey(id), map[string]any{
		"type":    typeName,
		"status":  string(store.NodeStatusActive),
		"created": time.Now().UTC().Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return "", gcerr.Wrapf(err, gcerr.CodeStoreDatabaseFailure, "creating node %s", id)
	}

	s.logger.Debug("created node", "backend", backendName, "node_id", id)
	return id, nil
}

func (s *GraphStore) CreateEdge(ctx context.Context, typeName, end1, end2 string) (string, error) {
	if err := store.ValidateEdge(typeName, end1, end2); err != nil {
		return "", err
	}

	n, err := s.rdb.Exists(ctx, s.nodeKey(end1), s.nodeKey(end2)).Result()
	if err != nil {
		return "", gcerr.Wrapf(err, gcerr.CodeStoreDatabaseFailure, "checking edge ends")
	}
	want := int64(2)
	if end1 == end2 {
		want = 1
	}
	if n != want {
		if _, err := s.GetNode(ctx, end1); err != nil {
			return "", err
		}
		return "", store.NodeNotFound(end2)
	}

	id := uuid.NewString()
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.edgeKey(id), map[string]any{
			"type":    typeName,
			"end1":    end1,
			"end2":    end2,
			"created": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.SAdd(ctx, s.adjKey(end1), id)
		pipe.SAdd(ctx, s.adjKey(end2), id)
		return nil
	})
	if err != nil {
		return "", gcerr.Wrapf(err, gcerr.CodeStoreDatabaseFailure, "creating edge %s", id)
	}
	return id, nil
}

func (s *GraphStore) GetNode(ctx context.Context, id string) (*store.Node, error) {
	fields, err := s.rdb.HGetAll(ctx, s.nodeKey(id)).Result()
	if err != nil {
		return nil, gcerr.Wrapf(err, gcerr.CodeStoreDatabaseFailure, "reading node %s", id)
	}
	if len(fields) == 0 {
		return nil, store.NodeNotFound(id)
	}
	created, _ := time.Parse(time.RFC3339Nano, fields["created"])
	return &store.Node{
		ID:        id,
		Type:      fields["type"],
		Status:    store.NodeStatus(fields["status"]),
		CreatedAt: created,
	}, nil
}

func (s *GraphStore) getEdge(ctx context.Context, id string) (*store.Edge, error) {
	fields, err := s.rdb.HGetAll(ctx, s.edgeKey(id)).Result()
	if err != nil {
		return nil, gcerr.Wrapf(err, gcerr.CodeStoreDatabaseFailure, "reading edge %s", id)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	created, _ := time.Parse(time.RFC3339Nano, fields["created"])
	return &store.Edge{
		ID:        id,
		Type:      fields["type"],
		End1:      fields["end1"],
		End2:      fields["end2"],
		CreatedAt: created,
	}, nil
}

// incident returns the edges touching id, sorted by id.
func (s *GraphStore) incident(ctx context.Context, id string) ([]*store.Edge, error) {
	ids, err := s.rdb.SMembers(ctx, s.adjKey(id)).Result()
	if err != nil {
		return nil, gcerr.Wrapf(err, gcerr.CodeStoreDatabaseFailure, "reading adjacency of %s", id)
	}
	sort.Strings(ids)

	edges := make([]*store.Edge, 0, len(ids))
	for _, edgeID := range ids {
		e, err := s.getEdge(ctx, edgeID)
		if err != nil {
			return nil, err
		}
		if e != nil {
			edges = append(edges, e)
		}
	}
	return edges, nil
}

// walk is a breadth-first search from origin returning hop counts and the
// edges crossed from nodes closer than maxDepth. A negative maxDepth is
// unbounded.
func (s *GraphStore) walk(ctx context.Context, origin string, maxDepth int) (map[string]int, map[string]*store.Edge, error) {
	dist := map[string]int{origin: 0}
	edges := make(map[string]*store.Edge)
	queue := []string{origin}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[cur]
		if maxDepth >= 0 && d >= maxDepth {
			continue
		}

		incident, err := s.incident(ctx, cur)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range incident {
			next := e.End2
			if next == cur {
				next = e.End1
			}
			edges[e.ID] = e
			if _, seen := dist[next]; !seen {
				dist[next] = d + 1
				queue = append(queue, next)
			}
		}
	}
	return dist, edges, nil
}

func (s *GraphStore) nodes(ctx context.Context, dist map[string]int) ([]*store.Node, error) {
	ids := make([]string, 0, len(dist))
	for id := range dist {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*store.Node, 0, len(ids))
	for _, id := range ids {
		n, err := s.GetNode(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *GraphStore) Neighborhood(ctx context.Context, id string, depth int) (*store.Graph, error) {
	if err := store.ValidateDepth(depth); err != nil {
		return nil, err
	}
	if _, err := s.GetNode(ctx, id); err != nil {
		return nil, err
	}

	dist, edges, err := s.walk(ctx, id, depth)
	if err != nil {
		return nil, err
	}

	out := &store.Graph{}
	out.Nodes, err = s.nodes(ctx, dist)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		out.Edges = append(out.Edges, e)
	}
	out.Sort()
	return out, nil
}

func (s *GraphStore) RelatedNodes(ctx context.Context, id string) ([]*store.Node, error) {
	if _, err := s.GetNode(ctx, id); err != nil {
		return nil, err
	}
	dist, _, err := s.walk(ctx, id, -1)
	if err != nil {
		return nil, err
	}
	return s.nodes(ctx, dist)
}

func (s *GraphStore) LinkingPath(context.Context, string, string) (*store.Graph, error) {
	return nil, store.Unsupported(store.FuncLinkingPath, backendName)
}

func (s *GraphStore) DeleteNode(context.Context, string, string) error {
	return store.Unsupported(store.FuncDeleteNode, backendName)
}

// PurgeNode removes the node, its incident edges and their adjacency entries
// in one transaction.
func (s *GraphStore) PurgeNode(ctx context.Context, typeName, id string) error {
	n, err := s.GetNode(ctx, id)
	if err != nil {
		return err
	}
	if err := store.CheckType(n, typeName); err != nil {
		return err
	}

	incident, err := s.incident(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range incident {
			other := e.End2
			if other == id {
				other = e.End1
			}
			pipe.SRem(ctx, s.adjKey(other), e.ID)
			pipe.Del(ctx, s.edgeKey(e.ID))
		}
		pipe.Del(ctx, s.adjKey(id), s.nodeKey(id))
		return nil
	})
	if err != nil {
		return gcerr.Wrapf(err, gcerr.CodeStoreDatabaseFailure, "purging node %s", id)
	}

	s.logger.Debug("purged node", "backend", backendName, "node_id", id, "edges", len(incident))
	return nil
}
