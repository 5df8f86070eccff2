// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package conformance builds a reference graph inside a store under test,
// checks the store's graph queries against the oracle and removes the graph
// again.
package conformance

import (
	"context"
	"log/slog"

	"github.com/sigil-dev/graphcheck/internal/catalog"
	"github.com/sigil-dev/graphcheck/internal/graph"
	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// Builder grows one connected graph in a store. Type selection is a
// deterministic round-robin, so a catalog and limits always yield the same
// shape.
type Builder struct {
	store     store.GraphStore
	catalog   *catalog.Catalog
	maxDepth  int
	maxFanout int
	logger    *slog.Logger

	idx       *graph.Index
	nodeTypes map[string]string

	NodeCount int
	EdgeCount int
}

// NewBuilder returns a Builder for one run.
func NewBuilder(s store.GraphStore, c *catalog.Catalog, maxDepth, maxFanout int) *Builder {
	return &Builder{
		store:     s,
		catalog:   c,
		maxDepth:  maxDepth,
		maxFanout: maxFanout,
		logger:    slog.Default(),
	}
}

// Build creates the graph and returns its index. On error the index holds
// whatever was created so far, for teardown only.
func (b *Builder) Build(ctx context.Context) (*graph.Index, error) {
	b.idx = graph.NewIndex()
	b.nodeTypes = make(map[string]string)
	b.NodeCount, b.EdgeCount = 0, 0

	edgeTypes := b.catalog.EdgeTypes()
	if len(edgeTypes) == 0 {
		b.logger.Info("catalog declares no edge types, nothing to build")
		return b.idx, nil
	}

	// Seed with one full edge, then grow from its end2.
	first := edgeTypes[0]
	end1Type, end2Type, err := b.catalog.Ends(first)
	if err != nil {
		return b.idx, gcerr.Wrapf(err, gcerr.CodeConformanceBuildFailure, "resolving ends of %s", first)
	}
	end1, err := b.createNode(ctx, end1Type)
	if err != nil {
		return b.idx, err
	}
	end2, err := b.createNode(ctx, end2Type)
	if err != nil {
		return b.idx, err
	}
	if err := b.createEdge(ctx, first, end1, end2); err != nil {
		return b.idx, err
	}

	if b.maxDepth > 1 {
		if err := b.extend(ctx, end2, 1); err != nil {
			return b.idx, err
		}
	}

	b.logger.Info("built reference graph",
		"nodes", b.NodeCount, "edges", b.EdgeCount,
		"max_depth", b.maxDepth, "max_fanout", b.maxFanout)
	return b.idx, nil
}

// extend attaches up to maxFanout partial edges to node. Even slots place
// node at end1, odd slots at end2, and the k-th use of a side picks
// types[k % len(types)] from that side's list.
func (b *Builder) extend(ctx context.Context, node string, depth int) error {
	asEnd1, asEnd2 := b.catalog.EdgeTypesAt(b.nodeTypes[node])

	for fanout := 0; fanout < b.maxFanout; fanout++ {
		if err := ctx.Err(); err != nil {
			return gcerr.Wrapf(err, gcerr.CodeConformanceBuildFailure, "building graph")
		}

		nodeIsEnd1 := fanout%2 == 0
		candidates := asEnd2
		if nodeIsEnd1 {
			candidates = asEnd1
		}
		if len(candidates) == 0 {
			continue
		}
		edgeType := candidates[(fanout/2)%len(candidates)]

		end1Type, end2Type, err := b.catalog.Ends(edgeType)
		if err != nil {
			return gcerr.Wrapf(err, gcerr.CodeConformanceBuildFailure, "resolving ends of %s", edgeType)
		}

		var far string
		if nodeIsEnd1 {
			if far, err = b.createNode(ctx, end2Type); err != nil {
				return err
			}
			err = b.createEdge(ctx, edgeType, node, far)
		} else {
			if far, err = b.createNode(ctx, end1Type); err != nil {
				return err
			}
			err = b.createEdge(ctx, edgeType, far, node)
		}
		if err != nil {
			return err
		}

		child := depth + 1
		if b.maxDepth > child {
			if err := b.extend(ctx, far, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) createNode(ctx context.Context, typeName string) (string, error) {
	id, err := b.store.CreateNode(ctx, typeName)
	if err != nil {
		return "", gcerr.Wrapf(err, gcerr.CodeConformanceBuildFailure, "creating %s node", typeName)
	}
	b.idx.AddNode(id)
	b.nodeTypes[id] = typeName
	b.NodeCount++
	return id, nil
}

func (b *Builder) createEdge(ctx context.Context, typeName, end1, end2 string) error {
	id, err := b.store.CreateEdge(ctx, typeName, end1, end2)
	if err != nil {
		return gcerr.Wrapf(err, gcerr.CodeConformanceBuildFailure, "creating %s edge", typeName)
	}
	if err := b.idx.AddEdge(id, end1, end2); err != nil {
		return gcerr.Wrapf(err, gcerr.CodeConformanceBuildFailure, "indexing %s edge", typeName)
	}
	b.EdgeCount++
	b.logger.Debug("created edge", "edge_id", id, "type_name", typeName, "end1", end1, "end2", end2)
	return nil
}

// NodeType returns the type a node was created with.
func (b *Builder) NodeType(id string) string {
	return b.nodeTypes[id]
}
