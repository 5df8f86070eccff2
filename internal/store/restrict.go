// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import "context"

// Restrict wraps s so the listed optional functions report unsupported.
func Restrict(s GraphStore, backend string, fns ...Function) GraphStore {
	r := &restricted{GraphStore: s, backend: backend, disabled: make(map[Function]bool, len(fns))}
	for _, fn := range fns {
		r.disabled[fn] = true
	}
	return r
}

type restricted struct {
	GraphStore
	backend  string
	disabled map[Function]bool
}

func (r *restricted) Neighborhood(ctx context.Context, id string, depth int) (*Graph, error) {
	if r.disabled[FuncNeighborhood] {
		return nil, Unsupported(FuncNeighborhood, r.backend)
	}
	return r.GraphStore.Neighborhood(ctx, id, depth)
}

func (r *restricted) RelatedNodes(ctx context.Context, id string) ([]*Node, error) {
	if r.disabled[FuncRelatedNodes] {
		return nil, Unsupported(FuncRelatedNodes, r.backend)
	}
	return r.GraphStore.RelatedNodes(ctx, id)
}

func (r *restricted) LinkingPath(ctx context.Context, start, end string) (*Graph, error) {
	if r.disabled[FuncLinkingPath] {
		return nil, Unsupported(FuncLinkingPath, r.backend)
	}
	return r.GraphStore.LinkingPath(ctx, start, end)
}

func (r *restricted) DeleteNode(ctx context.Context, typeName, id string) error {
	if r.disabled[FuncDeleteNode] {
		return Unsupported(FuncDeleteNode, r.backend)
	}
	return r.GraphStore.DeleteNode(ctx, typeName, id)
}
