// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package conformance

import (
	"context"
	"log/slog"

	"github.com/sigil-dev/graphcheck/internal/graph"
	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// Teardown removes every node recorded in idx. Each node is fetched for its
// type, soft-deleted when the store supports it, then purged. Purging a node
// removes its edges, so edges are never deleted directly.
func Teardown(ctx context.Context, s store.GraphStore, idx *graph.Index) error {
	if idx == nil {
		return nil
	}

	logger := slog.Default()
	purged := 0
	for _, id := range idx.Nodes() {
		n, err := s.GetNode(ctx, id)
		if err != nil {
			return gcerr.Wrap(err, gcerr.CodeConformanceTeardownFailure, "fetching node for cleanup",
				gcerr.FieldNodeID(id))
		}

		if err := s.DeleteNode(ctx, n.Type, id); err != nil && !gcerr.IsUnsupported(err) {
			return gcerr.Wrap(err, gcerr.CodeConformanceTeardownFailure, "soft-deleting node",
				gcerr.FieldNodeID(id), gcerr.FieldTypeName(n.Type))
		}

		if err := s.PurgeNode(ctx, n.Type, id); err != nil {
			return gcerr.Wrap(err, gcerr.CodeConformanceTeardownFailure, "purging node",
				gcerr.FieldNodeID(id), gcerr.FieldTypeName(n.Type))
		}
		purged++
	}

	logger.Info("removed reference graph", "nodes", purged, "edges", idx.EdgeCount())
	return nil
}
