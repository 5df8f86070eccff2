// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"github.com/sigil-dev/graphcheck/internal/store"
)

func init() {
	store.RegisterBackend("sqlite", newGraphStore)
}

func newGraphStore(cfg *store.StorageConfig) (store.GraphStore, error) {
	return NewGraphStore(cfg.Path)
}
