// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package memory

import "github.com/sigil-dev/graphcheck/internal/store"

func init() {
	store.RegisterBackend(backendName, func(*store.StorageConfig) (store.GraphStore, error) {
		return New(), nil
	})
}
