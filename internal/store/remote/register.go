// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package remote

import "github.com/sigil-dev/graphcheck/internal/store"

func init() {
	store.RegisterBackend(backendName, func(cfg *store.StorageConfig) (store.GraphStore, error) {
		opts := []Option{WithToken(cfg.Token)}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
		}
		return New(cfg.Endpoint, opts...)
	})
}
