// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sigil-dev/graphcheck/internal/store"
)

const defaultTimeout = 5 * time.Second

func init() {
	store.RegisterBackend(backendName, newGraphStore)
}

func newGraphStore(cfg *store.StorageConfig) (store.GraphStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return New(ctx, &redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}, cfg.Prefix)
}
