// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"fmt"
	"sort"
	"sync"

	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// Factory opens a GraphStore from configuration.
type Factory func(cfg *StorageConfig) (GraphStore, error)

var (
	factories   = map[string]Factory{}
	factoriesMu sync.RWMutex
)

// RegisterBackend registers a factory for a named storage backend.
// Backend packages call this from init(). This function is goroutine-safe.
func RegisterBackend(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveBackend returns the effective backend name, defaulting to "sqlite".
func resolveBackend(cfg *StorageConfig) string {
	if cfg.Backend == "" {
		return "sqlite"
	}
	return cfg.Backend
}

// Open creates the configured store. Functions listed in cfg.Unsupported are
// disabled on the returned store.
func Open(cfg *StorageConfig) (GraphStore, error) {
	backend := resolveBackend(cfg)

	factoriesMu.RLock()
	factory, ok := factories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, gcerr.New(gcerr.CodeStoreBackendUnknown,
			fmt.Sprintf("unsupported storage backend: %q", backend), gcerr.FieldBackend(backend))
	}

	for _, fn := range cfg.Unsupported {
		if !fn.Valid() {
			return nil, gcerr.New(gcerr.CodeStoreInvalidInput,
				fmt.Sprintf("unknown optional function %q", fn), gcerr.FieldBackend(backend))
		}
	}

	s, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	if len(cfg.Unsupported) > 0 {
		s = Restrict(s, backend, cfg.Unsupported...)
	}
	return s, nil
}
