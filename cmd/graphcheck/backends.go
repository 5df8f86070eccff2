// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

// Backends register themselves with the store factory.
import (
	_ "github.com/sigil-dev/graphcheck/internal/store/memory"
	_ "github.com/sigil-dev/graphcheck/internal/store/redis"
	_ "github.com/sigil-dev/graphcheck/internal/store/remote"
	_ "github.com/sigil-dev/graphcheck/internal/store/sqlite"
)
