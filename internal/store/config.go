// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import "time"

// StorageConfig controls which backend the store factory opens.
type StorageConfig struct {
	Backend  string        // "sqlite", "memory", "redis" or "remote". Empty means "sqlite".
	Path     string        // SQLite database file. Empty opens a private in-memory database.
	Addr     string        // Redis address.
	Password string        // Redis password.
	DB       int           // Redis database number.
	Prefix   string        // Redis key prefix; empty uses "graphcheck".
	Endpoint string        // Base URL of a remote graph store.
	Token    string        // Bearer token sent to a remote graph store.
	Timeout  time.Duration // Per-request timeout for network backends; 0 uses the backend default.

	// Unsupported lists optional functions to disable regardless of backend.
	Unsupported []Function
}
