// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_UnknownTarget(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "graphcheck.yaml", "storage:\n  backend: memory\n")

	_, err := execute(t, "serve", "--config", cfg, "-t", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestServe_BadListenAddress(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "graphcheck.yaml", "storage:\n  backend: memory\n")

	_, err := execute(t, "serve", "--config", cfg, "--listen", "256.0.0.1:bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}
