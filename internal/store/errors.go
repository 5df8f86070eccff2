// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"fmt"

	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// NodeNotFound reports a node id the store does not hold.
func NodeNotFound(id string) error {
	return gcerr.New(gcerr.CodeStoreNodeNotFound, fmt.Sprintf("node %s: not found", id), gcerr.FieldNodeID(id))
}

// Unsupported reports that fn is not implemented by backend.
func Unsupported(fn Function, backend string) error {
	return gcerr.Unsupported(string(fn), gcerr.FieldBackend(backend))
}

// TypeMismatch reports a caller-supplied type that disagrees with the stored
// node.
func TypeMismatch(id, want, got string) error {
	return gcerr.New(gcerr.CodeStoreInvalidInput,
		fmt.Sprintf("node %s has type %q, not %q", id, got, want),
		gcerr.FieldNodeID(id), gcerr.FieldTypeName(want))
}
