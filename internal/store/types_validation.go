// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// ValidateNodeType checks a type name passed to CreateNode.
func ValidateNodeType(typeName string) error {
	if typeName == "" {
		return gcerr.New(gcerr.CodeStoreInvalidInput, "node: type name is required")
	}
	return nil
}

// ValidateEdge checks the arguments passed to CreateEdge.
func ValidateEdge(typeName, end1, end2 string) error {
	if typeName == "" {
		return gcerr.New(gcerr.CodeStoreEdgeInvalid, "edge: type name is required")
	}
	if end1 == "" || end2 == "" {
		return gcerr.New(gcerr.CodeStoreEdgeInvalid, "edge: both end ids are required",
			gcerr.FieldTypeName(typeName))
	}
	return nil
}

// ValidateDepth rejects negative neighborhood depths.
func ValidateDepth(depth int) error {
	if depth < 0 {
		return gcerr.Errorf(gcerr.CodeStoreInvalidInput, "neighborhood: depth %d must not be negative", depth)
	}
	return nil
}

// CheckType compares a caller-supplied type with the stored one. An empty
// want matches anything.
func CheckType(n *Node, want string) error {
	if want != "" && n.Type != want {
		return TypeMismatch(n.ID, want, n.Type)
	}
	return nil
}
