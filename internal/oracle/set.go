// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package oracle

import (
	"sort"
	"strings"
)

// IDSet is an unordered set of node or edge identifiers.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids. Duplicates collapse.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s IDSet) Add(id string) { s[id] = struct{}{} }

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int { return len(s) }

// Sorted returns the members in lexical order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Equal reports set equality. A nil set equals an empty one.
func (s IDSet) Equal(other IDSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Missing returns the members of s absent from other.
func (s IDSet) Missing(other IDSet) IDSet {
	out := IDSet{}
	for id := range s {
		if !other.Has(id) {
			out.Add(id)
		}
	}
	return out
}

func (s IDSet) String() string {
	return "[" + strings.Join(s.Sorted(), ", ") + "]"
}

// Subgraph is an expected or returned query result expressed as identifier
// sets.
type Subgraph struct {
	Nodes IDSet
	Edges IDSet
}

func newSubgraph() Subgraph {
	return Subgraph{Nodes: IDSet{}, Edges: IDSet{}}
}

// Empty reports whether the subgraph has neither nodes nor edges.
func (g Subgraph) Empty() bool {
	return g.Nodes.Len() == 0 && g.Edges.Len() == 0
}
