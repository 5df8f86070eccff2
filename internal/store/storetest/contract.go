// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package storetest holds the behaviour every store.GraphStore backend must
// share. Backend test packages call Run with a constructor.
package storetest

import (
	"context"
	"testing"

	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Opener returns a fresh, empty store. Run closes it.
type Opener func(t *testing.T) store.GraphStore

// Run executes the shared contract. Optional functions that report
// unsupported skip their subtests.
func Run(t *testing.T, open Opener) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.GraphStore)
	}{
		{"CreateAndGetNode", testCreateAndGetNode},
		{"GetMissingNode", testGetMissingNode},
		{"CreateNodeRequiresType", testCreateNodeRequiresType},
		{"CreateEdgeUnknownEnd", testCreateEdgeUnknownEnd},
		{"Neighborhood", testNeighborhood},
		{"NeighborhoodMissingOrigin", testNeighborhoodMissingOrigin},
		{"NeighborhoodKeepsEdgesIncident", testNeighborhoodKeepsEdgesIncident},
		{"RelatedNodes", testRelatedNodes},
		{"LinkingPath", testLinkingPath},
		{"LinkingPathDisconnected", testLinkingPathDisconnected},
		{"SoftDelete", testSoftDelete},
		{"PurgeRemovesEdges", testPurgeRemovesEdges},
		{"PurgeMissingNode", testPurgeMissingNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

// chain is node1 -e1-> node2 -e2-> node3.
type chain struct {
	n1, n2, n3 string
	e1, e2     string
}

func buildChain(t *testing.T, s store.GraphStore) chain {
	t.Helper()
	ctx := context.Background()

	var c chain
	var err error
	c.n1, err = s.CreateNode(ctx, "Process")
	require.NoError(t, err)
	c.n2, err = s.CreateNode(ctx, "DataSet")
	require.NoError(t, err)
	c.n3, err = s.CreateNode(ctx, "Process")
	require.NoError(t, err)

	c.e1, err = s.CreateEdge(ctx, "ProcessOutput", c.n1, c.n2)
	require.NoError(t, err)
	c.e2, err = s.CreateEdge(ctx, "DataSetInput", c.n2, c.n3)
	require.NoError(t, err)
	return c
}

func skipIfUnsupported(t *testing.T, err error) {
	t.Helper()
	if gcerr.IsUnsupported(err) {
		t.Skipf("store does not support this function: %v", err)
	}
}

func testCreateAndGetNode(t *testing.T, s store.GraphStore) {
	ctx := context.Background()

	id, err := s.CreateNode(ctx, "Process")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	n, err := s.GetNode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, n.ID)
	assert.Equal(t, "Process", n.Type)
	assert.Equal(t, store.NodeStatusActive, n.Status)

	other, err := s.CreateNode(ctx, "Process")
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func testGetMissingNode(t *testing.T, s store.GraphStore) {
	_, err := s.GetNode(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, gcerr.IsNotFound(err), "want not found, got %v", err)
}

func testCreateNodeRequiresType(t *testing.T, s store.GraphStore) {
	_, err := s.CreateNode(context.Background(), "")
	require.Error(t, err)
	assert.True(t, gcerr.IsInvalidInput(err), "want invalid input, got %v", err)
}

func testCreateEdgeUnknownEnd(t *testing.T, s store.GraphStore) {
	ctx := context.Background()
	n1, err := s.CreateNode(ctx, "Process")
	require.NoError(t, err)

	_, err = s.CreateEdge(ctx, "ProcessOutput", n1, "does-not-exist")
	require.Error(t, err)
	assert.True(t, gcerr.IsNotFound(err), "want not found, got %v", err)
}

func testNeighborhood(t *testing.T, s store.GraphStore) {
	ctx := context.Background()
	c := buildChain(t, s)

	g, err := s.Neighborhood(ctx, c.n1, 0)
	skipIfUnsupported(t, err)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c.n1}, g.NodeIDs())
	assert.Empty(t, g.EdgeIDs())

	g, err = s.Neighborhood(ctx, c.n1, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c.n1, c.n2}, g.NodeIDs())
	assert.ElementsMatch(t, []string{c.e1}, g.EdgeIDs())

	g, err = s.Neighborhood(ctx, c.n2, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c.n1, c.n2, c.n3}, g.NodeIDs())
	assert.ElementsMatch(t, []string{c.e1, c.e2}, g.EdgeIDs())

	g, err = s.Neighborhood(ctx, c.n3, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c.n1, c.n2, c.n3}, g.NodeIDs())
	assert.ElementsMatch(t, []string{c.e1, c.e2}, g.EdgeIDs())

	for _, n := range g.Nodes {
		switch n.ID {
		case c.n2:
			assert.Equal(t, "DataSet", n.Type)
		default:
			assert.Equal(t, "Process", n.Type)
		}
	}
	for _, e := range g.Edges {
		if e.ID == c.e1 {
			assert.Equal(t, "ProcessOutput", e.Type)
			assert.Equal(t, c.n1, e.End1)
			assert.Equal(t, c.n2, e.End2)
		}
	}
}

// testNeighborhoodKeepsEdgesIncident builds a hub with three spokes, one of
// them doubled, and checks every spoke only sees its own edges.
func testNeighborhoodKeepsEdgesIncident(t *testing.T, s store.GraphStore) {
	ctx := context.Background()

	hub, err := s.CreateNode(ctx, "Process")
	require.NoError(t, err)

	spokes := make([]string, 3)
	edges := make(map[string][]string, 3)
	for i := range spokes {
		spokes[i], err = s.CreateNode(ctx, "DataSet")
		require.NoError(t, err)
		e, err := s.CreateEdge(ctx, "ProcessOutput", hub, spokes[i])
		require.NoError(t, err)
		edges[spokes[i]] = append(edges[spokes[i]], e)
	}
	parallel, err := s.CreateEdge(ctx, "ProcessInput", hub, spokes[0])
	require.NoError(t, err)
	edges[spokes[0]] = append(edges[spokes[0]], parallel)

	for _, spoke := range spokes {
		g, err := s.Neighborhood(ctx, spoke, 1)
		skipIfUnsupported(t, err)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{hub, spoke}, g.NodeIDs())
		assert.ElementsMatch(t, edges[spoke], g.EdgeIDs(), "edges of %s", spoke)
	}

	var all []string
	for _, spoke := range spokes {
		all = append(all, edges[spoke]...)
	}
	g, err := s.Neighborhood(ctx, hub, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, all, g.EdgeIDs())
}

func testNeighborhoodMissingOrigin(t *testing.T, s store.GraphStore) {
	_, err := s.Neighborhood(context.Background(), "does-not-exist", 1)
	skipIfUnsupported(t, err)
	require.Error(t, err)
	assert.True(t, gcerr.IsNotFound(err), "want not found, got %v", err)
}

func testRelatedNodes(t *testing.T, s store.GraphStore) {
	ctx := context.Background()
	c := buildChain(t, s)
	isolated, err := s.CreateNode(ctx, "Port")
	require.NoError(t, err)

	nodes, err := s.RelatedNodes(ctx, c.n1)
	skipIfUnsupported(t, err)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c.n1, c.n2, c.n3}, store.NodeIDs(nodes))

	nodes, err = s.RelatedNodes(ctx, isolated)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{isolated}, store.NodeIDs(nodes))
}

func testLinkingPath(t *testing.T, s store.GraphStore) {
	ctx := context.Background()
	c := buildChain(t, s)

	g, err := s.LinkingPath(ctx, c.n1, c.n3)
	skipIfUnsupported(t, err)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c.n1, c.n2, c.n3}, g.NodeIDs())
	assert.ElementsMatch(t, []string{c.e1, c.e2}, g.EdgeIDs())

	g, err = s.LinkingPath(ctx, c.n3, c.n2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c.n2, c.n3}, g.NodeIDs())
	assert.ElementsMatch(t, []string{c.e2}, g.EdgeIDs())

	g, err = s.LinkingPath(ctx, c.n2, c.n2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c.n2}, g.NodeIDs())
	assert.Empty(t, g.EdgeIDs())
}

func testLinkingPathDisconnected(t *testing.T, s store.GraphStore) {
	ctx := context.Background()
	c := buildChain(t, s)
	isolated, err := s.CreateNode(ctx, "Port")
	require.NoError(t, err)

	g, err := s.LinkingPath(ctx, c.n1, isolated)
	skipIfUnsupported(t, err)
	require.NoError(t, err)
	assert.Empty(t, g.NodeIDs())
	assert.Empty(t, g.EdgeIDs())
}

func testSoftDelete(t *testing.T, s store.GraphStore) {
	ctx := context.Background()
	c := buildChain(t, s)

	err := s.DeleteNode(ctx, "Process", c.n3)
	skipIfUnsupported(t, err)
	require.NoError(t, err)

	n, err := s.GetNode(ctx, c.n3)
	require.NoError(t, err)
	assert.Equal(t, store.NodeStatusDeleted, n.Status)

	err = s.DeleteNode(ctx, "Process", c.n2)
	require.Error(t, err, "type mismatch must be rejected")
	assert.True(t, gcerr.IsInvalidInput(err), "want invalid input, got %v", err)

	if g, err := s.Neighborhood(ctx, c.n1, 3); err == nil {
		assert.ElementsMatch(t, []string{c.n1, c.n2}, g.NodeIDs())
		assert.ElementsMatch(t, []string{c.e1}, g.EdgeIDs())
	}

	require.NoError(t, s.PurgeNode(ctx, "Process", c.n3))
	_, err = s.GetNode(ctx, c.n3)
	assert.True(t, gcerr.IsNotFound(err), "want not found, got %v", err)
}

func testPurgeRemovesEdges(t *testing.T, s store.GraphStore) {
	ctx := context.Background()
	c := buildChain(t, s)

	require.NoError(t, s.PurgeNode(ctx, "DataSet", c.n2))

	_, err := s.GetNode(ctx, c.n2)
	assert.True(t, gcerr.IsNotFound(err), "want not found, got %v", err)

	if g, err := s.Neighborhood(ctx, c.n1, 2); err == nil {
		assert.ElementsMatch(t, []string{c.n1}, g.NodeIDs())
		assert.Empty(t, g.EdgeIDs())
	}
	if nodes, err := s.RelatedNodes(ctx, c.n3); err == nil {
		assert.ElementsMatch(t, []string{c.n3}, store.NodeIDs(nodes))
	}

	for _, id := range []string{c.n1, c.n3} {
		n, err := s.GetNode(ctx, id)
		require.NoError(t, err)
		require.NoError(t, s.PurgeNode(ctx, n.Type, id))
	}
}

func testPurgeMissingNode(t *testing.T, s store.GraphStore) {
	err := s.PurgeNode(context.Background(), "Process", "does-not-exist")
	require.Error(t, err)
	assert.True(t, gcerr.IsNotFound(err), "want not found, got %v", err)
}
