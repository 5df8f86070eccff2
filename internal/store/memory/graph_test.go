// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package memory_test

import (
	"context"
	"testing"

	"github.com/sigil-dev/graphcheck/internal/store"
	"github.com/sigil-dev/graphcheck/internal/store/memory"
	"github.com/sigil-dev/graphcheck/internal/store/storetest"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.GraphStore {
		return memory.New()
	})
}

func TestGraphStore_RegisteredBackend(t *testing.T) {
	s, err := store.Open(&store.StorageConfig{Backend: "memory"})
	require.NoError(t, err)
	defer s.Close()

	id, err := s.CreateNode(context.Background(), "Process")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestGraphStore_RestrictedBackendReportsUnsupported(t *testing.T) {
	s, err := store.Open(&store.StorageConfig{
		Backend:     "memory",
		Unsupported: []store.Function{store.FuncLinkingPath, store.FuncDeleteNode},
	})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	a, err := s.CreateNode(ctx, "Process")
	require.NoError(t, err)

	_, err = s.LinkingPath(ctx, a, a)
	assert.True(t, gcerr.IsUnsupported(err))
	assert.True(t, gcerr.IsUnsupported(s.DeleteNode(ctx, "Process", a)))

	_, err = s.Neighborhood(ctx, a, 1)
	assert.NoError(t, err)
	require.NoError(t, s.PurgeNode(ctx, "Process", a))
}

func TestGraphStore_CycleLinkingPath(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	p, _ := s.CreateNode(ctx, "A")
	q, _ := s.CreateNode(ctx, "A")
	r, _ := s.CreateNode(ctx, "A")
	tail, _ := s.CreateNode(ctx, "A")
	pq, err := s.CreateEdge(ctx, "L", p, q)
	require.NoError(t, err)
	qr, err := s.CreateEdge(ctx, "L", q, r)
	require.NoError(t, err)
	rp, err := s.CreateEdge(ctx, "L", r, p)
	require.NoError(t, err)
	rt, err := s.CreateEdge(ctx, "L", r, tail)
	require.NoError(t, err)

	g, err := s.LinkingPath(ctx, p, tail)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p, q, r, tail}, g.NodeIDs())
	assert.ElementsMatch(t, []string{pq, qr, rp, rt}, g.EdgeIDs())

	g, err = s.Neighborhood(ctx, p, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p, q, r}, g.NodeIDs())
	assert.ElementsMatch(t, []string{pq, rp}, g.EdgeIDs())
}

func TestGraphStore_SelfLoop(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	n, err := s.CreateNode(ctx, "A")
	require.NoError(t, err)
	loop, err := s.CreateEdge(ctx, "Self", n, n)
	require.NoError(t, err)

	g, err := s.Neighborhood(ctx, n, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{n}, g.NodeIDs())
	assert.ElementsMatch(t, []string{loop}, g.EdgeIDs())
}

func TestGraphStore_NegativeDepth(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	n, err := s.CreateNode(ctx, "A")
	require.NoError(t, err)

	_, err = s.Neighborhood(ctx, n, -1)
	require.Error(t, err)
	assert.True(t, gcerr.IsInvalidInput(err))
}

func TestGraphStore_EdgesOfSeparatePairsStayDistinct(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	a, _ := s.CreateNode(ctx, "A")
	b, _ := s.CreateNode(ctx, "A")
	c, _ := s.CreateNode(ctx, "A")
	d, _ := s.CreateNode(ctx, "A")
	ab, err := s.CreateEdge(ctx, "L", a, b)
	require.NoError(t, err)
	cd, err := s.CreateEdge(ctx, "L", c, d)
	require.NoError(t, err)

	g, err := s.Neighborhood(ctx, a, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ab}, g.EdgeIDs())

	g, err = s.LinkingPath(ctx, c, d)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{cd}, g.EdgeIDs())
	for _, e := range g.Edges {
		assert.Equal(t, c, e.End1)
		assert.Equal(t, d, e.End2)
	}

	require.NoError(t, s.PurgeNode(ctx, "A", a))

	g, err = s.Neighborhood(ctx, c, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{c, d}, g.NodeIDs())
	assert.ElementsMatch(t, []string{cd}, g.EdgeIDs())
}
