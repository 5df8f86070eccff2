// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sigil-dev/graphcheck/internal/store"
	"github.com/sigil-dev/graphcheck/internal/store/sqlite"
	"github.com/sigil-dev/graphcheck/internal/store/storetest"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.GraphStore {
		gs, err := sqlite.NewGraphStore(testDBPath(t, "graph"))
		require.NoError(t, err)
		return gs
	})
}

func TestGraphStore_ContractInMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.GraphStore {
		gs, err := sqlite.NewGraphStore("")
		require.NoError(t, err)
		return gs
	})
}

func TestGraphStore_Persistence(t *testing.T) {
	ctx := context.Background()
	db := testDBPath(t, "persist")

	gs, err := sqlite.NewGraphStore(db)
	require.NoError(t, err)
	a, err := gs.CreateNode(ctx, "Process")
	require.NoError(t, err)
	b, err := gs.CreateNode(ctx, "DataSet")
	require.NoError(t, err)
	e, err := gs.CreateEdge(ctx, "ProcessOutput", a, b)
	require.NoError(t, err)
	require.NoError(t, gs.Close())

	gs, err = sqlite.NewGraphStore(db)
	require.NoError(t, err)
	defer func() { _ = gs.Close() }()

	n, err := gs.GetNode(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "DataSet", n.Type)
	assert.False(t, n.CreatedAt.IsZero())

	g, err := gs.Neighborhood(ctx, a, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, g.NodeIDs())
	assert.ElementsMatch(t, []string{e}, g.EdgeIDs())
}

func TestGraphStore_CycleTerminates(t *testing.T) {
	ctx := context.Background()
	gs, err := sqlite.NewGraphStore(testDBPath(t, "cycle"))
	require.NoError(t, err)
	defer func() { _ = gs.Close() }()

	p, _ := gs.CreateNode(ctx, "A")
	q, _ := gs.CreateNode(ctx, "A")
	r, _ := gs.CreateNode(ctx, "A")
	tail, _ := gs.CreateNode(ctx, "A")
	pq, err := gs.CreateEdge(ctx, "L", p, q)
	require.NoError(t, err)
	qr, err := gs.CreateEdge(ctx, "L", q, r)
	require.NoError(t, err)
	rp, err := gs.CreateEdge(ctx, "L", r, p)
	require.NoError(t, err)
	rt, err := gs.CreateEdge(ctx, "L", r, tail)
	require.NoError(t, err)

	nodes, err := gs.RelatedNodes(ctx, p)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p, q, r, tail}, store.NodeIDs(nodes))

	g, err := gs.LinkingPath(ctx, p, tail)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p, q, r, tail}, g.NodeIDs())
	assert.ElementsMatch(t, []string{pq, qr, rp, rt}, g.EdgeIDs())

	g, err = gs.Neighborhood(ctx, p, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{p, q, r}, g.NodeIDs())
	assert.ElementsMatch(t, []string{pq, rp}, g.EdgeIDs())
}

func TestGraphStore_OpenFailure(t *testing.T) {
	dir := testDir(t)
	dbPath := filepath.Join(dir, "graph.db")
	// A directory where the database file should be makes open fail.
	require.NoError(t, os.Mkdir(dbPath, 0o755))

	_, err := sqlite.NewGraphStore(dbPath)
	require.Error(t, err)
	assert.True(t, gcerr.HasCode(err, gcerr.CodeStoreDatabaseFailure))
}

func TestGraphStore_RegisteredAsDefaultBackend(t *testing.T) {
	s, err := store.Open(&store.StorageConfig{Path: testDBPath(t, "factory")})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, ok := s.(*sqlite.GraphStore)
	assert.True(t, ok, "empty backend should open sqlite")
}
