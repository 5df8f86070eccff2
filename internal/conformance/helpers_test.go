// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package conformance_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sigil-dev/graphcheck/internal/catalog"
	"github.com/sigil-dev/graphcheck/internal/conformance"
	"github.com/sigil-dev/graphcheck/internal/store"
	"github.com/sigil-dev/graphcheck/internal/store/memory"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected fault")

// faultyStore wraps a working store and records every node it creates. Hooks
// left nil fall through to the wrapped store.
type faultyStore struct {
	store.GraphStore

	mu      sync.Mutex
	created []string
	edges   int

	// failEdgeAfter makes CreateEdge fail once this many edges exist.
	failEdgeAfter int
	purgeErr      error
	related       func(ctx context.Context, id string) ([]*store.Node, error)
	linking       func(ctx context.Context, start, end string) (*store.Graph, error)
	neighborhood  func(ctx context.Context, id string, depth int) (*store.Graph, error)
}

func newFaultyStore() *faultyStore {
	return &faultyStore{GraphStore: memory.New()}
}

func (f *faultyStore) CreateNode(ctx context.Context, typeName string) (string, error) {
	id, err := f.GraphStore.CreateNode(ctx, typeName)
	if err == nil {
		f.mu.Lock()
		f.created = append(f.created, id)
		f.mu.Unlock()
	}
	return id, err
}

func (f *faultyStore) CreateEdge(ctx context.Context, typeName, end1, end2 string) (string, error) {
	f.mu.Lock()
	fail := f.failEdgeAfter > 0 && f.edges >= f.failEdgeAfter
	f.mu.Unlock()
	if fail {
		return "", errInjected
	}
	id, err := f.GraphStore.CreateEdge(ctx, typeName, end1, end2)
	if err == nil {
		f.mu.Lock()
		f.edges++
		f.mu.Unlock()
	}
	return id, err
}

func (f *faultyStore) Neighborhood(ctx context.Context, id string, depth int) (*store.Graph, error) {
	if f.neighborhood != nil {
		return f.neighborhood(ctx, id, depth)
	}
	return f.GraphStore.Neighborhood(ctx, id, depth)
}

func (f *faultyStore) RelatedNodes(ctx context.Context, id string) ([]*store.Node, error) {
	if f.related != nil {
		return f.related(ctx, id)
	}
	return f.GraphStore.RelatedNodes(ctx, id)
}

func (f *faultyStore) LinkingPath(ctx context.Context, start, end string) (*store.Graph, error) {
	if f.linking != nil {
		return f.linking(ctx, start, end)
	}
	return f.GraphStore.LinkingPath(ctx, start, end)
}

func (f *faultyStore) PurgeNode(ctx context.Context, typeName, id string) error {
	if f.purgeErr != nil {
		return f.purgeErr
	}
	return f.GraphStore.PurgeNode(ctx, typeName, id)
}

// requireAllGone asserts no created node can still be fetched.
func (f *faultyStore) requireAllGone(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, f.created)
	for _, id := range f.created {
		_, err := f.GraphStore.GetNode(context.Background(), id)
		require.True(t, gcerr.IsNotFound(err), "node %s still retrievable: %v", id, err)
	}
}

func lineageCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load("../catalog/testdata/lineage.yaml")
	require.NoError(t, err)
	return c
}

// loopCatalog has one node type that can sit at either end of one edge
// type, so every fanout slot is filled.
func loopCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]string{"Thing"}, catalog.EdgeType{Name: "Link", End1: "Thing", End2: "Thing"})
	require.NoError(t, err)
	return c
}

func mustEmptyCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(nil)
	require.NoError(t, err)
	return c
}

// countingRecorder counts what it receives.
type countingRecorder struct {
	mu           sync.Mutex
	assertions   int
	capabilities int
}

func (c *countingRecorder) AssertCondition(conformance.Assertion) {
	c.mu.Lock()
	c.assertions++
	c.mu.Unlock()
}

func (c *countingRecorder) DiscoverCapability(conformance.Family, conformance.Capability) {
	c.mu.Lock()
	c.capabilities++
	c.mu.Unlock()
}
