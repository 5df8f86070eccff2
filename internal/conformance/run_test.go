// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package conformance_test

import (
	"context"
	"testing"

	"github.com/sigil-dev/graphcheck/internal/conformance"
	"github.com/sigil-dev/graphcheck/internal/store"
	"github.com/sigil-dev/graphcheck/internal/store/memory"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ConformingStorePasses(t *testing.T) {
	s := newFaultyStore()
	rec := &countingRecorder{}

	results, err := conformance.Run(context.Background(), s, lineageCatalog(t), conformance.Options{
		Target:   "memory",
		Recorder: rec,
	})
	require.NoError(t, err)

	assert.Empty(t, results.Failed())
	assert.True(t, results.Passed())
	assert.Equal(t, conformance.SuccessMessage, results.SuccessMessage)
	assert.Equal(t, "memory", results.Target)
	assert.Equal(t, 9, results.NodeCount)
	assert.Equal(t, 8, results.EdgeCount)

	for _, f := range conformance.Families {
		c, ok := results.Capability(f)
		require.True(t, ok, "family %s", f)
		assert.Equal(t, conformance.CapabilityEnabled, c)
	}

	assert.Equal(t, len(results.Assertions), rec.assertions)
	assert.Equal(t, len(conformance.Families), rec.capabilities)

	s.requireAllGone(t)
}

func TestRun_UnsupportedFamiliesAreSkipped(t *testing.T) {
	s := &faultyStore{GraphStore: store.Restrict(memory.New(), "memory", store.FuncLinkingPath, store.FuncDeleteNode)}

	results, err := conformance.Run(context.Background(), s, lineageCatalog(t), conformance.Options{})
	require.NoError(t, err)
	assert.True(t, results.Passed())

	c, ok := results.Capability(conformance.FamilyLinked)
	require.True(t, ok)
	assert.Equal(t, conformance.CapabilityDisabled, c)

	for _, a := range results.Assertions {
		assert.NotEqual(t, conformance.FamilyLinked, a.Family)
	}

	s.requireAllGone(t)
}

func TestRun_WrongRelatedNodesFail(t *testing.T) {
	s := newFaultyStore()
	s.related = func(ctx context.Context, id string) ([]*store.Node, error) {
		n, err := s.GraphStore.GetNode(ctx, id)
		if err != nil {
			return nil, err
		}
		return []*store.Node{n}, nil
	}

	results, err := conformance.Run(context.Background(), s, lineageCatalog(t), conformance.Options{})
	require.NoError(t, err)
	assert.False(t, results.Passed())
	assert.Empty(t, results.SuccessMessage)

	assert.Equal(t, []conformance.IDCount{
		{ID: conformance.AssertRelatedCount, Count: 9},
		{ID: conformance.AssertRelated, Count: 9},
	}, results.FailuresByID())

	failed := results.Failed()
	require.NotEmpty(t, failed)
	assert.Contains(t, failed[0].Message, conformance.TestCaseName)
	assert.Contains(t, failed[0].Message, "expected [")
	assert.Contains(t, failed[0].Message, "returned [")

	s.requireAllGone(t)
}

func TestRun_UnexpectedEdgesAtLevelZeroFail(t *testing.T) {
	s := newFaultyStore()
	s.neighborhood = func(ctx context.Context, id string, depth int) (*store.Graph, error) {
		g, err := s.GraphStore.Neighborhood(ctx, id, depth)
		if err == nil && depth == 0 {
			g.Edges = append(g.Edges, &store.Edge{ID: "bogus"})
		}
		return g, err
	}

	results, err := conformance.Run(context.Background(), s, lineageCatalog(t), conformance.Options{})
	require.NoError(t, err)

	assert.Equal(t, []conformance.IDCount{
		{ID: conformance.AssertRelationshipCount, Count: 9},
	}, results.FailuresByID())
}

func TestRun_InconsistentCapabilityIsReported(t *testing.T) {
	s := newFaultyStore()
	calls := 0
	s.linking = func(ctx context.Context, start, end string) (*store.Graph, error) {
		calls++
		if calls == 1 {
			return nil, store.Unsupported(store.FuncLinkingPath, "flaky")
		}
		return s.GraphStore.LinkingPath(ctx, start, end)
	}

	results, err := conformance.Run(context.Background(), s, lineageCatalog(t), conformance.Options{})
	require.NoError(t, err)

	c, ok := results.Capability(conformance.FamilyLinked)
	require.True(t, ok)
	assert.Equal(t, conformance.CapabilityDisabled, c, "first observation wins")

	byID := results.FailuresByID()
	require.Len(t, byID, 1)
	assert.Equal(t, conformance.AssertCapability, byID[0].ID)
	assert.Equal(t, 9*9-1, byID[0].Count)
}

func TestRun_StoreErrorsBecomeFailedAssertions(t *testing.T) {
	s := newFaultyStore()
	s.related = func(context.Context, string) ([]*store.Node, error) {
		return nil, errInjected
	}

	results, err := conformance.Run(context.Background(), s, lineageCatalog(t), conformance.Options{})
	require.NoError(t, err)

	assert.Equal(t, []conformance.IDCount{
		{ID: conformance.AssertResult, Count: 9},
	}, results.FailuresByID())
}

func TestRun_BuildFailureStillTearsDown(t *testing.T) {
	s := newFaultyStore()
	s.failEdgeAfter = 2

	results, err := conformance.Run(context.Background(), s, loopCatalog(t), conformance.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errInjected)
	assert.True(t, gcerr.HasCode(err, gcerr.CodeConformanceBuildFailure))
	assert.Empty(t, results.Assertions)
	assert.Empty(t, results.SuccessMessage)

	s.requireAllGone(t)
}

func TestRun_TeardownFailure(t *testing.T) {
	s := newFaultyStore()
	s.purgeErr = errInjected

	_, err := conformance.Run(context.Background(), s, loopCatalog(t), conformance.Options{MaxDepth: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, errInjected)
	assert.True(t, gcerr.HasCode(err, gcerr.CodeConformanceTeardownFailure))
}

func TestRun_BuildAndTeardownFailuresAreJoined(t *testing.T) {
	s := newFaultyStore()
	s.failEdgeAfter = 1
	s.purgeErr = errInjected

	_, err := conformance.Run(context.Background(), s, loopCatalog(t), conformance.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errInjected)
	assert.Contains(t, err.Error(), "creating Link edge")
	assert.Contains(t, err.Error(), "purging node")
}

func TestRun_CancelledContextStillTearsDown(t *testing.T) {
	s := newFaultyStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conformance.Run(ctx, s, loopCatalog(t), conformance.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	s.requireAllGone(t)
}

func TestRun_EmptyCatalogPasses(t *testing.T) {
	results, err := conformance.Run(context.Background(), memory.New(), mustEmptyCatalog(t), conformance.Options{})
	require.NoError(t, err)
	assert.Empty(t, results.Assertions)
	assert.Equal(t, conformance.SuccessMessage, results.SuccessMessage)
}

func TestRun_MaxLevel(t *testing.T) {
	zero, negative := 0, -1
	tests := []struct {
		name  string
		level *int
		want  int
	}{
		{"unset uses default", nil, conformance.DefaultMaxLevel},
		{"zero queries origin only", &zero, 0},
		{"negative uses default", &negative, conformance.DefaultMaxLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFaultyStore()
			deepest := -1
			s.neighborhood = func(ctx context.Context, id string, depth int) (*store.Graph, error) {
				deepest = max(deepest, depth)
				return s.GraphStore.Neighborhood(ctx, id, depth)
			}

			results, err := conformance.Run(context.Background(), s, lineageCatalog(t), conformance.Options{MaxLevel: tt.level})
			require.NoError(t, err)
			assert.True(t, results.Passed())
			assert.Equal(t, tt.want, deepest)
		})
	}
}
