// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package conformance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sigil-dev/graphcheck/internal/graph"
	"github.com/sigil-dev/graphcheck/internal/oracle"
	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// Assertion identifiers.
const (
	AssertResult              = TestCaseID + "-01"
	AssertEntityCount         = TestCaseID + "-02"
	AssertEntities            = TestCaseID + "-03"
	AssertRelationshipCount   = TestCaseID + "-04"
	AssertRelationships       = TestCaseID + "-05"
	AssertRelatedCount        = TestCaseID + "-06"
	AssertRelated             = TestCaseID + "-07"
	AssertLinkingEntityCount  = TestCaseID + "-08"
	AssertLinkingEntities     = TestCaseID + "-09"
	AssertLinkingRelCount     = TestCaseID + "-10"
	AssertLinkingRelationship = TestCaseID + "-11"
	AssertCapability          = TestCaseID + "-capability"
)

var assertionText = map[string]string{
	AssertResult:              " graph query returned a result.",
	AssertEntityCount:         " graph query returned the expected number of entities.",
	AssertEntities:            " graph query returned all the expected entities.",
	AssertRelationshipCount:   " graph query returned the expected number of relationships.",
	AssertRelationships:       " graph query returned all the expected relationships.",
	AssertRelatedCount:        " graph query returned the expected number of related entities.",
	AssertRelated:             " graph query returned all the expected related entities.",
	AssertLinkingEntityCount:  " graph query returned the expected number of entities.",
	AssertLinkingEntities:     " graph query returned all the expected entities.",
	AssertLinkingRelCount:     " graph query returned the expected number of relationships.",
	AssertLinkingRelationship: " graph query returned all the expected relationships.",
	AssertCapability:          " graph query support was consistent across calls.",
}

// DefaultMaxLevel is the deepest neighborhood level queried.
const DefaultMaxLevel = 3

// Verifier issues the three query families against a store and compares each
// answer with the oracle. It never mutates the store.
type Verifier struct {
	store    store.GraphStore
	recorder Recorder
	maxLevel int
	logger   *slog.Logger

	// capabilities holds the first observed outcome per family.
	capabilities map[Family]Capability
}

// NewVerifier returns a Verifier reporting to rec.
func NewVerifier(s store.GraphStore, rec Recorder, maxLevel int) *Verifier {
	return &Verifier{
		store:        s,
		recorder:     rec,
		maxLevel:     maxLevel,
		logger:       slog.Default(),
		capabilities: make(map[Family]Capability),
	}
}

// Verify runs every campaign over idx. Only context cancellation is
// returned; store errors become failed assertions.
func (v *Verifier) Verify(ctx context.Context, idx *graph.Index) error {
	nodes := idx.Nodes()

	for _, node := range nodes {
		for level := 0; level <= v.maxLevel; level++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			v.checkNeighborhood(ctx, idx, node, level)
		}
	}

	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.checkRelated(ctx, idx, node)
	}

	conn := idx.Connectivity()
	for _, a := range nodes {
		for _, b := range nodes {
			if err := ctx.Err(); err != nil {
				return err
			}
			v.checkLinking(ctx, conn, a, b)
		}
	}
	return nil
}

// observe records the outcome of one call. It returns false when the call
// was unsupported and the comparison should be skipped.
func (v *Verifier) observe(f Family, err error) bool {
	c := CapabilityEnabled
	if gcerr.IsUnsupported(err) {
		c = CapabilityDisabled
	}

	prev, seen := v.capabilities[f]
	switch {
	case !seen:
		v.capabilities[f] = c
		v.recorder.DiscoverCapability(f, c)
		v.logger.Info("discovered capability", "family", f, "capability", c)
	case prev != c:
		v.assert(f, AssertCapability, false,
			fmt.Sprintf("first call reported %s, a later call reported %s", prev, c))
	}
	return c == CapabilityEnabled
}

func (v *Verifier) assert(f Family, id string, ok bool, detail string) {
	msg := TestCaseName + assertionText[id]
	if !ok && detail != "" {
		msg += " " + detail
	}
	v.recorder.AssertCondition(Assertion{ID: id, Family: f, Passed: ok, Message: msg})
}

func (v *Verifier) storeFailure(f Family, query string, err error) {
	v.logger.Warn("graph query failed", "family", f, "query", query, "error", err)
	v.assert(f, AssertResult, false, fmt.Sprintf("%s: %v", query, err))
}

func (v *Verifier) checkNeighborhood(ctx context.Context, idx *graph.Index, node string, level int) {
	const f = FamilyNeighborhood
	query := fmt.Sprintf("neighborhood of %s at level %d", node, level)

	g, err := v.store.Neighborhood(ctx, node, level)
	if !v.observe(f, err) {
		return
	}
	if err != nil {
		v.storeFailure(f, query, err)
		return
	}

	want := oracle.Explore(idx, node, "", level)

	v.assert(f, AssertResult, g != nil, query)
	gotNodes := g.NodeIDs()
	gotEdges := g.EdgeIDs()

	// The origin is always expected, so an empty answer is a failure.
	v.compareCount(f, AssertEntityCount, query, want.Nodes, gotNodes, false)
	v.compareMembers(f, AssertEntities, query, want.Nodes, gotNodes)

	v.compareCount(f, AssertRelationshipCount, query, want.Edges, gotEdges, true)
	if want.Edges.Len() > 0 {
		v.compareMembers(f, AssertRelationships, query, want.Edges, gotEdges)
	}
}

func (v *Verifier) checkRelated(ctx context.Context, idx *graph.Index, node string) {
	const f = FamilyConnected
	query := fmt.Sprintf("related entities of %s", node)

	nodes, err := v.store.RelatedNodes(ctx, node)
	if !v.observe(f, err) {
		return
	}
	if err != nil {
		v.storeFailure(f, query, err)
		return
	}

	want := oracle.Reachable(idx, node)
	got := store.NodeIDs(nodes)
	v.compareCount(f, AssertRelatedCount, query, want.Nodes, got, false)
	v.compareMembers(f, AssertRelated, query, want.Nodes, got)
}

func (v *Verifier) checkLinking(ctx context.Context, conn graph.ConnectivityMap, a, b string) {
	const f = FamilyLinked
	query := fmt.Sprintf("linking entities from %s to %s", a, b)

	g, err := v.store.LinkingPath(ctx, a, b)
	if !v.observe(f, err) {
		return
	}
	if err != nil {
		v.storeFailure(f, query, err)
		return
	}

	want := oracle.PathMembership(conn, a, b)
	gotNodes := g.NodeIDs()
	gotEdges := g.EdgeIDs()

	v.compareCount(f, AssertLinkingEntityCount, query, want.Nodes, gotNodes, true)
	v.compareLinked(f, AssertLinkingEntities, query, want.Nodes, gotNodes)
	v.compareCount(f, AssertLinkingRelCount, query, want.Edges, gotEdges, true)
	v.compareLinked(f, AssertLinkingRelationship, query, want.Edges, gotEdges)
}

// compareLinked is compareMembers for path answers: with nothing expected the
// returned collection must be absent or empty.
func (v *Verifier) compareLinked(f Family, id, query string, want oracle.IDSet, got []string) {
	if want.Len() == 0 {
		v.assert(f, id, len(got) == 0, mismatch(query, want, got))
		return
	}
	v.compareMembers(f, id, query, want, got)
}

// compareCount checks the number of distinct returned ids. With emptyOK an
// empty expectation is met by an absent or empty collection; without it an
// empty answer always fails.
func (v *Verifier) compareCount(f Family, id, query string, want oracle.IDSet, got []string, emptyOK bool) {
	n := oracle.NewIDSet(got...).Len()
	ok := n == want.Len()
	if !emptyOK && n == 0 {
		ok = false
	}
	v.assert(f, id, ok, mismatch(query, want, got))
}

// compareMembers checks every expected id was returned.
func (v *Verifier) compareMembers(f Family, id, query string, want oracle.IDSet, got []string) {
	missing := want.Missing(oracle.NewIDSet(got...))
	v.assert(f, id, missing.Len() == 0, mismatch(query, want, got))
}

func mismatch(query string, want oracle.IDSet, got []string) string {
	return fmt.Sprintf("%s: expected %s, returned %s", query, want, oracle.NewIDSet(got...))
}
