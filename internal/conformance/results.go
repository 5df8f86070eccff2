// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package conformance

import (
	"sort"
	"sync"
)

// TestCaseID prefixes every assertion identifier.
const TestCaseID = "repository-graph-queries"

// TestCaseName leads every assertion message.
const TestCaseName = "Repository graph query test case"

// SuccessMessage is reported when a run records no failed assertion.
const SuccessMessage = "Graph queries can be performed"

// DiscoveredProperty names the capability recorded per family.
const DiscoveredProperty = "Graph query support"

// Family is one of the three graph query families checked per run.
type Family string

const (
	FamilyNeighborhood Family = "entity-neighborhood"
	FamilyConnected    Family = "connected-entities"
	FamilyLinked       Family = "linked-entities"
)

// Families lists every family in verification order.
var Families = []Family{FamilyNeighborhood, FamilyConnected, FamilyLinked}

// Capability records whether a store implements a family.
type Capability string

const (
	CapabilityEnabled  Capability = "Enabled"
	CapabilityDisabled Capability = "Disabled"
)

// Assertion is one boolean check with a human-readable message.
type Assertion struct {
	ID      string `json:"id"`
	Family  Family `json:"family"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// Recorder receives assertions and capability discoveries as they happen.
type Recorder interface {
	AssertCondition(a Assertion)
	DiscoverCapability(f Family, c Capability)
}

// MultiRecorder fans out to every non-nil recorder in order.
func MultiRecorder(recs ...Recorder) Recorder {
	out := make(multiRecorder, 0, len(recs))
	for _, r := range recs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

type multiRecorder []Recorder

func (m multiRecorder) AssertCondition(a Assertion) {
	for _, r := range m {
		r.AssertCondition(a)
	}
}

func (m multiRecorder) DiscoverCapability(f Family, c Capability) {
	for _, r := range m {
		r.DiscoverCapability(f, c)
	}
}

// Results is the in-memory Recorder returned by Run. It is safe for
// concurrent use so several targets may share a reporting sink.
type Results struct {
	mu sync.Mutex

	Target         string                `json:"target,omitempty"`
	Assertions     []Assertion           `json:"assertions"`
	Capabilities   map[Family]Capability `json:"capabilities"`
	NodeCount      int                   `json:"node_count"`
	EdgeCount      int                   `json:"edge_count"`
	SuccessMessage string                `json:"success_message,omitempty"`
}

// NewResults returns an empty Results for target.
func NewResults(target string) *Results {
	return &Results{Target: target, Capabilities: make(map[Family]Capability)}
}

func (r *Results) AssertCondition(a Assertion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Assertions = append(r.Assertions, a)
}

func (r *Results) DiscoverCapability(f Family, c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Capabilities[f] = c
}

// Failed returns the failed assertions in recording order.
func (r *Results) Failed() []Assertion {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Assertion
	for _, a := range r.Assertions {
		if !a.Passed {
			out = append(out, a)
		}
	}
	return out
}

// Counts returns the number of passed and failed assertions.
func (r *Results) Counts() (passed, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.Assertions {
		if a.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// Passed reports whether no assertion failed.
func (r *Results) Passed() bool {
	_, failed := r.Counts()
	return failed == 0
}

// Capability returns the discovered capability of f, if any.
func (r *Results) Capability(f Family) (Capability, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Capabilities[f]
	return c, ok
}

// FailuresByID groups failed assertion counts by identifier, sorted.
func (r *Results) FailuresByID() []IDCount {
	counts := make(map[string]int)
	for _, a := range r.Failed() {
		counts[a.ID]++
	}
	out := make([]IDCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, IDCount{ID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDCount pairs an assertion identifier with a count.
type IDCount struct {
	ID    string
	Count int
}
