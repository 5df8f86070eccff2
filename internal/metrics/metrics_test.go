// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package metrics_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/graphcheck/internal/catalog"
	"github.com/sigil-dev/graphcheck/internal/conformance"
	"github.com/sigil-dev/graphcheck/internal/metrics"
	"github.com/sigil-dev/graphcheck/internal/store"
	"github.com/sigil-dev/graphcheck/internal/store/memory"
)

func TestRecorder_CountsAssertionsAndCapabilities(t *testing.T) {
	m := metrics.New()
	rec := m.Recorder("mem")

	rec.AssertCondition(conformance.Assertion{ID: "a-01", Family: conformance.FamilyLinked, Passed: true})
	rec.AssertCondition(conformance.Assertion{ID: "a-02", Family: conformance.FamilyLinked, Passed: false})
	rec.AssertCondition(conformance.Assertion{ID: "a-02", Family: conformance.FamilyLinked, Passed: false})
	rec.DiscoverCapability(conformance.FamilyLinked, conformance.CapabilityEnabled)
	rec.DiscoverCapability(conformance.FamilyConnected, conformance.CapabilityDisabled)

	expected := `
# HELP graphcheck_conformance_assertion_failures_total Failed assertions by identifier
# TYPE graphcheck_conformance_assertion_failures_total counter
graphcheck_conformance_assertion_failures_total{assertion="a-02",target="mem"} 2
# HELP graphcheck_conformance_capability_enabled Discovered graph query support per family
# TYPE graphcheck_conformance_capability_enabled gauge
graphcheck_conformance_capability_enabled{family="connected-entities",target="mem"} 0
graphcheck_conformance_capability_enabled{family="linked-entities",target="mem"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected),
		"graphcheck_conformance_assertion_failures_total",
		"graphcheck_conformance_capability_enabled"))

	n, err := testutil.GatherAndCount(m.Gatherer(), "graphcheck_conformance_assertions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per result")
}

func TestObserveRun_FromRealRun(t *testing.T) {
	m := metrics.New()
	s := store.Restrict(memory.New(), "memory", store.FuncLinkingPath)
	c, err := catalog.New([]string{"Thing"}, catalog.EdgeType{Name: "Link", End1: "Thing", End2: "Thing"})
	require.NoError(t, err)

	start := time.Now()
	results, err := conformance.Run(context.Background(), s, c, conformance.Options{
		Target:   "mem",
		Recorder: m.Recorder("mem"),
	})
	require.NoError(t, err)
	m.ObserveRun("mem", results, time.Since(start), nil)

	expected := `
# HELP graphcheck_conformance_capability_enabled Discovered graph query support per family
# TYPE graphcheck_conformance_capability_enabled gauge
graphcheck_conformance_capability_enabled{family="connected-entities",target="mem"} 1
graphcheck_conformance_capability_enabled{family="entity-neighborhood",target="mem"} 1
graphcheck_conformance_capability_enabled{family="linked-entities",target="mem"} 0
# HELP graphcheck_conformance_reference_graph_size Nodes and edges created for the reference graph
# TYPE graphcheck_conformance_reference_graph_size gauge
graphcheck_conformance_reference_graph_size{kind="edges",target="mem"} 13
graphcheck_conformance_reference_graph_size{kind="nodes",target="mem"} 14
# HELP graphcheck_conformance_run_success Whether the last run passed
# TYPE graphcheck_conformance_run_success gauge
graphcheck_conformance_run_success{target="mem"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected),
		"graphcheck_conformance_capability_enabled",
		"graphcheck_conformance_reference_graph_size",
		"graphcheck_conformance_run_success"))
}

func TestObserveRun_ErrorIsFailure(t *testing.T) {
	m := metrics.New()
	m.ObserveRun("broken", conformance.NewResults("broken"), time.Second, errors.New("teardown failed"))

	expected := `
# HELP graphcheck_conformance_run_success Whether the last run passed
# TYPE graphcheck_conformance_run_success gauge
graphcheck_conformance_run_success{target="broken"} 0
`
	require.NoError(t, testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected),
		"graphcheck_conformance_run_success"))
}

func TestWriteFile(t *testing.T) {
	m := metrics.New()
	m.ObserveRun("mem", conformance.NewResults("mem"), time.Second, nil)

	path := filepath.Join(t.TempDir(), "graphcheck.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `graphcheck_conformance_run_duration_seconds{target="mem"} 1`)
}

func TestWriteFile_BadDirectory(t *testing.T) {
	m := metrics.New()
	err := m.WriteFile(filepath.Join(t.TempDir(), "missing", "out.prom"))
	assert.Error(t, err)
}
