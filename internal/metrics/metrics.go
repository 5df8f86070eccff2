// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package metrics exports conformance outcomes as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sigil-dev/graphcheck/internal/conformance"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

const namespace = "graphcheck"

// Metrics holds the collectors for every target of one invocation.
type Metrics struct {
	registry *prometheus.Registry

	assertions   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	capabilities *prometheus.GaugeVec
	graphSize    *prometheus.GaugeVec
	runDuration  *prometheus.GaugeVec
	runSuccess   *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Labels: target, family, result (passed, failed)
		assertions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conformance",
			Name:      "assertions_total",
			Help:      "Assertions evaluated per query family",
		}, []string{"target", "family", "result"}),

		// Labels: target, assertion
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conformance",
			Name:      "assertion_failures_total",
			Help:      "Failed assertions by identifier",
		}, []string{"target", "assertion"}),

		// Labels: target, family. 1 when enabled, 0 when disabled.
		capabilities: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "conformance",
			Name:      "capability_enabled",
			Help:      "Discovered graph query support per family",
		}, []string{"target", "family"}),

		// Labels: target, kind (nodes, edges)
		graphSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "conformance",
			Name:      "reference_graph_size",
			Help:      "Nodes and edges created for the reference graph",
		}, []string{"target", "kind"}),

		runDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "conformance",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}, []string{"target"}),

		// 1 when the run finished and every assertion passed.
		runSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "conformance",
			Name:      "run_success",
			Help:      "Whether the last run passed",
		}, []string{"target"}),
	}
}

// Gatherer exposes the registry for scraping or file output.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Recorder returns a conformance.Recorder that counts into m under target.
func (m *Metrics) Recorder(target string) conformance.Recorder {
	return &recorder{m: m, target: target}
}

// ObserveRun records the outcome of one finished run.
func (m *Metrics) ObserveRun(target string, results *conformance.Results, elapsed time.Duration, err error) {
	m.runDuration.WithLabelValues(target).Set(elapsed.Seconds())

	success := 0.0
	if err == nil && results != nil && results.Passed() {
		success = 1
	}
	m.runSuccess.WithLabelValues(target).Set(success)

	if results != nil {
		m.graphSize.WithLabelValues(target, "nodes").Set(float64(results.NodeCount))
		m.graphSize.WithLabelValues(target, "edges").Set(float64(results.EdgeCount))
	}
}

// WriteFile writes every metric in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return gcerr.Wrapf(err, gcerr.CodeCLISetupFailure, "writing metrics to %s", path)
	}
	return nil
}

type recorder struct {
	m      *Metrics
	target string
}

func (r *recorder) AssertCondition(a conformance.Assertion) {
	result := "passed"
	if !a.Passed {
		result = "failed"
		r.m.failures.WithLabelValues(r.target, a.ID).Inc()
	}
	r.m.assertions.WithLabelValues(r.target, string(a.Family), result).Inc()
}

func (r *recorder) DiscoverCapability(f conformance.Family, c conformance.Capability) {
	v := 0.0
	if c == conformance.CapabilityEnabled {
		v = 1
	}
	r.m.capabilities.WithLabelValues(r.target, string(f)).Set(v)
}
