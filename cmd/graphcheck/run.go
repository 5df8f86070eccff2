// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sigil-dev/graphcheck/internal/catalog"
	"github.com/sigil-dev/graphcheck/internal/config"
	"github.com/sigil-dev/graphcheck/internal/conformance"
	"github.com/sigil-dev/graphcheck/internal/metrics"
	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// targetRun is the outcome of checking one target.
type targetRun struct {
	Name     string               `json:"name"`
	Backend  string               `json:"backend"`
	Results  *conformance.Results `json:"results,omitempty"`
	Duration time.Duration        `json:"duration_ns"`
	Error    string               `json:"error,omitempty"`

	err error
}

func newRunCmd(a *app) *cobra.Command {
	var (
		targets     []string
		catalogPath string
		metricsFile string
		parallel    int
		asJSON      bool
		showFailed  int
		maxDepth    int
		maxFanout   int
		maxLevel    int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check graph queries of one or more stores",
		Long: `Build a reference graph in each target store, check its graph queries against
the oracle and remove the graph again. Targets come from the "targets" config
section; with none configured the "storage" section is checked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			applyIntFlag(cmd, "max-depth", maxDepth, &cfg.Graph.MaxDepth)
			applyIntFlag(cmd, "max-fanout", maxFanout, &cfg.Graph.MaxFanout)
			applyIntFlag(cmd, "max-level", maxLevel, &cfg.Graph.MaxLevel)
			if catalogPath == "" {
				catalogPath = cfg.Catalog.Path
			}
			if metricsFile == "" {
				metricsFile = cfg.Metrics.File
			}
			if errs := cfg.Validate(); len(errs) > 0 {
				return gcerr.Wrap(errs[0], gcerr.CodeCLIInputInvalid, "invalid run options")
			}

			if catalogPath == "" {
				return gcerr.New(gcerr.CodeCLIInputInvalid, "a type catalog is required: pass --catalog or set catalog.path")
			}
			cat, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}

			resolved, err := cfg.ResolveTargets(targets...)
			if err != nil {
				return err
			}

			m := metrics.New()
			runs := runTargets(cmd.Context(), cfg.Graph, cat, resolved, m, parallel)

			if metricsFile != "" {
				if err := m.WriteFile(metricsFile); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(runs); err != nil {
					return gcerr.Errorf(gcerr.CodeCLISetupFailure, "encoding report: %w", err)
				}
			} else if _, err := out.Write([]byte(renderReport(runs, showFailed))); err != nil {
				return err
			}

			return runsError(runs)
		},
	}

	cmd.Flags().StringSliceVarP(&targets, "target", "t", nil, "target name to check (repeatable); defaults to all")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "type catalog file (overrides catalog.path)")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file (overrides metrics.file)")
	cmd.Flags().IntVar(&parallel, "parallel", 4, "targets checked at the same time")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().IntVar(&showFailed, "show-failures", 10, "failed assertion messages listed per target")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "levels of the reference tree (overrides graph.max_depth)")
	cmd.Flags().IntVar(&maxFanout, "max-fanout", 0, "edges per node in the reference tree (overrides graph.max_fanout)")
	cmd.Flags().IntVar(&maxLevel, "max-level", 0, "deepest neighborhood query (overrides graph.max_level)")

	return cmd
}

func applyIntFlag(cmd *cobra.Command, name string, value int, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}

// runTargets checks every target, at most parallel at a time. A failing
// target never stops the others.
func runTargets(ctx context.Context, g config.GraphConfig, cat *catalog.Catalog,
	targets map[string]config.StorageConfig, m *metrics.Metrics, parallel int,
) []*targetRun {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	runs := make([]*targetRun, len(names))

	var group errgroup.Group
	if parallel > 0 {
		group.SetLimit(parallel)
	}
	for i, name := range names {
		group.Go(func() error {
			runs[i] = runTarget(ctx, name, targets[name], g, cat, m)
			return nil
		})
	}
	_ = group.Wait()

	return runs
}

func runTarget(ctx context.Context, name string, sc config.StorageConfig, g config.GraphConfig,
	cat *catalog.Catalog, m *metrics.Metrics,
) *targetRun {
	logger := slog.Default().With("target", name)
	run := &targetRun{Name: name, Backend: sc.Backend}
	start := time.Now()

	s, err := store.Open(sc.StoreConfig())
	if err != nil {
		run.fail(err)
		m.ObserveRun(name, nil, time.Since(start), err)
		logger.Error("opening store failed", "error", err)
		return run
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("closing store failed", "error", err)
		}
	}()

	run.Results, err = conformance.Run(ctx, s, cat, conformance.Options{
		Target:    name,
		MaxDepth:  g.MaxDepth,
		MaxFanout: g.MaxFanout,
		MaxLevel:  &g.MaxLevel,
		Recorder:  m.Recorder(name),
	})
	run.Duration = time.Since(start)
	if err != nil {
		run.fail(err)
	}
	m.ObserveRun(name, run.Results, run.Duration, err)
	return run
}

func (r *targetRun) fail(err error) {
	r.err = err
	r.Error = err.Error()
}

func (r *targetRun) passed() bool {
	return r.err == nil && r.Results != nil && r.Results.Passed()
}

// runsError reports a non-zero outcome when any target errored or failed an
// assertion.
func runsError(runs []*targetRun) error {
	var errs []error
	failedTargets := 0
	for _, r := range runs {
		if r.err != nil {
			errs = append(errs, gcerr.Wrap(r.err, gcerr.CodeConformanceAssertionFailed, "target "+r.Name))
			continue
		}
		if !r.passed() {
			failedTargets++
		}
	}
	if failedTargets > 0 {
		errs = append(errs, gcerr.Errorf(gcerr.CodeConformanceAssertionFailed,
			"%d of %d targets failed graph query assertions", failedTargets, len(runs)))
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return gcerr.Join(errs...)
	}
}
