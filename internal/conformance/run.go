// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package conformance

import (
	"context"
	"log/slog"

	"github.com/sigil-dev/graphcheck/internal/catalog"
	"github.com/sigil-dev/graphcheck/internal/store"
	gcerr "github.com/sigil-dev/graphcheck/pkg/errors"
)

// Defaults for the graph shape and query depth.
const (
	DefaultMaxDepth  = 3
	DefaultMaxFanout = 3
)

// Options tunes a run. Zero values fall back to the defaults.
type Options struct {
	Target    string
	MaxDepth  int
	MaxFanout int
	// MaxLevel is the deepest neighborhood level queried. Nil means
	// DefaultMaxLevel; zero queries level 0 only.
	MaxLevel  *int

	// Recorder also receives every assertion and discovery.
	Recorder Recorder
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxFanout <= 0 {
		o.MaxFanout = DefaultMaxFanout
	}
	if o.MaxLevel == nil || *o.MaxLevel < 0 {
		level := DefaultMaxLevel
		o.MaxLevel = &level
	}
	return o
}

// Run builds a reference graph in s, verifies the graph queries and removes
// the graph again. Teardown runs even when the build fails or ctx is
// cancelled. Failed assertions are reported in the returned Results, not as
// an error.
func Run(ctx context.Context, s store.GraphStore, c *catalog.Catalog, opts Options) (*Results, error) {
	opts = opts.withDefaults()
	results := NewResults(opts.Target)
	rec := MultiRecorder(results, opts.Recorder)
	logger := slog.Default().With("target", opts.Target)

	builder := NewBuilder(s, c, opts.MaxDepth, opts.MaxFanout)
	idx, buildErr := builder.Build(ctx)
	results.NodeCount, results.EdgeCount = builder.NodeCount, builder.EdgeCount

	var verifyErr error
	if buildErr == nil {
		verifyErr = NewVerifier(s, rec, *opts.MaxLevel).Verify(ctx, idx)
		if verifyErr != nil {
			verifyErr = gcerr.Wrap(verifyErr, gcerr.CodeConformanceAssertionFailed, "verification interrupted")
		}
	} else {
		logger.Error("building reference graph failed", "error", buildErr)
	}

	teardownErr := Teardown(context.WithoutCancel(ctx), s, idx)
	if teardownErr != nil {
		logger.Error("removing reference graph failed", "error", teardownErr)
	}

	if err := firstOrJoin(buildErr, verifyErr, teardownErr); err != nil {
		return results, err
	}

	if results.Passed() {
		results.SuccessMessage = SuccessMessage
	}
	passed, failed := results.Counts()
	logger.Info("graph query conformance finished", "passed", passed, "failed", failed)
	return results, nil
}

// firstOrJoin returns the only non-nil error unchanged so its code survives,
// or joins several.
func firstOrJoin(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return gcerr.Join(nonNil...)
	}
}
