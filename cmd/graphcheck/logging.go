// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/sigil-dev/graphcheck/internal/config"
)

// setupLogging installs a charmbracelet/log handler as the slog default so
// every package logging through slog.Default() shares one sink.
func setupLogging(w io.Writer, cfg config.LoggingConfig) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		Prefix:          "graphcheck",
	})
	slog.SetDefault(slog.New(logger))
}
