// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/graphcheck/internal/config"
)

// app is the state shared by every subcommand once the root has loaded the
// configuration.
type app struct {
	cfg     *config.Config
	cfgPath string
}

// NewRootCmd creates the root graphcheck command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "graphcheck",
		Short:         "graphcheck - graph query conformance checks for metadata stores",
		Long:          "graphcheck builds a reference graph inside a store, checks its neighborhood, related-entity and linking-path queries against an independent oracle, and removes the graph again.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	// Global flags
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(a),
		newServeCmd(a),
		newCatalogCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// load reads the config file named by --config, or the first of
// ./graphcheck.yaml and ~/.config/graphcheck/graphcheck.yaml that exists.
// With no file, defaults and environment variables still apply.
func (a *app) load(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = discoverConfig()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	config.WarnInsecurePermissions(path)

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	setupLogging(cmd.ErrOrStderr(), cfg.Logging)

	a.cfg = cfg
	a.cfgPath = path
	return nil
}

func discoverConfig() string {
	candidates := []string{"graphcheck.yaml"}
	if p, err := config.DefaultConfigPath(); err == nil {
		candidates = append(candidates, p)
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
