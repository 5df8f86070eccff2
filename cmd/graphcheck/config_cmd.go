// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/graphcheck/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the graphcheck configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default commented config unless one exists",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = p
			}

			if written := config.BootstrapConfig(path); written != "" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s already exists or could not be written, left unchanged\n", path)
			return err
		},
	})
	return cmd
}
