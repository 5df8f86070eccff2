// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/graphcheck/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect type catalogs",
	}
	cmd.AddCommand(newCatalogValidateCmd())
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a type catalog and show which edge types each node type joins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(titleStyle.Render("catalog "+args[0]) + "\n")
			fmt.Fprintf(&b, "%d node types, %d edge types\n", len(c.NodeTypeNames()), len(c.EdgeTypes()))
			for _, nt := range c.NodeTypeNames() {
				asEnd1, asEnd2 := c.EdgeTypesAt(nt)
				fmt.Fprintf(&b, "%s\n  end1: %s\n  end2: %s\n",
					nameStyle.Render(nt), listOrNone(asEnd1), listOrNone(asEnd2))
			}
			b.WriteString(passStyle.Render("valid") + "\n")

			_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return dimStyle.Render("none")
	}
	return strings.Join(items, ", ")
}
