// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/graphcheck/internal/config"
	"github.com/sigil-dev/graphcheck/internal/server"
	"github.com/sigil-dev/graphcheck/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		target string
		listen string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose a store over HTTP for remote checks",
		Long: `Serve one configured store over HTTP so "graphcheck run" can check it
from elsewhere with the remote backend.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := a.cfg.ResolveTargets(target)
			if err != nil {
				return err
			}
			sc := resolved[target]

			if listen == "" {
				listen = a.cfg.Server.Listen
			}

			s, err := store.Open(sc.StoreConfig())
			if err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				ListenAddr:  listen,
				CORSOrigins: a.cfg.Server.CORSOrigins,
				Token:       a.cfg.Server.Token,
			}, s)
			if err != nil {
				_ = s.Close()
				return err
			}
			defer func() { _ = srv.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			slog.Info("serving graph store", "target", target, "backend", sc.Backend, "listen", listen)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", config.DefaultTarget, "configured target to serve")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides server.listen)")

	return cmd
}
