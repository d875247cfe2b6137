package main

import (
	"github.com/spf13/cobra"

	"wlcheck/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation API and upload form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.deps(cmd.Context())
			if err != nil {
				return err
			}
			cfg := server.Config{Addr: a.cfg.Server.Addr, MaxBodyBytes: a.cfg.Server.MaxBodyBytes}
			if addr != "" {
				cfg.Addr = addr
			}
			return server.New(cfg, d).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	return cmd
}
