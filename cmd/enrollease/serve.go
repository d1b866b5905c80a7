package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/enrollease/enrollease/internal/bootstrap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the daily quiz over Connect RPC",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return bootstrap.Serve(ctx, cfg)
		},
	}
}
