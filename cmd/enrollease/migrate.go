package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enrollease/enrollease/internal/database"
	"github.com/enrollease/enrollease/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the daily quiz tables in MySQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := database.Migrate(ctx, db, schemas.Migrations); err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			fmt.Println("Migrations applied")
			return nil
		},
	}
}
