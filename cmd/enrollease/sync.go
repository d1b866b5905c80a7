package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/enrollease/enrollease/internal/bootstrap"
	"github.com/enrollease/enrollease/internal/config"
	"github.com/enrollease/enrollease/internal/datasync"
)

func newSyncCommand() *cobra.Command {
	var from, to string
	var dryRun bool
	var userIDs []string

	command := &cobra.Command{
		Use:   "sync",
		Short: "Copy daily quiz attempts from one storage to another",
		Example: `  enrollease sync --from yaml --to mysql
  enrollease sync --from mysql --to yaml --user alice --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == to {
				return fmt.Errorf("--from and --to must differ, both are %q", from)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			app := bootstrap.New(bootstrap.DefaultShutdownTimeout)
			return app.Run(ctx, func(ctx context.Context) error {
				source, err := bootstrap.OpenStoreOf(ctx, app, cfg, from)
				if err != nil {
					return fmt.Errorf("bootstrap.OpenStoreOf(%s) > %w", from, err)
				}
				target, err := bootstrap.OpenStoreOf(ctx, app, cfg, to)
				if err != nil {
					return fmt.Errorf("bootstrap.OpenStoreOf(%s) > %w", to, err)
				}

				result, err := datasync.NewImporter(source, target, os.Stdout).Import(ctx, datasync.ImportOptions{
					DryRun:  dryRun,
					UserIDs: userIDs,
				})
				if err != nil {
					return fmt.Errorf("importer.Import() > %w", err)
				}

				prefix := ""
				if dryRun {
					prefix = "[dry run] "
				}
				fmt.Printf("%sUsers: %d, attempts copied: %d, skipped: %d\n",
					prefix, result.Users, result.AttemptsNew, result.AttemptsSkipped)
				return nil
			})
		},
	}
	command.Flags().StringVar(&from, "from", config.StorageYAML, "storage to read attempts from (yaml or mysql)")
	command.Flags().StringVar(&to, "to", config.StorageMySQL, "storage to write attempts to (yaml or mysql)")
	command.Flags().BoolVar(&dryRun, "dry-run", false, "only print what would be copied")
	command.Flags().StringSliceVar(&userIDs, "user", nil, "only copy these users (repeatable)")

	return command
}
