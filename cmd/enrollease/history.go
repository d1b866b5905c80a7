package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enrollease/enrollease/internal/bootstrap"
	"github.com/enrollease/enrollease/internal/quiz"
	"github.com/enrollease/enrollease/internal/report"
)

func newHistoryCommand() *cobra.Command {
	var options userOptions
	var limit int
	var generatePDF bool

	command := &cobra.Command{
		Use:   "history",
		Short: "Write a report of past daily quiz attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.validate(); err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			location, err := quiz.LoadLocation(cfg.Quiz.Timezone)
			if err != nil {
				return fmt.Errorf("quiz.LoadLocation(%s) > %w", cfg.Quiz.Timezone, err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			app := bootstrap.New(bootstrap.DefaultShutdownTimeout)
			return app.Run(ctx, func(ctx context.Context) error {
				store, err := bootstrap.OpenStore(ctx, app, cfg)
				if err != nil {
					return fmt.Errorf("bootstrap.OpenStore() > %w", err)
				}

				generator := report.NewGenerator(store, cfg.Reports.OutputDirectory, cfg.Reports.TemplatePath, location)
				result, err := generator.Generate(ctx, options.userID, limit, generatePDF)
				if err != nil {
					return fmt.Errorf("generator.Generate(%s) > %w", options.userID, err)
				}

				fmt.Printf("History written to: %s\n", result.MarkdownPath)
				if result.PDFPath != "" {
					fmt.Printf("PDF generated at: %s\n", result.PDFPath)
				}
				return nil
			})
		},
	}
	command.Flags().AddFlagSet(userFlags(&options))
	command.Flags().IntVar(&limit, "limit", 0, "only include the newest N attempts (0 for all)")
	command.Flags().BoolVar(&generatePDF, "pdf", false, "also generate a PDF")

	return command
}
