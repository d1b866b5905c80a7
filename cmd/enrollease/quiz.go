package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enrollease/enrollease/internal/bootstrap"
	"github.com/enrollease/enrollease/internal/cli"
	"github.com/enrollease/enrollease/internal/events"
)

func newQuizCommand() *cobra.Command {
	quizCommand := &cobra.Command{
		Use:   "quiz",
		Short: "Quiz commands",
	}

	quizCommand.AddCommand(newQuizDailyCommand())

	return quizCommand
}

func newQuizDailyCommand() *cobra.Command {
	var options userOptions
	var topic string
	var wait bool

	command := &cobra.Command{
		Use:   "daily",
		Short: "Answer today's question",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := options.validate(); err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if topic == "" {
				topic = cfg.Quiz.Topic
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			app := bootstrap.New(bootstrap.DefaultShutdownTimeout)
			return app.Run(ctx, func(ctx context.Context) error {
				components, err := bootstrap.NewComponents(ctx, app, cfg)
				if err != nil {
					return fmt.Errorf("bootstrap.NewComponents() > %w", err)
				}

				dailyQuizCLI := cli.NewDailyQuizCLI(
					options.userID,
					topic,
					components.Dependencies(),
					cli.WithErrorChannel(components.Bus.Subscribe(8, events.ForUser(options.userID))),
					cli.WithWaitForNextDay(wait),
				)
				app.AddCloser("daily quiz", func() error {
					dailyQuizCLI.Close()
					return nil
				})

				fmt.Printf("Daily quiz for %s (topic: %s, timezone: %s)\n", options.userID, topic, components.Location)
				return dailyQuizCLI.Run(ctx, dailyQuizCLI)
			})
		},
	}
	command.Flags().AddFlagSet(userFlags(&options))
	command.Flags().StringVar(&topic, "topic", "", "topic of the question (defaults to quiz.topic)")
	command.Flags().BoolVar(&wait, "wait", false, "keep running and show the countdown until the next question")

	return command
}
