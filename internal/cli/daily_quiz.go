package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/enrollease/enrollease/internal/events"
	"github.com/enrollease/enrollease/internal/quiz"
)

// DailyQuizCLI renders a user's daily quiz in the terminal
type DailyQuizCLI struct {
	*InteractiveQuizCLI
	machine *quiz.Machine
	errors  *events.Subscription
	// waitForNextDay keeps the session alive through the countdown instead of
	// exiting once the quiz is completed.
	waitForNextDay bool

	updates chan quiz.View
	started bool
}

type DailyQuizOption func(*DailyQuizCLI)

// WithErrorChannel prints events from sub, such as a failed attempt write.
func WithErrorChannel(sub *events.Subscription) DailyQuizOption {
	return func(cli *DailyQuizCLI) {
		cli.errors = sub
	}
}

func WithWaitForNextDay(wait bool) DailyQuizOption {
	return func(cli *DailyQuizCLI) {
		cli.waitForNextDay = wait
	}
}

// WithIO replaces stdin and stdout.
func WithIO(stdin io.Reader, stdout io.Writer) DailyQuizOption {
	return func(cli *DailyQuizCLI) {
		cli.InteractiveQuizCLI = newInteractiveQuizCLI(stdin, stdout)
	}
}

func NewDailyQuizCLI(userID, topic string, deps quiz.Dependencies, opts ...DailyQuizOption) *DailyQuizCLI {
	cli := &DailyQuizCLI{
		InteractiveQuizCLI: newInteractiveQuizCLI(nil, nil),
		updates:            make(chan quiz.View, 1),
	}
	for _, opt := range opts {
		opt(cli)
	}
	cli.machine = quiz.NewMachine(userID, topic, deps, quiz.WithObserver(cli.observe))
	return cli
}

// observe keeps only the latest view so the machine never waits on the terminal.
func (cli *DailyQuizCLI) observe(view quiz.View) {
	for {
		select {
		case cli.updates <- view:
			return
		default:
		}
		select {
		case <-cli.updates:
		default:
		}
	}
}

func (cli *DailyQuizCLI) Close() {
	cli.machine.Close()
	if cli.errors != nil {
		cli.errors.Close()
	}
}

// Session handles one step of the daily quiz depending on its state.
func (cli *DailyQuizCLI) Session(ctx context.Context) error {
	if !cli.started {
		cli.started = true
		cli.printf("Loading today's question...\n")
		// A failed load leaves the machine in the error state, handled below.
		_ = cli.machine.Start(ctx)
	}
	cli.printErrorEvents()

	view := cli.machine.Snapshot()
	switch view.State {
	case quiz.StateLoading:
		return cli.waitForUpdate(ctx)
	case quiz.StateError:
		return cli.handleError(ctx, view)
	case quiz.StateReady:
		return cli.handleReady(view)
	case quiz.StateAnswered:
		return cli.handleAnswered(view)
	case quiz.StateCompleted:
		return cli.handleCompleted(ctx, view)
	default:
		return fmt.Errorf("unknown state %s", view.State)
	}
}

func (cli *DailyQuizCLI) handleError(ctx context.Context, view quiz.View) error {
	_, _ = cli.red.Fprintf(cli.stdoutWriter, "Could not load today's question: %s\n", view.Error)
	cli.printf("Retry? [Y/n]: ")
	line, err := cli.readLine()
	if err != nil {
		return err
	}
	if answer := strings.ToLower(strings.TrimSpace(line)); answer != "" && answer != "y" && answer != "yes" {
		return errEnd
	}
	// A failed retry lands in the error state again and is shown on the next step.
	_ = cli.machine.Retry(ctx)
	return nil
}

func (cli *DailyQuizCLI) handleReady(view quiz.View) error {
	cli.printQuestion(view)
	if view.Selected == "" {
		cli.printf("Choose an option [1-%d] (q to quit): ", len(view.Options))
	} else {
		cli.printf("Press Enter to submit %s, choose another option, or q to quit: ", cli.bold.Sprint(view.Selected))
	}

	line, err := cli.readLine()
	if err != nil {
		return err
	}
	input := strings.TrimSpace(line)
	switch {
	case input == "q" || input == "quit":
		return errEnd
	case input == "":
		if err := cli.machine.Submit(); err != nil {
			if errors.Is(err, quiz.ErrNoSelection) {
				_, _ = cli.yellow.Fprintln(cli.stdoutWriter, "Select an option before submitting.")
				return nil
			}
			return fmt.Errorf("machine.Submit() > %w", err)
		}
		return nil
	}

	index, err := strconv.Atoi(input)
	if err != nil || index < 1 || index > len(view.Options) {
		_, _ = cli.yellow.Fprintf(cli.stdoutWriter, "%q is not an option number.\n", input)
		return nil
	}
	if err := cli.machine.Select(view.Options[index-1].Text); err != nil {
		return fmt.Errorf("machine.Select() > %w", err)
	}
	return nil
}

func (cli *DailyQuizCLI) handleAnswered(view quiz.View) error {
	cli.printQuestion(view)
	cli.printResult(view)
	cli.printf("Press Enter to continue: ")
	if _, err := cli.readLine(); err != nil && !errors.Is(err, errEnd) {
		return err
	}
	if err := cli.machine.Acknowledge(); err != nil {
		return fmt.Errorf("machine.Acknowledge() > %w", err)
	}
	return nil
}

func (cli *DailyQuizCLI) handleCompleted(ctx context.Context, view quiz.View) error {
	if !cli.waitForNextDay {
		cli.printResult(view)
		cli.printf("You have answered today's question. The next one is available in %s.\n", view.Countdown())
		return errEnd
	}

	cli.printf("\rNext question in %s ", view.Countdown())
	return cli.waitForUpdate(ctx)
}

func (cli *DailyQuizCLI) waitForUpdate(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errEnd
	case <-cli.updates:
		return nil
	}
}

func (cli *DailyQuizCLI) printQuestion(view quiz.View) {
	if view.Question == nil {
		return
	}
	cli.printf("\n")
	_, _ = cli.bold.Fprintln(cli.stdoutWriter, view.Question.Text)
	for i, option := range view.Options {
		marker := "  "
		if option.Selected {
			marker = "> "
		}
		line := fmt.Sprintf("%s%d. %s", marker, i+1, option.Text)
		switch {
		case option.Correct:
			_, _ = cli.green.Fprintln(cli.stdoutWriter, line)
		case option.Incorrect:
			_, _ = cli.red.Fprintln(cli.stdoutWriter, line)
		default:
			cli.printf("%s\n", line)
		}
	}
}

func (cli *DailyQuizCLI) printResult(view quiz.View) {
	if !view.Revealed() || view.Question == nil {
		return
	}
	if view.IsCorrect {
		cli.printf("✅ ")
		_, _ = cli.green.Fprintf(cli.stdoutWriter, "%s The answer is %q.\n", view.ResultLabel(), view.Question.Answer)
	} else {
		cli.printf("❌ ")
		_, _ = cli.red.Fprintf(cli.stdoutWriter, "%s You answered %q, the answer is %q.\n",
			view.ResultLabel(), view.SubmittedAnswer, view.Question.Answer)
	}
	if view.Question.Explanation != "" {
		cli.printf("   %s\n", cli.italic.Sprint(view.Question.Explanation))
	}
}

func (cli *DailyQuizCLI) printErrorEvents() {
	if cli.errors == nil {
		return
	}
	for {
		select {
		case event, ok := <-cli.errors.C():
			if !ok {
				cli.errors = nil
				return
			}
			_, _ = cli.yellow.Fprintf(cli.stdoutWriter, "⚠ %s\n", event.Message)
		default:
			return
		}
	}
}
