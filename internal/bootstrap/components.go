package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/enrollease/enrollease/internal/attempt"
	"github.com/enrollease/enrollease/internal/config"
	"github.com/enrollease/enrollease/internal/database"
	"github.com/enrollease/enrollease/internal/events"
	"github.com/enrollease/enrollease/internal/inference"
	"github.com/enrollease/enrollease/internal/inference/openai"
	"github.com/enrollease/enrollease/internal/quiz"
	"github.com/enrollease/enrollease/schemas"
)

// Components are the collaborators of a daily quiz, built from configuration.
type Components struct {
	Location *time.Location
	Store    attempt.Store
	Source   quiz.QuestionSource
	Bus      *events.Bus
	Recorder *attempt.AsyncRecorder
}

// Dependencies returns what a quiz.Machine needs.
func (c *Components) Dependencies() quiz.Dependencies {
	return quiz.Dependencies{
		Source:   c.Source,
		Attempts: c.Store,
		Recorder: c.Recorder,
		Clock:    quiz.NewSystemClock(c.Location),
	}
}

// NewComponents builds the store, question source and error channel. Everything
// it opens is closed by app's shutdown hooks.
func NewComponents(ctx context.Context, app *App, cfg *config.Config) (*Components, error) {
	location, err := quiz.LoadLocation(cfg.Quiz.Timezone)
	if err != nil {
		return nil, fmt.Errorf("quiz.LoadLocation(%s) > %w", cfg.Quiz.Timezone, err)
	}

	store, err := OpenStore(ctx, app, cfg)
	if err != nil {
		return nil, fmt.Errorf("OpenStore() > %w", err)
	}

	source, err := NewQuestionSource(app, cfg)
	if err != nil {
		return nil, fmt.Errorf("NewQuestionSource() > %w", err)
	}

	bus := events.NewBus()
	app.AddCloser("error channel", func() error {
		bus.Close()
		return nil
	})
	recorder := attempt.NewAsyncRecorder(store, bus, time.Duration(cfg.Quiz.WriteTimeoutSeconds)*time.Second)
	// Registered after the bus so pending writes can still publish failures.
	app.AddCloser("attempt recorder", func() error {
		recorder.Wait()
		return nil
	})

	if cfg.Notifications.WebhookURL != "" {
		forwarder := NewWebhookForwarder(cfg)
		sub := bus.Subscribe(64, nil)
		forwardCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		done := make(chan struct{})
		go func() {
			defer close(done)
			forwarder.Run(forwardCtx, sub)
		}()
		app.AddCloser("webhook forwarder", func() error {
			cancel()
			<-done
			return nil
		})
	}

	return &Components{
		Location: location,
		Store:    store,
		Source:   source,
		Bus:      bus,
		Recorder: recorder,
	}, nil
}

// OpenStore returns the attempt store selected by quiz.storage.
func OpenStore(ctx context.Context, app *App, cfg *config.Config) (attempt.Store, error) {
	return OpenStoreOf(ctx, app, cfg, cfg.Quiz.Storage)
}

// OpenStoreOf returns the attempt store of the given kind, configured from cfg.
// A MySQL store has its schema migrated before use.
func OpenStoreOf(ctx context.Context, app *App, cfg *config.Config, storage string) (attempt.TransferableStore, error) {
	switch storage {
	case config.StorageMemory:
		return attempt.NewMemoryStore(nil), nil
	case config.StorageYAML:
		return attempt.NewYAMLStore(cfg.Quiz.AttemptsDirectory, nil), nil
	case config.StorageMySQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("database.Open() > %w", err)
		}
		app.AddCloser("database", db.Close)
		if err := database.Migrate(ctx, db, schemas.Migrations); err != nil {
			return nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		return attempt.NewDBStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", storage)
	}
}

func NewQuestionSource(app *App, cfg *config.Config) (*inference.QuestionSource, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}
	client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, inference.DefaultMaxRetryAttempts)
	app.AddCloser("openai client", client.Close)
	return inference.NewQuestionSource(client, cfg.Quiz.Difficulty), nil
}

func NewWebhookForwarder(cfg *config.Config) *events.WebhookForwarder {
	return events.NewWebhookForwarder(
		cfg.Notifications.WebhookURL,
		time.Duration(cfg.Notifications.TimeoutSeconds)*time.Second,
	)
}
