package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/enrollease/enrollease/internal/config"
	"github.com/enrollease/enrollease/internal/server"
)

// Serve runs the daily quiz service until ctx is done or the process is interrupted.
func Serve(ctx context.Context, cfg *config.Config) error {
	app := New(DefaultShutdownTimeout)
	components, err := NewComponents(ctx, app, cfg)
	if err != nil {
		return errors.Join(fmt.Errorf("NewComponents() > %w", err), app.shutdown(context.Background()))
	}

	sessions := server.NewSessionManager(cfg.Quiz.Topic, components.Dependencies())
	app.AddCloser("daily quiz sessions", func() error {
		sessions.Close()
		return nil
	})

	srv := server.NewHTTPServer(
		cfg.Server.Address,
		cfg.Server.AllowedOrigin,
		server.NewDailyQuizHandler(sessions, components.Bus),
	)
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server",
			"address", srv.Addr,
			"storage", cfg.Quiz.Storage,
			"timezone", components.Location.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe() > %w", err)
		}
		return nil
	})
}
