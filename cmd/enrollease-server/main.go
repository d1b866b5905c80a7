package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/enrollease/enrollease/internal/bootstrap"
	"github.com/enrollease/enrollease/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     logLevel(),
		AddSource: true,
	})))

	cfg, err := config.Load(os.Getenv("ENROLLEASE_CONFIG"))
	if err != nil {
		return fmt.Errorf("config.Load() > %w", err)
	}
	return bootstrap.Serve(context.Background(), cfg)
}

func logLevel() slog.Level {
	if os.Getenv("ENROLLEASE_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
