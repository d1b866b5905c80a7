// Package datasync copies daily quiz attempts between attempt stores, such as
// moving a YAML history into MySQL.
package datasync

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/enrollease/enrollease/internal/quiz"
)

// Source is a store attempts are read from.
type Source interface {
	Users(ctx context.Context) ([]string, error)
	ListAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error)
}

// Target is a store attempts are written to with their original timestamps.
type Target interface {
	ListAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error)
	ImportAttempt(ctx context.Context, attempt quiz.Attempt) (*quiz.Attempt, error)
}

// ImportResult tracks counts for an import.
type ImportResult struct {
	Users           int
	AttemptsNew     int
	AttemptsSkipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
	// UserIDs limits the import to these users. Empty means every user of the source.
	UserIDs []string
}

// Importer copies attempts from a source store into a target store.
type Importer struct {
	source Source
	target Target
	writer io.Writer
}

func NewImporter(source Source, target Target, writer io.Writer) *Importer {
	if writer == nil {
		writer = io.Discard
	}
	return &Importer{
		source: source,
		target: target,
		writer: writer,
	}
}

// Import copies every attempt the target does not have yet. An attempt is
// already present when the target has one for the same user at the same time.
func (imp *Importer) Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	userIDs := opts.UserIDs
	if len(userIDs) == 0 {
		var err error
		userIDs, err = imp.source.Users(ctx)
		if err != nil {
			return nil, fmt.Errorf("source.Users() > %w", err)
		}
	}

	var result ImportResult
	for _, userID := range userIDs {
		if err := imp.importUser(ctx, userID, opts, &result); err != nil {
			return nil, fmt.Errorf("importUser(%s) > %w", userID, err)
		}
		result.Users++
	}
	return &result, nil
}

func (imp *Importer) importUser(ctx context.Context, userID string, opts ImportOptions, result *ImportResult) error {
	attempts, err := imp.source.ListAttempts(ctx, userID, 0)
	if err != nil {
		return fmt.Errorf("source.ListAttempts() > %w", err)
	}
	existing, err := imp.target.ListAttempts(ctx, userID, 0)
	if err != nil {
		return fmt.Errorf("target.ListAttempts() > %w", err)
	}
	seen := make(map[int64]struct{}, len(existing))
	for _, attempt := range existing {
		seen[attemptKey(attempt.AttemptedAt)] = struct{}{}
	}

	// Stores list newest first; oldest first keeps target IDs chronological.
	for i := len(attempts) - 1; i >= 0; i-- {
		attempt := attempts[i]
		if _, ok := seen[attemptKey(attempt.AttemptedAt)]; ok {
			result.AttemptsSkipped++
			continue
		}

		if !opts.DryRun {
			if _, err := imp.target.ImportAttempt(ctx, attempt); err != nil {
				return fmt.Errorf("target.ImportAttempt(%s) > %w", attempt.AttemptedAt.Format(time.RFC3339), err)
			}
		}
		_, _ = fmt.Fprintf(imp.writer, "  [NEW]   %s %s %q\n",
			userID, attempt.AttemptedAt.UTC().Format(time.RFC3339), attempt.Question.Text)
		seen[attemptKey(attempt.AttemptedAt)] = struct{}{}
		result.AttemptsNew++
	}
	return nil
}

// attemptKey compares timestamps at MySQL DATETIME(6) precision.
func attemptKey(t time.Time) int64 {
	return t.UnixMicro()
}
