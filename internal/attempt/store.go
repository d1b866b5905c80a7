// Package attempt persists daily quiz attempts. Attempts are append-only:
// stores create and read them, nothing edits or deletes them.
package attempt

import (
	"context"
	"errors"
	"fmt"

	"github.com/enrollease/enrollease/internal/quiz"
)

//go:generate mockgen -source=store.go -destination=../mocks/attempt/mock_store.go -package=mock_attempt

// Store reads and appends attempts for a user.
type Store interface {
	// LatestAttempt returns the most recent attempt, or nil if the user has none.
	LatestAttempt(ctx context.Context, userID string) (*quiz.Attempt, error)
	// RecordAttempt appends an attempt and returns it with its ID and AttemptedAt assigned.
	RecordAttempt(ctx context.Context, attempt quiz.NewAttempt) (*quiz.Attempt, error)
	// ListAttempts returns up to limit attempts, newest first. A limit <= 0 returns all of them.
	ListAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error)
}

var ErrInvalidAttempt = errors.New("invalid attempt")

// validate enforces the invariants every stored attempt must satisfy.
func validate(attempt quiz.NewAttempt) error {
	if attempt.UserID == "" {
		return fmt.Errorf("%w: user id is empty", ErrInvalidAttempt)
	}
	if err := attempt.Question.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAttempt, err)
	}
	if !attempt.Question.HasOption(attempt.SubmittedAnswer) {
		return fmt.Errorf("%w: submitted answer %q is not one of the options", ErrInvalidAttempt, attempt.SubmittedAnswer)
	}
	if attempt.IsCorrect != quiz.Evaluate(attempt.Question, attempt.SubmittedAnswer) {
		return fmt.Errorf("%w: is_correct does not match the submitted answer", ErrInvalidAttempt)
	}
	return nil
}

func newestFirst(attempts []quiz.Attempt, limit int) []quiz.Attempt {
	result := make([]quiz.Attempt, 0, len(attempts))
	for i := len(attempts) - 1; i >= 0; i-- {
		result = append(result, attempts[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result
}
