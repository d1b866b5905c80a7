package attempt

import (
	"context"
	"fmt"
	"sort"

	"github.com/enrollease/enrollease/internal/quiz"
)

// TransferableStore is a Store whose attempts can be copied to another store
// with their original timestamps.
type TransferableStore interface {
	Store
	// Users returns every user with at least one attempt, sorted.
	Users(ctx context.Context) ([]string, error)
	// ImportAttempt appends an attempt keeping its AttemptedAt. The store assigns the ID.
	ImportAttempt(ctx context.Context, attempt quiz.Attempt) (*quiz.Attempt, error)
}

var (
	_ TransferableStore = (*DBStore)(nil)
	_ TransferableStore = (*YAMLStore)(nil)
	_ TransferableStore = (*MemoryStore)(nil)
)

func validateImported(attempt quiz.Attempt) error {
	if attempt.AttemptedAt.IsZero() {
		return fmt.Errorf("%w: attempted_at is empty", ErrInvalidAttempt)
	}
	return validate(quiz.NewAttempt{
		UserID:          attempt.UserID,
		Question:        attempt.Question,
		SubmittedAnswer: attempt.SubmittedAnswer,
		IsCorrect:       attempt.IsCorrect,
	})
}

// insertChronologically keeps attempts ordered by AttemptedAt and renumbers
// them from 1. It returns the stored copy of attempt.
func insertChronologically(attempts []quiz.Attempt, attempt quiz.Attempt) ([]quiz.Attempt, quiz.Attempt) {
	index := sort.Search(len(attempts), func(i int) bool {
		return attempts[i].AttemptedAt.After(attempt.AttemptedAt)
	})
	attempts = append(attempts, quiz.Attempt{})
	copy(attempts[index+1:], attempts[index:])
	attempts[index] = attempt
	for i := range attempts {
		attempts[i].ID = int64(i + 1)
	}
	return attempts, attempts[index]
}
