package attempt

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/enrollease/enrollease/internal/quiz"
)

// MemoryStore keeps attempts in process memory.
type MemoryStore struct {
	now func() time.Time

	mu       sync.Mutex
	attempts map[string][]quiz.Attempt
	nextID   int64
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		now:      now,
		attempts: make(map[string][]quiz.Attempt),
	}
}

func (s *MemoryStore) LatestAttempt(ctx context.Context, userID string) (*quiz.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts := s.attempts[userID]
	if len(attempts) == 0 {
		return nil, nil
	}
	latest := attempts[len(attempts)-1]
	return &latest, nil
}

func (s *MemoryStore) RecordAttempt(ctx context.Context, newAttempt quiz.NewAttempt) (*quiz.Attempt, error) {
	if err := validate(newAttempt); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	attempt := quiz.Attempt{
		ID:              s.nextID,
		UserID:          newAttempt.UserID,
		Question:        newAttempt.Question,
		SubmittedAnswer: newAttempt.SubmittedAnswer,
		IsCorrect:       newAttempt.IsCorrect,
		AttemptedAt:     s.now(),
	}
	s.attempts[newAttempt.UserID] = append(s.attempts[newAttempt.UserID], attempt)
	return &attempt, nil
}

func (s *MemoryStore) ListAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newestFirst(s.attempts[userID], limit), nil
}

func (s *MemoryStore) Users(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]string, 0, len(s.attempts))
	for userID := range s.attempts {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

// ImportAttempt keeps the store-wide ID sequence, unlike the per-user numbering of YAMLStore.
func (s *MemoryStore) ImportAttempt(ctx context.Context, attempt quiz.Attempt) (*quiz.Attempt, error) {
	if err := validateImported(attempt); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	attempt.ID = s.nextID
	attempts := s.attempts[attempt.UserID]
	index := sort.Search(len(attempts), func(i int) bool {
		return attempts[i].AttemptedAt.After(attempt.AttemptedAt)
	})
	attempts = append(attempts, quiz.Attempt{})
	copy(attempts[index+1:], attempts[index:])
	attempts[index] = attempt
	s.attempts[attempt.UserID] = attempts
	return &attempt, nil
}
