package attempt

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/enrollease/enrollease/internal/quiz"
)

// YAMLStore keeps one YAML file of attempts per user. It is meant for the
// single-process CLI.
type YAMLStore struct {
	directory string
	now       func() time.Time

	mu sync.Mutex
}

func NewYAMLStore(directory string, now func() time.Time) *YAMLStore {
	if now == nil {
		now = time.Now
	}
	return &YAMLStore{directory: directory, now: now}
}

func (s *YAMLStore) LatestAttempt(ctx context.Context, userID string) (*quiz.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts, err := s.read(userID)
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, nil
	}
	latest := attempts[len(attempts)-1]
	return &latest, nil
}

func (s *YAMLStore) RecordAttempt(ctx context.Context, newAttempt quiz.NewAttempt) (*quiz.Attempt, error) {
	if err := validate(newAttempt); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attempts, err := s.read(newAttempt.UserID)
	if err != nil {
		return nil, err
	}
	attempt := quiz.Attempt{
		ID:              int64(len(attempts) + 1),
		UserID:          newAttempt.UserID,
		Question:        newAttempt.Question,
		SubmittedAnswer: newAttempt.SubmittedAnswer,
		IsCorrect:       newAttempt.IsCorrect,
		AttemptedAt:     s.now(),
	}
	attempts = append(attempts, attempt)
	if err := s.write(newAttempt.UserID, attempts); err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (s *YAMLStore) ListAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts, err := s.read(userID)
	if err != nil {
		return nil, err
	}
	return newestFirst(attempts, limit), nil
}

func (s *YAMLStore) Users(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir(%s) > %w", s.directory, err)
	}

	var users []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yml") {
			continue
		}
		userID, err := url.PathUnescape(strings.TrimSuffix(name, ".yml"))
		if err != nil {
			return nil, fmt.Errorf("url.PathUnescape(%s) > %w", name, err)
		}
		users = append(users, userID)
	}
	sort.Strings(users)
	return users, nil
}

func (s *YAMLStore) ImportAttempt(ctx context.Context, attempt quiz.Attempt) (*quiz.Attempt, error) {
	if err := validateImported(attempt); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attempts, err := s.read(attempt.UserID)
	if err != nil {
		return nil, err
	}
	attempts, stored := insertChronologically(attempts, attempt)
	if err := s.write(attempt.UserID, attempts); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *YAMLStore) path(userID string) string {
	return filepath.Join(s.directory, url.PathEscape(userID)+".yml")
}

func (s *YAMLStore) read(userID string) ([]quiz.Attempt, error) {
	path := s.path(userID)
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var attempts []quiz.Attempt
	if err := yaml.Unmarshal(content, &attempts); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}
	return attempts, nil
}

func (s *YAMLStore) write(userID string, attempts []quiz.Attempt) error {
	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", s.directory, err)
	}

	content, err := yaml.Marshal(attempts)
	if err != nil {
		return fmt.Errorf("yaml.Marshal() > %w", err)
	}

	path := s.path(userID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", path, err)
	}
	return nil
}
