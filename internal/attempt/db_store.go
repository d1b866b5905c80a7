package attempt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/enrollease/enrollease/internal/quiz"
)

type attemptRow struct {
	ID              int64     `db:"id"`
	UserID          string    `db:"user_id"`
	Question        []byte    `db:"question"`
	SubmittedAnswer string    `db:"submitted_answer"`
	IsCorrect       bool      `db:"is_correct"`
	AttemptedAt     time.Time `db:"attempted_at"`
}

func (row attemptRow) toAttempt() (quiz.Attempt, error) {
	var question quiz.Question
	if err := json.Unmarshal(row.Question, &question); err != nil {
		return quiz.Attempt{}, fmt.Errorf("json.Unmarshal(question of attempt %d) > %w", row.ID, err)
	}
	return quiz.Attempt{
		ID:              row.ID,
		UserID:          row.UserID,
		Question:        question,
		SubmittedAnswer: row.SubmittedAnswer,
		IsCorrect:       row.IsCorrect,
		AttemptedAt:     row.AttemptedAt,
	}, nil
}

const selectAttempts = "SELECT id, user_id, question, submitted_answer, is_correct, attempted_at FROM daily_quiz_attempts"

// DBStore implements Store using MySQL. attempted_at is assigned by the database.
type DBStore struct {
	db *sqlx.DB
}

func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) LatestAttempt(ctx context.Context, userID string) (*quiz.Attempt, error) {
	var row attemptRow
	err := s.db.GetContext(ctx, &row,
		selectAttempts+" WHERE user_id = ? ORDER BY attempted_at DESC, id DESC LIMIT 1",
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(latest daily_quiz_attempt) > %w", err)
	}
	attempt, err := row.toAttempt()
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (s *DBStore) RecordAttempt(ctx context.Context, newAttempt quiz.NewAttempt) (*quiz.Attempt, error) {
	if err := validate(newAttempt); err != nil {
		return nil, err
	}
	question, err := json.Marshal(newAttempt.Question)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(question) > %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_quiz_attempts (user_id, question, submitted_answer, is_correct)
		VALUES (?, ?, ?, ?)`,
		newAttempt.UserID, question, newAttempt.SubmittedAnswer, newAttempt.IsCorrect)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext(insert daily_quiz_attempt) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId() > %w", err)
	}

	var attemptedAt time.Time
	if err := s.db.GetContext(ctx, &attemptedAt,
		"SELECT attempted_at FROM daily_quiz_attempts WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("db.GetContext(attempted_at of %d) > %w", id, err)
	}

	return &quiz.Attempt{
		ID:              id,
		UserID:          newAttempt.UserID,
		Question:        newAttempt.Question,
		SubmittedAnswer: newAttempt.SubmittedAnswer,
		IsCorrect:       newAttempt.IsCorrect,
		AttemptedAt:     attemptedAt,
	}, nil
}

func (s *DBStore) ListAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error) {
	query := selectAttempts + " WHERE user_id = ? ORDER BY attempted_at DESC, id DESC"
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []attemptRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(daily_quiz_attempts) > %w", err)
	}

	attempts := make([]quiz.Attempt, 0, len(rows))
	for _, row := range rows {
		attempt, err := row.toAttempt()
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

func (s *DBStore) Users(ctx context.Context) ([]string, error) {
	var users []string
	if err := s.db.SelectContext(ctx, &users,
		"SELECT DISTINCT user_id FROM daily_quiz_attempts ORDER BY user_id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(users of daily_quiz_attempts) > %w", err)
	}
	return users, nil
}

func (s *DBStore) ImportAttempt(ctx context.Context, attempt quiz.Attempt) (*quiz.Attempt, error) {
	if err := validateImported(attempt); err != nil {
		return nil, err
	}
	question, err := json.Marshal(attempt.Question)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(question) > %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_quiz_attempts (user_id, question, submitted_answer, is_correct, attempted_at)
		VALUES (?, ?, ?, ?, ?)`,
		attempt.UserID, question, attempt.SubmittedAnswer, attempt.IsCorrect, attempt.AttemptedAt)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext(import daily_quiz_attempt) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId() > %w", err)
	}
	attempt.ID = id
	return &attempt, nil
}
