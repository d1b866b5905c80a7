package quiz

import "time"

// Attempt is a recorded daily quiz submission. Attempts are append-only.
type Attempt struct {
	ID              int64     `json:"id" yaml:"id"`
	UserID          string    `json:"user_id" yaml:"user_id"`
	Question        Question  `json:"question" yaml:"question"`
	SubmittedAnswer string    `json:"submitted_answer" yaml:"submitted_answer"`
	IsCorrect       bool      `json:"is_correct" yaml:"is_correct"`
	AttemptedAt     time.Time `json:"attempted_at" yaml:"attempted_at"`
}

// NewAttempt is an evaluated submission waiting to be persisted.
// AttemptedAt is assigned by the store.
type NewAttempt struct {
	UserID          string
	Question        Question
	SubmittedAnswer string
	IsCorrect       bool
}
