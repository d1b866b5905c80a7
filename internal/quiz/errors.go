package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrGeneration classifies failures of the question source, including malformed questions.
	ErrGeneration = errors.New("question generation failed")
	// ErrPersistence classifies failures to record an attempt after it was evaluated.
	ErrPersistence = errors.New("attempt persistence failed")

	ErrNoSelection   = errors.New("no option selected")
	ErrUnknownOption = errors.New("option is not one of the question's options")
	ErrClosed        = errors.New("daily quiz is closed")
)

// GenerationError wraps the cause of a failed or malformed question.
type GenerationError struct {
	Topic string
	Err   error
}

func NewGenerationError(topic string, err error) *GenerationError {
	return &GenerationError{Topic: topic, Err: err}
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate question(topic=%q): %v", e.Topic, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// PersistenceError wraps a failed attempt write.
type PersistenceError struct {
	UserID string
	Err    error
}

func NewPersistenceError(userID string, err error) *PersistenceError {
	return &PersistenceError{UserID: userID, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("record attempt(user=%s): %v", e.UserID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// TransitionError is returned when an operation is not allowed in the current state.
type TransitionError struct {
	Op    string
	State State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s is not allowed in state %s", e.Op, e.State)
}
