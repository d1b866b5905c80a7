package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for AI inference operations
type Client interface {
	GenerateQuestion(ctx context.Context, params GenerateQuestionRequest) (GenerateQuestionResponse, error)
}

// GenerateQuestionRequest asks for one multiple-choice question
type GenerateQuestionRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty,omitempty"`
	// OptionCount is the exact number of options the question must have
	OptionCount int `json:"option_count"`
}

// GenerateQuestionResponse is the question as returned by the model.
// Some models answer with "correctAnswer" instead of "answer"; both are accepted.
type GenerateQuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Answer        string   `json:"answer"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

const (
	DefaultMaxRetryAttempts = 3
)
