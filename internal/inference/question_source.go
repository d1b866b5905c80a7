package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/enrollease/enrollease/internal/quiz"
)

// QuestionSource adapts a Client to the daily quiz. Any failure, including a
// malformed question, is returned as a quiz.GenerationError.
type QuestionSource struct {
	client     Client
	difficulty string
}

func NewQuestionSource(client Client, difficulty string) *QuestionSource {
	return &QuestionSource{client: client, difficulty: difficulty}
}

func (s *QuestionSource) GenerateQuestion(ctx context.Context, topic string) (quiz.Question, error) {
	if strings.TrimSpace(topic) == "" {
		return quiz.Question{}, quiz.NewGenerationError(topic, fmt.Errorf("topic is empty"))
	}

	response, err := s.client.GenerateQuestion(ctx, GenerateQuestionRequest{
		Topic:       topic,
		Difficulty:  s.difficulty,
		OptionCount: quiz.OptionCount,
	})
	if err != nil {
		return quiz.Question{}, quiz.NewGenerationError(topic, fmt.Errorf("client.GenerateQuestion() > %w", err))
	}

	answer := response.Answer
	if answer == "" {
		answer = response.CorrectAnswer
	}
	question := quiz.Question{
		Text:        strings.TrimSpace(response.Question),
		Options:     response.Options,
		Answer:      answer,
		Explanation: strings.TrimSpace(response.Explanation),
	}
	if err := question.Validate(); err != nil {
		return quiz.Question{}, quiz.NewGenerationError(topic, err)
	}
	return question, nil
}
