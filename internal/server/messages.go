package server

import (
	"time"

	"github.com/enrollease/enrollease/internal/events"
	"github.com/enrollease/enrollease/internal/quiz"
)

type GetDailyQuizRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	// Timezone is the viewer's IANA timezone. Empty uses the server's configured timezone.
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

type SelectOptionRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	// Option is the text of the chosen option; empty clears the selection.
	Option string `json:"option"`
}

type UserRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
}

type Option struct {
	Text      string `json:"text"`
	Selected  bool   `json:"selected"`
	Correct   bool   `json:"correct,omitempty"`
	Incorrect bool   `json:"incorrect,omitempty"`
}

// DailyQuiz is the wire form of quiz.View. The answer and explanation are
// only present once the question has been answered.
type DailyQuiz struct {
	State            string   `json:"state"`
	UserID           string   `json:"user_id"`
	Question         string   `json:"question,omitempty"`
	Options          []Option `json:"options,omitempty"`
	Selected         string   `json:"selected,omitempty"`
	SubmittedAnswer  string   `json:"submitted_answer,omitempty"`
	Result           string   `json:"result,omitempty"`
	IsCorrect        bool     `json:"is_correct"`
	Answer           string   `json:"answer,omitempty"`
	Explanation      string   `json:"explanation,omitempty"`
	AttemptedAt      string   `json:"attempted_at,omitempty"`
	RemainingSeconds int64    `json:"remaining_seconds,omitempty"`
	Countdown        string   `json:"countdown,omitempty"`
	Error            string   `json:"error,omitempty"`
}

type DailyQuizResponse struct {
	Quiz DailyQuiz `json:"quiz"`
}

type ErrorEvent struct {
	Kind       string `json:"kind"`
	UserID     string `json:"user_id"`
	Message    string `json:"message"`
	OccurredAt string `json:"occurred_at"`
}

func toDailyQuiz(view quiz.View) DailyQuiz {
	dq := DailyQuiz{
		State:           view.State.String(),
		UserID:          view.UserID,
		Selected:        view.Selected,
		SubmittedAnswer: view.SubmittedAnswer,
		Result:          view.ResultLabel(),
		Error:           view.Error,
	}
	if view.Question != nil {
		dq.Question = view.Question.Text
	}
	for _, option := range view.Options {
		dq.Options = append(dq.Options, Option{
			Text:      option.Text,
			Selected:  option.Selected,
			Correct:   option.Correct,
			Incorrect: option.Incorrect,
		})
	}
	if view.Revealed() {
		dq.IsCorrect = view.IsCorrect
		if view.Question != nil {
			dq.Answer = view.Question.Answer
			dq.Explanation = view.Question.Explanation
		}
		if !view.AttemptedAt.IsZero() {
			dq.AttemptedAt = view.AttemptedAt.Format(time.RFC3339)
		}
	}
	if view.State == quiz.StateCompleted {
		dq.RemainingSeconds = int64(view.Remaining / time.Second)
		dq.Countdown = view.Countdown()
	}
	return dq
}

func toErrorEvent(event events.Event) *ErrorEvent {
	return &ErrorEvent{
		Kind:       string(event.Kind),
		UserID:     event.UserID,
		Message:    event.Message,
		OccurredAt: event.OccurredAt.Format(time.RFC3339),
	}
}
