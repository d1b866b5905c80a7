package quiz

import "context"

//go:generate mockgen -source=deps.go -destination=../mocks/quiz/mock_deps.go -package=mock_quiz

// QuestionSource produces a multiple-choice question for a topic.
type QuestionSource interface {
	GenerateQuestion(ctx context.Context, topic string) (Question, error)
}

// AttemptFinder looks up a user's most recent attempt. It returns nil, nil when
// the user has never attempted the quiz.
type AttemptFinder interface {
	LatestAttempt(ctx context.Context, userID string) (*Attempt, error)
}

// Recorder persists an evaluated attempt without blocking the caller. Delivery
// failures are reported out of band.
type Recorder interface {
	Record(attempt NewAttempt)
}

// Dependencies are the collaborators a Machine is constructed with.
type Dependencies struct {
	Source   QuestionSource
	Attempts AttemptFinder
	Recorder Recorder
	Clock    Clock
}
