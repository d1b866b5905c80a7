package quiz_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_quiz "github.com/enrollease/enrollease/internal/mocks/quiz"
	"github.com/enrollease/enrollease/internal/quiz"
)

var tokyo = time.FixedZone("JST", 9*60*60)

var q1 = quiz.Question{
	Text:    "Q1",
	Options: []string{"A", "B", "C", "D"},
	Answer:  "B",
}

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func (c *fakeClock) NewTicker(time.Duration) quiz.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	ticker := &fakeTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, ticker)
	return ticker
}

func (c *fakeClock) Tickers() []*fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*fakeTicker(nil), c.tickers...)
}

// Tick advances the clock and blocks until the countdown goroutine receives the tick.
func (c *fakeClock) Tick(t *testing.T, ticker *fakeTicker, d time.Duration) {
	t.Helper()
	now := c.Advance(d)
	select {
	case ticker.ch <- now:
	case <-time.After(time.Second):
		t.Fatal("countdown did not receive the tick")
	}
}

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.stopped.Store(true)
}

type fixture struct {
	source   *mock_quiz.MockQuestionSource
	finder   *mock_quiz.MockAttemptFinder
	recorder *mock_quiz.MockRecorder
	clock    *fakeClock
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &fixture{
		source:   mock_quiz.NewMockQuestionSource(ctrl),
		finder:   mock_quiz.NewMockAttemptFinder(ctrl),
		recorder: mock_quiz.NewMockRecorder(ctrl),
		clock:    newFakeClock(now),
	}
}

func (f *fixture) newMachine(t *testing.T, opts ...quiz.Option) *quiz.Machine {
	t.Helper()
	m := quiz.NewMachine("u1", "X", quiz.Dependencies{
		Source:   f.source,
		Attempts: f.finder,
		Recorder: f.recorder,
		Clock:    f.clock,
	}, opts...)
	t.Cleanup(m.Close)
	return m
}

func TestMachine_Start(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, tokyo)

	tests := []struct {
		name      string
		setup     func(f *fixture)
		wantState quiz.State
		wantErr   error
		check     func(t *testing.T, view quiz.View)
	}{
		{
			name: "no previous attempt generates a question",
			setup: func(f *fixture) {
				f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil)
				f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(q1, nil).Times(1)
			},
			wantState: quiz.StateReady,
			check: func(t *testing.T, view quiz.View) {
				require.NotNil(t, view.Question)
				assert.Equal(t, "Q1", view.Question.Text)
				require.Len(t, view.Options, 4)
				for _, option := range view.Options {
					assert.False(t, option.Correct, "correctness must be hidden before answering")
					assert.False(t, option.Selected)
				}
				assert.Empty(t, view.ResultLabel())
			},
		},
		{
			name: "attempt from a prior day generates a question",
			setup: func(f *fixture) {
				f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(&quiz.Attempt{
					UserID:          "u1",
					Question:        q1,
					SubmittedAnswer: "B",
					IsCorrect:       true,
					AttemptedAt:     time.Date(2025, 3, 9, 23, 59, 0, 0, tokyo),
				}, nil)
				f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(q1, nil).Times(1)
			},
			wantState: quiz.StateReady,
		},
		{
			name: "attempt from today completes without generating",
			setup: func(f *fixture) {
				f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(&quiz.Attempt{
					UserID:          "u1",
					Question:        q1,
					SubmittedAnswer: "B",
					IsCorrect:       true,
					AttemptedAt:     time.Date(2025, 3, 10, 8, 0, 0, 0, tokyo),
				}, nil)
			},
			wantState: quiz.StateCompleted,
			check: func(t *testing.T, view quiz.View) {
				assert.Equal(t, "Correct!", view.ResultLabel())
				assert.Equal(t, "B", view.SubmittedAnswer)
				assert.True(t, view.IsCorrect)
				assert.Equal(t, 12*time.Hour, view.Remaining)
				assert.Equal(t, "12:00:00", view.Countdown())
			},
		},
		{
			name: "stored correctness is not recomputed",
			setup: func(f *fixture) {
				f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(&quiz.Attempt{
					UserID:          "u1",
					Question:        q1,
					SubmittedAnswer: "B",
					IsCorrect:       false,
					AttemptedAt:     time.Date(2025, 3, 10, 8, 0, 0, 0, tokyo),
				}, nil)
			},
			wantState: quiz.StateCompleted,
			check: func(t *testing.T, view quiz.View) {
				assert.False(t, view.IsCorrect)
				assert.Equal(t, "Incorrect", view.ResultLabel())
			},
		},
		{
			name: "generation failure enters error",
			setup: func(f *fixture) {
				f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil)
				f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(quiz.Question{}, errors.New("service unavailable"))
			},
			wantState: quiz.StateError,
			wantErr:   quiz.ErrGeneration,
			check: func(t *testing.T, view quiz.View) {
				assert.Contains(t, view.Error, "service unavailable")
				assert.Nil(t, view.Question)
			},
		},
		{
			name: "malformed question enters error",
			setup: func(f *fixture) {
				f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil)
				f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(quiz.Question{
					Text:    "Q1",
					Options: []string{"A", "B", "C", "D"},
					Answer:  "E",
				}, nil)
			},
			wantState: quiz.StateError,
			wantErr:   quiz.ErrGeneration,
		},
		{
			name: "lookup failure enters error",
			setup: func(f *fixture) {
				f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, errors.New("connection refused"))
			},
			wantState: quiz.StateError,
			check: func(t *testing.T, view quiz.View) {
				assert.Contains(t, view.Error, "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, now)
			tt.setup(f)
			m := f.newMachine(t)

			assert.Equal(t, quiz.StateLoading, m.Snapshot().State)
			err := m.Start(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			view := m.Snapshot()
			assert.Equal(t, tt.wantState, view.State)
			if tt.check != nil {
				tt.check(t, view)
			}
		})
	}
}

func TestMachine_Submit(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, tokyo)

	tests := []struct {
		name          string
		selected      string
		wantCorrect   bool
		wantLabel     string
		wantIncorrect string
	}{
		{
			name:          "wrong answer",
			selected:      "C",
			wantCorrect:   false,
			wantLabel:     "Incorrect",
			wantIncorrect: "C",
		},
		{
			name:        "correct answer",
			selected:    "B",
			wantCorrect: true,
			wantLabel:   "Correct!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, now)
			f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil)
			f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(q1, nil)
			f.recorder.EXPECT().Record(quiz.NewAttempt{
				UserID:          "u1",
				Question:        q1,
				SubmittedAnswer: tt.selected,
				IsCorrect:       tt.wantCorrect,
			}).Times(1)

			m := f.newMachine(t)
			require.NoError(t, m.Start(context.Background()))
			require.NoError(t, m.Select(tt.selected))
			require.NoError(t, m.Submit())

			view := m.Snapshot()
			assert.Equal(t, quiz.StateAnswered, view.State)
			assert.Equal(t, tt.wantCorrect, view.IsCorrect)
			assert.Equal(t, tt.selected, view.SubmittedAnswer)
			assert.Equal(t, tt.wantLabel, view.ResultLabel())
			assert.Equal(t, now, view.AttemptedAt)

			for _, option := range view.Options {
				assert.Equal(t, option.Text == "B", option.Correct, option.Text)
				assert.Equal(t, option.Text == tt.wantIncorrect, option.Incorrect, option.Text)
			}

			// answers are frozen once submitted
			var stateErr *quiz.TransitionError
			assert.ErrorAs(t, m.Select("A"), &stateErr)
			assert.ErrorAs(t, m.Submit(), &stateErr)
			assert.Equal(t, tt.selected, m.Snapshot().SubmittedAnswer)
		})
	}
}

func TestMachine_SubmitWithoutSelectionIsNoop(t *testing.T) {
	f := newFixture(t, time.Date(2025, 3, 10, 12, 0, 0, 0, tokyo))
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil)
	f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(q1, nil)
	f.recorder.EXPECT().Record(gomock.Any()).Times(0)

	var notifications atomic.Int32
	m := f.newMachine(t, quiz.WithObserver(func(quiz.View) {
		notifications.Add(1)
	}))
	require.NoError(t, m.Start(context.Background()))
	before := notifications.Load()

	assert.ErrorIs(t, m.Submit(), quiz.ErrNoSelection)
	assert.Equal(t, quiz.StateReady, m.Snapshot().State)
	assert.Equal(t, before, notifications.Load())

	// clearing a selection brings back the no-op behaviour
	require.NoError(t, m.Select("A"))
	require.NoError(t, m.Select(""))
	assert.ErrorIs(t, m.Submit(), quiz.ErrNoSelection)
	assert.Equal(t, quiz.StateReady, m.Snapshot().State)
}

func TestMachine_SelectUnknownOption(t *testing.T) {
	f := newFixture(t, time.Date(2025, 3, 10, 12, 0, 0, 0, tokyo))
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil)
	f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(q1, nil)

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))

	assert.ErrorIs(t, m.Select("b"), quiz.ErrUnknownOption)
	assert.Empty(t, m.Snapshot().Selected)

	require.NoError(t, m.Select("C"))
	require.NoError(t, m.Select("D"))
	view := m.Snapshot()
	assert.Equal(t, "D", view.Selected)
	for _, option := range view.Options {
		assert.Equal(t, option.Text == "D", option.Selected)
	}
}

func TestMachine_OperationsRejectedOutsideTheirState(t *testing.T) {
	f := newFixture(t, time.Date(2025, 3, 10, 12, 0, 0, 0, tokyo))
	m := f.newMachine(t)

	var stateErr *quiz.TransitionError
	require.ErrorAs(t, m.Select("A"), &stateErr)
	assert.Equal(t, quiz.StateLoading, stateErr.State)
	assert.ErrorAs(t, m.Submit(), &stateErr)
	assert.ErrorAs(t, m.Acknowledge(), &stateErr)
	assert.ErrorAs(t, m.Retry(context.Background()), &stateErr)
}

func TestMachine_Retry(t *testing.T) {
	f := newFixture(t, time.Date(2025, 3, 10, 12, 0, 0, 0, tokyo))
	gomock.InOrder(
		f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil),
		f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(quiz.Question{}, errors.New("rate limited")),
		f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil),
		f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(q1, nil),
	)

	var states []quiz.State
	var mu sync.Mutex
	m := f.newMachine(t, quiz.WithObserver(func(v quiz.View) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, v.State)
	}))

	require.Error(t, m.Start(context.Background()))
	assert.Equal(t, quiz.StateError, m.Snapshot().State)

	require.NoError(t, m.Retry(context.Background()))
	view := m.Snapshot()
	assert.Equal(t, quiz.StateReady, view.State)
	assert.Empty(t, view.Error)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []quiz.State{
		quiz.StateLoading, quiz.StateError,
		quiz.StateLoading, quiz.StateReady,
	}, states)
}

func TestMachine_AcknowledgeStartsCountdown(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 30, 0, 0, tokyo)
	f := newFixture(t, now)
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil)
	f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(q1, nil)
	f.recorder.EXPECT().Record(gomock.Any())

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Select("B"))
	require.NoError(t, m.Submit())
	assert.Empty(t, f.clock.Tickers(), "no countdown before acknowledgement")

	require.NoError(t, m.Acknowledge())
	view := m.Snapshot()
	assert.Equal(t, quiz.StateCompleted, view.State)
	assert.Equal(t, 3*time.Hour+30*time.Minute, view.Remaining)
	assert.Equal(t, "Correct!", view.ResultLabel())
	require.Len(t, f.clock.Tickers(), 1)

	ticker := f.clock.Tickers()[0]
	f.clock.Tick(t, ticker, time.Second)
	require.Eventually(t, func() bool {
		return m.Snapshot().Remaining == 3*time.Hour+29*time.Minute+59*time.Second
	}, time.Second, time.Millisecond)
}

func TestMachine_AcknowledgeAfterMidnightLoadsTheNextQuestion(t *testing.T) {
	submittedAt := time.Date(2025, 3, 10, 23, 59, 0, 0, tokyo)
	f := newFixture(t, submittedAt)
	next := quiz.Question{
		Text:    "Q2",
		Options: []string{"w", "x", "y", "z"},
		Answer:  "z",
	}
	gomock.InOrder(
		f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil),
		f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(&quiz.Attempt{
			ID:              1,
			UserID:          "u1",
			Question:        q1,
			SubmittedAnswer: "B",
			IsCorrect:       true,
			AttemptedAt:     submittedAt,
		}, nil),
	)
	gomock.InOrder(
		f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(q1, nil),
		f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(next, nil),
	)
	f.recorder.EXPECT().Record(gomock.Any())

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Select("B"))
	require.NoError(t, m.Submit())

	f.clock.Advance(2 * time.Minute)
	require.NoError(t, m.Acknowledge())

	require.Eventually(t, func() bool {
		return m.Snapshot().State == quiz.StateReady
	}, time.Second, time.Millisecond)
	view := m.Snapshot()
	require.NotNil(t, view.Question)
	assert.Equal(t, "Q2", view.Question.Text)
	assert.Empty(t, f.clock.Tickers(), "no countdown for a day that is over")
}

func TestMachine_CountdownTargetsTheAttemptDay(t *testing.T) {
	submittedAt := time.Date(2025, 3, 10, 23, 0, 0, 0, tokyo)
	f := newFixture(t, submittedAt)
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil)
	f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(q1, nil)
	f.recorder.EXPECT().Record(gomock.Any())

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Select("A"))
	require.NoError(t, m.Submit())

	f.clock.Advance(45 * time.Minute)
	require.NoError(t, m.Acknowledge())
	view := m.Snapshot()
	assert.Equal(t, quiz.StateCompleted, view.State)
	assert.Equal(t, 15*time.Minute, view.Remaining)
}

func TestMachine_SetClockKeepsTheAnswer(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 30, 0, 0, tokyo)
	f := newFixture(t, now)
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(nil, nil).Times(1)
	f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(q1, nil).Times(1)
	f.recorder.EXPECT().Record(gomock.Any())

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Select("B"))
	require.NoError(t, m.Submit())

	utc := newFakeClock(now.In(time.UTC))
	m.SetClock(utc)
	view := m.Snapshot()
	assert.Equal(t, quiz.StateAnswered, view.State)
	assert.Equal(t, "B", view.SubmittedAnswer)

	require.NoError(t, m.Acknowledge())
	assert.Equal(t, 12*time.Hour+30*time.Minute, m.Snapshot().Remaining)
	assert.Len(t, utc.Tickers(), 1)
	assert.Empty(t, f.clock.Tickers())
}

func TestMachine_SetClockRetargetsCountdown(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 30, 0, 0, tokyo)
	f := newFixture(t, now)
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(&quiz.Attempt{
		UserID:          "u1",
		Question:        q1,
		SubmittedAnswer: "B",
		IsCorrect:       true,
		AttemptedAt:     time.Date(2025, 3, 10, 20, 0, 0, 0, tokyo),
	}, nil).Times(1)

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))
	require.Equal(t, 3*time.Hour+30*time.Minute, m.Snapshot().Remaining)
	previous := f.clock.Tickers()[0]

	utc := newFakeClock(now.In(time.UTC))
	m.SetClock(utc)
	view := m.Snapshot()
	assert.Equal(t, quiz.StateCompleted, view.State)
	assert.Equal(t, 12*time.Hour+30*time.Minute, view.Remaining)
	assert.True(t, previous.stopped.Load())
	require.Len(t, utc.Tickers(), 1)

	utc.Tick(t, utc.Tickers()[0], time.Second)
	require.Eventually(t, func() bool {
		return m.Snapshot().Remaining == 12*time.Hour+29*time.Minute+59*time.Second
	}, time.Second, time.Millisecond)
}

func TestMachine_SetClockLoadsTheNextQuestionWhenTheDayIsOver(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 30, 0, 0, tokyo)
	f := newFixture(t, now)
	// 08:00 in Tokyo is still March 9 in UTC.
	previous := &quiz.Attempt{
		UserID:          "u1",
		Question:        q1,
		SubmittedAnswer: "B",
		IsCorrect:       true,
		AttemptedAt:     time.Date(2025, 3, 10, 8, 0, 0, 0, tokyo),
	}
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(previous, nil).Times(2)
	next := quiz.Question{
		Text:    "Q2",
		Options: []string{"w", "x", "y", "z"},
		Answer:  "z",
	}
	f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(next, nil).Times(1)

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))
	require.Equal(t, quiz.StateCompleted, m.Snapshot().State)

	m.SetClock(newFakeClock(now.In(time.UTC)))
	require.Eventually(t, func() bool {
		return m.Snapshot().State == quiz.StateReady
	}, time.Second, time.Millisecond)
	view := m.Snapshot()
	require.NotNil(t, view.Question)
	assert.Equal(t, "Q2", view.Question.Text)
	assert.True(t, f.clock.Tickers()[0].stopped.Load())
}

func TestMachine_CountdownStrictlyDecreases(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 0, 0, 0, tokyo)
	f := newFixture(t, now)
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(&quiz.Attempt{
		UserID:          "u1",
		Question:        q1,
		SubmittedAnswer: "C",
		AttemptedAt:     time.Date(2025, 3, 10, 8, 0, 0, 0, tokyo),
	}, nil)

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))
	require.Equal(t, quiz.StateCompleted, m.Snapshot().State)
	ticker := f.clock.Tickers()[0]

	previous := m.Snapshot().Remaining
	for i := 0; i < 5; i++ {
		f.clock.Tick(t, ticker, time.Second)
		want := previous - time.Second
		require.Eventually(t, func() bool {
			return m.Snapshot().Remaining == want
		}, time.Second, time.Millisecond)
		assert.Less(t, want, previous)
		previous = want
	}
	assert.Equal(t, "00:59:55", m.Snapshot().Countdown())
}

func TestMachine_CountdownReachingZeroReevaluates(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 59, 58, 0, tokyo)
	f := newFixture(t, now)
	attempt := &quiz.Attempt{
		UserID:          "u1",
		Question:        q1,
		SubmittedAnswer: "B",
		IsCorrect:       true,
		AttemptedAt:     time.Date(2025, 3, 10, 8, 0, 0, 0, tokyo),
	}
	next := quiz.Question{
		Text:    "Q2",
		Options: []string{"w", "x", "y", "z"},
		Answer:  "z",
	}
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(attempt, nil).Times(2)
	f.source.EXPECT().GenerateQuestion(gomock.Any(), "X").Return(next, nil).Times(1)

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))
	require.Equal(t, quiz.StateCompleted, m.Snapshot().State)
	assert.Equal(t, 2*time.Second, m.Snapshot().Remaining)

	ticker := f.clock.Tickers()[0]
	f.clock.Tick(t, ticker, time.Second)
	require.Eventually(t, func() bool {
		return m.Snapshot().Remaining == time.Second
	}, time.Second, time.Millisecond)

	f.clock.Tick(t, ticker, time.Second)
	require.Eventually(t, func() bool {
		return m.Snapshot().State == quiz.StateReady
	}, time.Second, time.Millisecond)

	view := m.Snapshot()
	require.NotNil(t, view.Question)
	assert.Equal(t, "Q2", view.Question.Text)
	assert.Empty(t, view.SubmittedAnswer)
	assert.Zero(t, view.Remaining)
	assert.True(t, ticker.stopped.Load(), "countdown ticker must be stopped when leaving completed")
}

func TestMachine_CloseStopsCountdown(t *testing.T) {
	f := newFixture(t, time.Date(2025, 3, 10, 12, 0, 0, 0, tokyo))
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(&quiz.Attempt{
		UserID:          "u1",
		Question:        q1,
		SubmittedAnswer: "B",
		IsCorrect:       true,
		AttemptedAt:     time.Date(2025, 3, 10, 8, 0, 0, 0, tokyo),
	}, nil)

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))
	ticker := f.clock.Tickers()[0]

	m.Close()
	assert.True(t, ticker.stopped.Load())
	assert.ErrorIs(t, m.Start(context.Background()), quiz.ErrClosed)
	// a second Close is harmless
	m.Close()
}

func TestMachine_RestartWhileCompletedStopsPreviousCountdown(t *testing.T) {
	f := newFixture(t, time.Date(2025, 3, 10, 12, 0, 0, 0, tokyo))
	f.finder.EXPECT().LatestAttempt(gomock.Any(), "u1").Return(&quiz.Attempt{
		UserID:          "u1",
		Question:        q1,
		SubmittedAnswer: "A",
		AttemptedAt:     time.Date(2025, 3, 10, 8, 0, 0, 0, tokyo),
	}, nil).Times(2)

	m := f.newMachine(t)
	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Start(context.Background()))

	tickers := f.clock.Tickers()
	require.Len(t, tickers, 2)
	assert.True(t, tickers[0].stopped.Load())
	assert.False(t, tickers[1].stopped.Load())
	assert.Equal(t, quiz.StateCompleted, m.Snapshot().State)
}
