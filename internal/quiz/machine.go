package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// CountdownInterval is how often the countdown is recomputed while completed.
const CountdownInterval = time.Second

// Observer is notified after every transition and countdown tick. Observers
// may be called from the countdown goroutine and must be safe for concurrent use.
type Observer func(View)

type Option func(*Machine)

func WithObserver(observer Observer) Option {
	return func(m *Machine) {
		m.observers = append(m.observers, observer)
	}
}

// Machine tracks whether a user has completed today's question.
//
//	loading -> ready | completed | error
//	ready -> answered -> completed
//	error -> loading (Retry)
//	completed -> loading (next local midnight)
type Machine struct {
	userID    string
	topic     string
	source    QuestionSource
	attempts  AttemptFinder
	recorder  Recorder
	clock     Clock
	observers []Observer

	lifetime context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu              sync.Mutex
	epoch           uint64
	closed          bool
	state           State
	question        *Question
	selected        string
	submitted       string
	correct         bool
	attemptedAt     time.Time
	countdownTarget time.Time
	remaining       time.Duration
	lastErr         error
	stopCountdown   func()
}

func NewMachine(userID, topic string, deps Dependencies, opts ...Option) *Machine {
	lifetime, cancel := context.WithCancel(context.Background())
	m := &Machine{
		userID:   userID,
		topic:    topic,
		source:   deps.Source,
		attempts: deps.Attempts,
		recorder: deps.Recorder,
		clock:    deps.Clock,
		lifetime: lifetime,
		cancel:   cancel,
		state:    StateLoading,
	}
	if m.clock == nil {
		m.clock = NewSystemClock(nil)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) UserID() string {
	return m.userID
}

// Start runs the initial lookup: a valid-for-today attempt moves the machine to
// completed without asking the question source, otherwise exactly one question
// is generated. The returned error is the one that put the machine in StateError.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.stopCountdownLocked()
	m.epoch++
	epoch := m.epoch
	m.state = StateLoading
	m.question = nil
	m.selected = ""
	m.submitted = ""
	m.correct = false
	m.attemptedAt = time.Time{}
	m.remaining = 0
	m.lastErr = nil
	view := m.viewLocked()
	m.mu.Unlock()
	m.notify(view)

	latest, err := m.attempts.LatestAttempt(ctx, m.userID)
	if err != nil {
		return m.fail(epoch, fmt.Errorf("attempts.LatestAttempt(%s) > %w", m.userID, err))
	}

	now := m.now()
	if latest != nil && SameDay(latest.AttemptedAt, now) {
		m.hydrate(epoch, *latest, now)
		return nil
	}

	question, err := m.source.GenerateQuestion(ctx, m.topic)
	if err == nil {
		err = question.Validate()
	}
	if err != nil {
		if !errors.Is(err, ErrGeneration) {
			err = NewGenerationError(m.topic, err)
		}
		return m.fail(epoch, err)
	}

	m.mu.Lock()
	if m.closed || epoch != m.epoch {
		m.mu.Unlock()
		return nil
	}
	q := question.clone()
	m.question = &q
	m.state = StateReady
	view = m.viewLocked()
	m.mu.Unlock()

	slog.Default().Debug("daily quiz ready", "user", m.userID, "topic", m.topic)
	m.notify(view)
	return nil
}

// Retry re-enters loading after a failure.
func (m *Machine) Retry(ctx context.Context) error {
	m.mu.Lock()
	state := m.state
	m.mu.Unlock()
	if state != StateError {
		return &TransitionError{Op: "retry", State: state}
	}
	return m.Start(ctx)
}

// Select chooses an option. An empty option clears the selection.
func (m *Machine) Select(option string) error {
	m.mu.Lock()
	if m.state != StateReady {
		state := m.state
		m.mu.Unlock()
		return &TransitionError{Op: "select", State: state}
	}
	if option != "" && !m.question.HasOption(option) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}
	m.selected = option
	view := m.viewLocked()
	m.mu.Unlock()

	m.notify(view)
	return nil
}

// Submit evaluates the selected option, moves to answered and hands the attempt
// to the recorder without waiting for it to be stored. Without a selection it
// returns ErrNoSelection and changes nothing.
func (m *Machine) Submit() error {
	m.mu.Lock()
	if m.state != StateReady {
		state := m.state
		m.mu.Unlock()
		return &TransitionError{Op: "submit", State: state}
	}
	if m.selected == "" {
		m.mu.Unlock()
		return ErrNoSelection
	}

	m.submitted = m.selected
	m.correct = Evaluate(*m.question, m.submitted)
	m.attemptedAt = m.clock.Now()
	m.state = StateAnswered
	attempt := NewAttempt{
		UserID:          m.userID,
		Question:        m.question.clone(),
		SubmittedAnswer: m.submitted,
		IsCorrect:       m.correct,
	}
	view := m.viewLocked()
	m.mu.Unlock()

	m.recorder.Record(attempt)
	slog.Default().Info("daily quiz answered", "user", m.userID, "correct", attempt.IsCorrect)
	m.notify(view)
	return nil
}

// Acknowledge moves an answered quiz to completed and starts the countdown.
func (m *Machine) Acknowledge() error {
	m.mu.Lock()
	if m.state != StateAnswered {
		state := m.state
		m.mu.Unlock()
		return &TransitionError{Op: "acknowledge", State: state}
	}
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	counting := m.completeLocked(m.clock.Now())
	view := m.viewLocked()
	if !counting {
		m.wg.Add(1)
	}
	m.mu.Unlock()

	m.notify(view)
	if !counting {
		// The answer belongs to a day that is already over.
		go m.reload("daily quiz acknowledged after the day boundary")
	}
	return nil
}

// SetClock replaces the machine's clock, for example when the user's timezone
// changes. The question, selection and any submitted answer are kept. A running
// countdown is retargeted to the end of the attempt's day in the new clock's
// location, and the next question is loaded when that day is already over.
func (m *Machine) SetClock(clock Clock) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if clock == nil {
		clock = NewSystemClock(nil)
	}
	m.clock = clock
	if m.state != StateCompleted {
		m.mu.Unlock()
		return
	}

	m.stopCountdownLocked()
	m.epoch++
	counting := m.completeLocked(clock.Now())
	view := m.viewLocked()
	if !counting {
		m.wg.Add(1)
	}
	m.mu.Unlock()

	m.notify(view)
	if !counting {
		go m.reload("daily quiz day is over in the new timezone")
	}
}

func (m *Machine) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

// Close stops the countdown and cancels any re-evaluation in flight.
func (m *Machine) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.stopCountdownLocked()
	m.cancel()
	m.mu.Unlock()

	m.wg.Wait()
}

// reload re-runs Start in the background. The caller must have added to wg.
func (m *Machine) reload(reason string) {
	defer m.wg.Done()
	slog.Default().Info(reason, "user", m.userID)
	_ = m.Start(m.lifetime)
}

func (m *Machine) now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock.Now()
}

func (m *Machine) hydrate(epoch uint64, attempt Attempt, now time.Time) {
	m.mu.Lock()
	if m.closed || epoch != m.epoch {
		m.mu.Unlock()
		return
	}
	q := attempt.Question.clone()
	m.question = &q
	m.selected = attempt.SubmittedAnswer
	m.submitted = attempt.SubmittedAnswer
	m.correct = attempt.IsCorrect
	m.attemptedAt = attempt.AttemptedAt
	m.completeLocked(now)
	view := m.viewLocked()
	m.mu.Unlock()

	slog.Default().Debug("daily quiz already attempted today",
		"user", m.userID,
		"attemptedAt", attempt.AttemptedAt,
	)
	m.notify(view)
}

func (m *Machine) fail(epoch uint64, err error) error {
	m.mu.Lock()
	if m.closed || epoch != m.epoch {
		m.mu.Unlock()
		return err
	}
	m.state = StateError
	m.lastErr = err
	view := m.viewLocked()
	m.mu.Unlock()

	slog.Default().Warn("daily quiz failed to load", "user", m.userID, "error", err)
	m.notify(view)
	return err
}

// completeLocked enters completed with a countdown to the end of the day the
// attempt was made on. It reports false, without starting a countdown, when
// that day is already over.
func (m *Machine) completeLocked(now time.Time) bool {
	m.state = StateCompleted
	m.countdownTarget = NextDayBoundary(m.attemptedAt.In(now.Location()))
	m.remaining = m.countdownTarget.Sub(now)
	if m.remaining <= 0 {
		m.remaining = 0
		return false
	}

	ticker := m.clock.NewTicker(CountdownInterval)
	done := make(chan struct{})
	var once sync.Once
	m.stopCountdown = func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}

	m.wg.Add(1)
	go func(epoch uint64) {
		defer m.wg.Done()
		m.runCountdown(epoch, ticker, done)
	}(m.epoch)
	return true
}

func (m *Machine) runCountdown(epoch uint64, ticker Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
		}

		m.mu.Lock()
		if m.closed || epoch != m.epoch || m.state != StateCompleted {
			m.mu.Unlock()
			return
		}
		remaining := m.countdownTarget.Sub(m.clock.Now())
		if remaining > 0 {
			m.remaining = remaining
			view := m.viewLocked()
			m.mu.Unlock()
			m.notify(view)
			continue
		}

		m.remaining = 0
		m.stopCountdownLocked()
		m.mu.Unlock()

		slog.Default().Info("daily quiz day boundary reached", "user", m.userID)
		_ = m.Start(m.lifetime)
		return
	}
}

func (m *Machine) stopCountdownLocked() {
	if m.stopCountdown != nil {
		m.stopCountdown()
		m.stopCountdown = nil
	}
}

func (m *Machine) viewLocked() View {
	view := View{
		State:           m.state,
		UserID:          m.userID,
		Selected:        m.selected,
		SubmittedAnswer: m.submitted,
		IsCorrect:       m.correct,
		AttemptedAt:     m.attemptedAt,
	}
	if m.state == StateCompleted {
		view.Remaining = m.remaining
	}
	if m.lastErr != nil {
		view.Error = m.lastErr.Error()
	}
	if m.question == nil {
		return view
	}

	q := m.question.clone()
	view.Question = &q
	revealed := view.Revealed()
	for _, option := range q.Options {
		ov := OptionView{
			Text:     option,
			Selected: option == m.selected,
		}
		if revealed {
			ov.Correct = option == q.Answer
			ov.Incorrect = option == m.submitted && option != q.Answer
		}
		view.Options = append(view.Options, ov)
	}
	return view
}

func (m *Machine) notify(view View) {
	for _, observer := range m.observers {
		observer(view)
	}
}
