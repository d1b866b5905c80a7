package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/enrollease/enrollease/internal/quiz"
)

// SessionManager keeps one daily quiz machine per user.
type SessionManager struct {
	topic    string
	deps     quiz.Dependencies
	clockFor func(*time.Location) quiz.Clock

	// ctx outlives requests so that a disconnecting client does not fail a load.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
}

type SessionOption func(*SessionManager)

// WithClockFactory sets how clocks are built for requests carrying a timezone.
func WithClockFactory(clockFor func(*time.Location) quiz.Clock) SessionOption {
	return func(sm *SessionManager) {
		sm.clockFor = clockFor
	}
}

func NewSessionManager(topic string, deps quiz.Dependencies, opts ...SessionOption) *SessionManager {
	ctx, cancel := context.WithCancel(context.Background())
	sm := &SessionManager{
		topic:    topic,
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*session),
		clockFor: func(location *time.Location) quiz.Clock {
			return quiz.NewSystemClock(location)
		},
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

type session struct {
	machine  *quiz.Machine
	timezone string

	mu      sync.Mutex
	changed chan struct{}
}

func (s *session) observe(quiz.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(s.changed)
	s.changed = make(chan struct{})
}

// await blocks while the machine is loading.
func (s *session) await(ctx context.Context) (quiz.View, error) {
	for {
		s.mu.Lock()
		changed := s.changed
		s.mu.Unlock()

		view := s.machine.Snapshot()
		if view.State != quiz.StateLoading {
			return view, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return view, ctx.Err()
		}
	}
}

// Open returns the user's session, creating and starting it when there is
// none. A session asked for with another timezone keeps its state and switches
// to a clock in that timezone.
func (sm *SessionManager) Open(ctx context.Context, userID, timezone string) (quiz.View, error) {
	sm.mu.Lock()
	if sm.closed {
		sm.mu.Unlock()
		return quiz.View{}, quiz.ErrClosed
	}

	s, ok := sm.sessions[userID]
	if ok && s.timezone == timezone {
		sm.mu.Unlock()
		return s.await(ctx)
	}

	clock, err := sm.clock(timezone)
	if err != nil {
		sm.mu.Unlock()
		return quiz.View{}, err
	}

	if ok {
		s.timezone = timezone
		sm.mu.Unlock()

		slog.Default().Debug("daily quiz session timezone changed", "user", userID, "timezone", timezone)
		s.machine.SetClock(clock)
		return s.await(ctx)
	}

	deps := sm.deps
	deps.Clock = clock
	s = &session{timezone: timezone, changed: make(chan struct{})}
	s.machine = quiz.NewMachine(userID, sm.topic, deps, quiz.WithObserver(s.observe))
	sm.sessions[userID] = s
	sm.mu.Unlock()

	slog.Default().Debug("daily quiz session opened", "user", userID, "timezone", timezone)
	go func() {
		// The outcome is reflected in the machine's state.
		_ = s.machine.Start(sm.ctx)
	}()
	return s.await(ctx)
}

func (sm *SessionManager) clock(timezone string) (quiz.Clock, error) {
	if timezone == "" {
		return sm.deps.Clock, nil
	}
	location, err := quiz.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("quiz.LoadLocation(%s) > %w", timezone, err)
	}
	return sm.clockFor(location), nil
}

func (sm *SessionManager) lookup(userID string) (*session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.closed {
		return nil, quiz.ErrClosed
	}
	s, ok := sm.sessions[userID]
	if !ok {
		return nil, fmt.Errorf("%w for user %s", ErrSessionNotFound, userID)
	}
	return s, nil
}

func (sm *SessionManager) Select(userID, option string) (quiz.View, error) {
	s, err := sm.lookup(userID)
	if err != nil {
		return quiz.View{}, err
	}
	if err := s.machine.Select(option); err != nil {
		return s.machine.Snapshot(), err
	}
	return s.machine.Snapshot(), nil
}

func (sm *SessionManager) Submit(userID string) (quiz.View, error) {
	s, err := sm.lookup(userID)
	if err != nil {
		return quiz.View{}, err
	}
	if err := s.machine.Submit(); err != nil {
		return s.machine.Snapshot(), err
	}
	return s.machine.Snapshot(), nil
}

func (sm *SessionManager) Acknowledge(userID string) (quiz.View, error) {
	s, err := sm.lookup(userID)
	if err != nil {
		return quiz.View{}, err
	}
	if err := s.machine.Acknowledge(); err != nil {
		return s.machine.Snapshot(), err
	}
	return s.machine.Snapshot(), nil
}

// Retry re-runs the load of a failed session. A failing load is not an error
// for the caller: it is reported through the returned view.
func (sm *SessionManager) Retry(ctx context.Context, userID string) (quiz.View, error) {
	s, err := sm.lookup(userID)
	if err != nil {
		return quiz.View{}, err
	}
	if err := s.machine.Retry(sm.ctx); err != nil {
		var stateErr *quiz.TransitionError
		if errors.As(err, &stateErr) {
			return s.machine.Snapshot(), err
		}
	}
	return s.await(ctx)
}

// Close stops every session's countdown.
func (sm *SessionManager) Close() {
	sm.mu.Lock()
	if sm.closed {
		sm.mu.Unlock()
		return
	}
	sm.closed = true
	sessions := sm.sessions
	sm.sessions = make(map[string]*session)
	sm.mu.Unlock()

	sm.cancel()
	for _, s := range sessions {
		s.machine.Close()
	}
}
