// Package events is the process-wide error channel. Components publish
// failures that happen out of band (e.g. a fire-and-forget attempt write) and
// UI-facing layers subscribe to surface them.
package events

import (
	"log/slog"
	"sync"
	"time"
)

type Kind string

const (
	KindPersistenceFailed Kind = "persistence_failed"
	KindPermissionDenied  Kind = "permission_denied"
)

type Event struct {
	Kind       Kind      `json:"kind"`
	UserID     string    `json:"user_id"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
	Err        error     `json:"-"`
}

// Filter selects the events a subscription receives. A nil Filter receives everything.
type Filter func(Event) bool

func ForUser(userID string) Filter {
	return func(e Event) bool {
		return e.UserID == userID
	}
}

// Publisher is the write side of the error channel.
type Publisher interface {
	Publish(event Event)
}

// Bus fans events out to subscribers. Publish never blocks: a subscriber whose
// buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]*Subscription)}
}

func (b *Bus) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			slog.Default().Warn("dropped event for slow subscriber",
				"subscription", sub.id,
				"kind", event.Kind,
				"user", event.UserID,
			)
		}
	}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// subscription's channel is closed by Subscription.Close or Bus.Close.
func (b *Bus) Subscribe(buffer int, filter Filter) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		bus:    b,
		ch:     make(chan Event, buffer),
		filter: filter,
	}
	if b.closed {
		close(sub.ch)
		sub.done = true
		return sub
	}
	b.subs[sub.id] = sub
	return sub
}

// Close closes every subscription; later publishes are discarded.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		sub.closeLocked()
		delete(b.subs, id)
	}
}

func (b *Bus) subscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

type Subscription struct {
	id     uint64
	bus    *Bus
	ch     chan Event
	filter Filter
	done   bool
}

func (s *Subscription) C() <-chan Event {
	return s.ch
}

func (s *Subscription) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	delete(s.bus.subs, s.id)
	s.closeLocked()
}

// closeLocked must be called with the bus lock held.
func (s *Subscription) closeLocked() {
	if s.done {
		return
	}
	s.done = true
	close(s.ch)
}
