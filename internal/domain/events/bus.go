// Package events is the one-to-many push channel from the host to the UI.
//
// Publishers (the window controller, the skill sync workflow) never block:
// each subscriber owns a bounded buffer and a slow subscriber loses events
// instead of stalling the publisher. Delivery order relative to bridge
// responses is unspecified; subscribers must not assume any interleaving.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Name identifies a push event.
type Name string

const (
	WindowMaximizeChanged Name = "window.maximizeChanged"
	SkillsReconciled      Name = "skills.reconciled"
)

// Event is a single pushed message.
type Event struct {
	Name      Name        `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// Publisher is the narrow interface components publish through.
type Publisher interface {
	Publish(name Name, payload interface{})
}

const defaultBuffer = 32

// Bus fans events out to every current subscriber.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	buffer int
	logger *zap.Logger
}

// NewBus creates an event bus
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[uint64]chan Event),
		buffer: defaultBuffer,
		logger: logger,
	}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking.
func (b *Bus) Publish(name Name, payload interface{}) {
	evt := Event{Name: name, Payload: payload, Timestamp: time.Now().UnixMilli()}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				zap.String("event", string(name)),
				zap.Uint64("subscriber", id),
			)
		}
	}
}

// Subscribers returns the current subscriber count
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
