package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit
	FailureThreshold uint32
	// Cooldown is how long the circuit stays open before probing
	Cooldown time.Duration
	// HalfOpenProbes is the number of trial calls allowed while half-open;
	// that many consecutive successes close the circuit
	HalfOpenProbes uint32
	// IsFailure decides whether an error counts against the backend.
	// Defaults to every error except context cancellation.
	IsFailure func(err error) bool
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from State, to State)
}

// Counts holds the statistics for the current generation
type Counts struct {
	Requests             uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Breaker fails fast while a collaborator is known to be down.
type Breaker struct {
	name     string
	settings Settings

	mu         sync.Mutex
	state      State
	counts     Counts
	generation uint64
	openedAt   time.Time
	now        func() time.Time
}

// New creates a circuit breaker; zero settings get defaults.
func New(name string, settings Settings) *Breaker {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 10 * time.Second
	}
	if settings.HalfOpenProbes == 0 {
		settings.HalfOpenProbes = 1
	}
	if settings.IsFailure == nil {
		settings.IsFailure = func(err error) bool {
			return !errors.Is(err, context.Canceled)
		}
	}
	return &Breaker{name: name, settings: settings, now: time.Now}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// Counts returns a copy of the current generation's counts
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Do runs fn through b, returning ErrCircuitOpen or ErrTooManyRequests
// without calling fn when the circuit rejects the call.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	generation, err := b.admit()
	if err != nil {
		return zero, err
	}

	defer func() {
		if r := recover(); r != nil {
			b.record(generation, errors.New("panic"))
			panic(r)
		}
	}()

	result, err := fn()
	b.record(generation, err)
	return result, err
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentState() {
	case StateOpen:
		return b.generation, ErrCircuitOpen
	case StateHalfOpen:
		if b.counts.Requests >= b.settings.HalfOpenProbes {
			return b.generation, ErrTooManyRequests
		}
	}
	b.counts.Requests++
	return b.generation, nil
}

func (b *Breaker) record(generation uint64, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.currentState()
	if generation != b.generation {
		return
	}

	if err == nil || !b.settings.IsFailure(err) {
		b.counts.ConsecutiveSuccesses++
		b.counts.ConsecutiveFailures = 0
		if state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.settings.HalfOpenProbes {
			b.transition(StateClosed)
		}
		return
	}

	b.counts.ConsecutiveFailures++
	b.counts.ConsecutiveSuccesses = 0
	if state == StateHalfOpen || b.counts.ConsecutiveFailures >= b.settings.FailureThreshold {
		b.transition(StateOpen)
	}
}

// currentState promotes an expired open circuit to half-open. Caller holds mu.
func (b *Breaker) currentState() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.settings.Cooldown {
		b.transition(StateHalfOpen)
	}
	return b.state
}

// transition moves to state and starts a new generation. Caller holds mu.
func (b *Breaker) transition(state State) {
	if b.state == state {
		return
	}
	prev := b.state
	b.state = state
	b.counts = Counts{}
	b.generation++
	if state == StateOpen {
		b.openedAt = b.now()
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, prev, state)
	}
}
