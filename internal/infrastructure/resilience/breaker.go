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
	// MaxRequests is the number of trial calls allowed while half-open
	MaxRequests uint32
	// Interval clears the closed-state counts periodically; 0 uses one minute
	Interval time.Duration
	// Timeout is how long the breaker stays open before trying again
	Timeout time.Duration
	// ReadyToTrip decides, after a failure while closed, whether to open
	ReadyToTrip func(counts Counts) bool
	// IsFailure classifies a returned error; nil errors are always successes
	IsFailure func(err error) bool
	// OnStateChange is called after each transition, outside the lock
	OnStateChange func(name string, from State, to State)
}

// Counts holds the statistics for the current generation
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Breaker implements the circuit breaker pattern
type Breaker struct {
	name     string
	settings Settings

	mu         sync.Mutex
	state      State
	generation uint64
	counts     Counts
	expiry     time.Time
}

// New creates a circuit breaker, filling unset settings with defaults
func New(name string, settings Settings) *Breaker {
	if settings.MaxRequests == 0 {
		settings.MaxRequests = 1
	}
	if settings.Interval == 0 {
		settings.Interval = time.Minute
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.ReadyToTrip == nil {
		settings.ReadyToTrip = func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 5
		}
	}
	if settings.IsFailure == nil {
		settings.IsFailure = func(err error) bool {
			return !errors.Is(err, context.Canceled)
		}
	}

	return &Breaker{
		name:     name,
		settings: settings,
		expiry:   time.Now().Add(settings.Interval),
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	state, _, change := b.advance(time.Now())
	b.mu.Unlock()
	b.notify(change)
	return state
}

// Counts returns a copy of the current counts
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Do runs fn unless the breaker rejects the call. A context that is already done
// is rejected without counting against the breaker.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	generation, err := b.admit()
	if err != nil {
		return err
	}

	success := false
	defer func() {
		b.record(generation, success)
	}()

	err = fn(ctx)
	success = err == nil || !b.settings.IsFailure(err)
	return err
}

type transition struct {
	from, to State
	changed  bool
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	state, generation, change := b.advance(time.Now())
	var err error
	switch {
	case state == StateOpen:
		err = ErrCircuitOpen
	case state == StateHalfOpen && b.counts.Requests >= b.settings.MaxRequests:
		err = ErrTooManyRequests
	default:
		b.counts.Requests++
	}
	b.mu.Unlock()

	b.notify(change)
	return generation, err
}

func (b *Breaker) record(generation uint64, success bool) {
	b.mu.Lock()
	now := time.Now()
	state, current, change := b.advance(now)
	if current == generation {
		if success {
			b.counts.TotalSuccesses++
			b.counts.ConsecutiveSuccesses++
			b.counts.ConsecutiveFailures = 0
			if state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.settings.MaxRequests {
				change = b.transition(StateClosed, now)
			}
		} else {
			b.counts.TotalFailures++
			b.counts.ConsecutiveFailures++
			b.counts.ConsecutiveSuccesses = 0
			if state == StateHalfOpen || b.settings.ReadyToTrip(b.counts) {
				change = b.transition(StateOpen, now)
			}
		}
	}
	b.mu.Unlock()

	b.notify(change)
}

// advance applies time-based transitions. Callers hold the lock.
func (b *Breaker) advance(now time.Time) (State, uint64, transition) {
	var change transition
	switch b.state {
	case StateClosed:
		if b.expiry.Before(now) {
			b.newGeneration(now)
		}
	case StateOpen:
		if b.expiry.Before(now) {
			change = b.transition(StateHalfOpen, now)
		}
	}
	return b.state, b.generation, change
}

func (b *Breaker) transition(to State, now time.Time) transition {
	from := b.state
	if from == to {
		return transition{}
	}
	b.state = to
	b.newGeneration(now)
	return transition{from: from, to: to, changed: true}
}

func (b *Breaker) newGeneration(now time.Time) {
	b.generation++
	b.counts = Counts{}
	switch b.state {
	case StateClosed:
		b.expiry = now.Add(b.settings.Interval)
	case StateOpen:
		b.expiry = now.Add(b.settings.Timeout)
	default:
		b.expiry = time.Time{}
	}
}

func (b *Breaker) notify(change transition) {
	if change.changed && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, change.from, change.to)
	}
}

// Group lazily creates one breaker per name with shared settings
type Group struct {
	settings Settings

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewGroup creates an empty group
func NewGroup(settings Settings) *Group {
	return &Group{settings: settings, breakers: make(map[string]*Breaker)}
}

// Get returns the breaker for name, creating it on first use
func (g *Group) Get(name string) *Breaker {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.breakers[name]
	if !ok {
		b = New(name, g.settings)
		g.breakers[name] = b
	}
	return b
}
