package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Config tunes a Breaker. Zero fields fall back to the defaults.
type Config struct {
	Threshold  int
	Cooldown   time.Duration
	TrialCalls int
}

func (c Config) normalized() Config {
	if c.Threshold < 1 {
		c.Threshold = 3
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
	if c.TrialCalls < 1 {
		c.TrialCalls = 1
	}
	return c
}

// Breaker stops calling a failing dependency for a cooldown after Threshold
// consecutive failures, then lets TrialCalls calls through to test it.
type Breaker struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	state    State
	failures int
	openedAt time.Time
	inFlight int
	passed   int
}

func NewBreaker(cfg Config) *Breaker {
	return &Breaker{cfg: cfg.normalized(), now: time.Now, state: StateClosed}
}

// Execute runs fn unless the breaker is open. Errors for which countable
// returns false pass through without moving the breaker; a nil countable
// counts every error.
func (b *Breaker) Execute(fn func() error, countable func(error) bool) error {
	if err := b.acquire(); err != nil {
		return err
	}
	err := fn()
	b.release(err != nil && (countable == nil || countable(err)))
	return err
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return ErrOpen
		}
		b.state, b.inFlight, b.passed = StateHalfOpen, 0, 0
	}
	if b.state == StateHalfOpen {
		if b.inFlight >= b.cfg.TrialCalls {
			return ErrOpen
		}
		b.inFlight++
	}
	return nil
}

func (b *Breaker) release(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.inFlight > 0 {
		b.inFlight--
	}
	switch {
	case failed && b.state == StateHalfOpen:
		b.trip()
	case failed:
		b.failures++
		if b.failures >= b.cfg.Threshold {
			b.trip()
		}
	case b.state == StateHalfOpen:
		b.passed++
		if b.passed >= b.cfg.TrialCalls && b.inFlight == 0 {
			b.state, b.failures = StateClosed, 0
		}
	default:
		b.failures = 0
	}
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.failures, b.inFlight, b.passed = 0, 0, 0
}
