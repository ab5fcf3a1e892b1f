package llm

import (
	"context"
	"sync"
	"time"

	"github.com/sportrium/assistant/internal/models"
)

// Breaker counts provider failures and opens for a cooldown once the trip
// threshold is reached. The zero value is not usable; call NewBreaker.
type Breaker struct {
	trip     int
	cooldown time.Duration
	now      func() time.Time

	mu        sync.Mutex
	failures  int
	openUntil time.Time
}

// NewBreaker creates a breaker. A nil clock uses time.Now.
func NewBreaker(trip int, cooldown time.Duration, now func() time.Time) *Breaker {
	if trip <= 0 {
		trip = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Breaker{trip: trip, cooldown: cooldown, now: now}
}

// Allow reports whether a call may proceed. Once the cooldown has elapsed
// the breaker half-closes: the counter resets and the call is attempted.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openUntil.IsZero() {
		return true
	}
	if b.now().Before(b.openUntil) {
		return false
	}
	b.openUntil = time.Time{}
	b.failures = 0
	return true
}

// Success resets the failure counter.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.openUntil = time.Time{}
}

// Failure records one failed call and opens the breaker at the threshold.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.failures >= b.trip && b.openUntil.IsZero() {
		b.openUntil = b.now().Add(b.cooldown)
	}
}

// Open reports whether calls are currently being skipped.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.openUntil.IsZero() && b.now().Before(b.openUntil)
}

// Failures returns the current failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Guarded wraps a Completer with its own breaker.
type Guarded struct {
	Completer
	Breaker *Breaker
}

// Guard wraps c with b.
func Guard(c Completer, b *Breaker) *Guarded {
	return &Guarded{Completer: c, Breaker: b}
}

// Complete implements Completer. While the breaker is open it returns
// ErrCircuitOpen without calling the provider.
func (g *Guarded) Complete(ctx context.Context, system string, msgs []models.Turn) (string, error) {
	if !g.Breaker.Allow() {
		return "", ErrCircuitOpen
	}
	text, err := g.Completer.Complete(ctx, system, msgs)
	if err != nil {
		g.Breaker.Failure()
		return "", err
	}
	g.Breaker.Success()
	return text, nil
}
