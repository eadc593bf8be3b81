package users

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrFetchFailed is the simulated network failure.
var ErrFetchFailed = errors.New("users: fetch failed")

// DefaultDelay is how long FakeSource pretends the network takes.
const DefaultDelay = 5 * time.Second

// drawRange is the number of values the outcome is drawn from (0 through 6).
const drawRange = 7

// Source loads the user list.
type Source interface {
	Fetch(ctx context.Context) ([]User, error)
}

// FakeSource imitates a slow, unreliable call: after Delay it either
// returns the catalog or fails, depending on a uniform draw from 0..6.
// Draws divisible by five (0 and 5) fail.
type FakeSource struct {
	delay time.Duration
	log   *zap.Logger

	mu   sync.Mutex
	rng  *rand.Rand
	draw func() int
}

// FakeOption configures a FakeSource.
type FakeOption func(*FakeSource)

// WithRand makes the outcome draws come from r.
func WithRand(r *rand.Rand) FakeOption {
	return func(s *FakeSource) { s.rng = r }
}

// WithDraw replaces the random draw entirely; tests use it to pick the
// outcome.
func WithDraw(fn func() int) FakeOption {
	return func(s *FakeSource) { s.draw = fn }
}

// WithLogger sets the logger used to report draws.
func WithLogger(l *zap.Logger) FakeOption {
	return func(s *FakeSource) {
		if l != nil {
			s.log = l
		}
	}
}

// NewFakeSource returns a FakeSource that waits delay before answering.
// A negative delay is treated as zero.
func NewFakeSource(delay time.Duration, opts ...FakeOption) *FakeSource {
	if delay < 0 {
		delay = 0
	}
	s := &FakeSource{
		delay: delay,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// NewSeededRand returns a deterministic generator for FakeSource, or a
// randomly seeded one when seed is zero.
func NewSeededRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Fetch waits for the configured delay and then succeeds or fails. It
// returns ctx.Err() if ctx ends first.
func (s *FakeSource) Fetch(ctx context.Context) ([]User, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := s.nextDraw()
	s.log.Info("fetch outcome drawn", zap.Int("draw", n))
	if Failed(n) {
		return nil, fmt.Errorf("%w (draw %d)", ErrFetchFailed, n)
	}
	return Catalog(), nil
}

// Failed reports whether a draw means the fetch fails.
func Failed(draw int) bool {
	return draw%5 == 0
}

func (s *FakeSource) nextDraw() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draw != nil {
		return s.draw()
	}
	return s.rng.IntN(drawRange)
}
