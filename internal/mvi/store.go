// Package mvi implements a Model-View-Intent store: a single owner of
// screen state that handles events one at a time on its own lane and
// publishes state snapshots and one-shot effects to the view.
//
// A Store is generic over three closed sets of values: events (E) flowing
// in from the view, the state (S) that fully determines what is rendered,
// and effects (F) that must be acted on at most once. Concrete screens
// implement Handler and never touch the store's internals; everything they
// may do while handling an event goes through a Scope.
package mvi

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// Handler is the screen-specific part of a store.
type Handler[E, S, F any] interface {
	// InitialState is evaluated once, when the store is created.
	InitialState() S

	// HandleEvent is called once per dispatched event, in dispatch order,
	// never concurrently with itself. ctx is cancelled when the store is
	// torn down.
	HandleEvent(ctx context.Context, sc *Scope[E, S, F], ev E)
}

// Store owns the current state of one screen and serializes every event
// through a single lane goroutine.
type Store[E, S, F any] struct {
	handler Handler[E, S, F]
	opts    options
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mailbox *queue[E]
	work    sync.WaitGroup
	scope   *Scope[E, S, F]

	mu         sync.RWMutex
	state      S
	commits    uint64
	nextSubID  uint64
	stateSubs  map[uint64]*queue[S]
	effectSubs []*effectSub[F]
	nextEffect int
	handoff    chan *offer[F]

	errMu sync.Mutex
	err   error
}

type effectSub[F any] struct {
	id uint64
	q  *queue[F]
}

// offer is one attempt to hand an effect to a rendezvous subscriber. The
// subscriber that takes it reports exactly once on taken: true once the
// consumer has received the effect, false if it gave up first.
type offer[F any] struct {
	effect F
	taken  chan bool
}

// New creates a store and starts its lane. The store lives until ctx is
// cancelled, Close is called, or the handler panics.
func New[E, S, F any](ctx context.Context, h Handler[E, S, F], opts ...Option) *Store[E, S, F] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sctx, cancel := context.WithCancel(ctx)
	s := &Store[E, S, F]{
		handler:   h,
		opts:      o,
		log:       o.logger,
		ctx:       sctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		mailbox:   newQueue[E](0),
		stateSubs: make(map[uint64]*queue[S]),
		handoff:   make(chan *offer[F]),
	}
	s.scope = &Scope[E, S, F]{b: s}
	s.state = h.InitialState()

	s.log.Debug("store ready",
		zap.String("state", fmt.Sprintf("%T", s.state)),
		zap.Stringer("effect_policy", o.effectPolicy),
		zap.Int("effect_buffer", o.effectBuffer))

	go s.run()
	return s
}

// State returns the latest committed state.
func (s *Store[E, S, F]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch queues ev for the handler and returns immediately. Events from
// a single goroutine are handled in the order they were dispatched.
func (s *Store[E, S, F]) Dispatch(ev E) error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	s.mailbox.push(ev)
	return nil
}

// States streams state snapshots. The current state is sent first, then
// every commit in order. Each subscriber buffers independently, so a slow
// reader neither loses values nor holds up the lane. The channel is closed
// when ctx is done or the store is torn down.
func (s *Store[E, S, F]) States(ctx context.Context) <-chan S {
	out := make(chan S)
	q := newQueue[S](0)

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		close(out)
		return out
	}
	id := s.nextSubID
	s.nextSubID++
	q.push(s.state)
	s.stateSubs[id] = q
	s.mu.Unlock()

	go pump(ctx.Done(), s.ctx.Done(), q, out, func() {
		s.mu.Lock()
		delete(s.stateSubs, id)
		s.mu.Unlock()
	})
	return out
}

// Effects streams effects emitted after the call. Past effects are never
// replayed, and each effect reaches at most one subscriber. The channel is
// closed when ctx is done or the store is torn down.
func (s *Store[E, S, F]) Effects(ctx context.Context) <-chan F {
	out := make(chan F)
	if s.ctx.Err() != nil {
		close(out)
		return out
	}

	if s.opts.effectPolicy == EffectRendezvous {
		go s.forwardHandoff(ctx, out)
		return out
	}

	q := newQueue[F](s.opts.effectBuffer)
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.effectSubs = append(s.effectSubs, &effectSub[F]{id: id, q: q})
	s.mu.Unlock()

	go pump(ctx.Done(), s.ctx.Done(), q, out, func() {
		s.mu.Lock()
		for i, sub := range s.effectSubs {
			if sub.id == id {
				s.effectSubs = append(s.effectSubs[:i], s.effectSubs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	})
	return out
}

func (s *Store[E, S, F]) forwardHandoff(ctx context.Context, out chan<- F) {
	defer close(out)
	for {
		select {
		case o := <-s.handoff:
			select {
			case out <- o.effect:
				o.taken <- true
			case <-ctx.Done():
				o.taken <- false
				return
			case <-s.ctx.Done():
				o.taken <- false
				return
			}
		case <-ctx.Done():
			return
		case <-s.ctx.Done():
			return
		}
	}
}

// Done is closed once the lane and all async work have stopped.
func (s *Store[E, S, F]) Done() <-chan struct{} {
	return s.done
}

// Err returns the failure that tore the store down, if any. A store
// stopped by Close or by its parent context has no error.
func (s *Store[E, S, F]) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Close tears the store down and waits for the lane and all async work
// launched through Scope.Go to return.
func (s *Store[E, S, F]) Close() error {
	s.cancel()
	<-s.done
	return s.Err()
}

func (s *Store[E, S, F]) run() {
	defer func() {
		s.cancel()
		// Go registers work under mu after checking ctx; taking the lock
		// once here guarantees no Add races with Wait.
		s.mu.Lock()
		s.mu.Unlock()
		s.work.Wait()
		s.log.Debug("store stopped", zap.Uint64("commits", s.commits))
		close(s.done)
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.mailbox.ready():
		}
		for {
			if s.ctx.Err() != nil {
				return
			}
			ev, ok := s.mailbox.pop()
			if !ok {
				break
			}
			if !s.handle(ev) {
				return
			}
		}
	}
}

func (s *Store[E, S, F]) handle(ev E) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(&HandlerPanicError{Event: ev, Value: r, Stack: debug.Stack()})
			ok = false
		}
	}()

	for _, observe := range s.opts.observers {
		observe(ev)
	}
	s.log.Debug("handling event", zap.String("event", fmt.Sprintf("%T", ev)))
	s.handler.HandleEvent(s.ctx, s.scope, ev)
	return true
}

func (s *Store[E, S, F]) fail(err error) {
	s.errMu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.errMu.Unlock()
	s.log.Error("store failed", zap.Error(err))
	s.cancel()
}

func (s *Store[E, S, F]) currentState() S {
	return s.State()
}

func (s *Store[E, S, F]) updateState(fn func(S) S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}
	s.state = fn(s.state)
	s.commits++
	for _, q := range s.stateSubs {
		q.push(s.state)
	}
}

func (s *Store[E, S, F]) emitEffect(f F) {
	if s.ctx.Err() != nil {
		return
	}

	if s.opts.effectPolicy == EffectRendezvous {
		s.handOff(f)
		return
	}

	s.mu.Lock()
	if len(s.effectSubs) == 0 {
		s.mu.Unlock()
		s.log.Debug("effect dropped, no subscriber", zap.String("effect", fmt.Sprintf("%T", f)))
		return
	}
	sub := s.effectSubs[s.nextEffect%len(s.effectSubs)]
	s.nextEffect++
	dropped := sub.q.push(f)
	s.mu.Unlock()

	if dropped {
		s.log.Warn("effect queue full, dropped oldest effect",
			zap.Uint64("subscriber", sub.id),
			zap.Int("buffer", s.opts.effectBuffer))
	}
}

// handOff blocks until a rendezvous consumer has received f or the store
// is torn down. An offer abandoned by a departing subscriber is made again.
func (s *Store[E, S, F]) handOff(f F) {
	for attempt := 1; ; attempt++ {
		o := &offer[F]{effect: f, taken: make(chan bool, 1)}
		select {
		case s.handoff <- o:
		case <-s.ctx.Done():
			return
		}
		select {
		case ok := <-o.taken:
			if ok {
				return
			}
			s.log.Debug("rendezvous subscriber left before taking effect",
				zap.String("effect", fmt.Sprintf("%T", f)),
				zap.Int("attempt", attempt))
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Store[E, S, F]) launch(work func(ctx context.Context) E) {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.work.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.work.Done()
		defer func() {
			if r := recover(); r != nil {
				s.fail(&HandlerPanicError{Value: r, Stack: debug.Stack()})
			}
		}()

		ev := work(s.ctx)
		if s.ctx.Err() != nil {
			s.log.Debug("discarding async result after teardown", zap.String("event", fmt.Sprintf("%T", ev)))
			return
		}
		s.mailbox.push(ev)
	}()
}
