package mvi

import "context"

// Scope is what a Handler may do while handling an event. Once the store
// has been torn down every method is a no-op.
type Scope[E, S, F any] struct {
	b backend[E, S, F]
}

type backend[E, S, F any] interface {
	currentState() S
	updateState(fn func(S) S)
	emitEffect(f F)
	launch(work func(ctx context.Context) E)
}

// State returns the latest committed state.
func (sc *Scope[E, S, F]) State() S {
	return sc.b.currentState()
}

// UpdateState commits fn applied to the current state and notifies state
// subscribers. Concurrent calls commit in a total order. fn runs under the
// store lock and must not call back into the store.
func (sc *Scope[E, S, F]) UpdateState(fn func(S) S) {
	sc.b.updateState(fn)
}

// EmitEffect hands f to the effect subscribers according to the store's
// EffectPolicy.
func (sc *Scope[E, S, F]) EmitEffect(f F) {
	sc.b.emitEffect(f)
}

// Go runs work on its own goroutine and feeds the event it returns back
// into the lane, so whatever the result commits stays serialized with
// every other event. work must return promptly once ctx is cancelled;
// results produced after teardown are discarded.
func (sc *Scope[E, S, F]) Go(work func(ctx context.Context) E) {
	sc.b.launch(work)
}
