package mvi

import "context"

// Replay folds events through h starting from h.InitialState() and returns
// the resulting state together with every effect emitted along the way.
// Work passed to Scope.Go is not run: async results are expected to be part
// of the history, which is what a store observer records.
func Replay[E, S, F any](h Handler[E, S, F], events []E) (S, []F) {
	r := &replayer[E, S, F]{state: h.InitialState()}
	sc := &Scope[E, S, F]{b: r}
	ctx := context.Background()
	for _, ev := range events {
		h.HandleEvent(ctx, sc, ev)
	}
	return r.state, r.effects
}

type replayer[E, S, F any] struct {
	state   S
	effects []F
}

func (r *replayer[E, S, F]) currentState() S { return r.state }

func (r *replayer[E, S, F]) updateState(fn func(S) S) { r.state = fn(r.state) }

func (r *replayer[E, S, F]) emitEffect(f F) { r.effects = append(r.effects, f) }

func (r *replayer[E, S, F]) launch(func(ctx context.Context) E) {}
