package home

import (
	"context"
	"errors"

	"playground/internal/mvi"
	"playground/internal/users"

	"go.uber.org/zap"
)

// Store is the store type for this screen.
type Store = mvi.Store[Event, State, Effect]

// Scope is the handler scope for this screen.
type Scope = mvi.Scope[Event, State, Effect]

// Reducer maps home screen events to state commits and effects.
type Reducer struct {
	source users.Source
	log    *zap.Logger
}

// NewReducer returns a reducer that loads users from src. A nil src never
// finishes a load, which is what replaying a journal wants. A nil logger is
// replaced by a no-op one.
func NewReducer(src users.Source, log *zap.Logger) *Reducer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reducer{source: src, log: log}
}

// NewStore starts a store for the home screen.
func NewStore(ctx context.Context, src users.Source, log *zap.Logger, opts ...mvi.Option) *Store {
	r := NewReducer(src, log)
	opts = append([]mvi.Option{mvi.WithLogger(log)}, opts...)
	return mvi.New[Event, State, Effect](ctx, r, opts...)
}

// InitialState is an idle screen.
func (r *Reducer) InitialState() State {
	return State{Users: UsersIdle{}}
}

// HandleEvent implements mvi.Handler.
func (r *Reducer) HandleEvent(ctx context.Context, sc *Scope, ev Event) {
	switch ev := ev.(type) {
	case LoadUsersClicked:
		r.loadUsers(sc)
	case UsersLoaded:
		sc.UpdateState(func(s State) State {
			s.Users = UsersSuccess{Users: ev.Users}
			return s
		})
	case UsersLoadFailed:
		r.log.Info("users load failed", zap.String("reason", ev.Reason))
		sc.UpdateState(func(s State) State {
			s.Users = UsersIdle{}
			return s
		})
		sc.EmitEffect(ShowErrorMessage{})
	case ShowErrorMessageClicked:
		sc.EmitEffect(ShowErrorMessage{})
	case SnackbarDismissed, UserDialogDismissed:
		sc.EmitEffect(NoEffect{})
	case UserClicked:
		sc.EmitEffect(ShowDialog{User: ev.User})
	default:
		r.log.Warn("unhandled event", zap.Any("event", ev))
	}
}

func (r *Reducer) loadUsers(sc *Scope) {
	sc.UpdateState(func(s State) State {
		s.Users = UsersLoading{}
		return s
	})
	if r.source == nil {
		return
	}
	src := r.source
	sc.Go(func(ctx context.Context) Event {
		list, err := src.Fetch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return UsersLoadFailed{Reason: "cancelled"}
			}
			return UsersLoadFailed{Reason: err.Error()}
		}
		return UsersLoaded{Users: list}
	})
}
