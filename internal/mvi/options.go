package mvi

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// EffectPolicy selects how EmitEffect hands effects to subscribers.
type EffectPolicy int

const (
	// EffectQueue delivers each effect to one subscriber's bounded queue
	// and never blocks the lane. Effects emitted while nobody is
	// subscribed are dropped.
	EffectQueue EffectPolicy = iota

	// EffectRendezvous blocks the lane until a subscriber's reader has
	// received the effect. With no reader the lane stalls until one
	// attaches, and an effect held by a subscriber that leaves is offered
	// to the next one.
	EffectRendezvous
)

// DefaultEffectBuffer is the per-subscriber queue size under EffectQueue.
const DefaultEffectBuffer = 64

func (p EffectPolicy) String() string {
	switch p {
	case EffectQueue:
		return "queue"
	case EffectRendezvous:
		return "rendezvous"
	default:
		return fmt.Sprintf("EffectPolicy(%d)", int(p))
	}
}

// ParseEffectPolicy maps a config value to an EffectPolicy.
func ParseEffectPolicy(s string) (EffectPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "queue":
		return EffectQueue, nil
	case "rendezvous":
		return EffectRendezvous, nil
	default:
		return EffectQueue, fmt.Errorf("unknown effect policy %q", s)
	}
}

type options struct {
	logger       *zap.Logger
	effectPolicy EffectPolicy
	effectBuffer int
	observers    []func(ev any)
}

func defaultOptions() options {
	return options{
		logger:       zap.NewNop(),
		effectPolicy: EffectQueue,
		effectBuffer: DefaultEffectBuffer,
	}
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEffectPolicy selects the effect delivery policy.
func WithEffectPolicy(p EffectPolicy) Option {
	return func(o *options) { o.effectPolicy = p }
}

// WithEffectBuffer bounds each subscriber's effect queue under EffectQueue.
// Non-positive values keep the default.
func WithEffectBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.effectBuffer = n
		}
	}
}

// WithObserver registers fn to be called on the lane with every event,
// right before it is handled.
func WithObserver(fn func(ev any)) Option {
	return func(o *options) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}
