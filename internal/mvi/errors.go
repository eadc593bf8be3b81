package mvi

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Dispatch once the store has been torn down.
var ErrClosed = errors.New("mvi: store closed")

// HandlerPanicError records a panic raised while handling an event. The
// store that produced it has been torn down.
type HandlerPanicError struct {
	Event any
	Value any
	Stack []byte
}

func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("mvi: handler panicked on %T: %v", e.Event, e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *HandlerPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
