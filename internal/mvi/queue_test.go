package mvi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestQueue_FIFO(t *testing.T) {
	q := newQueue[int](0)
	for i := 0; i < 5; i++ {
		assert.False(t, q.push(i))
	}
	for i := 0; i < 5; i++ {
		v, ok := q.pop()
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := q.pop()
	assert.False(t, ok)
}

func TestQueue_BoundedDropsOldest(t *testing.T) {
	q := newQueue[string](2)
	assert.False(t, q.push("a"))
	assert.False(t, q.push("b"))
	assert.True(t, q.push("c"))
	for _, want := range []string{"b", "c"} {
		v, ok := q.pop()
		assert.True(t, ok)
		assert.Equal(t, want, v)
	}
	_, ok := q.pop()
	assert.False(t, ok)
}

func TestQueue_ReadyCoalesces(t *testing.T) {
	q := newQueue[int](0)
	q.push(1)
	q.push(2)

	<-q.ready()
	select {
	case <-q.ready():
		t.Fatal("notifications should coalesce")
	default:
	}
	v, _ := q.pop()
	assert.Equal(t, 1, v)
}

func TestPump_ForwardsThenClosesOnStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := newQueue[int](0)
	out := make(chan int)
	done := make(chan struct{})
	stop := make(chan struct{})
	exited := make(chan struct{})

	go pump(done, stop, q, out, func() { close(exited) })

	q.push(1)
	q.push(2)
	assert.Equal(t, 1, <-out)
	assert.Equal(t, 2, <-out)

	close(stop)
	_, ok := <-out
	assert.False(t, ok)
	<-exited
}
