package mvi

import "sync"

// queue is a FIFO that never blocks the producer. A limit of zero means
// unbounded; otherwise the oldest item is dropped to make room.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	limit  int
	notify chan struct{}
}

func newQueue[T any](limit int) *queue[T] {
	return &queue[T]{
		limit:  limit,
		notify: make(chan struct{}, 1),
	}
}

// push appends v and reports whether an older item was dropped.
func (q *queue[T]) push(v T) (dropped bool) {
	q.mu.Lock()
	if q.limit > 0 && len(q.items) >= q.limit {
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		dropped = true
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return dropped
}

// pop removes the head of the queue.
func (q *queue[T]) pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

// ready fires at least once after every push.
func (q *queue[T]) ready() <-chan struct{} {
	return q.notify
}

// pump forwards queued items to out until done or stop is closed. It closes
// out and calls onExit when it returns.
func pump[T any](done, stop <-chan struct{}, q *queue[T], out chan<- T, onExit func()) {
	defer func() {
		close(out)
		if onExit != nil {
			onExit()
		}
	}()
	for {
		v, ok := q.pop()
		if !ok {
			select {
			case <-q.ready():
				continue
			case <-done:
				return
			case <-stop:
				return
			}
		}
		select {
		case out <- v:
		case <-done:
			return
		case <-stop:
			return
		}
	}
}
