package chain

import (
	"context"
	"sync"
)

// envelope pairs a queued message with its context and, for blocking
// callers, the channel that receives the handler result.
type envelope[T any] struct {
	ctx  context.Context
	msg  T
	done chan error
}

func (e envelope[T]) complete(err error) {
	if e.done != nil {
		e.done <- err
	}
}

// fifo is an unbounded queue shared by a set of workers.
// signal holds at most one wake-up; a consumer that leaves items behind
// passes the wake-up on.
type fifo[T any] struct {
	mu     sync.Mutex
	items  []envelope[T]
	closed bool
	signal chan struct{}
}

func newFIFO[T any]() *fifo[T] {
	return &fifo[T]{signal: make(chan struct{}, 1)}
}

// push appends e. It returns false when the queue is closed.
func (q *fifo[T]) push(e envelope[T]) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, e)
	q.mu.Unlock()

	q.wake()
	return true
}

// pop blocks until an item is available or ctx is done.
func (q *fifo[T]) pop(ctx context.Context) (envelope[T], bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			e := q.items[0]
			q.items[0] = envelope[T]{}
			q.items = q.items[1:]
			more := len(q.items) > 0
			q.mu.Unlock()

			if more {
				q.wake()
			}
			return e, true
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return envelope[T]{}, false
		case <-q.signal:
		}
	}
}

// close rejects further pushes and returns the items still queued.
func (q *fifo[T]) close() []envelope[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	rest := q.items
	q.items = nil
	return rest
}

func (q *fifo[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *fifo[T]) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
