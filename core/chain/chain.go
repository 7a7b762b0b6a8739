package chain

import (
	"context"
	"sync/atomic"
)

// Chain is a built pipeline paired with its disposer.
type Chain[T any] struct {
	fn       Func[T]
	services *BuildServices
	dispose  func()
	closed   atomic.Bool
}

// Handle passes msg through the chain. Messages handled after Close are dropped.
func (c *Chain[T]) Handle(ctx context.Context, msg T) error {
	if c.closed.Load() {
		return nil
	}
	return c.fn(ctx, msg)
}

// Close runs the dispose action and the decorator cleanups exactly once.
// Work already handed to a worker is not interrupted.
func (c *Chain[T]) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	if c.dispose != nil {
		c.dispose()
	}
	c.services.Dispose()

	return nil
}

// Closed reports whether Close has been called.
func (c *Chain[T]) Closed() bool {
	return c.closed.Load()
}

// Done is closed once the chain is disposed.
func (c *Chain[T]) Done() <-chan struct{} {
	return c.services.Context().Done()
}

// Wait blocks until the chain's background workers have exited or ctx is done.
// It is meant to be called after Close.
func (c *Chain[T]) Wait(ctx context.Context) error {
	return c.services.Wait(ctx)
}
