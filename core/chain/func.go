package chain

import (
	"context"
	"fmt"
)

// Func is a single stage of a chain. Every decorator and the terminal handler
// share this shape; the composed chain is a Func as well.
type Func[T any] func(ctx context.Context, msg T) error

// Factory wraps next with a decorator. It runs once per build and may register
// build and dispose callbacks on s. A non-nil error aborts the build.
type Factory[T any] func(next Func[T], s *BuildServices) (Func[T], error)

// HandlerFactory produces the terminal handler of a chain.
type HandlerFactory[T any] func(s *BuildServices) (Func[T], error)

// Disposable is a handle that releases a built chain.
type Disposable interface {
	Close() error
}

// Decorate adapts a plain function decorator into a Factory.
func Decorate[T any](d func(next Func[T]) Func[T]) Factory[T] {
	return func(next Func[T], _ *BuildServices) (Func[T], error) {
		return d(next), nil
	}
}

// safeCall invokes fn and converts a panic into an error wrapping ErrHandlerPanic.
func safeCall[T any](fn Func[T], ctx context.Context, msg T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return fn(ctx, msg)
}
