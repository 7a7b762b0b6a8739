package chain

import (
	"fmt"
	"sync"
)

// Builder accumulates decorator factories and a terminal handler.
// Decorators must be added before the handler; the handler is set exactly once.
type Builder[T any] struct {
	mu         sync.Mutex
	decorators []Factory[T]
	handler    HandlerFactory[T]
	err        error
	opts       []Option
}

// NewBuilder creates an empty builder. Options apply to the services created by BuildChain.
func NewBuilder[T any](opts ...Option) *Builder[T] {
	return &Builder[T]{opts: opts}
}

// AddDecorator pushes a decorator factory onto the stack.
// The most recently added decorator becomes the outermost layer.
func (b *Builder[T]) AddDecorator(f Factory[T]) error {
	if f == nil {
		return ErrNilFactory
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handler != nil {
		return ErrDecoratorAfterHandler
	}
	b.decorators = append(b.decorators, f)
	return nil
}

// Use adds decorators in order. The first error is kept and reported by Build.
func (b *Builder[T]) Use(fs ...Factory[T]) *Builder[T] {
	for _, f := range fs {
		if err := b.AddDecorator(f); err != nil {
			b.mu.Lock()
			if b.err == nil {
				b.err = err
			}
			b.mu.Unlock()
		}
	}
	return b
}

// Handle sets the terminal handler factory.
func (b *Builder[T]) Handle(h HandlerFactory[T]) error {
	if h == nil {
		return ErrNilFactory
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handler != nil {
		return ErrHandlerAlreadySet
	}
	b.handler = h
	return nil
}

// HandleFunc sets fn as the terminal handler.
func (b *Builder[T]) HandleFunc(fn Func[T]) error {
	if fn == nil {
		return ErrNilFactory
	}
	return b.Handle(func(*BuildServices) (Func[T], error) {
		return fn, nil
	})
}

// Build folds the decorators around the handler and returns the composed function.
// Factories may start workers on s; the caller owns s and must dispose it,
// including when Build fails.
func (b *Builder[T]) Build(s *BuildServices) (Func[T], error) {
	b.mu.Lock()
	handler := b.handler
	decorators := append([]Factory[T](nil), b.decorators...)
	stickyErr := b.err
	b.mu.Unlock()

	if stickyErr != nil {
		return nil, stickyErr
	}
	if handler == nil {
		return nil, ErrNoHandler
	}

	fn, err := handler(s)
	if err != nil {
		return nil, fmt.Errorf("failed to build handler: %w", err)
	}
	if fn == nil {
		return nil, ErrNilFactory
	}

	// Earliest pushed wraps the handler first, so the latest pushed ends up outermost.
	for i, f := range decorators {
		fn, err = f(fn, s)
		if err != nil {
			return nil, fmt.Errorf("failed to build decorator %d: %w", i, err)
		}
	}

	return fn, nil
}

// BuildChain builds the chain with fresh services, wraps it with a disposer
// and fires the build notification once. dispose runs on the first Close,
// before the decorator cleanups.
func (b *Builder[T]) BuildChain(dispose func()) (*Chain[T], error) {
	s := NewBuildServices(b.opts...)

	fn, err := b.Build(s)
	if err != nil {
		s.Dispose()
		return nil, err
	}

	c := &Chain[T]{
		fn:       fn,
		services: s,
		dispose:  dispose,
	}
	s.Notify(c)

	return c, nil
}
