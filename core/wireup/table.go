package wireup

import (
	"fmt"
	"sync"

	"github.com/dmitrymomot/msgchain/core/chain"
)

// Installer turns a spec into a decorator factory.
type Installer[T any] func(Spec) (chain.Factory[T], error)

// Table maps kinds to installers.
type Table[T any] struct {
	mu         sync.RWMutex
	installers map[Kind]Installer[T]
}

// NewTable creates a table with the built-in concerns registered.
func NewTable[T any]() *Table[T] {
	t := &Table[T]{installers: make(map[Kind]Installer[T])}

	t.Register(KindConcurrent, typed(func(s ConcurrentSpec) (chain.Factory[T], error) {
		if s.FireAndForget {
			return chain.ConcurrentFireAndForget[T](s.Workers), nil
		}
		return chain.Concurrent[T](s.Workers), nil
	}))
	t.Register(KindThroughput, typed(func(s ThroughputSpec) (chain.Factory[T], error) {
		if s.FireAndForget {
			return chain.LimitedThroughputFireAndForget[T](s.Max, s.Period), nil
		}
		return chain.LimitedThroughput[T](s.Max, s.Period), nil
	}))
	t.Register(KindSemaphore, typed(func(s SemaphoreSpec) (chain.Factory[T], error) {
		return chain.Semaphore[T](s.Capacity), nil
	}))
	t.Register(KindRetry, typed(func(s RetrySpec) (chain.Factory[T], error) {
		return chain.Retry[T](s.MaxAttempts, s.Delays...), nil
	}))
	t.Register(KindTimeout, typed(func(s TimeoutSpec) (chain.Factory[T], error) {
		return chain.Timeout[T](s.Timeout), nil
	}))

	return t
}

// Register adds or replaces the installer for kind.
func (t *Table[T]) Register(kind Kind, in Installer[T]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.installers[kind] = in
}

// Factory resolves spec to a decorator factory.
func (t *Table[T]) Factory(spec Spec) (chain.Factory[T], error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spec", ErrUnknownKind)
	}

	t.mu.RLock()
	in, ok := t.installers[spec.Kind()]
	t.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind())
	}
	return in(spec)
}

// Install resolves every spec and pushes the decorators onto b in order.
func (t *Table[T]) Install(b *chain.Builder[T], specs ...Spec) error {
	for _, spec := range specs {
		f, err := t.Factory(spec)
		if err != nil {
			return err
		}
		if err := b.AddDecorator(f); err != nil {
			return fmt.Errorf("failed to install %s: %w", spec.Kind(), err)
		}
	}
	return nil
}

// typed adapts an installer for one concrete spec type. Both value and
// pointer specs are accepted.
func typed[S Spec, T any](fn func(S) (chain.Factory[T], error)) Installer[T] {
	return func(spec Spec) (chain.Factory[T], error) {
		switch s := spec.(type) {
		case S:
			return fn(s)
		case *S:
			if s != nil {
				return fn(*s)
			}
		}
		return nil, fmt.Errorf("%w: got %T", ErrSpecMismatch, spec)
	}
}
