package chain

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// KeySemaphore limits concurrent work per key. Each key gets its own
// weighted semaphore of the same capacity, created on first use.
// A KeySemaphore may be shared by several chains.
type KeySemaphore[K comparable] struct {
	capacity int64
	sems     sync.Map // K -> *semaphore.Weighted
}

// NewKeySemaphore creates a KeySemaphore allowing capacity concurrent holders per key.
func NewKeySemaphore[K comparable](capacity int) (*KeySemaphore[K], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &KeySemaphore[K]{capacity: int64(capacity)}, nil
}

// Capacity returns the per-key limit.
func (k *KeySemaphore[K]) Capacity() int {
	return int(k.capacity)
}

// Len returns the number of keys seen so far.
func (k *KeySemaphore[K]) Len() int {
	n := 0
	k.sems.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// ExecuteConcurrently runs fn while holding a permit for key. Acquisition
// honours ctx; the permit is released however fn returns.
func (k *KeySemaphore[K]) ExecuteConcurrently(ctx context.Context, key K, fn func(context.Context) error) error {
	sem := k.get(key)
	if err := sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer sem.Release(1)

	return fn(ctx)
}

func (k *KeySemaphore[K]) get(key K) *semaphore.Weighted {
	if v, ok := k.sems.Load(key); ok {
		return v.(*semaphore.Weighted)
	}
	v, _ := k.sems.LoadOrStore(key, semaphore.NewWeighted(k.capacity))
	return v.(*semaphore.Weighted)
}

// Semaphore allows at most capacity messages inside the inner handler at once.
// It adds no goroutines; callers wait for a permit.
func Semaphore[T any](capacity int) Factory[T] {
	return KeyedSemaphore(capacity, func(T) struct{} { return struct{}{} })
}

// KeyedSemaphore allows at most capacity concurrent messages per key.
func KeyedSemaphore[T any, K comparable](capacity int, key func(T) K) Factory[T] {
	return func(next Func[T], s *BuildServices) (Func[T], error) {
		sem, err := NewKeySemaphore[K](capacity)
		if err != nil {
			return nil, err
		}
		return SharedSemaphore(sem, key)(next, s)
	}
}

// SharedSemaphore gates the inner handler with an existing KeySemaphore.
func SharedSemaphore[T any, K comparable](sem *KeySemaphore[K], key func(T) K) Factory[T] {
	return func(next Func[T], _ *BuildServices) (Func[T], error) {
		if sem == nil {
			return nil, ErrNilSemaphore
		}
		if key == nil {
			return nil, ErrKeySelectorMissing
		}

		return func(ctx context.Context, msg T) error {
			return sem.ExecuteConcurrently(ctx, key(msg), func(ctx context.Context) error {
				return next(ctx, msg)
			})
		}, nil
	}
}
