package chain

import (
	"context"
	"sync/atomic"
)

// First passes the first message matching pred, then closes the chain.
// A nil pred matches any message. Exactly one message reaches the inner
// handler even under concurrent delivery.
//
// Example:
//
//	b := chain.NewBuilder[OrderPlaced]()
//	b.Use(chain.First(func(o OrderPlaced) bool { return o.Total > 1000 }))
//	_ = b.HandleFunc(notifySales)
//	c, _ := bus.SubscribeChain(orders, b) // unsubscribes after the first large order
func First[T any](pred func(T) bool) Factory[T] {
	return FirstContext(syncPredicate(pred))
}

// FirstContext is First with a context-aware predicate that may fail.
func FirstContext[T any](pred func(context.Context, T) (bool, error)) Factory[T] {
	return func(next Func[T], s *BuildServices) (Func[T], error) {
		var fired atomic.Bool
		h := captureHandle(s)

		return func(ctx context.Context, msg T) error {
			if fired.Load() {
				return nil
			}
			if pred != nil {
				ok, err := pred(ctx, msg)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if !fired.CompareAndSwap(false, true) {
				return nil
			}
			defer h.close()

			return next(ctx, msg)
		}, nil
	}
}

// TakeWhile passes messages while pred holds. The first message failing pred
// closes the chain; it and every later message are dropped.
func TakeWhile[T any](pred func(T) bool) Factory[T] {
	return TakeWhileContext(syncPredicate(pred))
}

// TakeWhileContext is TakeWhile with a context-aware predicate that may fail.
func TakeWhileContext[T any](pred func(context.Context, T) (bool, error)) Factory[T] {
	return func(next Func[T], s *BuildServices) (Func[T], error) {
		if pred == nil {
			return nil, ErrNilFactory
		}

		var active atomic.Bool
		active.Store(true)
		h := captureHandle(s)

		return func(ctx context.Context, msg T) error {
			if !active.Load() {
				return nil
			}

			ok, err := pred(ctx, msg)
			if err != nil {
				return err
			}
			if !ok {
				if active.CompareAndSwap(true, false) {
					h.close()
				}
				return nil
			}

			return next(ctx, msg)
		}, nil
	}
}

func syncPredicate[T any](pred func(T) bool) func(context.Context, T) (bool, error) {
	if pred == nil {
		return nil
	}
	return func(_ context.Context, msg T) (bool, error) {
		return pred(msg), nil
	}
}

// handleRef holds the chain handle delivered by build notification.
type handleRef struct {
	p atomic.Pointer[Disposable]
}

func captureHandle(s *BuildServices) *handleRef {
	h := &handleRef{}
	s.OnBuilt(func(d Disposable) {
		h.p.Store(&d)
	})
	return h
}

func (h *handleRef) close() {
	if d := h.p.Load(); d != nil {
		_ = (*d).Close()
	}
}
