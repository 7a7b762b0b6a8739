package chain

import (
	"context"
)

// WhileAlive ties the chain to an owner's liveness. Once owner is done the
// chain closes itself and later messages are dropped.
func WhileAlive[T any](owner context.Context) Factory[T] {
	return func(next Func[T], s *BuildServices) (Func[T], error) {
		if owner == nil {
			return nil, ErrNilFactory
		}

		h := captureHandle(s)
		s.OnBuilt(func(d Disposable) {
			stop := context.AfterFunc(owner, func() {
				_ = d.Close()
			})
			s.OnDispose(func() { stop() })
		})

		return func(ctx context.Context, msg T) error {
			if owner.Err() != nil {
				h.close()
				return nil
			}
			return next(ctx, msg)
		}, nil
	}
}
