package chain

import "context"

// Filter drops messages for which pred returns false. A nil pred fails the build.
func Filter[T any](pred func(T) bool) Factory[T] {
	return func(next Func[T], _ *BuildServices) (Func[T], error) {
		if pred == nil {
			return nil, ErrNilFactory
		}

		return func(ctx context.Context, msg T) error {
			if !pred(msg) {
				return nil
			}
			return next(ctx, msg)
		}, nil
	}
}

// Recover converts panics in the inner handler into errors wrapping ErrHandlerPanic.
func Recover[T any]() Factory[T] {
	return Decorate(func(next Func[T]) Func[T] {
		return func(ctx context.Context, msg T) error {
			return safeCall(next, ctx, msg)
		}
	})
}
