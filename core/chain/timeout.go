package chain

import (
	"context"
	"time"
)

// Timeout bounds each message's handling time. Non-positive d disables it.
func Timeout[T any](d time.Duration) Factory[T] {
	return Decorate(func(next Func[T]) Func[T] {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, msg T) error {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, msg)
		}
	})
}
