package chain

import (
	"context"
	"errors"
)

// Outcome classifies the result of handling a message.
type Outcome int

const (
	Succeeded Outcome = iota
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ClassifyOutcome maps a handler result to an Outcome. Context cancellation
// and deadline errors, or any error returned after ctx is done, count as Cancelled.
func ClassifyOutcome(ctx context.Context, err error) Outcome {
	switch {
	case err == nil:
		return Succeeded
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Cancelled
	case ctx != nil && ctx.Err() != nil:
		return Cancelled
	default:
		return Failed
	}
}

// Observer receives per-message callbacks from Observe. Nil callbacks are skipped.
type Observer[T any] struct {
	OnStart   func(ctx context.Context, msg T)
	OnSuccess func(ctx context.Context, msg T)
	OnCancel  func(ctx context.Context, msg T, err error)
	OnError   func(ctx context.Context, msg T, err error)
}

// Observe reports each message's outcome to obs. The inner error is returned unchanged.
func Observe[T any](obs Observer[T]) Factory[T] {
	return Decorate(func(next Func[T]) Func[T] {
		return func(ctx context.Context, msg T) error {
			if obs.OnStart != nil {
				obs.OnStart(ctx, msg)
			}

			err := next(ctx, msg)

			switch ClassifyOutcome(ctx, err) {
			case Succeeded:
				if obs.OnSuccess != nil {
					obs.OnSuccess(ctx, msg)
				}
			case Cancelled:
				if obs.OnCancel != nil {
					obs.OnCancel(ctx, msg, err)
				}
			default:
				if obs.OnError != nil {
					obs.OnError(ctx, msg, err)
				}
			}

			return err
		}
	})
}
