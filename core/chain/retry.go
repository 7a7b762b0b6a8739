package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dmitrymomot/msgchain/core/logger"
)

// Attempt describes a successful handling attempt. Attempt numbers start at 1.
type Attempt[T any] struct {
	Message     T
	Attempt     int
	MaxAttempts int
}

// FailedAttempt describes a failed handling attempt. Delay is the pause
// scheduled before the next attempt, zero when none follows.
type FailedAttempt[T any] struct {
	Message     T
	Err         error
	Attempt     int
	MaxAttempts int
	Delay       time.Duration
}

// RetryConfig configures RetryWith.
type RetryConfig[T any] struct {
	// MaxAttempts is the total number of attempts including the first one.
	MaxAttempts int

	// Delays lists the pauses between attempts. The last value repeats once
	// the list is exhausted. Ignored when NewBackOff is set.
	Delays []time.Duration

	// NewBackOff returns a fresh policy per message. Returning backoff.Stop
	// from NextBackOff ends retrying early.
	NewBackOff func() backoff.BackOff

	// OnFailure is called after every failed attempt. Returning false stops retrying.
	OnFailure func(ctx context.Context, a FailedAttempt[T]) bool

	// OnSuccess is called once the handler succeeds.
	OnSuccess func(ctx context.Context, a Attempt[T])
}

// RetryFailedError is returned when every attempt failed or retrying was vetoed.
type RetryFailedError struct {
	Attempts int
	Errors   []error
	Delays   []time.Duration
}

func (e *RetryFailedError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("retry failed after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("retry failed after %d attempts: %v", e.Attempts, e.Errors[len(e.Errors)-1])
}

// Unwrap exposes every attempt's error to errors.Is and errors.As.
func (e *RetryFailedError) Unwrap() []error {
	return e.Errors
}

// Retry re-runs a failing handler up to maxAttempts times, pausing between
// attempts according to delays.
func Retry[T any](maxAttempts int, delays ...time.Duration) Factory[T] {
	return RetryWith(RetryConfig[T]{
		MaxAttempts: maxAttempts,
		Delays:      delays,
	})
}

// RetryWith is Retry with callbacks and an optional backoff policy.
// Cancellation of the message context is never retried.
//
// Example:
//
//	b.Use(chain.RetryWith(chain.RetryConfig[OrderPlaced]{
//	    MaxAttempts: 5,
//	    NewBackOff: func() backoff.BackOff {
//	        return backoff.NewExponentialBackOff()
//	    },
//	    OnFailure: func(ctx context.Context, a chain.FailedAttempt[OrderPlaced]) bool {
//	        return !errors.Is(a.Err, ErrPaymentDeclined) // permanent failures stop early
//	    },
//	}))
func RetryWith[T any](cfg RetryConfig[T]) Factory[T] {
	return func(next Func[T], s *BuildServices) (Func[T], error) {
		if cfg.MaxAttempts < 1 {
			return nil, ErrInvalidMaxAttempts
		}
		log := s.Logger()

		return func(ctx context.Context, msg T) error {
			var (
				errs   []error
				delays []time.Duration
				policy backoff.BackOff
			)
			if cfg.NewBackOff != nil {
				policy = cfg.NewBackOff()
				policy.Reset()
			}

			for i := 0; i < cfg.MaxAttempts; i++ {
				err := next(ctx, msg)
				if err == nil {
					if cfg.OnSuccess != nil {
						cfg.OnSuccess(ctx, Attempt[T]{Message: msg, Attempt: i + 1, MaxAttempts: cfg.MaxAttempts})
					}
					return nil
				}
				errs = append(errs, err)

				if ctx.Err() != nil {
					return err
				}

				last := i == cfg.MaxAttempts-1
				var delay time.Duration
				if !last {
					var stop bool
					delay, stop = cfg.delay(i, policy)
					last = stop
				}

				log.DebugContext(ctx, "handler attempt failed",
					logger.Attempt(i+1, cfg.MaxAttempts),
					logger.Delay(delay),
					logger.Error(err))

				if cfg.OnFailure != nil {
					proceed := cfg.OnFailure(ctx, FailedAttempt[T]{
						Message:     msg,
						Err:         err,
						Attempt:     i + 1,
						MaxAttempts: cfg.MaxAttempts,
						Delay:       delay,
					})
					if !proceed {
						break
					}
				}
				if last {
					break
				}

				delays = append(delays, delay)
				if err := sleep(ctx, delay); err != nil {
					return err
				}
			}

			return &RetryFailedError{
				Attempts: len(errs),
				Errors:   errs,
				Delays:   delays,
			}
		}, nil
	}
}

// delay returns the pause after the 0-based attempt i, and whether the
// backoff policy asked to stop.
func (cfg RetryConfig[T]) delay(i int, policy backoff.BackOff) (time.Duration, bool) {
	if policy != nil {
		d := policy.NextBackOff()
		if d == backoff.Stop {
			return 0, true
		}
		return d, false
	}
	if len(cfg.Delays) == 0 {
		return 0, false
	}
	if i >= len(cfg.Delays) {
		return cfg.Delays[len(cfg.Delays)-1], false
	}
	return cfg.Delays[i], false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
