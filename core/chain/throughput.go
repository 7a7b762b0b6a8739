package chain

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/msgchain/core/logger"
	"github.com/jonboulle/clockwork"
)

// ThroughputOption configures LimitedThroughput.
type ThroughputOption func(*throughputConfig)

type throughputConfig struct {
	clock clockwork.Clock
}

// WithClock sets the clock used for window accounting.
func WithClock(clock clockwork.Clock) ThroughputOption {
	return func(c *throughputConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// LimitedThroughput admits at most limit messages per period. Messages over
// the limit wait for the next window; none are dropped. Handle blocks until
// the inner handler has finished and returns its error.
//
// Example:
//
//	b.Use(chain.LimitedThroughput[Notification](
//	    100,         // messages per window
//	    time.Second, // window length
//	))
func LimitedThroughput[T any](limit int, period time.Duration, opts ...ThroughputOption) Factory[T] {
	return limitedThroughput[T](limit, period, true, opts)
}

// LimitedThroughputFireAndForget is LimitedThroughput without waiting for the handler.
func LimitedThroughputFireAndForget[T any](limit int, period time.Duration, opts ...ThroughputOption) Factory[T] {
	return limitedThroughput[T](limit, period, false, opts)
}

func limitedThroughput[T any](limit int, period time.Duration, blocking bool, opts []ThroughputOption) Factory[T] {
	return func(next Func[T], s *BuildServices) (Func[T], error) {
		if limit < 1 {
			return nil, ErrInvalidCapacity
		}
		if period <= 0 {
			return nil, ErrInvalidPeriod
		}

		cfg := throughputConfig{clock: clockwork.NewRealClock()}
		for _, opt := range opts {
			opt(&cfg)
		}

		g := &gate[T]{
			next:     next,
			queue:    newFIFO[T](),
			limit:    limit,
			period:   period,
			clock:    cfg.clock,
			blocking: blocking,
			services: s,
			logger:   s.Logger(),
		}

		ctx := s.Context()
		s.Go(func() { g.run(ctx) })
		s.OnDispose(g.shutdown)

		return g.submit, nil
	}
}

type gate[T any] struct {
	next     Func[T]
	queue    *fifo[T]
	limit    int
	period   time.Duration
	clock    clockwork.Clock
	blocking bool
	services *BuildServices
	logger   *slog.Logger
}

func (g *gate[T]) submit(ctx context.Context, msg T) error {
	if !g.blocking {
		g.queue.push(envelope[T]{ctx: ctx, msg: msg})
		return nil
	}

	// A closed queue drops the message: disposal only stops delivery.
	done := make(chan error, 1)
	if !g.queue.push(envelope[T]{ctx: ctx, msg: msg, done: done}) {
		return nil
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run admits queued messages in arrival order. Only the lifetime context
// stops it; a cancelled message context is left to the handler.
func (g *gate[T]) run(ctx context.Context) {
	windowStart := g.clock.Now()
	admitted := 0

	for {
		e, ok := g.queue.pop(ctx)
		if !ok {
			return
		}

		now := g.clock.Now()
		if now.Sub(windowStart) >= g.period {
			windowStart = now
			admitted = 0
		}

		if admitted >= g.limit {
			wait := g.period - now.Sub(windowStart)
			select {
			case <-ctx.Done():
				e.complete(nil)
				return
			case <-g.clock.After(wait):
			}
			windowStart = g.clock.Now()
			admitted = 0
		}

		admitted++
		g.services.Go(func() { g.dispatch(e) })
	}
}

func (g *gate[T]) dispatch(e envelope[T]) {
	err := safeCall(g.next, e.ctx, e.msg)
	if e.done != nil {
		e.complete(err)
		return
	}
	if err != nil {
		g.logger.ErrorContext(e.ctx, "throttled handler failed", logger.Error(err))
	}
}

// shutdown drops everything still queued. Blocking callers are released with nil.
func (g *gate[T]) shutdown() {
	rest := g.queue.close()
	for _, e := range rest {
		e.complete(nil)
	}

	if dropped := len(rest); dropped > 0 {
		g.logger.Warn("dropped queued messages on dispose", logger.Count("dropped", dropped))
	}
}
