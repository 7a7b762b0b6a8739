package chain

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/dmitrymomot/msgchain/core/logger"
)

// Concurrent runs the inner handler on a pool of workers, at most workers
// messages at a time. Handle blocks until the message has been processed
// and returns the handler's error. workers <= 0 selects twice the number of CPUs.
//
// Example:
//
//	b := chain.NewBuilder[OrderPlaced]()
//	b.Use(chain.Concurrent[OrderPlaced](8))
//	_ = b.HandleFunc(chargeOrder)
//	c, err := b.BuildChain(nil)
func Concurrent[T any](workers int) Factory[T] {
	return func(next Func[T], s *BuildServices) (Func[T], error) {
		p := startPool(next, s, workers, true)
		return p.submit, nil
	}
}

// ConcurrentFireAndForget is Concurrent without waiting: Handle returns once
// the message is queued. Handler errors are logged and dropped.
// The queue is unbounded and never applies back-pressure.
func ConcurrentFireAndForget[T any](workers int) Factory[T] {
	return func(next Func[T], s *BuildServices) (Func[T], error) {
		p := startPool(next, s, workers, false)
		return p.submit, nil
	}
}

// DefaultWorkers returns the worker count used when a non-positive value is configured.
func DefaultWorkers() int {
	return 2 * runtime.NumCPU()
}

type pool[T any] struct {
	next     Func[T]
	queue    *fifo[T]
	blocking bool
	logger   *slog.Logger
}

func startPool[T any](next Func[T], s *BuildServices, workers int, blocking bool) *pool[T] {
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	p := &pool[T]{
		next:     next,
		queue:    newFIFO[T](),
		blocking: blocking,
		logger:   s.Logger(),
	}

	ctx := s.Context()
	for i := range workers {
		s.Go(func() { p.work(ctx, i) })
	}
	s.OnDispose(p.shutdown)

	return p
}

func (p *pool[T]) submit(ctx context.Context, msg T) error {
	if !p.blocking {
		p.queue.push(envelope[T]{ctx: ctx, msg: msg})
		return nil
	}

	// A closed queue drops the message: disposal only stops delivery.
	done := make(chan error, 1)
	if !p.queue.push(envelope[T]{ctx: ctx, msg: msg, done: done}) {
		return nil
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pool[T]) work(ctx context.Context, id int) {
	p.logger.DebugContext(ctx, "worker started", logger.Worker(id))
	defer p.logger.Debug("worker stopped", logger.Worker(id))

	for {
		e, ok := p.queue.pop(ctx)
		if !ok {
			return
		}

		err := safeCall(p.next, e.ctx, e.msg)
		if e.done != nil {
			e.complete(err)
			continue
		}
		if err != nil {
			p.logger.ErrorContext(e.ctx, "fire-and-forget handler failed",
				logger.Worker(id),
				logger.Error(err))
		}
	}
}

// shutdown drops everything still queued. Blocking callers are released with nil.
func (p *pool[T]) shutdown() {
	rest := p.queue.close()
	for _, e := range rest {
		e.complete(nil)
	}

	if dropped := len(rest); dropped > 0 {
		p.logger.Warn("dropped queued messages on dispose", logger.Count("dropped", dropped))
	}
}
