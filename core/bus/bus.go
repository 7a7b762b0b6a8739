package bus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/msgchain/core/chain"
	"github.com/dmitrymomot/msgchain/core/logger"
	"github.com/google/uuid"
)

// Bus fans messages of type T out to its subscribers.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []*Subscription[T]
	closed atomic.Bool
	logger *slog.Logger
}

// Option configures a Bus.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the bus logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an empty bus.
func New[T any](opts ...Option) *Bus[T] {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	return &Bus[T]{logger: o.logger}
}

// Subscription is a registered handler. Close removes it from the bus.
type Subscription[T any] struct {
	id     string
	fn     chain.Func[T]
	bus    *Bus[T]
	closed atomic.Bool
}

// ID returns the subscription identifier.
func (s *Subscription[T]) ID() string {
	return s.id
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription[T]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.bus.remove(s)
	return nil
}

// Subscribe registers fn for every subsequent Publish.
func (b *Bus[T]) Subscribe(fn chain.Func[T]) (*Subscription[T], error) {
	if fn == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed.Load() {
		return nil, ErrBusClosed
	}

	sub := &Subscription[T]{
		id:  uuid.NewString(),
		fn:  fn,
		bus: b,
	}
	b.subs = append(b.subs, sub)

	b.logger.Debug("subscribed", logger.Subscription(sub.id))
	return sub, nil
}

// Publish delivers msg to every current subscriber in subscription order.
// Subscriber errors are joined; one failure does not skip later subscribers.
func (b *Bus[T]) Publish(ctx context.Context, msg T) error {
	if b.closed.Load() {
		return ErrBusClosed
	}

	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if sub.closed.Load() {
			continue
		}
		if err := sub.fn(ctx, msg); err != nil {
			b.logger.ErrorContext(ctx, "subscriber failed",
				logger.Subscription(sub.id),
				logger.Error(err))
			errs = append(errs, fmt.Errorf("subscription %s: %w", sub.id, err))
		}
	}

	return errors.Join(errs...)
}

// Len returns the number of active subscriptions.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close rejects further publishing and drops every subscription.
// Chains subscribed through SubscribeChain are not closed.
func (b *Bus[T]) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.closed.Store(true)
	}
	return nil
}

func (b *Bus[T]) remove(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = slices.DeleteFunc(b.subs, func(s *Subscription[T]) bool { return s == sub })
	b.logger.Debug("unsubscribed", logger.Subscription(sub.id))
}

// SubscribeChain builds builder into a chain and subscribes it to b.
// Closing the chain, including self-disposal by First, TakeWhile or
// WhileAlive, removes the subscription.
func SubscribeChain[T any](b *Bus[T], builder *chain.Builder[T]) (*chain.Chain[T], error) {
	var sub atomic.Pointer[Subscription[T]]

	c, err := builder.BuildChain(func() {
		if s := sub.Load(); s != nil {
			_ = s.Close()
		}
	})
	if err != nil {
		return nil, err
	}

	s, err := b.Subscribe(c.Handle)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	sub.Store(s)

	// The chain may have closed itself before the subscription existed.
	if c.Closed() {
		_ = s.Close()
	}

	return c, nil
}
