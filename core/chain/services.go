package chain

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BuildServices is shared by every factory taking part in one build.
// It carries the build notification list, the dispose cleanups and the
// lifetime context used by background workers.
type BuildServices struct {
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group

	mu        sync.Mutex
	handle    Disposable
	onBuilt   []func(Disposable)
	onDispose []func()
	disposed  bool
}

// Option configures BuildServices.
type Option func(*BuildServices)

// WithLogger sets the logger handed to decorators.
func WithLogger(logger *slog.Logger) Option {
	return func(s *BuildServices) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBuildServices creates services for a single build.
func NewBuildServices(opts ...Option) *BuildServices {
	s := &BuildServices{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Logger returns the logger configured for this build.
func (s *BuildServices) Logger() *slog.Logger {
	return s.logger
}

// Context returns the lifetime context. It is cancelled when the services are disposed.
func (s *BuildServices) Context() context.Context {
	return s.ctx
}

// OnBuilt registers fn to receive the chain handle once it exists.
// When the chain is already built, fn runs immediately.
func (s *BuildServices) OnBuilt(fn func(Disposable)) {
	s.mu.Lock()
	if s.handle != nil {
		h := s.handle
		s.mu.Unlock()
		fn(h)
		return
	}
	s.onBuilt = append(s.onBuilt, fn)
	s.mu.Unlock()
}

// OnDispose registers a cleanup. Cleanups run in reverse registration order.
// When the services are already disposed, fn runs immediately.
func (s *BuildServices) OnDispose(fn func()) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		fn()
		return
	}
	s.onDispose = append(s.onDispose, fn)
	s.mu.Unlock()
}

// Go runs fn in a goroutine tracked by Wait.
func (s *BuildServices) Go(fn func()) {
	s.group.Go(func() error {
		fn()
		return nil
	})
}

// Notify hands h to every registered OnBuilt callback. Only the first call has an effect.
func (s *BuildServices) Notify(h Disposable) {
	s.mu.Lock()
	if s.handle != nil {
		s.mu.Unlock()
		return
	}
	s.handle = h
	callbacks := s.onBuilt
	s.onBuilt = nil
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(h)
	}
}

// Dispose cancels the lifetime context and runs the cleanups. Safe to call more than once.
// It does not wait for background goroutines; use Wait for that.
func (s *BuildServices) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	cleanups := s.onDispose
	s.onDispose = nil
	s.mu.Unlock()

	s.cancel()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// Wait blocks until every goroutine started with Go has returned or ctx is done.
func (s *BuildServices) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		_ = s.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
