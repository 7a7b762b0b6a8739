package chain

import "errors"

var (
	// ErrHandlerAlreadySet is returned when a terminal handler is set twice.
	ErrHandlerAlreadySet = errors.New("handler already set")

	// ErrDecoratorAfterHandler is returned when a decorator is added after the handler.
	ErrDecoratorAfterHandler = errors.New("decorator added after handler")

	// ErrNoHandler is returned when building a chain without a terminal handler.
	ErrNoHandler = errors.New("no handler set")

	// ErrNilFactory is returned when a nil decorator or handler factory is passed to the builder.
	ErrNilFactory = errors.New("factory cannot be nil")

	// ErrInvalidCapacity is returned when a semaphore or throughput limit is below 1.
	ErrInvalidCapacity = errors.New("capacity must be at least 1")

	// ErrInvalidPeriod is returned when a throughput period is not positive.
	ErrInvalidPeriod = errors.New("period must be positive")

	// ErrInvalidMaxAttempts is returned when retry is configured with fewer than one attempt.
	ErrInvalidMaxAttempts = errors.New("max attempts must be at least 1")

	// ErrKeySelectorMissing is returned when a decorator needs a key selector and none can be inferred.
	ErrKeySelectorMissing = errors.New("key selector missing")

	// ErrNilSemaphore is returned when a shared semaphore decorator is given a nil semaphore.
	ErrNilSemaphore = errors.New("semaphore cannot be nil")

	// ErrHandlerPanic wraps panics recovered from handlers.
	ErrHandlerPanic = errors.New("handler panicked")
)
