package logger

import (
	"log/slog"
	"runtime"
	"strconv"
	"time"
)

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Errors groups multiple non-nil errors under the key "errors".
// Uses index-based keys to preserve error order. Returns empty Attr for all nil errors.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ============================================================================
// Timing
// ============================================================================

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates the duration since start.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// Delay creates an attribute for a scheduled pause, such as a retry backoff.
func Delay(d time.Duration) slog.Attr {
	return slog.Duration("delay", d)
}

// ============================================================================
// Chains and Workers
// ============================================================================

// Chain creates an attribute naming a handler chain. Empty names are skipped.
func Chain(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("chain", name)
}

// Worker identifies a worker goroutine within a pool.
func Worker(id int) slog.Attr {
	return slog.Int("worker", id)
}

// Attempt records a 1-based attempt number together with the attempt limit.
func Attempt(n, limit int) slog.Attr {
	return Group("attempt",
		slog.Int("n", n),
		slog.Int("max", limit),
	)
}

// Subscription identifies a bus subscription.
func Subscription(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("subscription", id)
}

// Kind names a configured concern in the wire-up table.
func Kind(kind string) slog.Attr {
	if kind == "" {
		return slog.Attr{}
	}
	return slog.String("kind", kind)
}

// Outcome records how a message was handled (succeeded, cancelled, failed).
func Outcome(o string) slog.Attr {
	return slog.String("outcome", o)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// ID creates a generic identifier attribute with a custom key.
func ID(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// ============================================================================
// Debugging
// ============================================================================

// Stack captures and returns the current stack trace.
func Stack() slog.Attr {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	return slog.String("stack", string(buf))
}
