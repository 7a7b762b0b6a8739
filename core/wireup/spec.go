package wireup

import (
	"errors"
	"time"
)

// Kind names a concern in the installer table.
type Kind string

const (
	KindConcurrent Kind = "concurrent"
	KindThroughput Kind = "throughput"
	KindSemaphore  Kind = "semaphore"
	KindRetry      Kind = "retry"
	KindTimeout    Kind = "timeout"
)

var (
	// ErrUnknownKind is returned when no installer is registered for a spec's kind.
	ErrUnknownKind = errors.New("unknown concern kind")

	// ErrSpecMismatch is returned when an installer receives a spec of another kind.
	ErrSpecMismatch = errors.New("spec does not match installer")
)

// Spec describes one concern to install.
type Spec interface {
	Kind() Kind
}

// ConcurrentSpec installs a worker pool.
type ConcurrentSpec struct {
	Workers       int  `yaml:"workers"`
	FireAndForget bool `yaml:"fire_and_forget"`
}

func (ConcurrentSpec) Kind() Kind { return KindConcurrent }

// ThroughputSpec installs a throughput limit of Max messages per Period.
type ThroughputSpec struct {
	Max           int           `yaml:"max"`
	Period        time.Duration `yaml:"period"`
	FireAndForget bool          `yaml:"fire_and_forget"`
}

func (ThroughputSpec) Kind() Kind { return KindThroughput }

// SemaphoreSpec installs a global concurrency gate.
type SemaphoreSpec struct {
	Capacity int `yaml:"capacity"`
}

func (SemaphoreSpec) Kind() Kind { return KindSemaphore }

// RetrySpec installs retries.
type RetrySpec struct {
	MaxAttempts int             `yaml:"max_attempts"`
	Delays      []time.Duration `yaml:"delays"`
}

func (RetrySpec) Kind() Kind { return KindRetry }

// TimeoutSpec installs a per-message deadline.
type TimeoutSpec struct {
	Timeout time.Duration `yaml:"timeout"`
}

func (TimeoutSpec) Kind() Kind { return KindTimeout }
