package wireup

import (
	"time"

	"github.com/dmitrymomot/msgchain/core/config"
)

// Config describes a chain's concerns through environment variables.
// Zero values leave a concern out.
type Config struct {
	Timeout           time.Duration   `env:"CHAIN_TIMEOUT" envDefault:"0s"`
	RetryAttempts     int             `env:"CHAIN_RETRY_ATTEMPTS" envDefault:"1"`
	RetryDelays       []time.Duration `env:"CHAIN_RETRY_DELAYS" envSeparator:","`
	SemaphoreCapacity int             `env:"CHAIN_SEMAPHORE_CAPACITY" envDefault:"0"`
	ThroughputMax     int             `env:"CHAIN_THROUGHPUT_MAX" envDefault:"0"`
	ThroughputPeriod  time.Duration   `env:"CHAIN_THROUGHPUT_PERIOD" envDefault:"1s"`
	Concurrent        bool            `env:"CHAIN_CONCURRENT" envDefault:"false"`
	Workers           int             `env:"CHAIN_WORKERS" envDefault:"0"`
	FireAndForget     bool            `env:"CHAIN_FIRE_AND_FORGET" envDefault:"false"`
}

// DefaultConfig returns a configuration that installs nothing.
func DefaultConfig() Config {
	return Config{
		RetryAttempts:    1,
		ThroughputPeriod: time.Second,
	}
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Specs converts the configuration to specs, innermost first:
// timeout, retry, semaphore, throughput, then the worker pool.
func (c Config) Specs() []Spec {
	var specs []Spec

	if c.Timeout > 0 {
		specs = append(specs, TimeoutSpec{Timeout: c.Timeout})
	}
	if c.RetryAttempts > 1 {
		specs = append(specs, RetrySpec{MaxAttempts: c.RetryAttempts, Delays: c.RetryDelays})
	}
	if c.SemaphoreCapacity > 0 {
		specs = append(specs, SemaphoreSpec{Capacity: c.SemaphoreCapacity})
	}
	if c.ThroughputMax > 0 {
		specs = append(specs, ThroughputSpec{
			Max:           c.ThroughputMax,
			Period:        c.ThroughputPeriod,
			FireAndForget: c.FireAndForget && !c.Concurrent,
		})
	}
	if c.Concurrent {
		specs = append(specs, ConcurrentSpec{Workers: c.Workers, FireAndForget: c.FireAndForget})
	}

	return specs
}
