package config_test

import (
	"testing"
	"time"

	"github.com/dmitrymomot/msgchain/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type defaultsConfig struct {
	Workers int           `env:"MSGCHAIN_TEST_DEFAULT_WORKERS" envDefault:"4"`
	Timeout time.Duration `env:"MSGCHAIN_TEST_DEFAULT_TIMEOUT" envDefault:"30s"`
}

type cachedConfig struct {
	Name string `env:"MSGCHAIN_TEST_CACHED_NAME" envDefault:"first"`
}

type requiredConfig struct {
	Value string `env:"MSGCHAIN_TEST_REQUIRED_VALUE,required"`
}

type envConfig struct {
	Delays []time.Duration `env:"MSGCHAIN_TEST_DELAYS" envSeparator:","`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("reads environment", func(t *testing.T) {
		t.Setenv("MSGCHAIN_TEST_DELAYS", "10ms,1s")

		var cfg envConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, []time.Duration{10 * time.Millisecond, time.Second}, cfg.Delays)
	})

	t.Run("caches per type", func(t *testing.T) {
		var first cachedConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("MSGCHAIN_TEST_CACHED_NAME", "second")

		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Name)
	})

	t.Run("reports missing required values", func(t *testing.T) {
		var cfg requiredConfig
		assert.Error(t, config.Load(&cfg))
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})

	t.Run("rejects nil target", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[defaultsConfig](nil), config.ErrNilTarget)
	})
}
