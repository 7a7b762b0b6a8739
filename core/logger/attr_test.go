package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrymomot/msgchain/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "0", g[0].Key)
	assert.Equal(t, "2", g[1].Key)
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestTiming(t *testing.T) {
	t.Parallel()

	t.Run("duration", func(t *testing.T) {
		t.Parallel()
		attr := logger.Duration(5 * time.Second)
		require.Equal(t, "duration", attr.Key)
		assert.Equal(t, 5*time.Second, attr.Value.Duration())
	})

	t.Run("delay", func(t *testing.T) {
		t.Parallel()
		attr := logger.Delay(10 * time.Millisecond)
		require.Equal(t, "delay", attr.Key)
		assert.Equal(t, 10*time.Millisecond, attr.Value.Duration())
	})

	t.Run("elapsed", func(t *testing.T) {
		t.Parallel()
		attr := logger.Elapsed(time.Now().Add(-500 * time.Millisecond))
		require.Equal(t, "elapsed", attr.Key)
		assert.GreaterOrEqual(t, attr.Value.Duration(), 500*time.Millisecond)
	})
}

func TestChainAttrs(t *testing.T) {
	t.Parallel()

	t.Run("chain", func(t *testing.T) {
		t.Parallel()
		attr := logger.Chain("orders")
		require.Equal(t, "chain", attr.Key)
		assert.Equal(t, "orders", attr.Value.String())
		assert.True(t, logger.Chain("").Equal(slog.Attr{}))
	})

	t.Run("worker", func(t *testing.T) {
		t.Parallel()
		attr := logger.Worker(3)
		require.Equal(t, "worker", attr.Key)
		assert.Equal(t, int64(3), attr.Value.Int64())
	})

	t.Run("attempt", func(t *testing.T) {
		t.Parallel()
		attr := logger.Attempt(2, 5)
		require.Equal(t, "attempt", attr.Key)
		g := attr.Value.Group()
		require.Len(t, g, 2)
		assert.Equal(t, int64(2), g[0].Value.Int64())
		assert.Equal(t, int64(5), g[1].Value.Int64())
	})

	t.Run("subscription", func(t *testing.T) {
		t.Parallel()
		attr := logger.Subscription("abc")
		require.Equal(t, "subscription", attr.Key)
		assert.True(t, logger.Subscription("").Equal(slog.Attr{}))
	})

	t.Run("kind", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "retry", logger.Kind("retry").Value.String())
		assert.True(t, logger.Kind("").Equal(slog.Attr{}))
	})

	t.Run("outcome", func(t *testing.T) {
		t.Parallel()
		attr := logger.Outcome("failed")
		require.Equal(t, "outcome", attr.Key)
		assert.Equal(t, "failed", attr.Value.String())
	})
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bus", logger.Component("bus").Value.String())
	assert.Equal(t, int64(3), logger.Count("dropped", 3).Value.Int64())

	attr := logger.ID("message_id", "m-1")
	require.Equal(t, "message_id", attr.Key)
	assert.Equal(t, "m-1", attr.Value.Any())
	assert.True(t, logger.ID("key", nil).Equal(slog.Attr{}))
}

func TestStack(t *testing.T) {
	t.Parallel()
	attr := logger.Stack()
	require.Equal(t, "stack", attr.Key)
	assert.Contains(t, attr.Value.String(), "TestStack")
}
