package chain_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrymomot/msgchain/core/chain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitedThroughput(t *testing.T) {
	t.Parallel()

	t.Run("admits limit messages per window", func(t *testing.T) {
		t.Parallel()

		clock := clockwork.NewFakeClock()
		var admitted atomic.Int32

		c := buildChain(t, func(context.Context, testMessage) error {
			admitted.Add(1)
			return nil
		}, chain.LimitedThroughputFireAndForget[testMessage](2, time.Second, chain.WithClock(clock)))

		for range 5 {
			require.NoError(t, c.Handle(context.Background(), testMessage{}))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		require.Eventually(t, func() bool { return admitted.Load() == 2 }, time.Second, 5*time.Millisecond)
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		assert.Equal(t, int32(2), admitted.Load())

		clock.Advance(time.Second)
		require.Eventually(t, func() bool { return admitted.Load() == 4 }, time.Second, 5*time.Millisecond)
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		assert.Equal(t, int32(4), admitted.Load())

		clock.Advance(time.Second)
		require.Eventually(t, func() bool { return admitted.Load() == 5 }, time.Second, 5*time.Millisecond)
	})

	t.Run("dispatch does not wait for handler completion", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		defer close(release)
		var started atomic.Int32

		c := buildChain(t, func(context.Context, testMessage) error {
			started.Add(1)
			<-release
			return nil
		}, chain.LimitedThroughputFireAndForget[testMessage](3, time.Hour))

		for range 3 {
			require.NoError(t, c.Handle(context.Background(), testMessage{}))
		}

		require.Eventually(t, func() bool { return started.Load() == 3 }, time.Second, 5*time.Millisecond)
	})

	t.Run("blocking variant propagates errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		c := buildChain(t, func(_ context.Context, msg testMessage) error {
			if msg.ID == "bad" {
				return boom
			}
			return nil
		}, chain.LimitedThroughput[testMessage](10, time.Second))

		assert.ErrorIs(t, c.Handle(context.Background(), testMessage{ID: "bad"}), boom)
		assert.NoError(t, c.Handle(context.Background(), testMessage{ID: "good"}))
	})

	t.Run("blocking callers waiting for a window are dropped on close", func(t *testing.T) {
		t.Parallel()

		clock := clockwork.NewFakeClock()
		c := buildChain(t, func(context.Context, testMessage) error {
			return nil
		}, chain.LimitedThroughput[testMessage](1, time.Minute, chain.WithClock(clock)))

		require.NoError(t, c.Handle(context.Background(), testMessage{}))

		waiting := make(chan error, 1)
		go func() { waiting <- c.Handle(context.Background(), testMessage{}) }()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, clock.BlockUntilContext(ctx, 1))

		require.NoError(t, c.Close())

		select {
		case err := <-waiting:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("waiting caller was not released")
		}
		assert.NoError(t, c.Wait(ctx))
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		t.Parallel()

		b := chain.NewBuilder[testMessage]()
		b.Use(chain.LimitedThroughput[testMessage](0, time.Second))
		require.NoError(t, b.HandleFunc(func(context.Context, testMessage) error { return nil }))
		_, err := b.BuildChain(nil)
		assert.ErrorIs(t, err, chain.ErrInvalidCapacity)

		b = chain.NewBuilder[testMessage]()
		b.Use(chain.LimitedThroughput[testMessage](1, 0))
		require.NoError(t, b.HandleFunc(func(context.Context, testMessage) error { return nil }))
		_, err = b.BuildChain(nil)
		assert.ErrorIs(t, err, chain.ErrInvalidPeriod)
	})
}
