package chain_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrymomot/msgchain/core/chain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistinct(t *testing.T) {
	t.Parallel()

	publish := func(t *testing.T, c *chain.Chain[testMessage], keys ...string) {
		t.Helper()
		for _, k := range keys {
			require.NoError(t, c.Handle(context.Background(), testMessage{Key: k}))
		}
	}

	t.Run("case insensitive equivalence", func(t *testing.T) {
		t.Parallel()

		var handled []string
		c := buildChain(t, func(_ context.Context, m testMessage) error {
			handled = append(handled, m.Key)
			return nil
		}, chain.DistinctWith(chain.DistinctConfig[testMessage, string]{
			Key:         func(m testMessage) string { return m.Key },
			Equivalence: chain.CaseInsensitive,
		}))

		publish(t, c, "a", "a", "a", "A")
		assert.Equal(t, []string{"a"}, handled)
	})

	t.Run("ordinal equivalence", func(t *testing.T) {
		t.Parallel()

		var handled []string
		c := buildChain(t, func(_ context.Context, m testMessage) error {
			handled = append(handled, m.Key)
			return nil
		}, chain.DistinctWith(chain.DistinctConfig[testMessage, string]{
			Key:         func(m testMessage) string { return m.Key },
			Equivalence: chain.Ordinal,
		}))

		publish(t, c, "a", "a", "a", "A")
		assert.Equal(t, []string{"a", "A"}, handled)
	})

	t.Run("zero key is its own bucket", func(t *testing.T) {
		t.Parallel()

		var handled []string
		c := buildChain(t, func(_ context.Context, m testMessage) error {
			handled = append(handled, m.ID)
			return nil
		}, chain.DistinctBy(func(m testMessage) string { return m.Key }))

		for i, k := range []string{"", "x", "", "x", "y"} {
			require.NoError(t, c.Handle(context.Background(), testMessage{ID: string(rune('0' + i)), Key: k}))
		}
		assert.Equal(t, []string{"0", "1", "4"}, handled)
	})

	t.Run("message is its own key", func(t *testing.T) {
		t.Parallel()

		var count int
		b := chain.NewBuilder[int]()
		b.Use(chain.Distinct[int]())
		require.NoError(t, b.HandleFunc(func(context.Context, int) error {
			count++
			return nil
		}))
		c, err := b.BuildChain(nil)
		require.NoError(t, err)
		defer c.Close()

		for _, v := range []int{1, 2, 1, 3, 2} {
			require.NoError(t, c.Handle(context.Background(), v))
		}
		assert.Equal(t, 3, count)
	})

	t.Run("missing key selector fails at build", func(t *testing.T) {
		t.Parallel()

		b := chain.NewBuilder[testMessage]()
		b.Use(chain.DistinctWith(chain.DistinctConfig[testMessage, string]{
			Equivalence: chain.CaseInsensitive,
		}))
		require.NoError(t, b.HandleFunc(func(context.Context, testMessage) error { return nil }))

		_, err := b.BuildChain(nil)
		assert.ErrorIs(t, err, chain.ErrKeySelectorMissing)
	})

	t.Run("async key selector errors propagate", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("lookup failed")
		c := buildChain(t, func(context.Context, testMessage) error {
			return nil
		}, chain.DistinctWith(chain.DistinctConfig[testMessage, string]{
			KeyContext: func(_ context.Context, m testMessage) (string, error) {
				if m.Key == "bad" {
					return "", boom
				}
				return m.Key, nil
			},
		}))

		assert.ErrorIs(t, c.Handle(context.Background(), testMessage{Key: "bad"}), boom)
		assert.NoError(t, c.Handle(context.Background(), testMessage{Key: "ok"}))
	})

	t.Run("concurrent duplicates pass once", func(t *testing.T) {
		t.Parallel()

		var handled atomic.Int32
		c := buildChain(t, func(context.Context, testMessage) error {
			handled.Add(1)
			return nil
		}, chain.DistinctBy(func(m testMessage) string { return m.Key }))

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = c.Handle(context.Background(), testMessage{Key: "same"})
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), handled.Load())
	})
}

func TestNoDuplicates(t *testing.T) {
	t.Parallel()

	t.Run("drops keys already in flight", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		started := make(chan struct{})
		var handled atomic.Int32

		c := buildChain(t, func(_ context.Context, m testMessage) error {
			if handled.Add(1) == 1 {
				close(started)
				<-release
			}
			return nil
		}, chain.NoDuplicates(chain.DistinctConfig[testMessage, string]{
			Key: func(m testMessage) string { return m.Key },
		}))

		done := make(chan error, 1)
		go func() { done <- c.Handle(context.Background(), testMessage{Key: "k"}) }()
		<-started

		require.NoError(t, c.Handle(context.Background(), testMessage{Key: "k"}))
		assert.Equal(t, int32(1), handled.Load())

		close(release)
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("first message did not finish")
		}

		require.NoError(t, c.Handle(context.Background(), testMessage{Key: "k"}))
		assert.Equal(t, int32(2), handled.Load())
	})
}
