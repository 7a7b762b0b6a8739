package chain

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"golang.org/x/text/cases"
)

// DistinctConfig configures DistinctWith. At most one of Key and KeyContext is used;
// KeyContext wins when both are set. When neither is set the message itself is
// used as the key, provided T is assignable to K.
type DistinctConfig[T any, K comparable] struct {
	Key        func(T) K
	KeyContext func(context.Context, T) (K, error)

	// Equivalence maps a key to its canonical form. Keys with the same
	// canonical form are duplicates.
	Equivalence func(K) K
}

// CaseInsensitive folds s so that keys differing only in case compare equal.
func CaseInsensitive(s string) string {
	return cases.Fold().String(s)
}

// Ordinal leaves s unchanged.
func Ordinal(s string) string {
	return s
}

// Distinct passes the first occurrence of every message and silently drops repeats.
func Distinct[T comparable]() Factory[T] {
	return DistinctWith(DistinctConfig[T, T]{})
}

// DistinctBy passes the first message for every key.
func DistinctBy[T any, K comparable](key func(T) K) Factory[T] {
	return DistinctWith(DistinctConfig[T, K]{Key: key})
}

// DistinctWith passes the first message for every key. The zero key forms
// its own bucket: only the first zero-keyed message is passed.
func DistinctWith[T any, K comparable](cfg DistinctConfig[T, K]) Factory[T] {
	return func(next Func[T], _ *BuildServices) (Func[T], error) {
		key, err := keySelector(cfg)
		if err != nil {
			return nil, err
		}

		var (
			seen     sync.Map
			zeroSeen atomic.Bool
			zero     K
		)

		return func(ctx context.Context, msg T) error {
			k, err := key(ctx, msg)
			if err != nil {
				return err
			}

			if k == zero {
				if !zeroSeen.CompareAndSwap(false, true) {
					return nil
				}
				return next(ctx, msg)
			}

			if cfg.Equivalence != nil {
				k = cfg.Equivalence(k)
			}
			if _, loaded := seen.LoadOrStore(k, struct{}{}); loaded {
				return nil
			}
			return next(ctx, msg)
		}, nil
	}
}

// NoDuplicates drops a message while another message with the same key is
// still being handled. Once handling finishes the key may pass again.
func NoDuplicates[T any, K comparable](cfg DistinctConfig[T, K]) Factory[T] {
	return func(next Func[T], _ *BuildServices) (Func[T], error) {
		key, err := keySelector(cfg)
		if err != nil {
			return nil, err
		}

		var inFlight sync.Map

		return func(ctx context.Context, msg T) error {
			k, err := key(ctx, msg)
			if err != nil {
				return err
			}
			if cfg.Equivalence != nil {
				k = cfg.Equivalence(k)
			}

			if _, loaded := inFlight.LoadOrStore(k, struct{}{}); loaded {
				return nil
			}
			defer inFlight.Delete(k)

			return next(ctx, msg)
		}, nil
	}
}

func keySelector[T any, K comparable](cfg DistinctConfig[T, K]) (func(context.Context, T) (K, error), error) {
	switch {
	case cfg.KeyContext != nil:
		return cfg.KeyContext, nil
	case cfg.Key != nil:
		return func(_ context.Context, msg T) (K, error) {
			return cfg.Key(msg), nil
		}, nil
	}

	if !reflect.TypeFor[T]().AssignableTo(reflect.TypeFor[K]()) {
		return nil, ErrKeySelectorMissing
	}
	return func(_ context.Context, msg T) (K, error) {
		k, _ := any(msg).(K)
		return k, nil
	}, nil
}
