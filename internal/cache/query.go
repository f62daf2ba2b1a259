package cache

import (
	"context"
	"fmt"

	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

// Query is a typed read definition: where its data lives, how volatile it is
// and how to load it.
type Query[T any] struct {
	Key   querykey.Key
	Class Class
	Fn    func(ctx context.Context) (T, error)
}

// Fetcher adapts the query to the untyped store.
func (q Query[T]) Fetcher() Fetcher {
	return func(ctx context.Context) (any, error) {
		v, err := q.Fn(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Fetch reads q through the store.
func Fetch[T any](ctx context.Context, s *Store, q Query[T]) (T, error) {
	v, err := s.Fetch(ctx, q.Key, q.Class, q.Fetcher())
	if err != nil {
		var zero T
		return zero, err
	}
	return cast[T](q.Key, v)
}

// Prefetch warms q unless its data is fresh.
func Prefetch[T any](ctx context.Context, s *Store, q Query[T]) error {
	return s.Prefetch(ctx, q.Key, q.Class, q.Fetcher())
}

// GetData returns the typed cached value of key.
func GetData[T any](s *Store, key querykey.Key) (T, bool) {
	v, ok := s.GetData(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func cast[T any](key querykey.Key, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: %s holds %T, want %T", key, v, zero)
	}
	return t, nil
}
