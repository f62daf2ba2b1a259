package cache

import (
	"context"
	"sync"
	"time"
)

// Result is what a read exposes to presentation code.
type Result[T any] struct {
	Data          T
	HasData       bool
	Err           error
	IsLoading     bool
	IsFetching    bool
	IsError       bool
	IsStale       bool
	IsPlaceholder bool
	UpdatedAt     time.Time
}

// ObserverOption configures an Observer.
type ObserverOption func(*observerOptions)

type observerOptions struct {
	keepPrevious bool
}

// KeepPrevious shows the previous query's data, flagged as a placeholder,
// while a newly selected query loads.
func KeepPrevious() ObserverOption {
	return func(o *observerOptions) { o.keepPrevious = true }
}

// Observer keeps one query live: it subscribes to the entry, loads it when
// missing or stale and reports every change. Switching queries abandons the
// previous one; its late results are never reported.
type Observer[T any] struct {
	store    *Store
	opts     observerOptions
	onChange func(Result[T])

	mu          sync.Mutex
	query       Query[T]
	placeholder *T
	unsubscribe func()
	version     uint64
	closed      bool
}

// Observe starts observing q. onChange may be nil.
func Observe[T any](s *Store, q Query[T], onChange func(Result[T]), opts ...ObserverOption) *Observer[T] {
	o := &Observer[T]{store: s, onChange: onChange}
	for _, opt := range opts {
		opt(&o.opts)
	}

	o.mu.Lock()
	o.attachLocked(q)
	o.mu.Unlock()

	s.Ensure(q.Key, q.Class, q.Fetcher())
	return o
}

func (o *Observer[T]) attachLocked(q Query[T]) {
	o.query = q
	o.version++
	version := o.version
	o.unsubscribe = o.store.Subscribe(q.Key, func() {
		o.emit(version)
	})
}

func (o *Observer[T]) emit(version uint64) {
	o.mu.Lock()
	if o.closed || o.version != version || o.onChange == nil {
		o.mu.Unlock()
		return
	}
	res := o.resultLocked()
	o.mu.Unlock()

	o.onChange(res)
}

// SetQuery switches the observer to q.
func (o *Observer[T]) SetQuery(q Query[T]) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	if o.query.Key.Equal(q.Key) {
		o.query = q
		o.mu.Unlock()
		o.store.Ensure(q.Key, q.Class, q.Fetcher())
		return
	}

	if o.opts.keepPrevious {
		if prev := o.resultLocked(); prev.HasData || prev.IsPlaceholder {
			data := prev.Data
			o.placeholder = &data
		}
	}

	oldKey := o.query.Key
	o.unsubscribe()
	o.attachLocked(q)
	o.mu.Unlock()

	o.store.cancelIfUnobserved(oldKey)
	o.store.Ensure(q.Key, q.Class, q.Fetcher())
}

// Result returns the current read state.
func (o *Observer[T]) Result() Result[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resultLocked()
}

func (o *Observer[T]) resultLocked() Result[T] {
	var res Result[T]

	st, ok := o.store.Get(o.query.Key)
	if ok {
		res.Err = st.Err
		res.IsError = st.Status == StatusError
		res.IsFetching = st.IsFetching
		res.IsStale = st.IsStale
		res.UpdatedAt = st.UpdatedAt
		if st.HasData {
			if data, err := cast[T](o.query.Key, st.Data); err == nil {
				res.Data = data
				res.HasData = true
			}
		}
	}

	if res.HasData {
		o.placeholder = nil
	} else if o.placeholder != nil {
		res.Data = *o.placeholder
		res.IsPlaceholder = true
	}

	res.IsLoading = !res.HasData && !res.IsPlaceholder && !res.IsError &&
		(!ok || st.Status == StatusPending || st.IsFetching)
	return res
}

// Refetch reloads the current query and waits for it.
func (o *Observer[T]) Refetch(ctx context.Context) (Result[T], error) {
	o.mu.Lock()
	key := o.query.Key
	o.mu.Unlock()

	_, err := o.store.Refetch(ctx, key)
	return o.Result(), err
}

// Close stops observing.
func (o *Observer[T]) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	key := o.query.Key
	unsubscribe := o.unsubscribe
	o.mu.Unlock()

	unsubscribe()
	o.store.cancelIfUnobserved(key)
}
