// Package cache holds the client-side query cache: keyed entries with
// staleness policies, deduplicated background fetches, prefix invalidation,
// cancellation and snapshot/restore for optimistic writes.
//
// Data handed to the store is treated as immutable. Writers replace values
// instead of mutating them, which is what keeps snapshots valid.
package cache

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

// DefaultGCTime is how long an unobserved entry survives without reads.
const DefaultGCTime = 5 * time.Minute

// ErrCancelled is returned to waiters of a fetch that was cancelled or superseded.
var ErrCancelled = errors.New("cache: fetch cancelled")

// Fetcher loads the value of one entry.
type Fetcher func(ctx context.Context) (any, error)

// Status is the fetch status of an entry.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is a read-only view of one entry.
type State struct {
	Key        querykey.Key
	Data       any
	HasData    bool
	Err        error
	Status     Status
	Class      Class
	UpdatedAt  time.Time
	IsFetching bool
	IsStale    bool
	Observers  int
}

type entry struct {
	key         querykey.Key
	class       Class
	fetcher     Fetcher
	data        any
	hasData     bool
	err         error
	status      Status
	updatedAt   time.Time
	invalidated bool
	fetching    bool
	generation  uint64
	cancel      context.CancelFunc
	lastUsed    time.Time
	listeners   map[uint64]func()
}

// Store is the cache. One Store is owned by the composition root and passed
// to everything that reads or writes cached data.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	flight  singleflight.Group
	wg      sync.WaitGroup

	retry    RetryPolicy
	gcTime   time.Duration
	now      func() time.Time
	recorder Recorder
	logger   zerolog.Logger

	nextListener uint64
}

// Option configures a Store.
type Option func(*Store)

// WithRetryPolicy replaces the read retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Store) { s.retry = p }
}

// WithGCTime sets how long unobserved entries are kept.
func WithGCTime(d time.Duration) Option {
	return func(s *Store) { s.gcTime = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRecorder reports cache events to r.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries:  make(map[string]*entry),
		retry:    DefaultRetryPolicy(),
		gcTime:   DefaultGCTime,
		now:      time.Now,
		recorder: nopRecorder{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the cached value for key, loading it with fetcher on a miss.
// Stale values are returned immediately while a background refetch runs.
// Abandoning ctx abandons the wait, not the fetch.
func (s *Store) Fetch(ctx context.Context, key querykey.Key, class Class, fetcher Fetcher) (any, error) {
	s.mu.Lock()
	e := s.entryLocked(key)
	e.class = class
	e.fetcher = fetcher
	now := s.now()
	e.lastUsed = now

	if e.hasData {
		data := e.data
		if s.isStaleLocked(e, now) {
			s.recorder.CacheStale()
			if !e.fetching {
				s.startLocked(e, fetcher)
			}
		} else {
			s.recorder.CacheHit()
		}
		s.mu.Unlock()
		return data, nil
	}

	s.recorder.CacheMiss()
	ch := s.joinLocked(e, fetcher)
	s.mu.Unlock()

	return wait(ctx, ch)
}

// Prefetch warms key unless it already holds fresh data, waiting for the load.
func (s *Store) Prefetch(ctx context.Context, key querykey.Key, class Class, fetcher Fetcher) error {
	s.mu.Lock()
	e := s.entryLocked(key)
	e.class = class
	e.fetcher = fetcher
	now := s.now()
	e.lastUsed = now

	if e.hasData && !s.isStaleLocked(e, now) {
		s.mu.Unlock()
		return nil
	}

	ch := s.joinLocked(e, fetcher)
	s.mu.Unlock()

	_, err := wait(ctx, ch)
	return err
}

// Ensure registers fetcher for key and starts a background load when the
// entry is missing or stale. It never blocks.
func (s *Store) Ensure(key querykey.Key, class Class, fetcher Fetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(key)
	e.class = class
	e.fetcher = fetcher
	now := s.now()
	e.lastUsed = now

	if !e.fetching && (!e.hasData || s.isStaleLocked(e, now)) {
		s.startLocked(e, fetcher)
	}
}

// Refetch forces a load of key with its registered fetcher and waits for it.
func (s *Store) Refetch(ctx context.Context, key querykey.Key) (any, error) {
	s.mu.Lock()
	e, ok := s.entries[key.ID()]
	if !ok || e.fetcher == nil {
		s.mu.Unlock()
		return nil, errors.New("cache: no fetcher registered for " + key.String())
	}
	ch := s.joinLocked(e, e.fetcher)
	s.mu.Unlock()

	return wait(ctx, ch)
}

func (s *Store) register(key querykey.Key, class Class, fetcher Fetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(key)
	e.class = class
	e.fetcher = fetcher
}

// fetchOnce supersedes any in-flight load of key with fn and waits for it.
// The registered fetcher is left untouched.
func (s *Store) fetchOnce(ctx context.Context, key querykey.Key, class Class, fn Fetcher) (any, error) {
	s.mu.Lock()
	e := s.entryLocked(key)
	e.class = class
	e.lastUsed = s.now()
	ch := s.startLocked(e, fn)
	s.mu.Unlock()

	return wait(ctx, ch)
}

func wait(ctx context.Context, ch <-chan singleflight.Result) (any, error) {
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) entryLocked(key querykey.Key) *entry {
	id := key.ID()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{key: key.Clone(), lastUsed: s.now()}
		s.entries[id] = e
	}
	return e
}

func (s *Store) isStaleLocked(e *entry, now time.Time) bool {
	return !e.hasData || e.invalidated || e.class.IsStale(e.updatedAt, now)
}

// joinLocked attaches to the in-flight load of e or starts one.
func (s *Store) joinLocked(e *entry, fn Fetcher) <-chan singleflight.Result {
	if !e.fetching {
		return s.startLocked(e, fn)
	}
	return s.flight.DoChan(flightID(e), func() (any, error) {
		// Only reachable if the generation already completed, which
		// cannot happen while e.fetching is held under s.mu.
		return nil, ErrCancelled
	})
}

// startLocked begins a new fetch generation, superseding any in-flight one.
func (s *Store) startLocked(e *entry, fn Fetcher) <-chan singleflight.Result {
	if e.cancel != nil {
		e.cancel()
	}
	e.generation++
	gen := e.generation

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.fetching = true
	if !e.hasData {
		e.status = StatusPending
	}

	s.wg.Add(1)
	return s.flight.DoChan(flightID(e), func() (any, error) {
		defer s.wg.Done()
		defer cancel()
		return s.run(ctx, e, gen, fn)
	})
}

func flightID(e *entry) string {
	return e.key.ID() + "#" + strconv.FormatUint(e.generation, 10)
}

func (s *Store) run(ctx context.Context, e *entry, gen uint64, fn Fetcher) (any, error) {
	val, err := s.retry.Do(ctx, fn, func(err error, wait time.Duration) {
		s.recorder.CacheRetry()
		s.logger.Debug().
			Err(err).
			Stringer("key", e.key).
			Dur("wait", wait).
			Msg("retrying cache fetch")
	})

	s.mu.Lock()
	if e.generation != gen || s.entries[e.key.ID()] != e {
		s.mu.Unlock()
		s.recorder.CacheFetch(OutcomeCancelled)
		return nil, ErrCancelled
	}

	e.fetching = false
	e.cancel = nil
	if err != nil {
		e.err = err
		e.status = StatusError
	} else {
		e.data = val
		e.hasData = true
		e.err = nil
		e.status = StatusSuccess
		e.updatedAt = s.now()
		e.invalidated = false
	}
	listeners := listenersOf(e)
	s.mu.Unlock()

	if err != nil {
		s.recorder.CacheFetch(OutcomeError)
		s.logger.Warn().Err(err).Stringer("key", e.key).Msg("cache fetch failed")
	} else {
		s.recorder.CacheFetch(OutcomeSuccess)
	}
	notify(listeners)

	return val, err
}

// Cancel abandons every in-flight fetch under prefix. Their results are
// discarded and their waiters receive ErrCancelled. Cached data is untouched.
func (s *Store) Cancel(prefix querykey.Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if !e.key.HasPrefix(prefix) || !e.fetching {
			continue
		}
		s.cancelLocked(e)
		n++
	}
	return n
}

func (s *Store) cancelLocked(e *entry) {
	e.generation++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.fetching = false
	if e.status == StatusPending {
		e.status = StatusIdle
	}
}

// Invalidate marks every entry under prefix stale. Observed entries, and
// entries that were mid-fetch, are refetched in the background.
func (s *Store) Invalidate(prefix querykey.Key) int {
	s.mu.Lock()
	var listeners []func()
	n := 0
	for _, e := range s.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.invalidated = true
		n++
		if e.fetcher != nil && (len(e.listeners) > 0 || e.fetching) {
			s.startLocked(e, e.fetcher)
		}
		listeners = append(listeners, listenersOf(e)...)
	}
	s.mu.Unlock()

	s.recorder.CacheInvalidated(n)
	s.logger.Debug().Stringer("prefix", prefix).Int("entries", n).Msg("cache invalidated")
	notify(listeners)
	return n
}

// RevalidateStale starts background refetches of observed entries under
// prefix whose data has outlived their class.
func (s *Store) RevalidateStale(prefix querykey.Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for _, e := range s.entries {
		if !e.key.HasPrefix(prefix) || e.fetcher == nil || e.fetching || len(e.listeners) == 0 {
			continue
		}
		if !s.isStaleLocked(e, now) {
			continue
		}
		s.startLocked(e, e.fetcher)
		n++
	}
	return n
}

// Get returns the state of key.
func (s *Store) Get(key querykey.Key) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key.ID()]
	if !ok {
		return State{}, false
	}
	return s.stateLocked(e), true
}

func (s *Store) stateLocked(e *entry) State {
	return State{
		Key:        e.key.Clone(),
		Data:       e.data,
		HasData:    e.hasData,
		Err:        e.err,
		Status:     e.status,
		Class:      e.class,
		UpdatedAt:  e.updatedAt,
		IsFetching: e.fetching,
		IsStale:    s.isStaleLocked(e, s.now()),
		Observers:  len(e.listeners),
	}
}

// GetData returns the cached value of key.
func (s *Store) GetData(key querykey.Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key.ID()]
	if !ok || !e.hasData {
		return nil, false
	}
	return e.data, true
}

// SetData writes a value for key as if it had just been fetched.
func (s *Store) SetData(key querykey.Key, data any) {
	s.mu.Lock()
	e := s.entryLocked(key)
	s.writeLocked(e, data)
	listeners := listenersOf(e)
	s.mu.Unlock()

	notify(listeners)
}

func (s *Store) writeLocked(e *entry, data any) {
	now := s.now()
	e.data = data
	e.hasData = true
	e.err = nil
	e.status = StatusSuccess
	e.updatedAt = now
	e.lastUsed = now
	e.invalidated = false
}

// Update applies fn to every entry under prefix that holds data. fn returns
// the replacement value and whether it changed anything.
func (s *Store) Update(prefix querykey.Key, fn func(key querykey.Key, data any) (any, bool)) int {
	s.mu.Lock()
	var listeners []func()
	n := 0
	for _, e := range s.entries {
		if !e.hasData || !e.key.HasPrefix(prefix) {
			continue
		}
		next, changed := fn(e.key.Clone(), e.data)
		if !changed {
			continue
		}
		s.writeLocked(e, next)
		listeners = append(listeners, listenersOf(e)...)
		n++
	}
	s.mu.Unlock()

	notify(listeners)
	return n
}

// Keys lists the keys under prefix in a stable order.
func (s *Store) Keys(prefix querykey.Key) []querykey.Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]querykey.Key, 0)
	for _, e := range s.entries {
		if e.key.HasPrefix(prefix) {
			keys = append(keys, e.key.Clone())
		}
	}
	slices.SortFunc(keys, func(a, b querykey.Key) int {
		return slices.Compare(a, b)
	})
	return keys
}

// Remove drops every entry under prefix, abandoning their fetches.
func (s *Store) Remove(prefix querykey.Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, e := range s.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		s.cancelLocked(e)
		delete(s.entries, id)
		n++
	}
	return n
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Subscribe registers fn to run after every change of key. The returned
// function unsubscribes. Observed entries are never garbage collected.
func (s *Store) Subscribe(key querykey.Key, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(key)
	s.nextListener++
	id := s.nextListener
	if e.listeners == nil {
		e.listeners = make(map[uint64]func())
	}
	e.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(e.listeners, id)
			e.lastUsed = s.now()
		})
	}
}

// cancelIfUnobserved abandons the fetch of exactly key when nobody watches it.
func (s *Store) cancelIfUnobserved(key querykey.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key.ID()]
	if ok && e.fetching && len(e.listeners) == 0 {
		s.cancelLocked(e)
	}
}

func listenersOf(e *entry) []func() {
	out := make([]func(), 0, len(e.listeners))
	for _, fn := range e.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}

// GC removes unobserved, idle entries not used within the gc time.
func (s *Store) GC() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, e := range s.entries {
		if len(e.listeners) > 0 || e.fetching {
			continue
		}
		if now.Sub(e.lastUsed) < s.gcTime {
			continue
		}
		delete(s.entries, id)
		n++
	}
	return n
}

// RunGC collects garbage every interval until ctx is done.
func (s *Store) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.GC(); n > 0 {
				s.logger.Debug().Int("entries", n).Msg("cache gc")
			}
		case <-ctx.Done():
			return
		}
	}
}

// WaitIdle blocks until every fetch started so far has finished.
func (s *Store) WaitIdle() {
	s.wg.Wait()
}
