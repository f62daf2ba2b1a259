package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

// EventKind names what prompted a revalidation.
type EventKind int

const (
	EventFocus EventKind = iota
	EventReconnect
	EventTick
	// EventRemoteChange carries the prefix another client changed.
	EventRemoteChange
)

func (k EventKind) String() string {
	switch k {
	case EventFocus:
		return "focus"
	case EventReconnect:
		return "reconnect"
	case EventTick:
		return "tick"
	case EventRemoteChange:
		return "remote_change"
	default:
		return "unknown"
	}
}

// Event is one revalidation trigger.
type Event struct {
	Kind   EventKind
	Prefix querykey.Key
}

// EventSource produces revalidation events until ctx is done. The returned
// channel is closed when the source stops.
type EventSource interface {
	Events(ctx context.Context) <-chan Event
}

// Scheduler turns external events into background revalidation. It never
// blocks readers.
type Scheduler struct {
	store   *Store
	sources []EventSource
	logger  zerolog.Logger
}

// NewScheduler creates a scheduler over store.
func NewScheduler(store *Store, logger zerolog.Logger, sources ...EventSource) *Scheduler {
	return &Scheduler{store: store, sources: sources, logger: logger}
}

// Run consumes every source until ctx is done or all sources close.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, src := range s.sources {
		events := src.Events(ctx)
		g.Go(func() error {
			for {
				select {
				case ev, ok := <-events:
					if !ok {
						return nil
					}
					s.Handle(ev)
				case <-ctx.Done():
					return nil
				}
			}
		})
	}

	return g.Wait()
}

// Handle applies one event and returns how many entries it touched.
func (s *Scheduler) Handle(ev Event) int {
	var n int
	switch ev.Kind {
	case EventRemoteChange:
		n = s.store.Invalidate(ev.Prefix)
	default:
		n = s.store.RevalidateStale(nil)
	}

	s.logger.Debug().
		Stringer("event", ev.Kind).
		Stringer("prefix", ev.Prefix).
		Int("entries", n).
		Msg("revalidation event")
	return n
}

// ManualSource emits events pushed by the caller, e.g. a terminal regaining
// focus or a network monitor.
type ManualSource struct {
	ch chan Event
}

// NewManualSource creates a source buffering up to size events.
func NewManualSource(size int) *ManualSource {
	return &ManualSource{ch: make(chan Event, size)}
}

// Events implements EventSource.
func (m *ManualSource) Events(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for {
			select {
			case ev := <-m.ch:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Emit queues ev, dropping it when the buffer is full.
func (m *ManualSource) Emit(ev Event) bool {
	select {
	case m.ch <- ev:
		return true
	default:
		return false
	}
}

func (m *ManualSource) Focus() bool     { return m.Emit(Event{Kind: EventFocus}) }
func (m *ManualSource) Reconnect() bool { return m.Emit(Event{Kind: EventReconnect}) }

func (m *ManualSource) RemoteChange(prefix querykey.Key) bool {
	return m.Emit(Event{Kind: EventRemoteChange, Prefix: prefix})
}

// TickerSource emits EventTick every interval.
type TickerSource struct {
	Interval time.Duration
}

// Events implements EventSource.
func (t TickerSource) Events(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		ticker := time.NewTicker(t.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case out <- Event{Kind: EventTick}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
