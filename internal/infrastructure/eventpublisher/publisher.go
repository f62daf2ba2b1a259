package eventpublisher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// Sink receives change events from the publisher.
type Sink interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, event domain.ChangeEvent) error

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, event domain.ChangeEvent) error {
	return f(ctx, event)
}

// Config for EventPublisher.
type Config struct {
	Sinks      []Sink
	Logger     zerolog.Logger
	BufferSize int           // Events queued before Publish starts dropping
	Timeout    time.Duration // Per-event delivery budget
}

// EventPublisher queues change events from request handlers and delivers
// them to every sink on a single worker goroutine.
type EventPublisher struct {
	queue   chan domain.ChangeEvent
	sinks   []Sink
	logger  zerolog.Logger
	timeout time.Duration
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 256
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &EventPublisher{
		queue:   make(chan domain.ChangeEvent, cfg.BufferSize),
		sinks:   cfg.Sinks,
		logger:  cfg.Logger,
		timeout: cfg.Timeout,
	}
}

// Publish enqueues event without blocking. When the queue is full the
// event is dropped; clients still converge on their next refetch.
func (ep *EventPublisher) Publish(_ context.Context, event domain.ChangeEvent) {
	select {
	case ep.queue <- event:
	default:
		ep.logger.Warn().
			Str("event_type", event.Type).
			Str("transaction_id", event.TransactionID).
			Msg("change queue full, dropping event")
	}
}

// Start delivers queued events until ctx is cancelled. Events still queued
// at that point are flushed before it returns.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("buffer", cap(ep.queue)).
		Int("sinks", len(ep.sinks)).
		Msg("event publisher started")

	for {
		select {
		case <-ctx.Done():
			ep.flush()
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case event := <-ep.queue:
			ep.deliver(ctx, event)
		}
	}
}

func (ep *EventPublisher) flush() {
	ctx := context.Background()
	for {
		select {
		case event := <-ep.queue:
			ep.deliver(ctx, event)
		default:
			return
		}
	}
}

// deliver hands event to every sink. A failing sink does not stop the others.
func (ep *EventPublisher) deliver(ctx context.Context, event domain.ChangeEvent) {
	ctx, cancel := context.WithTimeout(ctx, ep.timeout)
	defer cancel()

	for _, sink := range ep.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			ep.logger.Error().
				Err(err).
				Str("event_type", event.Type).
				Str("transaction_id", event.TransactionID).
				Msg("failed to publish event")
		}
	}
}

// LogSink writes every event to the log.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a new LogSink.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Publish logs the event.
func (s *LogSink) Publish(_ context.Context, event domain.ChangeEvent) error {
	s.logger.Debug().
		Str("event_type", event.Type).
		Str("transaction_id", event.TransactionID).
		Strs("months", event.Months).
		Time("at", event.At).
		Msg("change published")
	return nil
}
