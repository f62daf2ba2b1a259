package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// DefaultChangeChannel is the pub/sub channel change events travel on.
const DefaultChangeChannel = "moneytracker:changes"

// ChangeBus relays change events between server instances over Redis
// pub/sub, so every instance can push them to its own websocket clients.
type ChangeBus struct {
	client  *redis.Client
	channel string
	logger  zerolog.Logger
}

// NewChangeBus creates a ChangeBus on channel.
func NewChangeBus(client *redis.Client, channel string, logger zerolog.Logger) *ChangeBus {
	if channel == "" {
		channel = DefaultChangeChannel
	}
	return &ChangeBus{client: client, channel: channel, logger: logger}
}

// Publish sends event to every subscriber.
func (b *ChangeBus) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Subscribe delivers events to fn until ctx is done. It returns once the
// subscription is confirmed by the server, or with the error that prevented it.
func (b *ChangeBus) Subscribe(ctx context.Context, fn func(context.Context, domain.ChangeEvent)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	go func() {
		defer sub.Close()
		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed change event")
					continue
				}
				fn(ctx, event)
			}
		}
	}()

	return nil
}
