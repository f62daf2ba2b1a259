package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

// KeyMapper lists the cache prefixes a change event makes stale.
type KeyMapper func(domain.ChangeEvent) []querykey.Key

// TokenSource supplies the session token sent when dialing.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithSourceToken authenticates the connection with tokens from ts.
func WithSourceToken(ts TokenSource) SourceOption {
	return func(s *Source) { s.tokens = ts }
}

// WithSourceLogger sets the source logger.
func WithSourceLogger(l zerolog.Logger) SourceOption {
	return func(s *Source) { s.logger = l }
}

// WithReconnectBackOff replaces the reconnect schedule.
func WithReconnectBackOff(newBackOff func() backoff.BackOff) SourceOption {
	return func(s *Source) { s.newBackOff = newBackOff }
}

// Source is a cache.EventSource fed by the server change feed. It emits one
// remote-change event per stale prefix and a reconnect event whenever the
// connection comes back after a drop, since events may have been missed.
type Source struct {
	url        string
	keys       KeyMapper
	tokens     TokenSource
	dialer     *websocket.Dialer
	newBackOff func() backoff.BackOff
	logger     zerolog.Logger
}

var _ cache.EventSource = (*Source)(nil)

// NewSource creates a source dialing wsURL.
func NewSource(wsURL string, keys KeyMapper, opts ...SourceOption) *Source {
	s := &Source{
		url:        wsURL,
		keys:       keys,
		dialer:     websocket.DefaultDialer,
		newBackOff: defaultReconnectBackOff,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultReconnectBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// FeedURL derives the websocket endpoint from an http(s) API base URL.
func FeedURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http", "":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Events implements cache.EventSource.
func (s *Source) Events(ctx context.Context) <-chan cache.Event {
	out := make(chan cache.Event)
	go s.run(ctx, out)
	return out
}

func (s *Source) run(ctx context.Context, out chan<- cache.Event) {
	defer close(out)

	b := backoff.WithContext(s.newBackOff(), ctx)
	connectedBefore := false

	for ctx.Err() == nil {
		conn, err := s.dial(ctx)
		if err != nil {
			wait := b.NextBackOff()
			if wait == backoff.Stop {
				return
			}
			s.logger.Warn().Err(err).Dur("retry_in", wait).Msg("change feed unavailable")
			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				return
			}
		}

		b.Reset()
		if connectedBefore && !emit(ctx, out, cache.Event{Kind: cache.EventReconnect}) {
			conn.Close()
			return
		}
		connectedBefore = true

		s.consume(ctx, conn, out)
	}
}

func (s *Source) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if s.tokens != nil {
		token, err := s.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, _, err := s.dialer.DialContext(ctx, s.url, header)
	return conn, err
}

// consume reads events until the connection fails or ctx is done.
func (s *Source) consume(ctx context.Context, conn *websocket.Conn, out chan<- cache.Event) {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		stop()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn().Err(err).Msg("change feed disconnected")
			}
			return
		}

		var ev domain.ChangeEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.logger.Warn().Err(err).Msg("ignoring malformed change event")
			continue
		}

		for _, k := range s.keys(ev) {
			if !emit(ctx, out, cache.Event{Kind: cache.EventRemoteChange, Prefix: k}) {
				return
			}
		}
	}
}

func emit(ctx context.Context, out chan<- cache.Event, ev cache.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
