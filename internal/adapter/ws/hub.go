// Package ws carries the change feed over websockets: a server hub that
// fans committed writes out to connected clients, and a client source that
// turns received events into cache revalidation.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// Peer is one registered subscriber.
type Peer interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Hub tracks connected peers. It is safe for concurrent use.
type Hub struct {
	mu     sync.RWMutex
	peers  map[string]Peer
	logger zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{peers: make(map[string]Peer), logger: logger}
}

// Register adds a peer.
func (h *Hub) Register(p Peer) {
	h.mu.Lock()
	h.peers[p.ID()] = p
	h.mu.Unlock()

	h.logger.Debug().Str("client_id", p.ID()).Msg("websocket client registered")
}

// Unregister removes a peer.
func (h *Hub) Unregister(p Peer) {
	h.mu.Lock()
	_, ok := h.peers[p.ID()]
	delete(h.peers, p.ID())
	h.mu.Unlock()

	if ok {
		h.logger.Debug().Str("client_id", p.ID()).Msg("websocket client unregistered")
	}
}

// Publish sends event to every peer. Slow peers whose buffer is full miss
// the event and are dropped.
func (h *Hub) Publish(_ context.Context, event domain.ChangeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("event_type", event.Type).Msg("failed to serialize event")
		return
	}

	h.mu.RLock()
	peers := make([]Peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.RUnlock()

	for _, p := range peers {
		if err := p.Send(data); err != nil {
			h.logger.Warn().Err(err).Str("client_id", p.ID()).Msg("dropping websocket client")
			h.Unregister(p)
			p.Close()
		}
	}

	h.logger.Debug().
		Str("event_type", event.Type).
		Int("client_count", len(peers)).
		Msg("broadcast event")
}

// ClientCount returns the number of connected peers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects every peer.
func (h *Hub) Close() {
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[string]Peer)
	h.mu.Unlock()

	for _, p := range peers {
		p.Close()
	}
}
