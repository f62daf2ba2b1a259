package ws

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/auth"
)

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Handler upgrades GET /ws requests and registers the connection with the hub.
type Handler struct {
	hub            *Hub
	verifier       TokenVerifier
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
	logger         zerolog.Logger
}

// NewHandler creates a Handler. A nil verifier accepts anonymous clients;
// an empty origin list accepts any origin.
func NewHandler(hub *Hub, verifier TokenVerifier, allowedOrigins []string, logger zerolog.Logger) *Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	h := &Handler{
		hub:            hub,
		verifier:       verifier,
		allowedOrigins: origins,
		logger:         logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.allowedOrigins) == 0 || h.allowedOrigins[origin] {
		return true
	}
	h.logger.Warn().Str("origin", origin).Msg("websocket connection rejected: origin not allowed")
	return false
}

// ServeHTTP handles the upgrade. The token comes from the "token" query
// parameter or a bearer header.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := &domain.User{ID: "anonymous"}

	if h.verifier != nil {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := h.verifier.Verify(token)
		if err != nil {
			h.logger.Debug().Err(err).Msg("websocket connection rejected: invalid token")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		user = claims.User()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(conn, user.ID, h.hub, h.logger)
	h.hub.Register(client)

	h.logger.Info().Str("client_id", client.ID()).Str("user_id", user.ID).Msg("websocket client connected")

	go client.WritePump()
	go client.ReadPump()
}
