package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dinhcongdat866/moneytracker/internal/backend"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayHeader marks a response served from the idempotency store.
	ReplayHeader = "X-Idempotency-Replay"

	idempotencyTTL = 24 * time.Hour
	processing     = "processing"
)

// storedResponse is what a replay needs to answer like the first call.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays the response of a repeated keyed write.
type IdempotencyMiddleware struct {
	store backend.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store backend.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = idempotencyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(IdempotencyKeyHeader)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := r.Method + " " + r.URL.Path + " " + header

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			if len(cached) == 0 || string(cached) == processing {
				writeJSONError(w, http.StatusConflict, "request with this idempotency key is in progress")
				return
			}
			var stored storedResponse
			if err := json.Unmarshal(cached, &stored); err != nil {
				writeJSONError(w, http.StatusInternalServerError, "corrupt idempotency record")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(ReplayHeader, "true")
			w.WriteHeader(stored.Status)
			if len(stored.Body) > 0 && string(stored.Body) != "null" {
				w.Write(stored.Body)
			}
			return
		}

		recorder := newResponseRecorder(w)
		recorder.capture = &bytes.Buffer{}
		next.ServeHTTP(recorder, r)

		ctx := context.WithoutCancel(r.Context())
		if recorder.status < 200 || recorder.status >= 300 {
			if err := m.store.Release(ctx, key); err != nil {
				log.Warn().Err(err).Str("key", header).Msg("failed to release idempotency key")
			}
			return
		}

		record, err := json.Marshal(storedResponse{Status: recorder.status, Body: recorder.capture.Bytes()})
		if err == nil {
			err = m.store.Update(ctx, key, record, m.ttl)
		}
		if err != nil {
			log.Warn().Err(err).Str("key", header).Msg("failed to store idempotent response")
		}
	})
}
