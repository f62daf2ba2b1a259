package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func TestLoggingMiddlewareLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusBadGateway, "error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			r := chi.NewRouter()
			r.Use(NewLoggingMiddleware(zerolog.New(&buf)).Wrap)
			r.Post("/api/mock/transactions", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("{}"))
			})

			req := httptest.NewRequest(http.MethodPost, "/api/mock/transactions", nil)
			req.Header.Set(IdempotencyKeyHeader, "k-1")
			r.ServeHTTP(httptest.NewRecorder(), req)

			var line map[string]any
			if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
				t.Fatalf("decode log line: %v (%s)", err, buf.String())
			}
			if line["level"] != tt.level {
				t.Fatalf("expected level %s, got %v", tt.level, line["level"])
			}
			if line["route"] != "/api/mock/transactions" || line["idempotency_key"] != "k-1" {
				t.Fatalf("unexpected fields: %v", line)
			}
			if line["bytes"] != float64(2) {
				t.Fatalf("expected 2 bytes, got %v", line["bytes"])
			}
		})
	}
}

func TestRecoveryWritesServerError(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/mock/balance", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if rr.Body.String() != `{"error":"Internal server error"}` {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"panic":"boom"`)) {
		t.Fatalf("expected panic to be logged, got %s", buf.String())
	}
}

func TestRecoveryRethrowsAbort(t *testing.T) {
	h := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
