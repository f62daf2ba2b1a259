package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsLabelsMatchedRoute(t *testing.T) {
	httpRequestsTotal.Reset()
	httpResponseBytes.Reset()

	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/mock/transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"t1"}`))
	})

	for _, id := range []string{"t1", "t2", "01JABC"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/mock/transactions/"+id, nil))
	}

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/mock/transactions/{id}", "200")
	if got := testutil.ToFloat64(counter); got != 3 {
		t.Fatalf("expected 3 requests under the route pattern, got %v", got)
	}
	if got := testutil.ToFloat64(httpResponseBytes.WithLabelValues("/api/mock/transactions/{id}")); got != 33 {
		t.Fatalf("expected 33 body bytes, got %v", got)
	}
	if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
		t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
	}
}

func TestMetricsFallsBackToNormalizedPath(t *testing.T) {
	httpRequestsTotal.Reset()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	Metrics(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/mock/transactions/t12", nil))

	counter := httpRequestsTotal.WithLabelValues(http.MethodDelete, "/api/mock/transactions/{id}", "404")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"/api/mock/transactions/01JABC", "/api/mock/transactions/{id}"},
		{"/api/mock/transactions/t1/extra", "/api/mock/transactions/{id}/extra"},
		{"/api/mock/transactions/summary", "/api/mock/transactions/summary"},
		{"/api/mock/transactions/", "/api/mock/transactions/"},
		{"/api/mock/balance", "/api/mock/balance"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
