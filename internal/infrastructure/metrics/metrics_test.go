package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)
	m.CacheHit()
	m.MutationStarted("create")

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestCacheRecorder(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()
	m.CacheStale()
	m.CacheFetch("success")
	m.CacheFetch("error")
	m.CacheRetry()
	m.CacheInvalidated(3)

	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); got != 2 {
		t.Fatalf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); got != 1 {
		t.Fatalf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheFetches.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected 1 failed fetch, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheRetries); got != 1 {
		t.Fatalf("expected 1 retry, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheInvalidations); got != 3 {
		t.Fatalf("expected 3 invalidations, got %v", got)
	}
}

func TestMutationRecorder(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.MutationStarted("update")
	m.OptimisticPatched("update", 4)
	if got := testutil.ToFloat64(m.MutationsInFlight.WithLabelValues("update")); got != 1 {
		t.Fatalf("expected one mutation in flight, got %v", got)
	}

	m.MutationRolledBack("update", 4)
	m.MutationSettled("update", "error")

	if got := testutil.ToFloat64(m.MutationsInFlight.WithLabelValues("update")); got != 0 {
		t.Fatalf("expected no mutation in flight, got %v", got)
	}
	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("update", "error")); got != 1 {
		t.Fatalf("expected one failed update, got %v", got)
	}
	if got := testutil.ToFloat64(m.Rollbacks.WithLabelValues("update")); got != 4 {
		t.Fatalf("expected 4 rolled back entries, got %v", got)
	}
}

func TestChangePublished(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ChangePublished("transaction.created")
	m.ChangePublished("transaction.created")

	if got := testutil.ToFloat64(m.ChangesPublished.WithLabelValues("transaction.created")); got != 2 {
		t.Fatalf("expected 2 published changes, got %v", got)
	}
}
