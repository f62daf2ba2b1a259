package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "moneytracker"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Query cache metrics
	CacheLookups       *prometheus.CounterVec
	CacheFetches       *prometheus.CounterVec
	CacheRetries       prometheus.Counter
	CacheInvalidations prometheus.Counter

	// Mutation metrics
	Mutations         *prometheus.CounterVec
	MutationsInFlight *prometheus.GaugeVec
	OptimisticPatches *prometheus.CounterVec
	Rollbacks         *prometheus.CounterVec

	// Change feed metrics
	ChangesPublished *prometheus.CounterVec
	FeedClients      prometheus.Gauge
}

// New creates the metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Cache reads by result (hit, miss, stale)",
			},
			[]string{"result"},
		),
		CacheFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_fetches_total",
				Help:      "Query fetches by outcome",
			},
			[]string{"outcome"},
		),
		CacheRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_fetch_retries_total",
			Help:      "Retried query fetches",
		}),
		CacheInvalidations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_invalidated_entries_total",
			Help:      "Cache entries marked invalid",
		}),

		Mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Settled mutations by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		MutationsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mutations_in_flight",
				Help:      "Mutations started but not settled",
			},
			[]string{"kind"},
		),
		OptimisticPatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "optimistic_patched_entries_total",
				Help:      "Cache entries patched before the server answered",
			},
			[]string{"kind"},
		),
		Rollbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "optimistic_rolled_back_entries_total",
				Help:      "Cache entries restored after a failed mutation",
			},
			[]string{"kind"},
		),

		ChangesPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "changes_published_total",
				Help:      "Change events handed to subscribers by type",
			},
			[]string{"type"},
		),
		FeedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_clients",
			Help:      "Connected websocket change feed clients",
		}),
	}
}

// CacheHit implements cache.Recorder.
func (m *Metrics) CacheHit() { m.CacheLookups.WithLabelValues("hit").Inc() }

// CacheMiss implements cache.Recorder.
func (m *Metrics) CacheMiss() { m.CacheLookups.WithLabelValues("miss").Inc() }

// CacheStale implements cache.Recorder.
func (m *Metrics) CacheStale() { m.CacheLookups.WithLabelValues("stale").Inc() }

// CacheFetch implements cache.Recorder.
func (m *Metrics) CacheFetch(outcome string) { m.CacheFetches.WithLabelValues(outcome).Inc() }

// CacheRetry implements cache.Recorder.
func (m *Metrics) CacheRetry() { m.CacheRetries.Inc() }

// CacheInvalidated implements cache.Recorder.
func (m *Metrics) CacheInvalidated(n int) { m.CacheInvalidations.Add(float64(n)) }

// MutationStarted implements usecase.MutationRecorder.
func (m *Metrics) MutationStarted(kind string) {
	m.MutationsInFlight.WithLabelValues(kind).Inc()
}

// MutationSettled implements usecase.MutationRecorder.
func (m *Metrics) MutationSettled(kind, outcome string) {
	m.MutationsInFlight.WithLabelValues(kind).Dec()
	m.Mutations.WithLabelValues(kind, outcome).Inc()
}

// OptimisticPatched implements usecase.MutationRecorder.
func (m *Metrics) OptimisticPatched(kind string, entries int) {
	m.OptimisticPatches.WithLabelValues(kind).Add(float64(entries))
}

// MutationRolledBack implements usecase.MutationRecorder.
func (m *Metrics) MutationRolledBack(kind string, entries int) {
	m.Rollbacks.WithLabelValues(kind).Add(float64(entries))
}

// ChangePublished counts a change event of typ.
func (m *Metrics) ChangePublished(typ string) {
	m.ChangesPublished.WithLabelValues(typ).Inc()
}
