package cache

// Recorder receives cache events for metrics.
type Recorder interface {
	CacheHit()
	CacheMiss()
	CacheStale()
	CacheFetch(outcome string)
	CacheRetry()
	CacheInvalidated(n int)
}

// Fetch outcomes reported to Recorder.CacheFetch.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

type nopRecorder struct{}

func (nopRecorder) CacheHit() {}
func (nopRecorder) CacheMiss() {}
func (nopRecorder) CacheStale() {}
func (nopRecorder) CacheFetch(string) {}
func (nopRecorder) CacheRetry() {}
func (nopRecorder) CacheInvalidated(int) {}
