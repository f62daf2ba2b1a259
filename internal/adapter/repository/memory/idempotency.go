package memory

import (
	"context"
	"sync"
	"time"
)

const processing = "processing"

type idempotencyEntry struct {
	response  []byte
	expiresAt time.Time
}

// IdempotencyStore is the in-process fallback when no redis is configured.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	now     func() time.Time
}

// NewIdempotencyStore creates an empty store.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: make(map[string]idempotencyEntry), now: time.Now}
}

// CheckAndSet mirrors the redis store: an unseen key is claimed with a
// placeholder, a seen key returns what was stored.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return true, e.response, nil
	}

	if response == nil {
		response = []byte(processing)
	}
	s.entries[key] = idempotencyEntry{response: response, expiresAt: now.Add(ttl)}
	return false, nil, nil
}

// Update stores the final response of key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = idempotencyEntry{response: response, expiresAt: s.now().Add(ttl)}
	return nil
}

// Release forgets key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
