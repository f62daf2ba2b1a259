package cache

import (
	"time"

	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

type snapshotEntry struct {
	key       querykey.Key
	data        any
	updatedAt   time.Time
	invalidated bool
}

// Snapshot is a point-in-time copy of every populated entry under a prefix.
type Snapshot struct {
	prefix  querykey.Key
	entries []snapshotEntry
}

// Len returns the number of captured entries.
func (sn Snapshot) Len() int {
	return len(sn.entries)
}

// Data returns the captured value of key.
func (sn Snapshot) Data(key querykey.Key) (any, bool) {
	for _, se := range sn.entries {
		if se.key.Equal(key) {
			return se.data, true
		}
	}
	return nil, false
}

// Snapshot captures every entry under prefix that holds data.
func (s *Store) Snapshot(prefix querykey.Key) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sn := Snapshot{prefix: prefix.Clone()}
	for _, e := range s.entries {
		if !e.hasData || !e.key.HasPrefix(prefix) {
			continue
		}
		sn.entries = append(sn.entries, snapshotEntry{
			key:         e.key.Clone(),
			data:        e.data,
			updatedAt:   e.updatedAt,
			invalidated: e.invalidated,
		})
	}
	return sn
}

// Restore writes every captured entry back verbatim, recreating entries
// collected since the snapshot was taken.
func (s *Store) Restore(sn Snapshot) int {
	s.mu.Lock()
	var listeners []func()
	for _, se := range sn.entries {
		e := s.entryLocked(se.key)
		e.data = se.data
		e.hasData = true
		e.err = nil
		e.status = StatusSuccess
		e.updatedAt = se.updatedAt
		e.invalidated = se.invalidated
		e.lastUsed = s.now()
		listeners = append(listeners, listenersOf(e)...)
	}
	s.mu.Unlock()

	notify(listeners)
	s.logger.Debug().Stringer("prefix", sn.prefix).Int("entries", len(sn.entries)).Msg("cache restored")
	return len(sn.entries)
}
