package cache

import (
	"math"
	"time"
)

// Class is the volatility class a read declares at definition time.
type Class int

const (
	// Realtime data is stale as soon as it lands.
	Realtime Class = iota
	Short
	Medium
	Long
	// Static data never goes stale on its own; only invalidation refreshes it.
	Static
)

// Forever is the stale time of Static data.
const Forever = time.Duration(math.MaxInt64)

var staleTimes = map[Class]time.Duration{
	Realtime: 0,
	Short:    30 * time.Second,
	Medium:   60 * time.Second,
	Long:     5 * time.Minute,
	Static:   Forever,
}

// StaleTime returns how long data of this class is trusted.
func (c Class) StaleTime() time.Duration {
	d, ok := staleTimes[c]
	if !ok {
		return 0
	}
	return d
}

// IsStale reports whether data written at updatedAt has outlived the class.
func (c Class) IsStale(updatedAt, now time.Time) bool {
	if c == Static {
		return false
	}
	return now.Sub(updatedAt) >= c.StaleTime()
}

func (c Class) String() string {
	switch c {
	case Realtime:
		return "realtime"
	case Short:
		return "short"
	case Medium:
		return "medium"
	case Long:
		return "long"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}
