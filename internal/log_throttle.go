package internal

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// LogThrottle limits how often a repeated log message is allowed through. Each message kind is
// identified by a key; after a key is allowed, it is refused until the interval has elapsed.
type LogThrottle struct {
	seen *cache.Cache
}

// NewLogThrottle creates a LogThrottle with the given interval.
func NewLogThrottle(interval time.Duration) *LogThrottle {
	// There are only a handful of keys, so expired items are simply overwritten rather than
	// being cleaned up by a janitor goroutine.
	return &LogThrottle{seen: cache.New(interval, 0)}
}

// Allow returns true if a message with this key may be logged now.
func (t *LogThrottle) Allow(key string) bool {
	return t.seen.Add(key, struct{}{}, cache.DefaultExpiration) == nil
}
