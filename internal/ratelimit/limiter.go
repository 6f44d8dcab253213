// Package ratelimit provides a small TTL-keyed trigger guard. It exists to
// suppress repeated side effects from a noisy signal recomputed every few
// seconds, e.g. the risk trigger firing auto top-ups.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Limiter allows each key to fire at most once per window. Entries expire
// on their own; no manual sweep is needed.
type Limiter struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, time.Time]
}

// New creates a limiter with the given window. size bounds how many distinct
// keys are tracked at once.
func New(window time.Duration, size int) *Limiter {
	return &Limiter{
		seen: expirable.NewLRU[string, time.Time](size, nil, window),
	}
}

// Allow reports whether key may fire now. The first call for a key within a
// window returns true and arms the guard; later calls return false until the
// entry expires.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen.Get(key); ok {
		return false
	}
	l.seen.Add(key, time.Now())
	return true
}
