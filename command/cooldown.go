package command

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CooldownTracker is an atomic check-and-record rate limiter keyed by
// (broadcaster, cooldown key). The check and the record are a single
// critical section: two concurrent calls for the same key can never both
// be allowed within one window.
//
// Entries are evicted by a TTL sweep so the map stays bounded over the
// process lifetime.
type CooldownTracker struct {
	mu       sync.Mutex
	lastUsed map[cooldownKey]time.Time
	ttl      time.Duration
}

type cooldownKey struct {
	broadcasterID string
	key           string
}

// DefaultCooldownTTL is how long an idle cooldown entry survives before
// the sweeper drops it. It must exceed the longest configured command
// cooldown or entries could be evicted mid-window.
const DefaultCooldownTTL = time.Hour

// NewCooldownTracker returns a tracker with the given entry TTL
// (DefaultCooldownTTL when ttl <= 0).
func NewCooldownTracker(ttl time.Duration) *CooldownTracker {
	if ttl <= 0 {
		ttl = DefaultCooldownTTL
	}
	return &CooldownTracker{
		lastUsed: make(map[cooldownKey]time.Time),
		ttl:      ttl,
	}
}

// Allow records a use and returns true when the key is off cooldown.
// A cooldown of zero or less always allows. On rejection the last-used
// instant is left unchanged.
func (t *CooldownTracker) Allow(broadcasterID, key string, now time.Time, cooldown time.Duration) bool {
	k := cooldownKey{broadcasterID: broadcasterID, key: key}
	t.mu.Lock()
	defer t.mu.Unlock()
	if cooldown > 0 {
		if last, ok := t.lastUsed[k]; ok && now.Sub(last) < cooldown {
			return false
		}
	}
	t.lastUsed[k] = now
	return true
}

// Len reports the number of tracked entries.
func (t *CooldownTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lastUsed)
}

// StartSweeper launches the TTL eviction loop. It stops when ctx is
// cancelled.
func (t *CooldownTracker) StartSweeper(ctx context.Context) {
	interval := t.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := t.sweep(time.Now()); n > 0 {
					slog.Debug("cooldown sweep", slog.Int("evicted", n))
				}
			}
		}
	}()
}

func (t *CooldownTracker) sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	evicted := 0
	for k, last := range t.lastUsed {
		if now.Sub(last) > t.ttl {
			delete(t.lastUsed, k)
			evicted++
		}
	}
	return evicted
}
