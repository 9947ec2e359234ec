package runner

import (
	"sync"
	"time"
)

// ShouldRefresh is the time-gated cache policy for expensive fetches: refresh
// when the value has never been set or the interval has fully elapsed.
func ShouldRefresh(lastFetch time.Time, interval time.Duration, hasValue bool, now time.Time) bool {
	if !hasValue {
		return true
	}
	return now.Sub(lastFetch) > interval
}

// EquityCache holds account-level equity shared by every symbol loop. Refresh
// is single-flight: one loop fetches per interval boundary, the rest keep
// reading the prior value while the fetch is in progress.
type EquityCache struct {
	mu         sync.Mutex
	total      float64
	available  float64
	fetchedAt  time.Time
	set        bool
	refreshing bool
}

func NewEquityCache() *EquityCache {
	return &EquityCache{}
}

// Get returns the cached equity values. ok is false until the first
// successful refresh.
func (c *EquityCache) Get() (total, available float64, fetchedAt time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total, c.available, c.fetchedAt, c.set
}

// TryBeginRefresh claims the refresh when the value is stale and nobody else
// is already fetching. A true return obliges the caller to finish with
// FinishRefresh or CancelRefresh.
func (c *EquityCache) TryBeginRefresh(interval time.Duration, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refreshing || !ShouldRefresh(c.fetchedAt, interval, c.set, now) {
		return false
	}
	c.refreshing = true
	return true
}

// FinishRefresh publishes a fetched value and releases the refresh claim.
func (c *EquityCache) FinishRefresh(total, available float64, at time.Time) {
	c.mu.Lock()
	c.total = total
	c.available = available
	c.fetchedAt = at
	c.set = true
	c.refreshing = false
	c.mu.Unlock()
}

// CancelRefresh releases the claim after a failed fetch, leaving the cached
// value (and its staleness) untouched.
func (c *EquityCache) CancelRefresh() {
	c.mu.Lock()
	c.refreshing = false
	c.mu.Unlock()
}
