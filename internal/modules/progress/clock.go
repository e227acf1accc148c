package progress

import (
	"sync"
	"time"
)

// Clock hands out UTC timestamps that never go backwards within a process,
// even if the wall clock does. Values are truncated to microseconds to match
// what Postgres stores, so reads return exactly what was written.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC().Truncate(time.Microsecond)
	if t.Before(c.last) {
		t = c.last
	}
	c.last = t
	return t
}
