package cache

import (
	"context"
	"sync"
	"time"

	"github.com/1cbyc/view0x/internal/model"
)

type entry struct {
	report    *model.Report
	createdAt time.Time
}

// Memory is the in-process Store. A single lock guards the whole map so a
// concurrent Get never observes a partial Put.
type Memory struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, m: map[string]entry{}}
}

func (c *Memory) Get(_ context.Context, fingerprint string) (*model.Report, bool, error) {
	c.mu.RLock()
	e, ok := c.m[fingerprint]
	c.mu.RUnlock()
	if !ok || time.Since(e.createdAt) > c.ttl {
		return nil, false, nil
	}
	return e.report, true, nil
}

func (c *Memory) Put(_ context.Context, fingerprint string, report *model.Report) error {
	c.mu.Lock()
	c.m[fingerprint] = entry{report: report, createdAt: time.Now()}
	c.mu.Unlock()
	return nil
}

// Expire drops every entry older than the retention window as of now.
func (c *Memory) Expire(_ context.Context, now time.Time) error {
	c.mu.Lock()
	for fp, e := range c.m {
		if now.Sub(e.createdAt) > c.ttl {
			delete(c.m, fp)
		}
	}
	c.mu.Unlock()
	return nil
}

// Len reports the number of live entries, expired or not.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
