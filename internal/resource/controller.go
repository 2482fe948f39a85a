package resource

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentSearches caps segment searches in flight across all queries.
	// If 0, unlimited.
	MaxConcurrentSearches int64

	// ScanLimitPerSec is the maximum number of candidates requested from
	// segments per second. If 0, unlimited.
	ScanLimitPerSec int64
}

// Controller manages search concurrency and scan throughput.
type Controller struct {
	cfg Config

	searchSem *semaphore.Weighted // nil if unlimited
	inFlight  atomic.Int64

	scanLimiter *rate.Limiter // nil if unlimited
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxConcurrentSearches > 0 {
		c.searchSem = semaphore.NewWeighted(cfg.MaxConcurrentSearches)
	}

	if cfg.ScanLimitPerSec > 0 {
		c.scanLimiter = rate.NewLimiter(rate.Limit(cfg.ScanLimitPerSec), int(cfg.ScanLimitPerSec))
	}

	return c
}

// Config returns the configured limits.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireSearch reserves a segment search slot.
// Blocks if all slots are busy.
func (c *Controller) AcquireSearch(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.searchSem != nil {
		if err := c.searchSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	c.inFlight.Add(1)
	return nil
}

// TryAcquireSearch attempts to reserve a segment search slot without blocking.
func (c *Controller) TryAcquireSearch() bool {
	if c == nil {
		return true
	}
	if c.searchSem != nil && !c.searchSem.TryAcquire(1) {
		return false
	}
	c.inFlight.Add(1)
	return true
}

// ReleaseSearch releases a segment search slot.
func (c *Controller) ReleaseSearch() {
	if c == nil {
		return
	}
	if c.searchSem != nil {
		c.searchSem.Release(1)
	}
	c.inFlight.Add(-1)
}

// InFlight returns the number of segment searches currently holding a slot.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// AcquireScan waits until the scan limit allows n more candidates.
// Requests larger than one second of budget are clamped to the burst size.
func (c *Controller) AcquireScan(ctx context.Context, n int) error {
	if c == nil || c.scanLimiter == nil || n <= 0 {
		return nil
	}
	return c.scanLimiter.WaitN(ctx, min(n, c.scanLimiter.Burst()))
}

// TryAcquireScan attempts to acquire scan tokens without blocking.
// Returns true if tokens were acquired, false otherwise.
func (c *Controller) TryAcquireScan(n int) bool {
	if c == nil || c.scanLimiter == nil || n <= 0 {
		return true
	}
	return c.scanLimiter.AllowN(time.Now(), min(n, c.scanLimiter.Burst()))
}
