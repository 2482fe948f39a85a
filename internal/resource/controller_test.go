package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Searches(t *testing.T) {
	c := NewController(Config{MaxConcurrentSearches: 2})
	ctx := context.Background()

	require.NoError(t, c.AcquireSearch(ctx))
	require.NoError(t, c.AcquireSearch(ctx))
	assert.Equal(t, int64(2), c.InFlight())

	// All slots busy
	assert.False(t, c.TryAcquireSearch())

	c.ReleaseSearch()
	assert.Equal(t, int64(1), c.InFlight())
	assert.True(t, c.TryAcquireSearch())

	c.ReleaseSearch()
	c.ReleaseSearch()
	assert.Zero(t, c.InFlight())
}

func TestController_SearchBlocksUntilCanceled(t *testing.T) {
	c := NewController(Config{MaxConcurrentSearches: 1})
	require.NoError(t, c.AcquireSearch(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.AcquireSearch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(1), c.InFlight())
}

func TestController_UnlimitedSearches(t *testing.T) {
	c := NewController(Config{})
	for i := 0; i < 100; i++ {
		require.NoError(t, c.AcquireSearch(context.Background()))
	}
	assert.Equal(t, int64(100), c.InFlight())
	assert.True(t, c.TryAcquireSearch())
}

func TestController_Scan(t *testing.T) {
	c := NewController(Config{ScanLimitPerSec: 100})

	// Burst is one second of budget.
	assert.True(t, c.TryAcquireScan(100))
	assert.False(t, c.TryAcquireScan(50))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireScan(ctx, 100))
}

func TestController_ScanClampsToBurst(t *testing.T) {
	c := NewController(Config{ScanLimitPerSec: 10})

	// Larger than the burst: clamped instead of failing outright.
	require.NoError(t, c.AcquireScan(context.Background(), 1_000_000))
}

func TestController_UnlimitedScan(t *testing.T) {
	c := NewController(Config{})
	assert.True(t, c.TryAcquireScan(1<<30))
	assert.NoError(t, c.AcquireScan(context.Background(), 1<<30))
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.AcquireSearch(context.Background()))
	assert.True(t, c.TryAcquireSearch())
	c.ReleaseSearch()
	assert.Zero(t, c.InFlight())
	assert.NoError(t, c.AcquireScan(context.Background(), 10))
	assert.True(t, c.TryAcquireScan(10))
	assert.Equal(t, Config{}, c.Config())
}
