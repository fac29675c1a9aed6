package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})
	ctx := context.Background()

	require.NoError(t, c.AcquireWorker(ctx))
	require.NoError(t, c.AcquireWorker(ctx))
	assert.Equal(t, int64(2), c.BusyWorkers())

	// third slot blocks until timeout
	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireWorker(tctx), context.DeadlineExceeded)
	assert.Equal(t, int64(2), c.BusyWorkers())

	c.ReleaseWorker()
	require.NoError(t, c.AcquireWorker(ctx))
	c.ReleaseWorker()
	c.ReleaseWorker()
	assert.Zero(t, c.BusyWorkers())
}

func TestController_DefaultWorkers(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(1), c.MaxWorkers())
}

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MaxWorkers: 1, MemoryLimitBytes: 100})
	ctx := context.Background()

	require.NoError(t, c.AcquireMemory(ctx, 60))
	assert.Equal(t, int64(60), c.MemoryUsage())

	// the remaining budget is too small, so the second reservation waits
	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(tctx, 50), context.DeadlineExceeded)
	assert.Equal(t, int64(60), c.MemoryUsage())

	c.ReleaseMemory(60)
	require.NoError(t, c.AcquireMemory(ctx, 100))
	assert.Equal(t, int64(100), c.MemoryUsage())
	c.ReleaseMemory(100)
}

func TestController_MemoryWaitsForRelease(t *testing.T) {
	c := NewController(Config{MaxWorkers: 1, MemoryLimitBytes: 100})
	ctx := context.Background()

	require.NoError(t, c.AcquireMemory(ctx, 50))

	released := make(chan struct{})
	go func() {
		defer close(released)
		time.Sleep(50 * time.Millisecond)
		c.ReleaseMemory(50)
	}()

	require.NoError(t, c.AcquireMemory(ctx, 100))
	<-released
	assert.Equal(t, int64(100), c.MemoryUsage())
	c.ReleaseMemory(100)
}

func TestController_MemoryAboveLimit(t *testing.T) {
	c := NewController(Config{MaxWorkers: 1, MemoryLimitBytes: 100})

	// never satisfiable, so no wait
	assert.ErrorIs(t, c.AcquireMemory(context.Background(), 101), ErrMemoryLimitExceeded)
	assert.Zero(t, c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.AcquireMemory(context.Background(), 1<<40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	assert.NoError(t, c.AcquireWorker(context.Background()))
	c.ReleaseWorker()
	assert.NoError(t, c.AcquireMemory(context.Background(), 10))
	c.ReleaseMemory(10)
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.BusyWorkers())
	assert.Zero(t, c.MaxWorkers())
}
