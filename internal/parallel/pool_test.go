package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hupe1980/meshmap/resource"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scratch struct {
	id   int
	seen []int
}

func TestForEach(t *testing.T) {
	t.Run("SumReduction", func(t *testing.T) {
		p := New(4)
		sum, err := ForEach(context.Background(), p, 1000, func() int { return 0 }, func(i int, _ int) int {
			return i
		})
		require.NoError(t, err)
		assert.Equal(t, 999*1000/2, sum)
	})

	t.Run("Empty", func(t *testing.T) {
		calls := 0
		sum, err := ForEach(context.Background(), New(4), 0, func() int { calls++; return 0 }, func(int, int) int { return 1 })
		require.NoError(t, err)
		assert.Zero(t, sum)
		assert.Zero(t, calls)
	})

	t.Run("OneScratchPerWorker", func(t *testing.T) {
		p := New(3)

		var mu sync.Mutex
		var created []*scratch
		newScratch := func() *scratch {
			mu.Lock()
			defer mu.Unlock()
			s := &scratch{id: len(created)}
			created = append(created, s)
			return s
		}

		var inUse sync.Map
		sum, err := ForEach(context.Background(), p, 100, newScratch, func(i int, s *scratch) int {
			// a scratch value is never used by two iterations at the same time
			_, loaded := inUse.LoadOrStore(s.id, true)
			assert.False(t, loaded)
			s.seen = append(s.seen, i)
			inUse.Delete(s.id)
			return 1
		})
		require.NoError(t, err)
		assert.Equal(t, 100, sum)
		assert.Len(t, created, 3)

		total := 0
		for _, s := range created {
			total += len(s.seen)
		}
		assert.Equal(t, 100, total)
	})

	t.Run("FewerItemsThanWorkers", func(t *testing.T) {
		created := atomic.Int32{}
		sum, err := ForEach(context.Background(), New(8), 3, func() int { created.Add(1); return 0 }, func(int, int) int { return 2 })
		require.NoError(t, err)
		assert.Equal(t, 6, sum)
		assert.Equal(t, int32(3), created.Load())
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := ForEach(ctx, New(2), 1000, func() int { return 0 }, func(int, int) int { return 1 })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("ResourceController", func(t *testing.T) {
		rc := resource.NewController(resource.Config{MaxWorkers: 1})
		p := New(4, func(o *Options) { o.ResourceController = rc })

		var running, peak atomic.Int32
		sum, err := ForEach(context.Background(), p, 40, func() int { return 0 }, func(int, int) int {
			cur := running.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			runtime.Gosched()
			running.Add(-1)
			return 1
		})
		require.NoError(t, err)
		assert.Equal(t, 40, sum)
		assert.Equal(t, int32(1), peak.Load())
		assert.Zero(t, rc.BusyWorkers())
	})
}

func TestFor(t *testing.T) {
	out := make([]int, 50)
	require.NoError(t, For(context.Background(), New(0), len(out), func(i int) {
		out[i] = i * i
	}))
	assert.Equal(t, 49*49, out[49])
	assert.Equal(t, 0, out[0])
}

func TestNew_DefaultWorkers(t *testing.T) {
	assert.Equal(t, runtime.GOMAXPROCS(0), New(0).NumWorkers())
	assert.Equal(t, 5, New(5).NumWorkers())
}
