// Package parallel runs data-parallel loops over index ranges on a fixed
// number of workers.
//
// The range [0, n) is split into one contiguous chunk per worker. Each worker
// owns an independent scratch value created up front, so loop bodies never
// share mutable state. Loop bodies return a count that is sum-reduced over all
// workers.
package parallel

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/meshmap/resource"
)

// ctxCheckInterval is the number of iterations between context checks.
const ctxCheckInterval = 64

// Pool describes how many workers a loop may use.
// A Pool holds no goroutines between loops and is safe for concurrent use.
type Pool struct {
	numWorkers int
	rc         *resource.Controller
}

// Options configures a Pool.
type Options struct {
	// ResourceController bounds the workers shared with other pools.
	ResourceController *resource.Controller
}

// New creates a pool with numWorkers workers.
//
// Recommended sizing:
//   - numWorkers <= 0: runtime.GOMAXPROCS(0)
//   - several ranks in one process: share a resource.Controller instead of
//     shrinking numWorkers
func New(numWorkers int, optFns ...func(o *Options)) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Pool{
		numWorkers: numWorkers,
		rc:         opts.ResourceController,
	}
}

// NumWorkers returns the configured number of workers.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// workersFor returns the number of chunks used for a loop of n iterations.
func (p *Pool) workersFor(n int) int {
	return max(1, min(p.numWorkers, n))
}

// ForEach calls fn(i, scratch) for every i in [0, n) and returns the sum of the
// values fn returned. newScratch is called once per worker before any work
// starts; a scratch value is only ever used by the worker that owns it.
//
// Error conditions:
//   - Returns ctx.Err() if the context is cancelled; remaining iterations are skipped
//   - Returns the error of the resource controller if a worker slot cannot be acquired
func ForEach[S any](ctx context.Context, p *Pool, n int, newScratch func() S, fn func(i int, s S) int) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	workers := p.workersFor(n)

	scratch := make([]S, workers)
	for w := range scratch {
		scratch[w] = newScratch()
	}

	if workers == 1 {
		return runChunk(ctx, p.rc, 0, n, scratch[0], fn)
	}

	chunk := (n + workers - 1) / workers

	var sum atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for w := range workers {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}

		g.Go(func() error {
			s, err := runChunk(gctx, p.rc, lo, hi, scratch[w], fn)
			sum.Add(int64(s))
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return int(sum.Load()), err
	}

	return int(sum.Load()), nil
}

// For calls fn(i) for every i in [0, n).
func For(ctx context.Context, p *Pool, n int, fn func(i int)) error {
	_, err := ForEach(ctx, p, n, func() struct{} { return struct{}{} }, func(i int, _ struct{}) int {
		fn(i)
		return 0
	})
	return err
}

func runChunk[S any](ctx context.Context, rc *resource.Controller, lo, hi int, s S, fn func(i int, s S) int) (int, error) {
	if err := rc.AcquireWorker(ctx); err != nil {
		return 0, err
	}
	defer rc.ReleaseWorker()

	sum := 0
	for i := lo; i < hi; i++ {
		if (i-lo)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
		}
		sum += fn(i, s)
	}

	return sum, nil
}
