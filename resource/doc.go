// Package resource implements a Controller bounding the resources used by
// parallel search loops.
//
// Several ranks of an in-process distributed search each run their own
// data-parallel loops. Sharing one Controller between them caps the total
// number of busy workers and the memory held by their scratch buffers:
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers:       int64(runtime.GOMAXPROCS(0)),
//	    MemoryLimitBytes: 256 << 20,
//	})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
