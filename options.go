package meshmap

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hupe1980/meshmap/config"
	"github.com/hupe1980/meshmap/index"
	"github.com/hupe1980/meshmap/index/bins"
	"github.com/hupe1980/meshmap/index/flat"
	"github.com/hupe1980/meshmap/resource"
)

// IndexType selects the spatial index built over the origin objects.
type IndexType int

const (
	// IndexBins is a uniform grid of buckets. It is the default.
	IndexBins IndexType = iota
	// IndexFlat scans every object on each query.
	IndexFlat
)

// String returns the name of the index type.
func (t IndexType) String() string {
	switch t {
	case IndexBins:
		return "bins"
	case IndexFlat:
		return "flat"
	default:
		return fmt.Sprintf("IndexType(%d)", int(t))
	}
}

// ParseIndexType returns the index type named s.
func ParseIndexType(s string) (IndexType, error) {
	switch strings.ToLower(s) {
	case "bins", "":
		return IndexBins, nil
	case "flat":
		return IndexFlat, nil
	default:
		return 0, fmt.Errorf("unknown index type %q", s)
	}
}

func (t IndexType) builder() index.Builder {
	if t == IndexFlat {
		return flat.Builder
	}

	return bins.Builder
}

type options struct {
	settings         config.SearchSettings
	indexType        IndexType
	numWorkers       int
	rc               *resource.Controller
	tolerance        float64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Mapper.
type Option func(*options)

// WithSettings sets the search settings. Unset fields are derived from the origin mesh.
func WithSettings(s config.SearchSettings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithIndexType selects the spatial index built over the origin objects.
func WithIndexType(t IndexType) Option {
	return func(o *options) {
		o.indexType = t
	}
}

// WithNumWorkers sets the number of workers of the local search.
// Values <= 0 select runtime.GOMAXPROCS(0).
func WithNumWorkers(n int) Option {
	return func(o *options) {
		o.numWorkers = n
	}
}

// WithResourceController bounds the workers and scratch memory shared by
// every Mapper of the process.
//
// Example:
//
//	rc := resource.NewController(resource.Config{MaxWorkers: 4})
//	a, _ := meshmap.New(fluid, meshmap.ModeNearestNeighbor, meshmap.WithResourceController(rc))
//	b, _ := meshmap.New(solid, meshmap.ModeNearestElement, meshmap.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithTolerance sets the local coordinate tolerance of the projection test
// in ModeNearestElement. Values <= 0 select interfaceinfo.DefaultLocalCoordTolerance.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &meshmap.BasicMetricsCollector{}
//	m, _ := meshmap.New(origin, meshmap.ModeNearestNeighbor, meshmap.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("Exchanges: %d, Avg latency: %dns\n", stats.ExchangeCount, stats.ExchangeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Search progress is only logged for an echo level above 0 in the settings.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		indexType:        IndexBins,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
