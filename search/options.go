package search

import (
	"log/slog"

	"github.com/hupe1980/meshmap/index"
	"github.com/hupe1980/meshmap/resource"
)

// Option configures an InterfaceCommunicator.
type Option func(*InterfaceCommunicator)

// WithLogger sets the logger. Messages are only emitted for an echo level above 0.
func WithLogger(l *slog.Logger) Option {
	return func(ic *InterfaceCommunicator) {
		if l != nil {
			ic.logger = l
		}
	}
}

// WithMetricsObserver sets the metrics observer.
func WithMetricsObserver(o MetricsObserver) Option {
	return func(ic *InterfaceCommunicator) {
		if o != nil {
			ic.metrics = o
		}
	}
}

// WithIndexBuilder replaces the spatial index built over the origin objects.
// Default: bins.Builder.
func WithIndexBuilder(b index.Builder) Option {
	return func(ic *InterfaceCommunicator) {
		if b != nil {
			ic.buildIndex = b
		}
	}
}

// WithNumWorkers sets the number of workers of the data-parallel loops.
// Default: runtime.GOMAXPROCS(0).
func WithNumWorkers(n int) Option {
	return func(ic *InterfaceCommunicator) {
		ic.numWorkers = n
	}
}

// WithResourceController bounds the workers shared with other searches of the process.
func WithResourceController(rc *resource.Controller) Option {
	return func(ic *InterfaceCommunicator) {
		ic.rc = rc
	}
}
