// This file implements the fluent builder API for creating and configuring Mappers.
// Builders are immutable - each method returns a new builder with the updated configuration.

package meshmap

import (
	"github.com/hupe1980/meshmap/config"
	"github.com/hupe1980/meshmap/mesh"
	"github.com/hupe1980/meshmap/resource"
)

// NearestNeighbor creates a builder matching points with the closest origin node.
//
// Example:
//
//	m, err := meshmap.NearestNeighbor(origin).
//	    SearchRadius(0.1).
//	    MaxSearchRadius(2.0).
//	    Workers(4).
//	    Build()
func NearestNeighbor(origin *mesh.ModelPart) MapperBuilder {
	return MapperBuilder{origin: origin, mode: ModeNearestNeighbor}
}

// NearestElement creates a builder projecting points onto the origin
// elements or conditions.
//
// Example:
//
//	m, err := meshmap.NearestElement(origin).
//	    Tolerance(1e-8).
//	    IncreaseFactor(1.5).
//	    Build()
func NearestElement(origin *mesh.ModelPart) MapperBuilder {
	return MapperBuilder{origin: origin, mode: ModeNearestElement}
}

// MapperBuilder is an immutable fluent builder for creating Mappers.
// Each method returns a new builder with the updated configuration.
type MapperBuilder struct {
	origin     *mesh.ModelPart
	mode       Mode
	settings   config.SearchSettings
	indexType  IndexType
	numWorkers int
	rc         *resource.Controller
	tolerance  float64
	logger     *Logger
	metrics    MetricsCollector
}

// Settings replaces every search setting at once.
func (b MapperBuilder) Settings(s config.SearchSettings) MapperBuilder {
	b.settings = s
	return b
}

// SearchRadius sets the initial search radius.
func (b MapperBuilder) SearchRadius(r float64) MapperBuilder {
	b.settings.SearchRadius = config.Float(r)
	return b
}

// MaxSearchRadius sets the radius the search stops growing at.
func (b MapperBuilder) MaxSearchRadius(r float64) MapperBuilder {
	b.settings.MaxSearchRadius = config.Float(r)
	return b
}

// IncreaseFactor sets the factor the radius grows by per iteration.
func (b MapperBuilder) IncreaseFactor(f float64) MapperBuilder {
	b.settings.SearchRadiusIncreaseFactor = config.Float(f)
	return b
}

// MaxIterations sets the iteration budget.
func (b MapperBuilder) MaxIterations(n int) MapperBuilder {
	b.settings.MaxNumSearchIterations = config.Int(n)
	return b
}

// EchoLevel sets the verbosity of the search log.
func (b MapperBuilder) EchoLevel(level int) MapperBuilder {
	b.settings.EchoLevel = level
	return b
}

// Index selects the spatial index.
func (b MapperBuilder) Index(t IndexType) MapperBuilder {
	b.indexType = t
	return b
}

// Workers sets the number of workers of the local search.
func (b MapperBuilder) Workers(n int) MapperBuilder {
	b.numWorkers = n
	return b
}

// ResourceController shares worker and memory limits with other Mappers.
func (b MapperBuilder) ResourceController(rc *resource.Controller) MapperBuilder {
	b.rc = rc
	return b
}

// Tolerance sets the local coordinate tolerance of the projection test.
// Only used by NearestElement.
func (b MapperBuilder) Tolerance(tol float64) MapperBuilder {
	b.tolerance = tol
	return b
}

// Logger sets the logger.
func (b MapperBuilder) Logger(l *Logger) MapperBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector.
func (b MapperBuilder) Metrics(mc MetricsCollector) MapperBuilder {
	b.metrics = mc
	return b
}

// Build creates the Mapper.
func (b MapperBuilder) Build() (*Mapper, error) {
	opts := []Option{
		WithSettings(b.settings),
		WithIndexType(b.indexType),
		WithNumWorkers(b.numWorkers),
		WithResourceController(b.rc),
		WithTolerance(b.tolerance),
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}

	return New(b.origin, b.mode, opts...)
}
