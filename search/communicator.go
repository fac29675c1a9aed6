package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hupe1980/meshmap/comm"
	"github.com/hupe1980/meshmap/config"
	"github.com/hupe1980/meshmap/distance"
	"github.com/hupe1980/meshmap/index"
	"github.com/hupe1980/meshmap/index/bins"
	"github.com/hupe1980/meshmap/interfaceinfo"
	"github.com/hupe1980/meshmap/internal/parallel"
	"github.com/hupe1980/meshmap/localsystem"
	"github.com/hupe1980/meshmap/mesh"
	"github.com/hupe1980/meshmap/model"
	"github.com/hupe1980/meshmap/resource"
)

// fallbackSearchRadius is the initial radius used when every origin object
// lies at the same point and the mesh gives no size estimate.
const fallbackSearchRadius = 1.0

// InterfaceCommunicator matches local systems with the objects of an origin mesh.
//
// An InterfaceCommunicator is NOT thread-safe. It may run several exchanges
// one after the other; systems matched by an earlier exchange are skipped.
type InterfaceCommunicator struct {
	origin   *mesh.ModelPart
	systems  []*localsystem.System
	settings config.SearchSettings

	logger     *slog.Logger
	metrics    MetricsObserver
	buildIndex index.Builder
	numWorkers int
	rc         *resource.Controller
	pool       *parallel.Pool

	// state of one exchange
	objects    []*model.SpatialObject
	index      index.Spatial
	infos      [][]interfaceinfo.Info // records by source rank
	parked     []interfaceinfo.Info   // approximate-only records of the last iteration
	radius     float64
	iterations int
	conforming bool
}

// New creates an InterfaceCommunicator serving systems from origin.
//
// Error conditions:
//   - Returns ErrNilOrigin if origin is nil
//   - Returns config.ErrInvalidSettings (as *config.ErrInvalidParameter) for settings out of range
func New(origin *mesh.ModelPart, systems []*localsystem.System, settings config.SearchSettings, opts ...Option) (*InterfaceCommunicator, error) {
	if origin == nil {
		return nil, ErrNilOrigin
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	ic := &InterfaceCommunicator{
		origin:     origin,
		systems:    systems,
		settings:   settings,
		logger:     slog.New(slog.DiscardHandler),
		metrics:    NoopMetricsObserver{},
		buildIndex: bins.Builder,
	}

	for _, opt := range opts {
		opt(ic)
	}

	ic.pool = parallel.New(ic.numWorkers, func(o *parallel.Options) {
		o.ResourceController = ic.rc
	})

	return ic, nil
}

// Systems returns the local systems served by the communicator.
func (ic *InterfaceCommunicator) Systems() []*localsystem.System { return ic.systems }

// MeshesAreConforming reports whether the last exchange served every system
// with the initial radius. It stays false once the radius grew.
func (ic *InterfaceCommunicator) MeshesAreConforming() bool { return ic.conforming }

// SearchRadius returns the radius of the last search iteration.
func (ic *InterfaceCommunicator) SearchRadius() float64 { return ic.radius }

// Iterations returns the number of search iterations of the last exchange.
func (ic *InterfaceCommunicator) Iterations() int { return ic.iterations }

// searchParameters holds the values derived at the start of an exchange.
type searchParameters struct {
	initRadius    float64
	maxRadius     float64
	factor        float64
	maxIterations int
}

// ExchangeInterfaceData runs the adaptive radius search.
//
// On return every system that was reachable within the final radius holds
// an exact record, and every other system for which the final iteration
// found an approximation holds that approximation. Systems without any
// candidate hold nothing; this is not an error.
//
// Error conditions:
//   - Returns model.ErrUnsupportedConstruction if ref requests an unknown object type
//   - Returns ErrAmbiguousGeometry or ErrMissingGeometry for an unusable origin in GeometryCenter mode
//   - Returns ErrNoInterfaceObjects if no rank holds an origin object
//   - Returns config.ErrInvalidSettings if the radius could never reach the maximum radius
//   - Returns ErrNegativeRadius if an iteration runs with a negative radius
//   - Returns resource.ErrMemoryLimitExceeded if the search scratch exceeds the whole memory limit
//   - Returns ErrFailedOnOtherRank if another rank failed while this one did not
//   - Returns the error of the communicator (e.g. ctx.Err()) if a collective fails
func (ic *InterfaceCommunicator) ExchangeInterfaceData(ctx context.Context, c comm.Communicator, ref interfaceinfo.Info) (err error) {
	start := time.Now()

	ic.iterations = 0
	ic.conforming = false

	defer func() {
		ic.release()
		ic.metrics.OnExchange(time.Since(start), ic.iterations, ic.conforming, err)
	}()

	if err := ic.initializeSearch(ctx, c, ref); err != nil {
		return err
	}

	params, err := ic.initializeSearchParameters(ctx, c)
	if err != nil {
		return err
	}

	ic.radius = params.initRadius
	ic.conforming = true

	// the first iteration runs on every rank, with or without origin objects
	if err := ic.conductSearchIteration(ctx, c, ref); err != nil {
		return err
	}

	for iteration := 2; iteration <= params.maxIterations; iteration++ {
		done, err := ic.AllNeighborsFound(ctx, c)
		if err != nil {
			return err
		}
		if done {
			break
		}

		ic.radius *= params.factor
		ic.conforming = false

		if ic.settings.EchoLevel >= 1 {
			ic.logger.InfoContext(ctx, "search radius was increased, another search iteration is conducted",
				"iteration", iteration,
				"max_iterations", params.maxIterations,
				"radius", ic.radius,
			)
		}

		if err := ic.conductSearchIteration(ctx, c, ref); err != nil {
			return err
		}
	}

	return ic.finalizeSearch(ctx, c)
}

// AllNeighborsFound reports whether every system of every rank holds a record.
// A rank without systems counts as served. Every rank of c must call it.
func (ic *InterfaceCommunicator) AllNeighborsFound(ctx context.Context, c comm.Communicator) (bool, error) {
	found := 1
	for _, s := range ic.systems {
		if !s.HasInterfaceInfo() {
			found = 0
			break
		}
	}

	if c.IsDefinedOnThisRank() {
		var err error
		if found, err = comm.MinAll(ctx, c, found); err != nil {
			return false, err
		}
	}

	return found > 0, nil
}

func (ic *InterfaceCommunicator) initializeSearch(ctx context.Context, c comm.Communicator, ref interfaceinfo.Info) error {
	objects, err := ic.createInterfaceObjectsOrigin(ctx, c, ref.ObjectType())
	if err != nil {
		return err
	}

	ic.objects = objects
	ic.index = nil

	// partitions without a part of the interface have no index
	if len(objects) > 0 {
		idx, err := ic.buildIndex(objects)
		if err != nil {
			return fmt.Errorf("failed to build search structure: %w", err)
		}
		ic.index = idx
	}

	ic.infos = make([][]interfaceinfo.Info, max(1, c.Size()))
	ic.parked = nil

	return nil
}

func (ic *InterfaceCommunicator) createInterfaceObjectsOrigin(ctx context.Context, c comm.Communicator, kind model.ConstructionType) ([]*model.SpatialObject, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	if !c.IsDefinedOnThisRank() {
		return nil, nil
	}

	var objects []*model.SpatialObject

	switch kind {
	case model.NodeCoords:
		nodes := ic.origin.LocalNodes()
		objects = make([]*model.SpatialObject, len(nodes))
		if err := parallel.For(ctx, ic.pool, len(nodes), func(i int) {
			objects[i] = model.NewNodeObject(nodes[i])
		}); err != nil {
			return nil, err
		}

	case model.GeometryCenter:
		geoms, err := ic.originGeometries(ctx, c)
		if err != nil {
			return nil, err
		}

		objects = make([]*model.SpatialObject, len(geoms))
		if err := parallel.For(ctx, ic.pool, len(geoms), func(i int) {
			objects[i] = model.NewGeometryObject(geoms[i])
		}); err != nil {
			return nil, err
		}
	}

	total, err := comm.SumAll(ctx, c, len(objects))
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w %q", ErrNoInterfaceObjects, ic.origin.Name)
	}

	return objects, nil
}

// originGeometries returns the local elements or the local conditions of the
// origin, whichever is used on any rank.
func (ic *InterfaceCommunicator) originGeometries(ctx context.Context, c comm.Communicator) ([]*mesh.Geometry, error) {
	elements := ic.origin.LocalElements()
	conditions := ic.origin.LocalConditions()

	numElements, err := comm.SumAll(ctx, c, len(elements))
	if err != nil {
		return nil, err
	}
	numConditions, err := comm.SumAll(ctx, c, len(conditions))
	if err != nil {
		return nil, err
	}

	switch {
	case numElements > 0 && numConditions > 0:
		return nil, fmt.Errorf("%w in model part %q: %d elements, %d conditions",
			ErrAmbiguousGeometry, ic.origin.Name, len(elements), len(conditions))
	case numElements+numConditions == 0:
		return nil, fmt.Errorf("%w in model part %q", ErrMissingGeometry, ic.origin.Name)
	case numElements > 0:
		return elements, nil
	default:
		return conditions, nil
	}
}

func (ic *InterfaceCommunicator) initializeSearchParameters(ctx context.Context, c comm.Communicator) (searchParameters, error) {
	heuristic, err := ComputeSearchRadius(ctx, c, ic.origin)
	if err != nil {
		return searchParameters{}, err
	}

	params := searchParameters{
		factor:        ic.settings.IncreaseFactor(),
		maxIterations: config.DefaultMinIterations,
	}
	if ic.settings.MaxNumSearchIterations != nil {
		params.maxIterations = *ic.settings.MaxNumSearchIterations
	}

	var localErr error
	if n := len(ic.objects); n > 0 {
		localErr = ic.deriveParameters(&params, heuristic)
		if localErr == nil && ic.settings.EchoLevel > 1 {
			ic.logger.InfoContext(ctx, "search parameters",
				"init_radius", params.initRadius,
				"max_radius", params.maxRadius,
				"estimated_radius", heuristic,
				"max_iterations", params.maxIterations,
				"increase_factor", params.factor,
				"objects", n,
			)
		}
	}

	if err := agreeOnFailure(ctx, c, localErr, fmt.Errorf("%w: %w", ErrFailedOnOtherRank, config.ErrInvalidSettings)); err != nil {
		return searchParameters{}, err
	}
	if !c.IsDefinedOnThisRank() {
		return params, nil
	}

	// ranks without objects keep the default budget; every rank iterates as long as the longest
	if params.maxIterations, err = comm.MaxAll(ctx, c, params.maxIterations); err != nil {
		return searchParameters{}, err
	}

	return params, nil
}

// deriveParameters fills the radii and the iteration budget for a partition
// holding origin objects.
func (ic *InterfaceCommunicator) deriveParameters(p *searchParameters, heuristic float64) error {
	s := ic.settings

	if s.SearchRadius != nil {
		p.initRadius = *s.SearchRadius
	} else {
		p.initRadius = distance.MaxExtent(ic.index.MinPoint(), ic.index.MaxPoint()) / float64(len(ic.objects))
		if p.initRadius < config.Epsilon {
			p.initRadius = heuristic
		}
		if p.initRadius < config.Epsilon {
			p.initRadius = fallbackSearchRadius
		}
	}

	p.maxRadius = heuristic
	if s.MaxSearchRadius != nil {
		p.maxRadius = *s.MaxSearchRadius
	}
	// a configured maximum radius below the estimate is overridden
	p.maxRadius = max(p.maxRadius, heuristic, p.initRadius)

	// a constant radius is only valid if it already is the maximum radius
	switch {
	case p.factor < 1:
		return &config.ErrInvalidParameter{
			Name:   "search_radius_increase_factor",
			Value:  p.factor,
			Reason: fmt.Sprintf("radius %g would shrink with every iteration", p.initRadius),
		}
	case p.factor == 1 && p.initRadius < p.maxRadius:
		return &config.ErrInvalidParameter{
			Name:   "search_radius_increase_factor",
			Value:  p.factor,
			Reason: fmt.Sprintf("radius %g would never grow to the maximum search radius %g", p.initRadius, p.maxRadius),
		}
	}

	if s.MaxNumSearchIterations == nil && p.maxRadius > p.initRadius {
		steps := math.Ceil(logBase(p.maxRadius, p.factor)-logBase(p.initRadius, p.factor)) + 1
		p.maxIterations = max(config.DefaultMinIterations, int(steps))
	}

	return nil
}

// agreeOnFailure lets every rank of c fail as soon as one rank failed
// locally. A rank that failed returns localErr, every other rank returns
// peerErr. Every rank of c must call it.
func agreeOnFailure(ctx context.Context, c comm.Communicator, localErr, peerErr error) error {
	if !c.IsDefinedOnThisRank() {
		return localErr
	}

	failed := 0
	if localErr != nil {
		failed = 1
	}

	failed, err := comm.MaxAll(ctx, c, failed)
	switch {
	case localErr != nil:
		return localErr
	case err != nil:
		return err
	case failed > 0:
		return peerErr
	default:
		return nil
	}
}

func logBase(v, base float64) float64 {
	return math.Log(v) / math.Log(base)
}

func (ic *InterfaceCommunicator) finalizeSearch(ctx context.Context, c comm.Communicator) error {
	for _, info := range ic.parked {
		s := ic.systems[info.LocalSystemIndex()]
		if !s.HasInterfaceInfo() {
			s.AddInterfaceInfo(info)
		}
	}

	ic.release()

	if c.IsDefinedOnThisRank() {
		return c.Barrier(ctx)
	}

	return nil
}

// release drops the state of the exchange.
func (ic *InterfaceCommunicator) release() {
	for i := range ic.infos {
		ic.infos[i] = nil
	}
	ic.parked = nil
	ic.objects = nil
	ic.index = nil
}
