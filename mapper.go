package meshmap

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/comm"
	"github.com/hupe1980/meshmap/interfaceinfo"
	"github.com/hupe1980/meshmap/localsystem"
	"github.com/hupe1980/meshmap/mesh"
	"github.com/hupe1980/meshmap/search"
)

// Mode selects how a point is matched against the origin mesh.
type Mode int

const (
	// ModeNearestNeighbor matches the closest origin node.
	ModeNearestNeighbor Mode = iota
	// ModeNearestElement projects onto the origin elements or conditions and
	// falls back to the closest geometry node outside of them.
	ModeNearestElement
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNearestNeighbor:
		return "nearest_neighbor"
	case ModeNearestElement:
		return "nearest_element"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode returns the mode named s.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "nearest_neighbor", "nn":
		return ModeNearestNeighbor, nil
	case "nearest_element", "ne":
		return ModeNearestElement, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
	}
}

// Match is the result for one query point.
type Match struct {
	// Index is the position of the point in the query.
	Index int
	// Found reports whether any origin entity was matched.
	Found bool
	// Approximate reports whether only an approximation was found.
	Approximate bool
	// ObjectID is the id of the matched node or geometry, -1 without a match.
	ObjectID int
	// Distance to the match, +Inf without a match.
	Distance float64
	// NodeIDs and Weights interpolate the point from origin node values.
	NodeIDs []int
	Weights []float64
}

// Result is the outcome of a mapping.
type Result struct {
	Matches      []Match
	Iterations   int
	Conforming   bool
	SearchRadius float64
}

// Unmatched returns the number of points without a match.
func (r *Result) Unmatched() int {
	n := 0
	for _, m := range r.Matches {
		if !m.Found {
			n++
		}
	}

	return n
}

// Mapper matches points with the entities of an origin mesh.
//
// Mapper is safe for concurrent use. Each call runs its own search.
type Mapper struct {
	origin *mesh.ModelPart
	mode   Mode
	opts   options
}

// New creates a Mapper over origin.
//
// Error conditions:
//   - Returns ErrInvalidOrigin if origin is nil
//   - Returns ErrUnsupportedMode for an unknown mode
//   - Returns *ErrInvalidParameter (matching ErrInvalidSettings) for settings out of range
func New(origin *mesh.ModelPart, mode Mode, optFns ...Option) (*Mapper, error) {
	if origin == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOrigin, search.ErrNilOrigin)
	}
	if mode != ModeNearestNeighbor && mode != ModeNearestElement {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}

	opts := applyOptions(optFns)
	if err := opts.settings.Validate(); err != nil {
		return nil, translateError(err)
	}

	return &Mapper{origin: origin, mode: mode, opts: opts}, nil
}

// Mode returns the mapping mode.
func (m *Mapper) Mode() Mode { return m.mode }

// Origin returns the origin model part.
func (m *Mapper) Origin() *mesh.ModelPart { return m.origin }

// Map matches points against the origin in a single partition.
func (m *Mapper) Map(ctx context.Context, points []r3.Vec) (*Result, error) {
	return m.MapWithComm(ctx, comm.Serial{}, points)
}

// MapWithComm matches the points of this rank against the origin entities
// owned by this rank. Every rank of c must call MapWithComm, with or without
// points, since the search runs collectives.
func (m *Mapper) MapWithComm(ctx context.Context, c comm.Communicator, points []r3.Vec) (*Result, error) {
	if c == nil {
		c = comm.Serial{}
	}

	logger := m.opts.logger.WithModelPart(m.origin.Name).WithMode(m.mode)
	if c.IsDefinedOnThisRank() {
		logger = logger.WithRank(c.Rank())
	}

	systems := localsystem.FromPoints(points)

	ic, err := search.New(m.origin, systems, m.opts.settings,
		search.WithLogger(logger.Logger),
		search.WithMetricsObserver(metricsObserver{mc: m.opts.metricsCollector}),
		search.WithIndexBuilder(m.opts.indexType.builder()),
		search.WithNumWorkers(m.opts.numWorkers),
		search.WithResourceController(m.opts.rc),
	)
	if err != nil {
		err = translateError(err)
		logger.LogMap(ctx, len(points), len(points), 0, err)
		return nil, err
	}

	if err := ic.ExchangeInterfaceData(ctx, c, m.reference()); err != nil {
		err = translateError(err)
		logger.LogMap(ctx, len(points), len(points), ic.Iterations(), err)
		return nil, err
	}

	res := &Result{
		Matches:      make([]Match, len(systems)),
		Iterations:   ic.Iterations(),
		Conforming:   ic.MeshesAreConforming(),
		SearchRadius: ic.SearchRadius(),
	}
	for i, s := range systems {
		res.Matches[i] = matchOf(i, s)
	}

	logger.LogMap(ctx, len(points), res.Unmatched(), res.Iterations, nil)

	return res, nil
}

func (m *Mapper) reference() interfaceinfo.Info {
	if m.mode == ModeNearestElement {
		return interfaceinfo.NewNearestElement(m.opts.tolerance)
	}

	return interfaceinfo.NewNearestNeighbor()
}

func matchOf(i int, s *localsystem.System) Match {
	info, ok := s.Best()
	if !ok {
		return Match{Index: i, ObjectID: -1, Distance: math.Inf(1)}
	}

	match := Match{
		Index:       i,
		Found:       true,
		Approximate: info.IsApproximation(),
		ObjectID:    info.ObjectID(),
		Distance:    info.Distance(),
	}
	if ip, ok := info.(interfaceinfo.Interpolator); ok {
		match.NodeIDs, match.Weights = ip.ShapeFunctions()
	}

	return match
}
