// Package interfaceinfo provides the query records of the interface search.
//
// An Info is created for one local system that still waits for a result. The
// search feeds it the candidates found within the current radius: first
// through ProcessSearchResult (exact acceptance), then, only if no candidate
// was accepted, through ProcessSearchResultForApproximation.
//
// Implementations:
//   - NearestNeighbor: closest origin node (NodeCoords objects)
//   - NearestElement: orthogonal projection onto origin geometries, with the
//     closest geometry node as approximation (GeometryCenter objects)
package interfaceinfo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/model"
)

// Info is the per-query record of the interface search.
type Info interface {
	// Create returns a fresh record of the same type and configuration.
	Create(coords r3.Vec, localSystemIndex, sourceRank int) Info

	// ObjectType returns how the origin objects must be constructed.
	ObjectType() model.ConstructionType

	// Coordinates returns the query point.
	Coordinates() r3.Vec

	// LocalSystemIndex returns the index of the local system that created the record.
	LocalSystemIndex() int

	// SourceRank returns the rank the query originates from (0 for local queries).
	SourceRank() int

	// ProcessSearchResult evaluates a candidate with the exact acceptance test.
	ProcessSearchResult(obj *model.SpatialObject)

	// ProcessSearchResultForApproximation evaluates a candidate with the relaxed test.
	ProcessSearchResultForApproximation(obj *model.SpatialObject)

	// LocalSearchWasSuccessful reports whether an exact match was accepted.
	LocalSearchWasSuccessful() bool

	// IsApproximation reports whether only an approximate match was accepted.
	IsApproximation() bool

	// Distance returns the distance to the kept match, +Inf without one.
	Distance() float64

	// ObjectID returns the id of the entity of the kept match, -1 without one.
	ObjectID() int
}

// Interpolator is implemented by records that can express their match as
// weights of origin nodes.
type Interpolator interface {
	// ShapeFunctions returns the ids of the origin nodes and their weights.
	// Both are empty without a match.
	ShapeFunctions() ([]int, []float64)
}

// Base holds the state common to every record. It is meant to be embedded.
type Base struct {
	coords           r3.Vec
	localSystemIndex int
	sourceRank       int

	successful    bool
	approximation bool
	distance      float64
	object        *model.SpatialObject
}

// NewBase creates the common record state.
func NewBase(coords r3.Vec, localSystemIndex, sourceRank int) Base {
	return Base{
		coords:           coords,
		localSystemIndex: localSystemIndex,
		sourceRank:       sourceRank,
		distance:         math.Inf(1),
	}
}

func (b *Base) Coordinates() r3.Vec { return b.coords }

func (b *Base) LocalSystemIndex() int { return b.localSystemIndex }

func (b *Base) SourceRank() int { return b.sourceRank }

func (b *Base) LocalSearchWasSuccessful() bool { return b.successful }

func (b *Base) IsApproximation() bool { return b.approximation }

func (b *Base) Distance() float64 { return b.distance }

func (b *Base) ObjectID() int {
	if b.object == nil {
		return -1
	}
	return b.object.ID()
}

// acceptExact keeps obj if it is the first exact match or strictly closer
// than the kept one. It reports whether obj was kept.
func (b *Base) acceptExact(obj *model.SpatialObject, d float64) bool {
	if b.successful && d >= b.distance {
		return false
	}

	b.successful = true
	b.approximation = false
	b.distance = d
	b.object = obj

	return true
}

// acceptApproximation keeps obj as approximation unless an exact match
// exists or a closer approximation was kept.
func (b *Base) acceptApproximation(obj *model.SpatialObject, d float64) bool {
	if b.successful {
		return false
	}
	if b.approximation && d >= b.distance {
		return false
	}

	b.approximation = true
	b.distance = d
	b.object = obj

	return true
}
