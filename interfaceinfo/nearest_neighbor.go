package interfaceinfo

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/distance"
	"github.com/hupe1980/meshmap/model"
)

// Compile-time checks to ensure NearestNeighbor satisfies the record interfaces.
var (
	_ Info         = (*NearestNeighbor)(nil)
	_ Interpolator = (*NearestNeighbor)(nil)
)

// NearestNeighbor matches a query point with the closest origin node.
// Every node candidate is an exact match; ties keep the first candidate.
type NearestNeighbor struct {
	Base
}

// NewNearestNeighbor returns a prototype record.
func NewNearestNeighbor() *NearestNeighbor {
	return &NearestNeighbor{Base: NewBase(r3.Vec{}, -1, 0)}
}

// Create implements Info.
func (nn *NearestNeighbor) Create(coords r3.Vec, localSystemIndex, sourceRank int) Info {
	return &NearestNeighbor{Base: NewBase(coords, localSystemIndex, sourceRank)}
}

// ObjectType implements Info.
func (nn *NearestNeighbor) ObjectType() model.ConstructionType { return model.NodeCoords }

// ProcessSearchResult implements Info.
func (nn *NearestNeighbor) ProcessSearchResult(obj *model.SpatialObject) {
	if obj.Node == nil {
		return
	}
	nn.acceptExact(obj, distance.Euclidean(nn.coords, obj.Coords))
}

// ProcessSearchResultForApproximation implements Info. Nodes have no relaxed
// acceptance, so this is a no-op.
func (nn *NearestNeighbor) ProcessSearchResultForApproximation(*model.SpatialObject) {}

// ShapeFunctions implements Interpolator.
func (nn *NearestNeighbor) ShapeFunctions() ([]int, []float64) {
	if nn.object == nil {
		return nil, nil
	}
	return []int{nn.object.Node.ID}, []float64{1}
}
