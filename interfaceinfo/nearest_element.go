package interfaceinfo

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/distance"
	"github.com/hupe1980/meshmap/mesh"
	"github.com/hupe1980/meshmap/model"
)

// DefaultLocalCoordTolerance is the tolerance on local coordinates used to
// decide whether a projection lies inside a geometry.
const DefaultLocalCoordTolerance = 1e-6

// Compile-time checks to ensure NearestElement satisfies the record interfaces.
var (
	_ Info         = (*NearestElement)(nil)
	_ Interpolator = (*NearestElement)(nil)
)

// NearestElement matches a query point with the origin geometry it projects into.
//
// Exact acceptance requires the orthogonal projection onto the geometry to lie
// inside it: lines use the segment, triangles the plane of the triangle, and
// polygons with more nodes a triangle fan around their first node. Among the
// accepted geometries the smallest projection distance wins.
//
// The approximation keeps the closest node of the candidate geometries.
type NearestElement struct {
	Base

	tol     float64
	weights []float64 // weights of object.Geometry.Nodes
}

// NewNearestElement returns a prototype record using tol on local coordinates.
// A non-positive tol selects DefaultLocalCoordTolerance.
func NewNearestElement(tol float64) *NearestElement {
	if tol <= 0 {
		tol = DefaultLocalCoordTolerance
	}
	return &NearestElement{Base: NewBase(r3.Vec{}, -1, 0), tol: tol}
}

// Create implements Info.
func (ne *NearestElement) Create(coords r3.Vec, localSystemIndex, sourceRank int) Info {
	return &NearestElement{Base: NewBase(coords, localSystemIndex, sourceRank), tol: ne.tol}
}

// ObjectType implements Info.
func (ne *NearestElement) ObjectType() model.ConstructionType { return model.GeometryCenter }

// Tolerance returns the tolerance on local coordinates.
func (ne *NearestElement) Tolerance() float64 { return ne.tol }

// ProcessSearchResult implements Info.
func (ne *NearestElement) ProcessSearchResult(obj *model.SpatialObject) {
	g := obj.Geometry
	if g == nil {
		return
	}

	d, weights, ok := ne.project(g)
	if !ok {
		return
	}

	if ne.acceptExact(obj, d) {
		ne.weights = weights
	}
}

// ProcessSearchResultForApproximation implements Info.
func (ne *NearestElement) ProcessSearchResultForApproximation(obj *model.SpatialObject) {
	g := obj.Geometry
	if g == nil || len(g.Nodes) == 0 {
		return
	}

	_, idx, d := distance.ClosestPoint(ne.coords, g.Points())
	if ne.acceptApproximation(obj, d) {
		ne.weights = make([]float64, len(g.Nodes))
		ne.weights[idx] = 1
	}
}

// ShapeFunctions implements Interpolator.
func (ne *NearestElement) ShapeFunctions() ([]int, []float64) {
	if ne.object == nil {
		return nil, nil
	}

	nodes := ne.object.Geometry.Nodes
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}

	return ids, ne.weights
}

// project returns the projection distance and the node weights if the query
// projects inside g.
func (ne *NearestElement) project(g *mesh.Geometry) (float64, []float64, bool) {
	q := ne.coords

	switch len(g.Nodes) {
	case 0:
		return 0, nil, false
	case 1:
		return distance.Euclidean(q, g.Nodes[0].Coords), []float64{1}, true
	case 2:
		p := distance.ProjectOnSegment(q, g.Nodes[0].Coords, g.Nodes[1].Coords)
		if !p.Inside(ne.tol) {
			return 0, nil, false
		}
		t := p.Local[0]
		return p.Distance, []float64{1 - t, t}, true
	}

	// triangle fan around the first node
	found := false
	var best distance.Projection
	var bestFan int
	a := g.Nodes[0].Coords
	for i := 1; i+1 < len(g.Nodes); i++ {
		p := distance.ProjectOnTriangle(q, a, g.Nodes[i].Coords, g.Nodes[i+1].Coords)
		if !p.Inside(ne.tol) {
			continue
		}
		if !found || p.Distance < best.Distance {
			best, bestFan, found = p, i, true
		}
	}

	if !found {
		return 0, nil, false
	}

	u, v := best.Local[0], best.Local[1]
	weights := make([]float64, len(g.Nodes))
	weights[0] = 1 - u - v
	weights[bestFan] = u
	weights[bestFan+1] = v

	return best.Distance, weights, true
}
