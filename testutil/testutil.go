package testutil

import (
	"math/rand"
	"slices"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/distance"
	"github.com/hupe1980/meshmap/mesh"
	"github.com/hupe1980/meshmap/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints generates num points uniformly distributed in the box [lo, hi).
func (r *RNG) UniformPoints(num int, lo, hi r3.Vec) []r3.Vec {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := r3.Sub(hi, lo)
	pts := make([]r3.Vec, num)
	for i := range pts {
		pts[i] = r3.Vec{
			X: lo.X + r.rand.Float64()*span.X,
			Y: lo.Y + r.rand.Float64()*span.Y,
			Z: lo.Z + r.rand.Float64()*span.Z,
		}
	}

	return pts
}

// UnitCube returns the corners of the unit cube, handy as [lo, hi) bounds.
func UnitCube() (r3.Vec, r3.Vec) {
	return r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}
}

// NodeCloud builds a model part on rank 0 with one node per point, ids starting at 1.
func NodeCloud(name string, pts []r3.Vec) *mesh.ModelPart {
	mp := mesh.NewModelPart(name, 0)
	for i, p := range pts {
		mp.AddNode(i+1, p.X, p.Y, p.Z)
	}

	return mp
}

// TriangulatedPlane builds an nx by ny grid of squares in the z=0 plane, each
// split into two triangle conditions. Node and condition ids start at 1.
func TriangulatedPlane(name string, nx, ny int, spacing float64) *mesh.ModelPart {
	mp := mesh.NewModelPart(name, 0)

	nodes := make([]*mesh.Node, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			nodes = append(nodes, mp.AddNode(len(nodes)+1, float64(i)*spacing, float64(j)*spacing, 0))
		}
	}

	at := func(i, j int) *mesh.Node { return nodes[i+(nx+1)*j] }

	id := 1
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			mp.AddCondition(id, at(i, j), at(i+1, j), at(i+1, j+1))
			mp.AddCondition(id+1, at(i, j), at(i+1, j+1), at(i, j+1))
			id += 2
		}
	}

	return mp
}

// PolyLine builds line elements connecting consecutive points. Node and element ids start at 1.
func PolyLine(name string, pts []r3.Vec) *mesh.ModelPart {
	mp := NodeCloud(name, pts)
	for i := 0; i+1 < len(mp.Nodes); i++ {
		mp.AddElement(i+1, mp.Nodes[i], mp.Nodes[i+1])
	}

	return mp
}

// NodeObjects wraps every node of mp into a spatial object.
func NodeObjects(mp *mesh.ModelPart) []*model.SpatialObject {
	objs := make([]*model.SpatialObject, len(mp.Nodes))
	for i, n := range mp.Nodes {
		objs[i] = model.NewNodeObject(n)
	}

	return objs
}

// ExactInRadius returns the sorted ids of the objects within radius of q.
func ExactInRadius(q r3.Vec, objects []*model.SpatialObject, radius float64) []int {
	var ids []int
	for _, o := range objects {
		if distance.Euclidean(q, o.Coords) <= radius {
			ids = append(ids, o.ID())
		}
	}
	slices.Sort(ids)

	return ids
}

// IDs returns the sorted ids of objects.
func IDs(objects []*model.SpatialObject) []int {
	ids := make([]int, len(objects))
	for i, o := range objects {
		ids[i] = o.ID()
	}
	slices.Sort(ids)

	return ids
}
