package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/distance"
)

// ModelPart is the portion of a mesh held by one partition, ghosts included.
type ModelPart struct {
	Name       string
	Rank       int
	Nodes      []*Node
	Elements   []*Geometry
	Conditions []*Geometry
}

// NewModelPart creates an empty model part for the given rank.
func NewModelPart(name string, rank int) *ModelPart {
	return &ModelPart{Name: name, Rank: rank}
}

// AddNode appends a node and returns it.
func (mp *ModelPart) AddNode(id int, x, y, z float64) *Node {
	n := &Node{ID: id, Coords: r3.Vec{X: x, Y: y, Z: z}, Rank: mp.Rank}
	mp.Nodes = append(mp.Nodes, n)
	return n
}

// AddElement appends an element built from nodes and returns it.
func (mp *ModelPart) AddElement(id int, nodes ...*Node) *Geometry {
	g := &Geometry{ID: id, Nodes: nodes, Rank: mp.Rank}
	mp.Elements = append(mp.Elements, g)
	return g
}

// AddCondition appends a condition built from nodes and returns it.
func (mp *ModelPart) AddCondition(id int, nodes ...*Node) *Geometry {
	g := &Geometry{ID: id, Nodes: nodes, Rank: mp.Rank}
	mp.Conditions = append(mp.Conditions, g)
	return g
}

// LocalNodes returns the nodes owned by this partition.
func (mp *ModelPart) LocalNodes() []*Node {
	local := make([]*Node, 0, len(mp.Nodes))
	for _, n := range mp.Nodes {
		if n.Rank == mp.Rank {
			local = append(local, n)
		}
	}

	return local
}

// LocalElements returns the elements owned by this partition.
func (mp *ModelPart) LocalElements() []*Geometry {
	return localGeometries(mp.Elements, mp.Rank)
}

// LocalConditions returns the conditions owned by this partition.
func (mp *ModelPart) LocalConditions() []*Geometry {
	return localGeometries(mp.Conditions, mp.Rank)
}

func localGeometries(geoms []*Geometry, rank int) []*Geometry {
	local := make([]*Geometry, 0, len(geoms))
	for _, g := range geoms {
		if g.Rank == rank {
			local = append(local, g)
		}
	}

	return local
}

// MaxEdgeLength returns the largest edge length of the given geometries.
func MaxEdgeLength(geoms []*Geometry) float64 {
	var maxLen float64
	for _, g := range geoms {
		maxLen = max(maxLen, g.MaxEdgeLength())
	}

	return maxLen
}

// NodeCloudDiameter returns the diagonal of the bounding box of the nodes,
// an upper bound of the largest distance between two nodes.
func NodeCloudDiameter(nodes []*Node) float64 {
	if len(nodes) == 0 {
		return 0
	}

	pts := make([]r3.Vec, len(nodes))
	for i, n := range nodes {
		pts[i] = n.Coords
	}

	box := distance.BoundingBox(pts)
	return r3.Norm(r3.Sub(box.Max, box.Min))
}
