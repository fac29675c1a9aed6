// Package mesh provides the minimal mesh abstraction the search engine consumes:
// nodes with coordinates, geometries (elements and conditions) built from nodes,
// and model parts grouping them per partition.
//
// Entities carry the rank of the partition that owns them. Entities owned by
// another rank are ghosts; the search only ever indexes the local subset.
package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/distance"
)

// Node is a mesh node.
type Node struct {
	ID     int
	Coords r3.Vec
	Rank   int // owning partition
}

// NewNode creates a node owned by rank 0.
func NewNode(id int, x, y, z float64) *Node {
	return &Node{ID: id, Coords: r3.Vec{X: x, Y: y, Z: z}}
}

// Geometry is an element or condition described by its nodes.
type Geometry struct {
	ID    int
	Nodes []*Node
	Rank  int // owning partition
}

// NewGeometry creates a geometry owned by rank 0.
func NewGeometry(id int, nodes ...*Node) *Geometry {
	return &Geometry{ID: id, Nodes: nodes}
}

// Center returns the arithmetic mean of the node coordinates.
func (g *Geometry) Center() r3.Vec {
	if len(g.Nodes) == 0 {
		return r3.Vec{}
	}

	var c r3.Vec
	for _, n := range g.Nodes {
		c = r3.Add(c, n.Coords)
	}

	return r3.Scale(1/float64(len(g.Nodes)), c)
}

// Points returns the node coordinates in node order.
func (g *Geometry) Points() []r3.Vec {
	pts := make([]r3.Vec, len(g.Nodes))
	for i, n := range g.Nodes {
		pts[i] = n.Coords
	}

	return pts
}

// MaxEdgeLength returns the largest distance between any two nodes of the geometry.
func (g *Geometry) MaxEdgeLength() float64 {
	var maxLen float64
	for i := 0; i < len(g.Nodes)-1; i++ {
		for j := i + 1; j < len(g.Nodes); j++ {
			maxLen = max(maxLen, distance.Euclidean(g.Nodes[i].Coords, g.Nodes[j].Coords))
		}
	}

	return maxLen
}
