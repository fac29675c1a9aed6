package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/mesh"
)

// ErrUnsupportedConstruction is returned for a ConstructionType outside the supported set.
var ErrUnsupportedConstruction = errors.New("type of interface object construction not implemented")

// ConstructionType describes how the coordinates of a SpatialObject were derived.
type ConstructionType int

const (
	NodeCoords ConstructionType = iota
	GeometryCenter
)

func (c ConstructionType) String() string {
	switch c {
	case NodeCoords:
		return "NodeCoords"
	case GeometryCenter:
		return "GeometryCenter"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Validate returns ErrUnsupportedConstruction for unknown values.
func (c ConstructionType) Validate() error {
	switch c {
	case NodeCoords, GeometryCenter:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedConstruction, c)
	}
}

// SpatialObject is a point in spatial search standing for a mesh entity.
type SpatialObject struct {
	Coords r3.Vec
	Kind   ConstructionType

	// Exactly one of Node and Geometry is set, matching Kind.
	Node     *mesh.Node
	Geometry *mesh.Geometry
}

// NewNodeObject wraps a node.
func NewNodeObject(n *mesh.Node) *SpatialObject {
	return &SpatialObject{Coords: n.Coords, Kind: NodeCoords, Node: n}
}

// NewGeometryObject wraps a geometry, positioned at its center.
func NewGeometryObject(g *mesh.Geometry) *SpatialObject {
	return &SpatialObject{Coords: g.Center(), Kind: GeometryCenter, Geometry: g}
}

// ID returns the id of the wrapped entity.
func (o *SpatialObject) ID() int {
	if o.Node != nil {
		return o.Node.ID
	}
	if o.Geometry != nil {
		return o.Geometry.ID
	}

	return -1
}

// String returns a string representation of the object.
func (o *SpatialObject) String() string {
	return fmt.Sprintf("Obj(%s:%d @ %.6g,%.6g,%.6g)", o.Kind, o.ID(), o.Coords.X, o.Coords.Y, o.Coords.Z)
}
