package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/mesh"
)

func TestConstructionType(t *testing.T) {
	assert.NoError(t, NodeCoords.Validate())
	assert.NoError(t, GeometryCenter.Validate())

	err := ConstructionType(7).Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedConstruction)
	assert.Equal(t, "Unknown(7)", ConstructionType(7).String())
}

func TestSpatialObject(t *testing.T) {
	t.Run("Node", func(t *testing.T) {
		n := mesh.NewNode(4, 1, 2, 3)
		o := NewNodeObject(n)
		assert.Equal(t, 4, o.ID())
		assert.Equal(t, NodeCoords, o.Kind)

		// coordinates are a snapshot
		n.Coords = r3.Vec{}
		assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, o.Coords)
	})

	t.Run("Geometry", func(t *testing.T) {
		g := mesh.NewGeometry(9, mesh.NewNode(1, 0, 0, 0), mesh.NewNode(2, 2, 0, 0))
		o := NewGeometryObject(g)
		assert.Equal(t, 9, o.ID())
		assert.Equal(t, GeometryCenter, o.Kind)
		assert.Equal(t, r3.Vec{X: 1}, o.Coords)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, -1, (&SpatialObject{}).ID())
	})
}
