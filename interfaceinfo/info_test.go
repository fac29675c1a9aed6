package interfaceinfo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/mesh"
	"github.com/hupe1980/meshmap/model"
)

func TestNearestNeighbor(t *testing.T) {
	proto := NewNearestNeighbor()
	assert.Equal(t, model.NodeCoords, proto.ObjectType())

	t.Run("Create", func(t *testing.T) {
		info := proto.Create(r3.Vec{X: 1}, 5, 2)
		assert.Equal(t, r3.Vec{X: 1}, info.Coordinates())
		assert.Equal(t, 5, info.LocalSystemIndex())
		assert.Equal(t, 2, info.SourceRank())
		assert.False(t, info.LocalSearchWasSuccessful())
		assert.False(t, info.IsApproximation())
		assert.True(t, math.IsInf(info.Distance(), 1))
		assert.Equal(t, -1, info.ObjectID())
	})

	t.Run("KeepsClosest", func(t *testing.T) {
		info := proto.Create(r3.Vec{}, 0, 0)
		info.ProcessSearchResult(model.NewNodeObject(mesh.NewNode(1, 2, 0, 0)))
		info.ProcessSearchResult(model.NewNodeObject(mesh.NewNode(2, 0.5, 0, 0)))
		info.ProcessSearchResult(model.NewNodeObject(mesh.NewNode(3, 1, 0, 0)))

		require.True(t, info.LocalSearchWasSuccessful())
		assert.Equal(t, 2, info.ObjectID())
		assert.InDelta(t, 0.5, info.Distance(), 1e-12)

		ids, w := info.(Interpolator).ShapeFunctions()
		assert.Equal(t, []int{2}, ids)
		assert.Equal(t, []float64{1}, w)
	})

	t.Run("TieKeepsFirst", func(t *testing.T) {
		info := proto.Create(r3.Vec{X: 1, Y: 1, Z: 1}, 0, 0)
		info.ProcessSearchResult(model.NewNodeObject(mesh.NewNode(7, 1, 1, 1)))
		info.ProcessSearchResult(model.NewNodeObject(mesh.NewNode(8, 1, 1, 1)))

		assert.Equal(t, 7, info.ObjectID())
		assert.Zero(t, info.Distance())
	})

	t.Run("IgnoresGeometries", func(t *testing.T) {
		info := proto.Create(r3.Vec{}, 0, 0)
		info.ProcessSearchResult(model.NewGeometryObject(mesh.NewGeometry(1, mesh.NewNode(1, 0, 0, 0))))
		info.ProcessSearchResultForApproximation(model.NewNodeObject(mesh.NewNode(1, 0, 0, 0)))

		assert.False(t, info.LocalSearchWasSuccessful())
		assert.False(t, info.IsApproximation())
	})
}

func triangle(id int) *mesh.Geometry {
	return mesh.NewGeometry(id,
		mesh.NewNode(10*id+1, 0, 0, 0),
		mesh.NewNode(10*id+2, 1, 0, 0),
		mesh.NewNode(10*id+3, 0, 1, 0),
	)
}

func TestNearestElement(t *testing.T) {
	proto := NewNearestElement(0)
	assert.Equal(t, model.GeometryCenter, proto.ObjectType())
	assert.Equal(t, DefaultLocalCoordTolerance, proto.Tolerance())

	t.Run("ProjectionInsideTriangle", func(t *testing.T) {
		info := proto.Create(r3.Vec{X: 0.25, Y: 0.5, Z: 0.3}, 1, 0)
		info.ProcessSearchResult(model.NewGeometryObject(triangle(1)))

		require.True(t, info.LocalSearchWasSuccessful())
		assert.False(t, info.IsApproximation())
		assert.InDelta(t, 0.3, info.Distance(), 1e-12)
		assert.Equal(t, 1, info.ObjectID())

		ids, w := info.(Interpolator).ShapeFunctions()
		assert.Equal(t, []int{11, 12, 13}, ids)
		require.Len(t, w, 3)
		assert.InDelta(t, 0.25, w[0], 1e-12)
		assert.InDelta(t, 0.25, w[1], 1e-12)
		assert.InDelta(t, 0.5, w[2], 1e-12)
	})

	t.Run("ProjectionOutsideNeedsApproximation", func(t *testing.T) {
		info := proto.Create(r3.Vec{X: 2, Y: 2}, 0, 0)
		obj := model.NewGeometryObject(triangle(1))
		info.ProcessSearchResult(obj)
		require.False(t, info.LocalSearchWasSuccessful())

		info.ProcessSearchResultForApproximation(obj)
		assert.False(t, info.LocalSearchWasSuccessful())
		assert.True(t, info.IsApproximation())
		assert.InDelta(t, math.Sqrt(5), info.Distance(), 1e-12)

		ids, w := info.(Interpolator).ShapeFunctions()
		assert.Equal(t, []int{11, 12, 13}, ids)
		assert.Equal(t, []float64{0, 1, 0}, w)
	})

	t.Run("ClosestProjectionWins", func(t *testing.T) {
		far := mesh.NewGeometry(2,
			mesh.NewNode(21, 0, 0, 1),
			mesh.NewNode(22, 1, 0, 1),
			mesh.NewNode(23, 0, 1, 1),
		)

		info := proto.Create(r3.Vec{X: 0.1, Y: 0.1, Z: 0.8}, 0, 0)
		info.ProcessSearchResult(model.NewGeometryObject(triangle(1)))
		info.ProcessSearchResult(model.NewGeometryObject(far))

		assert.Equal(t, 2, info.ObjectID())
		assert.InDelta(t, 0.2, info.Distance(), 1e-12)
	})

	t.Run("Line", func(t *testing.T) {
		line := mesh.NewGeometry(3, mesh.NewNode(1, 0, 0, 0), mesh.NewNode(2, 4, 0, 0))

		info := proto.Create(r3.Vec{X: 1, Y: 1}, 0, 0)
		info.ProcessSearchResult(model.NewGeometryObject(line))
		require.True(t, info.LocalSearchWasSuccessful())
		assert.InDelta(t, 1.0, info.Distance(), 1e-12)

		_, w := info.(Interpolator).ShapeFunctions()
		assert.InDelta(t, 0.75, w[0], 1e-12)
		assert.InDelta(t, 0.25, w[1], 1e-12)
	})

	t.Run("Quad", func(t *testing.T) {
		quad := mesh.NewGeometry(4,
			mesh.NewNode(1, 0, 0, 0),
			mesh.NewNode(2, 1, 0, 0),
			mesh.NewNode(3, 1, 1, 0),
			mesh.NewNode(4, 0, 1, 0),
		)

		info := proto.Create(r3.Vec{X: 0.2, Y: 0.9, Z: -0.5}, 0, 0)
		info.ProcessSearchResult(model.NewGeometryObject(quad))
		require.True(t, info.LocalSearchWasSuccessful())
		assert.InDelta(t, 0.5, info.Distance(), 1e-12)

		_, w := info.(Interpolator).ShapeFunctions()
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
		assert.Zero(t, w[1])
	})

	t.Run("ExactBlocksApproximation", func(t *testing.T) {
		info := proto.Create(r3.Vec{X: 0.1, Y: 0.1}, 0, 0)
		obj := model.NewGeometryObject(triangle(1))
		info.ProcessSearchResult(obj)
		info.ProcessSearchResultForApproximation(obj)

		assert.True(t, info.LocalSearchWasSuccessful())
		assert.False(t, info.IsApproximation())
		assert.InDelta(t, 0.0, info.Distance(), 1e-12)
	})

	t.Run("IgnoresNodes", func(t *testing.T) {
		info := proto.Create(r3.Vec{}, 0, 0)
		info.ProcessSearchResult(model.NewNodeObject(mesh.NewNode(1, 0, 0, 0)))
		info.ProcessSearchResultForApproximation(model.NewNodeObject(mesh.NewNode(1, 0, 0, 0)))
		assert.False(t, info.LocalSearchWasSuccessful())
		assert.False(t, info.IsApproximation())

		_, w := info.(Interpolator).ShapeFunctions()
		assert.Empty(t, w)
	})

	t.Run("CreateKeepsTolerance", func(t *testing.T) {
		info := NewNearestElement(0.1).Create(r3.Vec{}, 0, 0)
		assert.Equal(t, 0.1, info.(*NearestElement).Tolerance())
	})
}
