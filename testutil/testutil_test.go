package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestRNG_Deterministic(t *testing.T) {
	lo, hi := UnitCube()
	a := NewRNG(42).UniformPoints(10, lo, hi)
	b := NewRNG(42).UniformPoints(10, lo, hi)
	assert.Equal(t, a, b)

	for _, p := range a {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.Less(t, p.X, 1.0)
	}
}

func TestTriangulatedPlane(t *testing.T) {
	mp := TriangulatedPlane("plane", 2, 3, 0.5)
	assert.Len(t, mp.Nodes, 12)
	assert.Len(t, mp.Conditions, 12)
	assert.Empty(t, mp.Elements)
	assert.Equal(t, r3.Vec{X: 1, Y: 1.5}, mp.Nodes[11].Coords)
}

func TestPolyLine(t *testing.T) {
	mp := PolyLine("line", []r3.Vec{{}, {X: 1}, {X: 2}})
	require.Len(t, mp.Elements, 2)
	assert.Equal(t, 2, mp.Elements[1].Nodes[0].ID)
}

func TestExactInRadius(t *testing.T) {
	mp := NodeCloud("cloud", []r3.Vec{{}, {X: 1}, {X: 3}})
	objs := NodeObjects(mp)

	assert.Equal(t, []int{1, 2}, ExactInRadius(r3.Vec{X: 0.5}, objs, 0.5))
	assert.Empty(t, ExactInRadius(r3.Vec{X: 10}, objs, 1))
	assert.Equal(t, []int{1, 2, 3}, IDs(objs))
}
