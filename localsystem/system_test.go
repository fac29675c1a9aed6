package localsystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/interfaceinfo"
	"github.com/hupe1980/meshmap/mesh"
	"github.com/hupe1980/meshmap/model"
)

func exact(d float64, id int) interfaceinfo.Info {
	info := interfaceinfo.NewNearestNeighbor().Create(r3.Vec{}, 0, 0)
	info.ProcessSearchResult(model.NewNodeObject(mesh.NewNode(id, d, 0, 0)))
	return info
}

func approximate(d float64, id int) interfaceinfo.Info {
	g := mesh.NewGeometry(id, mesh.NewNode(1, d, 0, 0), mesh.NewNode(2, d, 1, 0), mesh.NewNode(3, d+1, 0, 0))
	info := interfaceinfo.NewNearestElement(0).Create(r3.Vec{}, 0, 0)
	info.ProcessSearchResultForApproximation(model.NewGeometryObject(g))
	return info
}

func TestSystem(t *testing.T) {
	s := New(r3.Vec{X: 1, Y: 2, Z: 3})
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, s.Coordinates())
	assert.False(t, s.HasInterfaceInfo())

	_, ok := s.Best()
	assert.False(t, ok)

	s.AddInterfaceInfo(exact(1, 1))
	assert.True(t, s.HasInterfaceInfo())
	assert.Len(t, s.InterfaceInfos(), 1)
}

func TestSystem_Best(t *testing.T) {
	tests := []struct {
		name     string
		infos    []interfaceinfo.Info
		expected int
	}{
		{"Single", []interfaceinfo.Info{exact(1, 7)}, 7},
		{"SmallestDistance", []interfaceinfo.Info{exact(2, 1), exact(0.5, 2), exact(1, 3)}, 2},
		{"TieKeepsFirst", []interfaceinfo.Info{exact(1, 1), exact(1, 2)}, 1},
		{"ExactBeforeApproximation", []interfaceinfo.Info{approximate(0.1, 1), exact(3, 2)}, 2},
		{"ApproximationsOnly", []interfaceinfo.Info{approximate(2, 1), approximate(1, 2)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(r3.Vec{})
			for _, info := range tt.infos {
				s.AddInterfaceInfo(info)
			}

			best, ok := s.Best()
			require.True(t, ok)
			assert.Equal(t, tt.expected, best.ObjectID())
		})
	}
}

func TestFromPoints(t *testing.T) {
	pts := []r3.Vec{{X: 1}, {Y: 1}}
	systems := FromPoints(pts)
	require.Len(t, systems, 2)
	assert.Equal(t, pts[1], systems[1].Coordinates())
}
