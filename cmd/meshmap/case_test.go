package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meshmap"
	"github.com/hupe1980/meshmap/config"
)

const planeCase = `
mode = "nearest_element"

[settings]
search_radius = 1.0
echo_level = 0

[origin]
name = "plane"

[[origin.nodes]]
id = 1
coords = [0.0, 0.0, 0.0]

[[origin.nodes]]
id = 2
coords = [1.0, 0.0, 0.0]

[[origin.nodes]]
id = 3
coords = [1.0, 1.0, 0.0]

[[origin.nodes]]
id = 4
coords = [0.0, 1.0, 0.0]

[[origin.conditions]]
id = 1
nodes = [1, 2, 3]
rank = 0

[[origin.conditions]]
id = 2
nodes = [1, 3, 4]
rank = 1

[[points]]
coords = [0.75, 0.25, 0.5]

[[points]]
coords = [0.25, 0.75, -0.5]

[[points]]
coords = [3.0, 0.0, 0.0]
`

func TestDecodeCase(t *testing.T) {
	cf, err := decodeCase(strings.NewReader(planeCase))
	require.NoError(t, err)

	assert.Equal(t, "nearest_element", cf.Mode)
	assert.Equal(t, "plane", cf.Origin.Name)
	require.NotNil(t, cf.Settings.SearchRadius)
	assert.Equal(t, 1.0, *cf.Settings.SearchRadius)
	assert.Len(t, cf.Origin.Nodes, 4)
	assert.Len(t, cf.Origin.Conditions, 2)
	assert.Len(t, cf.points(), 3)

	t.Run("UnknownField", func(t *testing.T) {
		_, err := decodeCase(strings.NewReader("radius = 1.0\n"))
		assert.Error(t, err)
	})

	t.Run("InvalidSettings", func(t *testing.T) {
		_, err := decodeCase(strings.NewReader("[settings]\nsearch_radius = -1.0\n"))
		assert.ErrorIs(t, err, config.ErrInvalidSettings)
	})

	t.Run("DefaultName", func(t *testing.T) {
		cf, err := decodeCase(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, "origin", cf.Origin.Name)
	})
}

func TestPartition(t *testing.T) {
	cf, err := decodeCase(strings.NewReader(planeCase))
	require.NoError(t, err)

	parts, err := cf.partition(2)
	require.NoError(t, err)
	require.Len(t, parts, 2)

	// nodes round-robin, conditions by their explicit rank
	assert.Len(t, parts[0].LocalNodes(), 2)
	assert.Len(t, parts[1].LocalNodes(), 2)
	require.Len(t, parts[0].LocalConditions(), 1)
	require.Len(t, parts[1].LocalConditions(), 1)
	assert.Equal(t, 1, parts[0].LocalConditions()[0].ID)
	assert.Equal(t, 2, parts[1].LocalConditions()[0].ID)

	// every rank holds the full mesh
	assert.Len(t, parts[1].Nodes, 4)
	assert.Len(t, parts[0].Conditions, 2)

	t.Run("RankOutOfRange", func(t *testing.T) {
		_, err := cf.partition(1)
		assert.ErrorContains(t, err, "rank 1 out of range")
	})

	t.Run("UnknownNode", func(t *testing.T) {
		bad := &caseFile{Origin: originSpec{
			Nodes:    []nodeSpec{{ID: 1}},
			Elements: []geometrySpec{{ID: 1, Nodes: []int{1, 9}}},
		}}
		_, err := bad.partition(1)
		assert.ErrorContains(t, err, "unknown node 9")
	})

	t.Run("DuplicateNode", func(t *testing.T) {
		bad := &caseFile{Origin: originSpec{Nodes: []nodeSpec{{ID: 1}, {ID: 1}}}}
		_, err := bad.partition(1)
		assert.ErrorContains(t, err, "duplicate node id 1")
	})
}

func TestRunCase(t *testing.T) {
	unranked := strings.NewReplacer("rank = 0\n", "", "rank = 1\n", "").Replace(planeCase)

	tests := []struct {
		name  string
		input string
		ranks int
	}{
		{"Serial", unranked, 1},
		{"TwoRanks", planeCase, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf, err := decodeCase(strings.NewReader(tt.input))
			require.NoError(t, err)

			rep, err := runCase(context.Background(), cf, runOptions{
				mode:    meshmap.ModeNearestElement,
				ranks:   tt.ranks,
				workers: 2,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.ranks, rep.Ranks)
			assert.Equal(t, "nearest_element", rep.Mode)
			require.Len(t, rep.Points, 3)
			for i, p := range rep.Points {
				assert.Equal(t, i, p.Index)
				assert.Equal(t, i%tt.ranks, p.Rank)
			}

			for _, i := range []int{0, 1} {
				p := rep.Points[i]
				assert.True(t, p.Found)
				assert.False(t, p.Approximate)
				require.NotNil(t, p.Distance)
				assert.InDelta(t, 0.5, *p.Distance, 1e-12)
			}
			assert.Equal(t, 1, rep.Points[0].ObjectID)
			assert.Equal(t, 2, rep.Points[1].ObjectID)

			far := rep.Points[2]
			assert.True(t, far.Found)
			assert.True(t, far.Approximate)
			assert.Equal(t, 1, far.ObjectID)
			assert.InDelta(t, 2.0, *far.Distance, 1e-12)
			assert.Equal(t, []float64{0, 1, 0}, far.Weights)

			assert.Zero(t, rep.Unmatched)
			assert.False(t, rep.Conforming)
			assert.Equal(t, 3, rep.Iterations)
		})
	}
}
