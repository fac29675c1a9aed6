package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/config"
	"github.com/hupe1980/meshmap/mesh"
)

// caseFile is a mapping case: an origin mesh, the points to map and the
// search settings.
//
//	mode = "nearest_element"
//
//	[settings]
//	search_radius = 0.1
//
//	[origin]
//	name = "interface"
//
//	[[origin.nodes]]
//	id = 1
//	coords = [0.0, 0.0, 0.0]
//
//	[[origin.conditions]]
//	id = 1
//	nodes = [1, 2, 3]
//
//	[[points]]
//	coords = [0.2, 0.2, 0.1]
type caseFile struct {
	Mode     string                `toml:"mode"`
	Settings config.SearchSettings `toml:"settings"`
	Origin   originSpec            `toml:"origin"`
	Points   []pointSpec           `toml:"points"`
}

type originSpec struct {
	Name       string         `toml:"name"`
	Nodes      []nodeSpec     `toml:"nodes"`
	Elements   []geometrySpec `toml:"elements"`
	Conditions []geometrySpec `toml:"conditions"`
}

// nodeSpec is an origin node. Rank is the owning partition; without it
// nodes are distributed round-robin.
type nodeSpec struct {
	ID     int        `toml:"id"`
	Coords [3]float64 `toml:"coords"`
	Rank   *int       `toml:"rank,omitempty"`
}

// geometrySpec is an element or condition. Without a rank it is owned by
// the owner of its first node.
type geometrySpec struct {
	ID    int   `toml:"id"`
	Nodes []int `toml:"nodes"`
	Rank  *int  `toml:"rank,omitempty"`
}

type pointSpec struct {
	Coords [3]float64 `toml:"coords"`
}

func decodeCase(r io.Reader) (*caseFile, error) {
	var cf caseFile

	d := toml.NewDecoder(r)
	d.DisallowUnknownFields()
	if err := d.Decode(&cf); err != nil {
		return nil, fmt.Errorf("failed to decode case: %w", err)
	}

	if err := cf.Settings.Validate(); err != nil {
		return nil, err
	}

	if cf.Origin.Name == "" {
		cf.Origin.Name = "origin"
	}

	return &cf, nil
}

func loadCase(path string) (*caseFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open case %s: %w", path, err)
	}
	defer f.Close()

	return decodeCase(f)
}

// points returns the query points in case order.
func (cf *caseFile) points() []r3.Vec {
	pts := make([]r3.Vec, len(cf.Points))
	for i, p := range cf.Points {
		pts[i] = vec(p.Coords)
	}

	return pts
}

// partition builds the origin model part seen by each of size ranks. Every
// rank holds all entities; ownership decides which of them it searches.
func (cf *caseFile) partition(size int) ([]*mesh.ModelPart, error) {
	owner := func(rank *int, fallback int) (int, error) {
		if rank == nil {
			return fallback % size, nil
		}
		if *rank < 0 || *rank >= size {
			return 0, fmt.Errorf("rank %d out of range [0, %d)", *rank, size)
		}
		return *rank, nil
	}

	nodeOwner := make(map[int]int, len(cf.Origin.Nodes))
	for i, n := range cf.Origin.Nodes {
		if _, dup := nodeOwner[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %d", n.ID)
		}
		r, err := owner(n.Rank, i)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
		nodeOwner[n.ID] = r
	}

	parts := make([]*mesh.ModelPart, size)
	for rank := range parts {
		mp := mesh.NewModelPart(cf.Origin.Name, rank)

		nodes := make(map[int]*mesh.Node, len(cf.Origin.Nodes))
		for _, n := range cf.Origin.Nodes {
			node := &mesh.Node{ID: n.ID, Coords: vec(n.Coords), Rank: nodeOwner[n.ID]}
			nodes[n.ID] = node
			mp.Nodes = append(mp.Nodes, node)
		}

		build := func(kind string, specs []geometrySpec) ([]*mesh.Geometry, error) {
			geoms := make([]*mesh.Geometry, 0, len(specs))
			for _, gs := range specs {
				if len(gs.Nodes) == 0 {
					return nil, fmt.Errorf("%s %d has no nodes", kind, gs.ID)
				}
				g := &mesh.Geometry{ID: gs.ID, Nodes: make([]*mesh.Node, len(gs.Nodes))}
				for i, id := range gs.Nodes {
					node, ok := nodes[id]
					if !ok {
						return nil, fmt.Errorf("%s %d references unknown node %d", kind, gs.ID, id)
					}
					g.Nodes[i] = node
				}
				r, err := owner(gs.Rank, nodeOwner[gs.Nodes[0]])
				if err != nil {
					return nil, fmt.Errorf("%s %d: %w", kind, gs.ID, err)
				}
				g.Rank = r
				geoms = append(geoms, g)
			}
			return geoms, nil
		}

		var err error
		if mp.Elements, err = build("element", cf.Origin.Elements); err != nil {
			return nil, err
		}
		if mp.Conditions, err = build("condition", cf.Origin.Conditions); err != nil {
			return nil, err
		}

		parts[rank] = mp
	}

	return parts, nil
}

func vec(c [3]float64) r3.Vec {
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}
}
