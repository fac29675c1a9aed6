package search

import (
	"context"
	"math"

	"github.com/hupe1980/meshmap/comm"
	"github.com/hupe1980/meshmap/mesh"
)

// searchRadiusSafetyFactor scales the mesh size estimate of ComputeSearchRadius.
const searchRadiusSafetyFactor = 1.2

// ComputeSearchRadius estimates a search radius from the size of the origin mesh:
// the largest edge of its conditions, else of its elements, else the diagonal
// of the bounding box of its nodes, times a safety factor of 1.2.
//
// The estimate is global: every rank of c must call it, and every rank gets
// the same value. A rank not defined on c uses its local mesh only.
func ComputeSearchRadius(ctx context.Context, c comm.Communicator, mp *mesh.ModelPart) (float64, error) {
	if !c.IsDefinedOnThisRank() {
		c = comm.Serial{}
	}

	conditions := mp.LocalConditions()
	numConditions, err := comm.SumAll(ctx, c, len(conditions))
	if err != nil {
		return 0, err
	}
	if numConditions > 0 {
		return globalMaxEdge(ctx, c, conditions)
	}

	elements := mp.LocalElements()
	numElements, err := comm.SumAll(ctx, c, len(elements))
	if err != nil {
		return 0, err
	}
	if numElements > 0 {
		return globalMaxEdge(ctx, c, elements)
	}

	d, err := globalNodeCloudDiameter(ctx, c, mp.LocalNodes())
	if err != nil {
		return 0, err
	}

	return searchRadiusSafetyFactor * d, nil
}

func globalMaxEdge(ctx context.Context, c comm.Communicator, geoms []*mesh.Geometry) (float64, error) {
	m, err := comm.MaxAllFloat(ctx, c, mesh.MaxEdgeLength(geoms))
	if err != nil {
		return 0, err
	}

	return searchRadiusSafetyFactor * m, nil
}

// globalNodeCloudDiameter reduces the bounding box of the nodes of all ranks.
// Ranks without nodes contribute an empty box.
func globalNodeCloudDiameter(ctx context.Context, c comm.Communicator, nodes []*mesh.Node) (float64, error) {
	if c.Size() <= 1 {
		return mesh.NodeCloudDiameter(nodes), ctx.Err()
	}

	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	for _, n := range nodes {
		p := [3]float64{n.Coords.X, n.Coords.Y, n.Coords.Z}
		for i := range p {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}

	sum := 0.0
	for i := range lo {
		gLo, err := c.AllReduce(ctx, comm.OpMin, lo[i])
		if err != nil {
			return 0, err
		}
		gHi, err := c.AllReduce(ctx, comm.OpMax, hi[i])
		if err != nil {
			return 0, err
		}

		if gHi > gLo {
			sum += (gHi - gLo) * (gHi - gLo)
		}
	}

	return math.Sqrt(sum), nil
}
