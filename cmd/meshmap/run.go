package main

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap"
	"github.com/hupe1980/meshmap/comm"
	"github.com/hupe1980/meshmap/resource"
)

type runOptions struct {
	mode      meshmap.Mode
	indexType meshmap.IndexType
	ranks     int
	workers   int
	memoryMB  int
	tolerance float64
	logger    *meshmap.Logger
}

// pointResult is the match of one case point.
type pointResult struct {
	Index       int       `json:"index"`
	Rank        int       `json:"rank"`
	Found       bool      `json:"found"`
	Approximate bool      `json:"approximate,omitempty"`
	ObjectID    int       `json:"object_id"`
	Distance    *float64  `json:"distance,omitempty"`
	NodeIDs     []int     `json:"node_ids,omitempty"`
	Weights     []float64 `json:"weights,omitempty"`
}

// report is the outcome of a case.
type report struct {
	Mode         string        `json:"mode"`
	Ranks        int           `json:"ranks"`
	Iterations   int           `json:"iterations"`
	Conforming   bool          `json:"conforming"`
	SearchRadius float64       `json:"search_radius"`
	Unmatched    int           `json:"unmatched"`
	Candidates   int64         `json:"candidates"`
	Points       []pointResult `json:"points"`
}

// runCase maps the case points with opts.ranks ranks running as goroutines.
// Point i is queried by rank i mod ranks.
func runCase(ctx context.Context, cf *caseFile, opts runOptions) (*report, error) {
	size := max(1, opts.ranks)

	parts, err := cf.partition(size)
	if err != nil {
		return nil, err
	}

	all := cf.points()
	points := make([][]r3.Vec, size)
	indices := make([][]int, size)
	for i, p := range all {
		r := i % size
		points[r] = append(points[r], p)
		indices[r] = append(indices[r], i)
	}

	workers := opts.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rc := resource.NewController(resource.Config{
		MaxWorkers:       int64(workers),
		MemoryLimitBytes: int64(opts.memoryMB) << 20,
	})
	metrics := &meshmap.BasicMetricsCollector{}

	logger := opts.logger
	if logger == nil {
		logger = meshmap.NoopLogger()
	}

	g := comm.NewGroup(size)
	results := make([]*meshmap.Result, size)

	eg, ctx := errgroup.WithContext(ctx)
	for rank, member := range g.Members() {
		eg.Go(func() error {
			m, err := meshmap.New(parts[rank], opts.mode,
				meshmap.WithSettings(cf.Settings),
				meshmap.WithIndexType(opts.indexType),
				meshmap.WithNumWorkers(workers),
				meshmap.WithResourceController(rc),
				meshmap.WithTolerance(opts.tolerance),
				meshmap.WithMetricsCollector(metrics),
				meshmap.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			res, err := m.MapWithComm(ctx, member, points[rank])
			if err != nil {
				return fmt.Errorf("rank %d: %w", rank, err)
			}
			results[rank] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	rep := &report{
		Mode:       opts.mode.String(),
		Ranks:      size,
		Iterations: results[0].Iterations,
		Conforming: true,
		Candidates: metrics.GetStats().CandidatesFound,
		Points:     make([]pointResult, 0, len(all)),
	}
	for rank, res := range results {
		rep.Conforming = rep.Conforming && res.Conforming
		rep.SearchRadius = math.Max(rep.SearchRadius, res.SearchRadius)
		rep.Unmatched += res.Unmatched()

		for _, match := range res.Matches {
			pr := pointResult{
				Index:       indices[rank][match.Index],
				Rank:        rank,
				Found:       match.Found,
				Approximate: match.Approximate,
				ObjectID:    match.ObjectID,
				NodeIDs:     match.NodeIDs,
				Weights:     match.Weights,
			}
			if match.Found {
				d := match.Distance
				pr.Distance = &d
			}
			rep.Points = append(rep.Points, pr)
		}
	}
	sort.Slice(rep.Points, func(i, j int) bool { return rep.Points[i].Index < rep.Points[j].Index })

	return rep, nil
}
