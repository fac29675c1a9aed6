package search

import (
	"context"
	"fmt"

	"github.com/hupe1980/meshmap/comm"
	"github.com/hupe1980/meshmap/interfaceinfo"
	"github.com/hupe1980/meshmap/internal/parallel"
	"github.com/hupe1980/meshmap/internal/searcher"
)

// manyResultsThreshold is the average number of candidates per record above
// which the search settings are reported as likely mis-tuned.
const manyResultsThreshold = 200

// scratchBytesPerResult is the size of one slot of a candidate buffer.
const scratchBytesPerResult = 8

func (ic *InterfaceCommunicator) conductSearchIteration(ctx context.Context, c comm.Communicator, ref interfaceinfo.Info) error {
	ic.iterations++

	ic.initializeSearchIteration(ref)

	numResults, numSearched, err := ic.conductLocalSearch(ctx)
	if err := agreeOnFailure(ctx, c, err, ErrFailedOnOtherRank); err != nil {
		return err
	}

	ic.metrics.OnIteration(ic.iterations, ic.radius, numSearched, numResults)

	if ic.settings.EchoLevel > 1 {
		if err := ic.logAverageResults(ctx, c, numResults, numSearched); err != nil {
			return err
		}
	}

	ic.finalizeSearchIteration()

	return nil
}

// initializeSearchIteration creates a record for every system still lacking one.
func (ic *InterfaceCommunicator) initializeSearchIteration(ref interfaceinfo.Info) {
	local := ic.infos[0][:0]
	for i, s := range ic.systems {
		if !s.HasInterfaceInfo() {
			local = append(local, ref.Create(s.Coordinates(), i, 0))
		}
	}
	ic.infos[0] = local
}

// conductLocalSearch searches the records of this rank in the local index.
// It runs no collectives.
func (ic *InterfaceCommunicator) conductLocalSearch(ctx context.Context) (numResults, numSearched int, err error) {
	if ic.radius < 0 {
		return 0, 0, fmt.Errorf("%w: %g", ErrNegativeRadius, ic.radius)
	}

	if ic.index == nil {
		return 0, 0, nil
	}

	maxResults := ic.index.Len()

	scratchBytes := int64(ic.pool.NumWorkers()) * int64(maxResults) * scratchBytesPerResult
	if err := ic.rc.AcquireMemory(ctx, scratchBytes); err != nil {
		return 0, 0, fmt.Errorf("failed to reserve search scratch: %w", err)
	}
	defer ic.rc.ReleaseMemory(scratchBytes)

	var scratch []*searcher.Searcher
	defer func() {
		ops, candidates := 0, 0
		for _, s := range scratch {
			ops += s.OpsPerformed
			candidates += s.CandidatesFound
			searcher.Put(s)
		}
		ic.logger.DebugContext(ctx, "local search completed",
			"iteration", ic.iterations,
			"queries", ops,
			"candidates", candidates,
			"workers", len(scratch),
		)
	}()

	newScratch := func() *searcher.Searcher {
		s := searcher.Get(maxResults)
		scratch = append(scratch, s)
		return s
	}

	for _, bucket := range ic.infos {
		numSearched += len(bucket)

		n, err := parallel.ForEach(ctx, ic.pool, len(bucket), newScratch, func(i int, s *searcher.Searcher) int {
			return ic.searchRecord(bucket[i], s, maxResults)
		})
		numResults += n
		if err != nil {
			return numResults, numSearched, err
		}
	}

	return numResults, numSearched, nil
}

// searchRecord queries the index for one record and feeds it the candidates:
// all of them to the exact test, then, if none passed, all of them to the
// approximation test. It returns the number of candidates.
func (ic *InterfaceCommunicator) searchRecord(info interfaceinfo.Info, s *searcher.Searcher, maxResults int) int {
	s.Begin(info.Coordinates())
	s.Results = ic.index.SearchInRadius(s.Query, ic.radius, maxResults, s.Results)
	s.OpsPerformed++
	s.CandidatesFound += len(s.Results)

	for _, obj := range s.Results {
		info.ProcessSearchResult(obj)
	}

	if !info.LocalSearchWasSuccessful() {
		for _, obj := range s.Results {
			info.ProcessSearchResultForApproximation(obj)
		}
	}

	return len(s.Results)
}

func (ic *InterfaceCommunicator) logAverageResults(ctx context.Context, c comm.Communicator, numResults, numSearched int) error {
	if c.IsDefinedOnThisRank() {
		var err error
		if numResults, err = comm.SumAll(ctx, c, numResults); err != nil {
			return err
		}
		if numSearched, err = comm.SumAll(ctx, c, numSearched); err != nil {
			return err
		}
	}

	avg := 0.0
	if numSearched > 0 {
		avg = float64(numResults) / float64(numSearched)
	}

	ic.logger.InfoContext(ctx, "objects found while searching", "avg_results", avg, "iteration", ic.iterations)

	if avg > manyResultsThreshold {
		ic.logger.WarnContext(ctx, "many search results are found, consider adjusting the search settings for improving performance",
			"avg_results", avg,
			"radius", ic.radius,
		)
	}

	return nil
}

// finalizeSearchIteration keeps the successful records, parks the
// approximations and assigns the successful records to their systems.
func (ic *InterfaceCommunicator) finalizeSearchIteration() {
	ic.parked = ic.parked[:0]

	for r, bucket := range ic.infos {
		kept := bucket[:0]
		for _, info := range bucket {
			switch {
			case info.LocalSearchWasSuccessful():
				kept = append(kept, info)
			case info.IsApproximation():
				ic.parked = append(ic.parked, info)
			}
		}
		clear(bucket[len(kept):])
		ic.infos[r] = kept
	}

	ic.AssignInterfaceInfos()
}

// AssignInterfaceInfos appends every pending record to the system that created it.
func (ic *InterfaceCommunicator) AssignInterfaceInfos() {
	for _, bucket := range ic.infos {
		for _, info := range bucket {
			ic.systems[info.LocalSystemIndex()].AddInterfaceInfo(info)
		}
	}
}
