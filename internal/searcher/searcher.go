package searcher

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/model"
)

// Searcher is a reusable execution context for radius queries.
//
// Searcher is NOT thread-safe. It is intended to be owned by a single goroutine
// during a search operation.
type Searcher struct {
	// Query holds the coordinates of the record being processed.
	Query r3.Vec

	// Results is the candidate buffer filled by the index.
	Results []*model.SpatialObject

	// OpsPerformed counts the radius queries issued.
	OpsPerformed int

	// CandidatesFound accumulates the number of candidates returned.
	CandidatesFound int
}

var searcherPool = sync.Pool{
	New: func() any {
		return New(128) // Default initial capacity
	},
}

// New creates a searcher whose candidate buffer holds maxResults objects
// without reallocating.
func New(maxResults int) *Searcher {
	return &Searcher{
		Results: make([]*model.SpatialObject, 0, maxResults),
	}
}

// Get returns a Searcher from the pool whose buffer can hold maxResults objects.
func Get(maxResults int) *Searcher {
	s := searcherPool.Get().(*Searcher)
	s.Reset()
	if cap(s.Results) < maxResults {
		s.Results = make([]*model.SpatialObject, 0, maxResults)
	}
	return s
}

// Put returns a Searcher to the pool.
func Put(s *Searcher) {
	// drop references to the objects so a discarded index can be collected
	clear(s.Results[:cap(s.Results)])
	searcherPool.Put(s)
}

// Reset clears the searcher state for reuse.
func (s *Searcher) Reset() {
	s.Query = r3.Vec{}
	s.Results = s.Results[:0]
	s.OpsPerformed = 0
	s.CandidatesFound = 0
}

// Begin prepares the searcher for the next record.
func (s *Searcher) Begin(q r3.Vec) {
	s.Query = q
	s.Results = s.Results[:0]
}
