// Package searcher provides the per-worker scratch state of a radius search.
//
// The Searcher struct owns the reusable resources a worker needs while it
// processes query records:
//   - Candidate buffer (pre-sized to the index size)
//   - Query point holder
//
// A Searcher is owned by exactly one worker at a time. Searchers are either
// created up front, one per worker, or drawn from a pool for reuse across
// search iterations.
package searcher
