// Package index defines the contract of the static spatial indexes queried by
// the search engine.
//
// An index is built once over a fixed set of spatial objects and is read-only
// afterwards; every implementation must support concurrent SearchInRadius calls.
//
// Implementations:
//   - bins: single-level uniform grid (default)
//   - flat: brute force, used as a reference
package index
