package search

import "errors"

var (
	// ErrNegativeRadius is returned when a search iteration runs with a negative radius.
	ErrNegativeRadius = errors.New("search radius has to be larger than 0.0")

	// ErrNoInterfaceObjects is returned when no rank holds an origin object.
	ErrNoInterfaceObjects = errors.New("no interface objects were created in origin model part")

	// ErrAmbiguousGeometry is returned when the origin holds both elements and conditions.
	ErrAmbiguousGeometry = errors.New("both elements and conditions are present")

	// ErrMissingGeometry is returned when the origin holds neither elements nor conditions.
	ErrMissingGeometry = errors.New("no elements and conditions are present")

	// ErrFailedOnOtherRank is returned to the ranks that were valid when another rank failed
	// to derive its search parameters or to run its local search.
	ErrFailedOnOtherRank = errors.New("search failed on another rank")

	// ErrNilOrigin is returned by New without an origin model part.
	ErrNilOrigin = errors.New("origin model part must not be nil")
)
