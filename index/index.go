package index

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/model"
)

// ErrEmpty is returned when an index is built over no objects.
var ErrEmpty = errors.New("index requires at least one object")

// Spatial is a static spatial index supporting radius queries.
type Spatial interface {
	// SearchInRadius appends to dst every indexed object within radius of q,
	// stopping once maxResults objects were appended, and returns the
	// extended slice. The order of the results is unspecified. A negative
	// radius matches nothing.
	SearchInRadius(q r3.Vec, radius float64, maxResults int, dst []*model.SpatialObject) []*model.SpatialObject

	// MinPoint returns the lower corner of the bounding box of the objects.
	MinPoint() r3.Vec

	// MaxPoint returns the upper corner of the bounding box of the objects.
	MaxPoint() r3.Vec

	// Len returns the number of indexed objects.
	Len() int
}

// Builder creates a Spatial index over objects.
type Builder func(objects []*model.SpatialObject) (Spatial, error)
