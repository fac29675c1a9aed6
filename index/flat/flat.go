// Package flat provides a brute-force implementation of index.Spatial.
//
// Every query scans all objects, so it is only suited for small object sets
// and as a reference to cross-check the bins index.
package flat

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/distance"
	"github.com/hupe1980/meshmap/index"
	"github.com/hupe1980/meshmap/model"
)

// Compile-time check to ensure Flat satisfies the index contract.
var _ index.Spatial = (*Flat)(nil)

// Flat is an immutable list of spatial objects.
type Flat struct {
	objects []*model.SpatialObject
	min     r3.Vec
	max     r3.Vec
}

// New creates a flat index over objects.
func New(objects []*model.SpatialObject) (*Flat, error) {
	if len(objects) == 0 {
		return nil, index.ErrEmpty
	}

	pts := make([]r3.Vec, len(objects))
	for i, o := range objects {
		pts[i] = o.Coords
	}
	box := distance.BoundingBox(pts)

	return &Flat{
		objects: objects,
		min:     box.Min,
		max:     box.Max,
	}, nil
}

// Builder adapts New to index.Builder.
func Builder(objects []*model.SpatialObject) (index.Spatial, error) {
	return New(objects)
}

// SearchInRadius implements index.Spatial.
func (f *Flat) SearchInRadius(q r3.Vec, radius float64, maxResults int, dst []*model.SpatialObject) []*model.SpatialObject {
	if maxResults <= 0 || radius < 0 {
		return dst
	}

	r2 := radius * radius
	found := 0
	for _, o := range f.objects {
		if found >= maxResults {
			break
		}
		if distance.SquaredEuclidean(q, o.Coords) <= r2 {
			dst = append(dst, o)
			found++
		}
	}

	return dst
}

// MinPoint implements index.Spatial.
func (f *Flat) MinPoint() r3.Vec { return f.min }

// MaxPoint implements index.Spatial.
func (f *Flat) MaxPoint() r3.Vec { return f.max }

// Len implements index.Spatial.
func (f *Flat) Len() int { return len(f.objects) }
