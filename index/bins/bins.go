// Package bins provides a static single-level uniform grid implementing index.Spatial.
//
// The bounding box of the objects is split into roughly one cell per object.
// Each cell stores the indices of its objects in a roaring bitmap, so a radius
// query visits the cells overlapping the query box and tests the distance of
// the objects found there.
package bins

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/distance"
	"github.com/hupe1980/meshmap/index"
	"github.com/hupe1980/meshmap/model"
)

// Compile-time check to ensure Bins satisfies the index contract.
var _ index.Spatial = (*Bins)(nil)

// Options contains configuration options for the bins index.
type Options struct {
	// CellsPerObject scales the total number of cells relative to the object count.
	CellsPerObject float64

	// MaxCellsPerAxis caps the grid resolution along each axis.
	MaxCellsPerAxis int
}

// DefaultOptions contains the default configuration options for the bins index.
var DefaultOptions = Options{
	CellsPerObject:  1.0,
	MaxCellsPerAxis: 1024,
}

// Bins is a uniform grid over a fixed set of spatial objects.
// It is immutable after New and safe for concurrent queries.
type Bins struct {
	objects  []*model.SpatialObject
	cells    []*roaring.Bitmap // nil for empty cells
	min      r3.Vec
	max      r3.Vec
	n        [3]int     // cells per axis
	cellSize [3]float64 // zero on degenerate axes
}

// New builds the grid over objects.
func New(objects []*model.SpatialObject, optFns ...func(o *Options)) (*Bins, error) {
	if len(objects) == 0 {
		return nil, index.ErrEmpty
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	pts := make([]r3.Vec, len(objects))
	for i, o := range objects {
		pts[i] = o.Coords
	}
	box := distance.BoundingBox(pts)

	b := &Bins{
		objects: objects,
		min:     box.Min,
		max:     box.Max,
	}
	b.computeCellSize(opts)

	b.cells = make([]*roaring.Bitmap, b.n[0]*b.n[1]*b.n[2])
	for i, o := range objects {
		c := b.cellOf(o.Coords)
		if b.cells[c] == nil {
			b.cells[c] = roaring.New()
		}
		b.cells[c].Add(uint32(i))
	}

	for _, bm := range b.cells {
		if bm != nil {
			bm.RunOptimize()
		}
	}

	return b, nil
}

// Builder adapts New with default options to index.Builder.
func Builder(objects []*model.SpatialObject) (index.Spatial, error) {
	return New(objects)
}

func (b *Bins) computeCellSize(opts Options) {
	ext := [3]float64{b.max.X - b.min.X, b.max.Y - b.min.Y, b.max.Z - b.min.Z}

	maxExt := max(ext[0], ext[1], ext[2])
	tol := maxExt * 1e-9

	volume := 1.0
	active := 0
	for _, e := range ext {
		if e > tol {
			volume *= e
			active++
		}
	}

	b.n = [3]int{1, 1, 1}
	if active == 0 {
		return
	}

	target := max(1.0, float64(len(b.objects))*opts.CellsPerObject)
	size := math.Pow(volume/target, 1/float64(active))

	for i, e := range ext {
		if e <= tol {
			continue
		}
		n := int(math.Ceil(e / size))
		b.n[i] = min(max(n, 1), opts.MaxCellsPerAxis)
		b.cellSize[i] = e / float64(b.n[i])
	}
}

func (b *Bins) axisIndex(axis int, v float64) int {
	if b.cellSize[axis] == 0 {
		return 0
	}

	lo := [3]float64{b.min.X, b.min.Y, b.min.Z}[axis]
	f := math.Floor((v - lo) / b.cellSize[axis])

	// clamp in float space, huge radii overflow int
	if f <= 0 {
		return 0
	}
	if f >= float64(b.n[axis]-1) {
		return b.n[axis] - 1
	}

	return int(f)
}

// axisRange returns the cell range of [v-r, v+r] along axis, and false if it
// misses the grid entirely.
func (b *Bins) axisRange(axis int, v, r float64) (int, int, bool) {
	lo := [3]float64{b.min.X, b.min.Y, b.min.Z}[axis]
	hi := [3]float64{b.max.X, b.max.Y, b.max.Z}[axis]

	if v+r < lo || v-r > hi {
		return 0, 0, false
	}

	return b.axisIndex(axis, v-r), b.axisIndex(axis, v+r), true
}

func (b *Bins) cellOf(p r3.Vec) int {
	i := b.axisIndex(0, p.X)
	j := b.axisIndex(1, p.Y)
	k := b.axisIndex(2, p.Z)

	return i + b.n[0]*(j+b.n[1]*k)
}

// SearchInRadius implements index.Spatial.
func (b *Bins) SearchInRadius(q r3.Vec, radius float64, maxResults int, dst []*model.SpatialObject) []*model.SpatialObject {
	if maxResults <= 0 || radius < 0 {
		return dst
	}

	i0, i1, ok := b.axisRange(0, q.X, radius)
	if !ok {
		return dst
	}
	j0, j1, ok := b.axisRange(1, q.Y, radius)
	if !ok {
		return dst
	}
	k0, k1, ok := b.axisRange(2, q.Z, radius)
	if !ok {
		return dst
	}

	r2 := radius * radius
	found := 0

	for k := k0; k <= k1; k++ {
		for j := j0; j <= j1; j++ {
			for i := i0; i <= i1; i++ {
				bm := b.cells[i+b.n[0]*(j+b.n[1]*k)]
				if bm == nil {
					continue
				}

				bm.Iterate(func(x uint32) bool {
					o := b.objects[x]
					if distance.SquaredEuclidean(q, o.Coords) <= r2 {
						dst = append(dst, o)
						found++
					}
					return found < maxResults
				})

				if found >= maxResults {
					return dst
				}
			}
		}
	}

	return dst
}

// MinPoint implements index.Spatial.
func (b *Bins) MinPoint() r3.Vec { return b.min }

// MaxPoint implements index.Spatial.
func (b *Bins) MaxPoint() r3.Vec { return b.max }

// Len implements index.Spatial.
func (b *Bins) Len() int { return len(b.objects) }

// CellsPerAxis returns the grid resolution.
func (b *Bins) CellsPerAxis() [3]int { return b.n }

// OccupiedCells returns the number of non-empty cells.
func (b *Bins) OccupiedCells() int {
	n := 0
	for _, bm := range b.cells {
		if bm != nil {
			n++
		}
	}

	return n
}
