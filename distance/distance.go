package distance

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Euclidean returns the Euclidean distance between a and b.
func Euclidean(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// SquaredEuclidean returns the squared Euclidean distance between a and b.
func SquaredEuclidean(a, b r3.Vec) float64 {
	return r3.Norm2(r3.Sub(a, b))
}

// BoundingBox returns the axis-aligned bounding box of pts.
// The zero box is returned for an empty input.
func BoundingBox(pts []r3.Vec) r3.Box {
	if len(pts) == 0 {
		return r3.Box{}
	}

	box := r3.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		box.Min = r3.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)}
	}

	return box
}

// MaxExtent returns the largest side length of the box spanned by minPoint and maxPoint.
func MaxExtent(minPoint, maxPoint r3.Vec) float64 {
	d := r3.Sub(maxPoint, minPoint)
	return floats.Max([]float64{d.X, d.Y, d.Z})
}
