package distance

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Projection is the orthogonal projection of a query point onto a geometry.
type Projection struct {
	// Point is the projected point on the line or plane of the geometry.
	Point r3.Vec

	// Local holds the local coordinates of Point: the segment parameter in
	// Local[0] for lines, the barycentric (u, v) pair for triangles.
	Local [2]float64

	// Distance is the distance between the query point and Point.
	Distance float64

	dim   int
	valid bool
}

// Valid reports whether the projection could be computed (non-degenerate geometry).
func (p Projection) Valid() bool { return p.valid }

// Inside reports whether the projected point lies within the geometry,
// allowing a tolerance on the local coordinates.
func (p Projection) Inside(tol float64) bool {
	if !p.valid {
		return false
	}

	switch p.dim {
	case 1:
		return p.Local[0] >= -tol && p.Local[0] <= 1+tol
	case 2:
		u, v := p.Local[0], p.Local[1]
		return u >= -tol && v >= -tol && u+v <= 1+tol
	default:
		return false
	}
}

// ProjectOnSegment projects q onto the line through a and b.
func ProjectOnSegment(q, a, b r3.Vec) Projection {
	ab := r3.Sub(b, a)

	l2 := r3.Norm2(ab)
	if l2 == 0 {
		return Projection{}
	}

	t := r3.Dot(r3.Sub(q, a), ab) / l2
	p := r3.Add(a, r3.Scale(t, ab))

	return Projection{
		Point:    p,
		Local:    [2]float64{t, 0},
		Distance: Euclidean(q, p),
		dim:      1,
		valid:    true,
	}
}

// ProjectOnTriangle projects q onto the plane of the triangle (a, b, c).
// Local holds the barycentric weights of b and c.
func ProjectOnTriangle(q, a, b, c r3.Vec) Projection {
	e1 := r3.Sub(b, a)
	e2 := r3.Sub(c, a)

	n := r3.Cross(e1, e2)
	n2 := r3.Norm2(n)
	if n2 == 0 {
		return Projection{}
	}

	// distance of q to the plane along n
	h := r3.Dot(r3.Sub(q, a), n) / n2
	p := r3.Sub(q, r3.Scale(h, n))

	w := r3.Sub(p, a)
	u := r3.Dot(r3.Cross(w, e2), n) / n2
	v := r3.Dot(r3.Cross(e1, w), n) / n2

	return Projection{
		Point:    p,
		Local:    [2]float64{u, v},
		Distance: Euclidean(q, p),
		dim:      2,
		valid:    true,
	}
}

// ClosestPoint returns the point of pts closest to q, its index and distance.
// It returns -1 for an empty input.
func ClosestPoint(q r3.Vec, pts []r3.Vec) (r3.Vec, int, float64) {
	best := -1
	var bestDist float64
	for i, p := range pts {
		d := SquaredEuclidean(q, p)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}

	if best < 0 {
		return r3.Vec{}, -1, 0
	}

	return pts[best], best, Euclidean(q, pts[best])
}
