// Package distance provides the geometric kernels used by the search engine:
// point distances, bounding boxes and orthogonal projections of a point onto
// line segments and triangles.
//
// # Usage
//
//	d := distance.Euclidean(p, q)
//	proj := distance.ProjectOnTriangle(q, a, b, c)
//	if proj.Inside(1e-6) {
//	    ...
//	}
package distance
