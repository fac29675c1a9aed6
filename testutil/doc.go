// Package testutil provides testing utilities for meshmap.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating seeded point clouds, small structured
// meshes and exact radius-search ground truth.
//
// # Random Points
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(100, r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1})
//
// # Meshes
//
//	mp := testutil.NodeCloud("origin", pts)
//	mp := testutil.TriangulatedPlane("origin", 4, 4, 1.0)
//
// # Ground Truth
//
//	ids := testutil.ExactInRadius(q, objects, radius)
package testutil
