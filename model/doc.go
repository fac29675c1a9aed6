// Package model defines the core types shared by the index and the search.
//
// # Spatial Objects
//
//   - SpatialObject: a positioned, identifiable wrapper around a mesh entity
//   - ConstructionType: how the position was derived (node coordinates or
//     geometry center)
//
// A SpatialObject snapshots the position of its entity when it is created.
// If the mesh moves, the objects and the index built over them must be
// recreated.
package model
