// Package meshmap matches points with the entities of a partitioned mesh.
//
// A Mapper runs an adaptive radius search: every point is looked up in a
// spatial index over the origin objects, and the radius grows by a constant
// factor until every point is served or the iteration budget is spent.
// Points outside of the origin geometries keep the best approximation found
// in the last iteration.
//
// # Quick Start
//
//	origin := mesh.NewModelPart("interface", 0)
//	a := origin.AddNode(1, 0, 0, 0)
//	b := origin.AddNode(2, 1, 0, 0)
//	c := origin.AddNode(3, 0, 1, 0)
//	origin.AddCondition(1, a, b, c)
//
//	m, _ := meshmap.NearestElement(origin).Build()
//	res, _ := m.Map(ctx, []r3.Vec{{X: 0.2, Y: 0.2, Z: 0.1}})
//	fmt.Println(res.Matches[0].NodeIDs, res.Matches[0].Weights)
//
// # Modes
//
//   - ModeNearestNeighbor: closest origin node
//   - ModeNearestElement: orthogonal projection onto elements or conditions,
//     expressed as node weights
//
// # Partitioned Meshes
//
// MapWithComm runs the search across the ranks of a comm.Communicator. Each
// rank matches its own points against the origin entities it owns, while the
// radius, the iteration budget and the termination test are agreed between
// all ranks. comm.Group connects ranks running as goroutines of one process.
//
// # Settings
//
// Search settings are read from TOML with config.LoadFile:
//
//	search_radius = 0.1
//	max_search_radius = 2.0
//	search_radius_increase_factor = 2.0
//	max_num_search_iterations = 8
//	echo_level = 1
//
// Unset values are derived from the origin mesh.
package meshmap
