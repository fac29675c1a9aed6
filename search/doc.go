// Package search implements the adaptive radius search matching local systems
// with the objects of an origin mesh.
//
// An InterfaceCommunicator builds a spatial index over the local part of the
// origin mesh and repeatedly queries it for every local system that has no
// match yet. After each iteration the ranks agree whether every system on
// every rank was served; if not, the radius grows by the increase factor and
// the unmatched systems are searched again, up to the iteration budget.
//
//	ic, err := search.New(origin, systems, settings)
//	if err != nil {
//		return err
//	}
//	if err := ic.ExchangeInterfaceData(ctx, comm.Serial{}, interfaceinfo.NewNearestNeighbor()); err != nil {
//		return err
//	}
//
// Every rank must call ExchangeInterfaceData with the same settings and the
// same kind of record, since the iteration count and the reductions are
// agreed collectively.
package search
