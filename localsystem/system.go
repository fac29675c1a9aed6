// Package localsystem provides the caller-side queries of the interface search.
//
// A System is one target point waiting for a match. The search appends the
// records assigned to it; a System holding at least one record is considered
// served and spawns no further records.
package localsystem

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hupe1980/meshmap/interfaceinfo"
)

// System is a query point and the records assigned to it.
// System is NOT thread-safe.
type System struct {
	coords r3.Vec
	infos  []interfaceinfo.Info
}

// New creates a system at coords.
func New(coords r3.Vec) *System {
	return &System{coords: coords}
}

// FromPoints creates one system per point.
func FromPoints(pts []r3.Vec) []*System {
	systems := make([]*System, len(pts))
	for i, p := range pts {
		systems[i] = New(p)
	}

	return systems
}

// Coordinates returns the query point.
func (s *System) Coordinates() r3.Vec { return s.coords }

// HasInterfaceInfo reports whether a record was assigned.
func (s *System) HasInterfaceInfo() bool { return len(s.infos) > 0 }

// AddInterfaceInfo appends a record.
func (s *System) AddInterfaceInfo(info interfaceinfo.Info) {
	s.infos = append(s.infos, info)
}

// InterfaceInfos returns the assigned records in assignment order.
func (s *System) InterfaceInfos() []interfaceinfo.Info { return s.infos }

// Best returns the canonical record: exact matches before approximations,
// then the smallest distance, then the earliest assigned.
// It returns false if no record was assigned.
func (s *System) Best() (interfaceinfo.Info, bool) {
	var best interfaceinfo.Info
	for _, info := range s.infos {
		if best == nil || better(info, best) {
			best = info
		}
	}

	return best, best != nil
}

func better(a, b interfaceinfo.Info) bool {
	ea, eb := a.LocalSearchWasSuccessful(), b.LocalSearchWasSuccessful()
	if ea != eb {
		return ea
	}

	return a.Distance() < b.Distance()
}
