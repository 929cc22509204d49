package radius

import (
	"math/rand/v2"

	"github.com/banshee-data/pointgrid/internal/contract"
	"github.com/banshee-data/pointgrid/internal/voxel"
)

// Selector draws candidates one at a time, without replacement, from the
// union of the 27 cells around a query cell. Every remaining candidate is
// equally likely on each draw regardless of how the candidates are spread
// across cells.
//
// A Selector belongs to one query on one goroutine. Reset re-targets it
// without allocating, so a worker can reuse a single value for all of its
// queries.
type Selector struct {
	lists     [voxel.NeighborhoodSize][]int
	remaining [voxel.NeighborhoodSize]int
	total     int
	rng       rand.PCG
}

// NewSelector returns a Selector for the cells around center.
func NewSelector(center voxel.CellIndex, cells *voxel.CellMap) *Selector {
	s := &Selector{}
	s.Reset(center, cells)
	return s
}

// Reset loads the 27 cells around center and reseeds the generator from
// the candidate count, so a given occupancy pattern always yields the same
// draw sequence.
func (s *Selector) Reset(center voxel.CellIndex, cells *voxel.CellMap) {
	s.total = 0
	for n, c := range voxel.Neighborhood(center) {
		positions := cells.Lookup(c)
		s.lists[n] = positions
		s.remaining[n] = len(positions)
		s.total += len(positions)
	}
	s.rng.Seed(uint64(s.total), 0)
}

// Remaining returns how many candidates have not been drawn yet.
func (s *Selector) Remaining() int {
	return s.total
}

// Next removes and returns one candidate position. Callers must check
// Remaining() > 0 first.
func (s *Selector) Next() int {
	contract.Require(s.total > 0, "Next called with no candidates left")

	r := int(s.rng.Uint64() % uint64(s.total))
	slot := s.pick(r)

	s.remaining[slot]--
	s.total--
	// Lists are consumed from the back; remaining doubles as the cursor.
	return s.lists[slot][s.remaining[slot]]
}

// pick maps r in [0, total) to the slot holding the r-th remaining
// candidate: the first non-empty slot whose cumulative count exceeds r.
// Slot s is chosen for exactly remaining[s] values of r.
func (s *Selector) pick(r int) int {
	cumulative := 0
	for slot := 0; slot < voxel.NeighborhoodSize; slot++ {
		if s.remaining[slot] == 0 {
			continue
		}
		cumulative += s.remaining[slot]
		if cumulative > r {
			return slot
		}
	}
	contract.Ensure(false, "cumulative walk ran past the last cell")
	return voxel.NeighborhoodSize - 1
}
