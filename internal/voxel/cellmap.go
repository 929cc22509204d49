package voxel

import (
	"math/rand/v2"
	"slices"
)

// EstimatedPointsPerCell sizes the bucket table on construction.
const EstimatedPointsPerCell = 4

type cellEntry struct {
	cell      CellIndex
	positions []int
}

// CellMap maps each occupied cell to the positions of the points in it.
//
// Every position 0..n-1 of the source index slice appears in exactly one
// list, and a cell with no points is absent rather than mapped to an empty
// list. A CellMap is safe for concurrent readers once built.
type CellMap struct {
	buckets map[uint64][]cellEntry
	cells   int
	points  int
}

// NewCellMap groups positions by cell. Lists keep insertion order.
func NewCellMap(indexes []CellIndex) *CellMap {
	m := &CellMap{
		buckets: make(map[uint64][]cellEntry, len(indexes)/EstimatedPointsPerCell+1),
	}
	for i, c := range indexes {
		m.add(c.Hash(), c, i)
	}
	return m
}

func (m *CellMap) add(h uint64, c CellIndex, pos int) {
	bucket := m.buckets[h]
	for k := range bucket {
		if bucket[k].cell.Equal(c) {
			bucket[k].positions = append(bucket[k].positions, pos)
			m.points++
			return
		}
	}
	m.buckets[h] = append(bucket, cellEntry{cell: c, positions: []int{pos}})
	m.cells++
	m.points++
}

func (m *CellMap) lookup(h uint64, c CellIndex) []int {
	for _, e := range m.buckets[h] {
		if e.cell.Equal(c) {
			return e.positions
		}
	}
	return nil
}

// Lookup returns the positions in cell c, or nil if c is unoccupied.
// The returned slice is owned by the map and must not be modified.
func (m *CellMap) Lookup(c CellIndex) []int {
	return m.lookup(c.Hash(), c)
}

// Len returns the number of occupied cells.
func (m *CellMap) Len() int {
	return m.cells
}

// Points returns the total number of positions across all cells.
func (m *CellMap) Points() int {
	return m.points
}

// Range calls fn for every occupied cell in unspecified order until fn
// returns false.
func (m *CellMap) Range(fn func(c CellIndex, positions []int) bool) {
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			if !fn(e.cell, e.positions) {
				return
			}
		}
	}
}

// Cells returns the occupied cells sorted with CellIndex.Less.
func (m *CellMap) Cells() []CellIndex {
	out := make([]CellIndex, 0, m.cells)
	m.Range(func(c CellIndex, _ []int) bool {
		out = append(out, c)
		return true
	})
	slices.SortFunc(out, func(a, b CellIndex) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

// Shuffle permutes every list in place with a generator seeded from that
// cell's Hash and coordinates. The permutation depends only on the cell and
// its insertion order, so two maps built from the same indexes shuffle identically.
// Must not run concurrently with readers.
func (m *CellMap) Shuffle() {
	var pcg rand.PCG
	rng := rand.New(&pcg)
	for h, bucket := range m.buckets {
		for k := range bucket {
			positions := bucket[k].positions
			if len(positions) < 2 {
				continue
			}
			c := bucket[k].cell
			pcg.Seed(h, mix64(uint64(c.I)^uint64(c.J)<<21^uint64(c.K)<<42)^uint64(len(positions)))
			rng.Shuffle(len(positions), func(a, b int) {
				positions[a], positions[b] = positions[b], positions[a]
			})
		}
	}
}
