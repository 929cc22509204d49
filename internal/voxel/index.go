package voxel

import (
	"math"
	"runtime"
	"sync"

	"github.com/banshee-data/pointgrid/internal/contract"
	"github.com/banshee-data/pointgrid/internal/geom"
)

// NeighborhoodSize is the number of cells in a 3x3x3 block.
const NeighborhoodSize = 27

// parallelThreshold is the point count below which indexing stays on the
// calling goroutine.
const parallelThreshold = 4096

// CellIndex identifies one grid cell.
type CellIndex struct {
	I, J, K int64
}

// Equal reports whether c and o name the same cell.
func (c CellIndex) Equal(o CellIndex) bool {
	return c.I == o.I && c.J == o.J && c.K == o.K
}

// Hash chains a splitmix64 round through each coordinate in turn, so cells
// that differ only in sign or axis order land in unrelated buckets.
func (c CellIndex) Hash() uint64 {
	h := mix64(uint64(c.I))
	h = mix64(h ^ uint64(c.J))
	return mix64(h ^ uint64(c.K))
}

// mix64 is one splitmix64 step: golden-ratio increment then finaliser.
func mix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x
}

// Less orders cells by I, then J, then K.
func (c CellIndex) Less(o CellIndex) bool {
	if c.I != o.I {
		return c.I < o.I
	}
	if c.J != o.J {
		return c.J < o.J
	}
	return c.K < o.K
}

// CellIndexOf returns floor((p - origin) / resolution) on each axis.
// resolution must be > 0 and the coordinates finite.
func CellIndexOf(p, origin geom.Point, resolution float64) CellIndex {
	contract.Require(resolution > 0, "resolution must be positive")
	return CellIndex{
		I: int64(math.Floor((p.X - origin.X) / resolution)),
		J: int64(math.Floor((p.Y - origin.Y) / resolution)),
		K: int64(math.Floor((p.Z - origin.Z) / resolution)),
	}
}

// CellIndexes returns the cell of every point on the grid anchored at
// e.Min. Passing the same extent for two different clouds puts them on one
// grid.
func CellIndexes(points []geom.Point, e geom.Extent, resolution float64) []CellIndex {
	contract.Require(resolution > 0, "resolution must be positive")
	out := make([]CellIndex, len(points))
	forEachChunk(len(points), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = CellIndexOf(points[i], e.Min, resolution)
		}
	})
	return out
}

// CellIndexesOf computes the extent of points and then their cells.
func CellIndexesOf(points []geom.Point, resolution float64) []CellIndex {
	return CellIndexes(points, geom.ExtentOf(points), resolution)
}

// CellIndexesAt returns the cell of points[positions[i]] in slot i, on the
// grid anchored at e.Min.
func CellIndexesAt(points []geom.Point, positions []int, e geom.Extent, resolution float64) []CellIndex {
	contract.Require(resolution > 0, "resolution must be positive")
	out := make([]CellIndex, len(positions))
	forEachChunk(len(positions), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = CellIndexOf(points[positions[i]], e.Min, resolution)
		}
	})
	return out
}

// Neighborhood returns the 27 cells within one step of c on every axis,
// ordered with I outermost and K innermost, each running -1, 0, +1.
// c itself is at position 13.
func Neighborhood(c CellIndex) [NeighborhoodSize]CellIndex {
	var out [NeighborhoodSize]CellIndex
	n := 0
	for di := int64(-1); di <= 1; di++ {
		for dj := int64(-1); dj <= 1; dj++ {
			for dk := int64(-1); dk <= 1; dk++ {
				out[n] = CellIndex{I: c.I + di, J: c.J + dj, K: c.K + dk}
				n++
			}
		}
	}
	return out
}

// forEachChunk splits [0, n) into contiguous ranges, one goroutine each.
// Ranges never overlap, so callers writing only to their own slots need no
// synchronisation.
func forEachChunk(n int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers <= 1 || n < parallelThreshold {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	perWorker := (n + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		if start >= n {
			break
		}
		end := min(start+perWorker, n)

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
