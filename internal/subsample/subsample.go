package subsample

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/banshee-data/pointgrid/internal/geom"
	"github.com/banshee-data/pointgrid/internal/monitoring"
	"github.com/banshee-data/pointgrid/internal/voxel"
)

var (
	// ErrInvalidResolution reports a resolution that is not a positive
	// finite number.
	ErrInvalidResolution = errors.New("resolution must be positive and finite")
	// ErrNonFinite reports a NaN or infinite coordinate.
	ErrNonFinite = errors.New("point coordinates must be finite")
	// ErrCellMismatch reports a decimated cloud whose cells do not line up
	// with the original cloud's cells at the given resolution.
	ErrCellMismatch = errors.New("decimated cloud does not match original cells")
	// ErrLengthMismatch reports an attribute slice whose length differs
	// from the decimated cloud's.
	ErrLengthMismatch = errors.New("attribute count does not match decimated points")
)

func validateResolution(res float64) error {
	if !(res > 0) || math.IsInf(res, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidResolution, res)
	}
	return nil
}

// scanOrder returns 0..n-1, shuffled when seed is non-zero.
func scanOrder(n int, seed uint64) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if seed != 0 {
		rng := rand.New(rand.NewPCG(seed, seed))
		rng.Shuffle(n, func(a, b int) {
			order[a], order[b] = order[b], order[a]
		})
	}
	return order
}

// Indexes returns one position per occupied cell of the grid anchored at
// the cloud's minimum corner.
//
// Positions are visited in order, or in a seeded random order when seed is
// non-zero, and the first point seen in each cell represents it. The result
// is in visit order, so with seed 0 it is ascending and the lowest position
// in every cell wins.
func Indexes(points []geom.Point, resolution float64, seed uint64) ([]int, error) {
	if err := validateResolution(resolution); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}
	e := geom.ExtentOf(points)
	if !e.Finite() {
		return nil, fmt.Errorf("points: %w", ErrNonFinite)
	}

	cells := voxel.CellIndexes(points, e, resolution)
	var seen voxel.CellSet
	out := make([]int, 0, len(points)/voxel.EstimatedPointsPerCell+1)
	for _, j := range scanOrder(len(points), seed) {
		if seen.Add(cells[j]) {
			out = append(out, j)
		}
	}

	monitoring.Debugf("subsample: %d points -> %d cells at resolution %g (seed %d)",
		len(points), len(out), resolution, seed)
	return out, nil
}

// UniqueLocations returns one position per distinct XYZ location, using
// the same visit order rules as Indexes.
func UniqueLocations(points []geom.Point, seed uint64) []int {
	seen := make(map[geom.Point]struct{}, len(points))
	out := make([]int, 0, len(points))
	for _, j := range scanOrder(len(points), seed) {
		if _, ok := seen[points[j]]; ok {
			continue
		}
		seen[points[j]] = struct{}{}
		out = append(out, j)
	}
	return out
}

// Decimate returns the representative points chosen by Indexes.
func Decimate(points []geom.Point, resolution float64, seed uint64) ([]geom.Point, error) {
	ind, err := Indexes(points, resolution, seed)
	if err != nil {
		return nil, err
	}
	out := make([]geom.Point, len(ind))
	for i, j := range ind {
		out[i] = points[j]
	}
	return out, nil
}

// Undecimate copies attrs[j], computed for decimated[j], onto every point
// of original that shares decimated[j]'s cell. Both clouds are placed on
// the grid anchored at original's minimum corner.
//
// Each decimated point must sit in a distinct occupied cell of original and
// every occupied cell of original must be covered; otherwise the decimated
// cloud did not come from original at this resolution and an error wrapping
// ErrCellMismatch is returned.
func Undecimate[T any](original, decimated []geom.Point, attrs []T, resolution float64) ([]T, error) {
	if err := validateResolution(resolution); err != nil {
		return nil, err
	}
	if len(attrs) != len(decimated) {
		return nil, fmt.Errorf("%w: %d attributes for %d points", ErrLengthMismatch, len(attrs), len(decimated))
	}
	if len(original) == 0 {
		if len(decimated) != 0 {
			return nil, fmt.Errorf("%w: %d decimated points for an empty original", ErrCellMismatch, len(decimated))
		}
		return nil, nil
	}

	e := geom.ExtentOf(original)
	if !e.Finite() {
		return nil, fmt.Errorf("original cloud: %w", ErrNonFinite)
	}
	if len(decimated) > 0 && !geom.ExtentOf(decimated).Finite() {
		return nil, fmt.Errorf("decimated cloud: %w", ErrNonFinite)
	}

	cells := voxel.NewCellMap(voxel.CellIndexes(original, e, resolution))
	decimatedCells := voxel.CellIndexes(decimated, e, resolution)

	out := make([]T, len(original))
	var covered voxel.CellSet
	for j, c := range decimatedCells {
		positions := cells.Lookup(c)
		if positions == nil {
			return nil, fmt.Errorf("%w: decimated point %d at %v falls in empty cell %+v",
				ErrCellMismatch, j, decimated[j], c)
		}
		if !covered.Add(c) {
			return nil, fmt.Errorf("%w: decimated point %d shares cell %+v with an earlier point",
				ErrCellMismatch, j, c)
		}
		for _, i := range positions {
			out[i] = attrs[j]
		}
	}

	if covered.Len() != cells.Len() {
		var missing voxel.CellIndex
		cells.Range(func(c voxel.CellIndex, _ []int) bool {
			if covered.Contains(c) {
				return true
			}
			missing = c
			return false
		})
		return nil, fmt.Errorf("%w: %d of %d original cells have no decimated point, e.g. %+v",
			ErrCellMismatch, cells.Len()-covered.Len(), cells.Len(), missing)
	}
	return out, nil
}
