package subsample

import (
	"math"
	"slices"
	"testing"

	"github.com/banshee-data/pointgrid/internal/geom"
	"github.com/banshee-data/pointgrid/internal/synth"
	"github.com/banshee-data/pointgrid/internal/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagonal(values ...float64) []geom.Point {
	points := make([]geom.Point, len(values))
	for i, v := range values {
		points[i] = geom.Point{X: v, Y: v, Z: v}
	}
	return points
}

func TestIndexes_Unseeded(t *testing.T) {
	t.Parallel()

	six := diagonal(0, 1.1, 2.1, 3.1, 4.1, 5.1)
	three := diagonal(0, 1.1, 2.1)

	tests := []struct {
		name       string
		points     []geom.Point
		resolution float64
		want       []int
	}{
		{"one shared cell", six, 6, []int{0}},
		{"every point its own cell", six, 1, []int{0, 1, 2, 3, 4, 5}},
		{"pairs", six, 2, []int{0, 2, 4}},
		{"three points, fine grid", three, 1, []int{0, 1, 2}},
		{"three points, coarse grid", three, 6, []int{0}},
		{"along x", []geom.Point{{X: 0}, {X: 1.1}, {X: 2.1}, {X: 3.1}}, 2, []int{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Indexes(tt.points, tt.resolution, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexes_OnePerCell(t *testing.T) {
	t.Parallel()

	points := synth.Uniform(5000, geom.Point{X: 8, Y: 8, Z: 2}, 42)
	const res = 0.5
	cells := voxel.CellIndexesOf(points, res)
	want := voxel.NewCellSet(cells).Len()

	for _, seed := range []uint64{0, 1, 99} {
		got, err := Indexes(points, res, seed)
		require.NoError(t, err)
		require.Len(t, got, want, "seed %d", seed)

		var seen voxel.CellSet
		for _, j := range got {
			assert.True(t, seen.Add(cells[j]), "seed %d: cell %+v chosen twice", seed, cells[j])
		}
	}
}

func TestIndexes_Diagonal(t *testing.T) {
	t.Parallel()

	const n = 1000
	points := synth.Diagonal(n)
	require.Len(t, points, 2*n)

	ind1, err := Indexes(points, 1, 0)
	require.NoError(t, err)
	ind2, err := Indexes(points, 1, 123)
	require.NoError(t, err)

	assert.Len(t, ind1, n, "half are gone")
	assert.Len(t, ind2, n, "half are gone")

	// Unseeded keeps the integer point of every pair, in order.
	assert.Equal(t, 0, ind1[0])
	assert.Equal(t, 2*(n-1), ind1[n-1])
	for k, j := range ind1 {
		require.Equal(t, 2*k, j)
	}

	assert.NotEqual(t, ind1, ind2, "a seeded scan visits points in a different order")
	sorted := slices.Sorted(slices.Values(ind2))
	assert.NotEqual(t, ind1, sorted, "a seeded scan picks other representatives")
}

func TestIndexes_SeededPicksVary(t *testing.T) {
	t.Parallel()

	points := synth.Diagonal(2000)
	for _, seed := range []uint64{1, 2, 3, 4, 5} {
		got, err := Indexes(points, 1, seed)
		require.NoError(t, err)

		odd := 0
		for _, j := range got {
			if j%2 == 1 {
				odd++
			}
		}
		assert.Positive(t, odd, "seed %d never chose the second point of a cell", seed)
		assert.Less(t, odd, len(got), "seed %d always chose the second point of a cell", seed)
	}
}

func TestIndexes_Deterministic(t *testing.T) {
	t.Parallel()

	points := synth.GaussianDisk(3000, 5, 1, 7)
	a, err := Indexes(points, 0.75, 31)
	require.NoError(t, err)
	b, err := Indexes(points, 0.75, 31)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestIndexes_Errors(t *testing.T) {
	t.Parallel()

	points := diagonal(0, 1)
	for _, res := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Indexes(points, res, 0)
		assert.ErrorIs(t, err, ErrInvalidResolution, "resolution %g", res)
	}

	_, err := Indexes([]geom.Point{{}, {Y: math.Inf(-1)}}, 1, 0)
	assert.ErrorIs(t, err, ErrNonFinite)

	got, err := Indexes(nil, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUniqueLocations(t *testing.T) {
	t.Parallel()

	points := []geom.Point{
		{X: 1, Y: 2, Z: 3},
		{X: 1, Y: 2, Z: 3},
		{X: 1, Y: 2, Z: 3.0001},
		{},
		{X: 1, Y: 2, Z: 3},
		{},
	}
	assert.Equal(t, []int{0, 2, 3}, UniqueLocations(points, 0))

	got := UniqueLocations(points, 17)
	require.Len(t, got, 3)
	locations := make(map[geom.Point]bool)
	for _, j := range got {
		assert.False(t, locations[points[j]], "location %v returned twice", points[j])
		locations[points[j]] = true
	}

	assert.Empty(t, UniqueLocations(nil, 0))
}

func TestDecimate(t *testing.T) {
	t.Parallel()

	points := diagonal(0, 1.1, 2.1, 3.1, 4.1, 5.1)
	got, err := Decimate(points, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, diagonal(0, 2.1, 4.1), got)

	_, err = Decimate(points, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestUndecimate_TransfersAttributes(t *testing.T) {
	t.Parallel()

	original := synth.Uniform(4000, geom.Point{X: 6, Y: 6, Z: 6}, 5)
	const res = 1.5
	for _, seed := range []uint64{0, 8} {
		decimated, err := Decimate(original, res, seed)
		require.NoError(t, err)

		// Label each decimated point by its own position.
		labels := make([]int, len(decimated))
		for j := range labels {
			labels[j] = j + 1
		}

		got, err := Undecimate(original, decimated, labels, res)
		require.NoError(t, err)
		require.Len(t, got, len(original))

		e := geom.ExtentOf(original)
		origCells := voxel.CellIndexes(original, e, res)
		decCells := voxel.CellIndexes(decimated, e, res)
		for i, label := range got {
			require.Positive(t, label, "point %d got no label", i)
			assert.Equal(t, decCells[label-1], origCells[i], "point %d labelled from another cell", i)
		}
	}
}

func TestUndecimate_SmallTable(t *testing.T) {
	t.Parallel()

	original := diagonal(0, 1.1, 2.1, 3.1, 4.1, 5.1)
	decimated := diagonal(1.1, 3.1, 5.1)
	got, err := Undecimate(original, decimated, []string{"ground", "low", "high"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"ground", "ground", "low", "low", "high", "high"}, got)
}

func TestUndecimate_Mismatch(t *testing.T) {
	t.Parallel()

	original := diagonal(0, 1.1, 2.1, 3.1, 4.1, 5.1)

	tests := []struct {
		name      string
		decimated []geom.Point
		want      error
	}{
		{"foreign cell", diagonal(0, 2.1, 4.1, 9), ErrCellMismatch},
		{"below original extent", diagonal(-1, 2.1, 4.1), ErrCellMismatch},
		{"uncovered cell", diagonal(0, 2.1), ErrCellMismatch},
		{"two points in one cell", diagonal(0, 1.1, 2.1, 4.1), ErrCellMismatch},
		{"non-finite", diagonal(0, math.NaN(), 4.1), ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := make([]int, len(tt.decimated))
			_, err := Undecimate(original, tt.decimated, attrs, 2)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Undecimate(original, diagonal(0, 2.1, 4.1), []int{1}, 2)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Undecimate(nil, diagonal(0), []int{1}, 2)
	assert.ErrorIs(t, err, ErrCellMismatch)

	got, err := Undecimate[int](nil, nil, nil, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}
