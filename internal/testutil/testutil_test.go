package testutil

import (
	"testing"

	"github.com/banshee-data/pointgrid/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCube27(t *testing.T) {
	t.Parallel()

	cube := Cube27()
	require.Len(t, cube, 27)
	assert.Equal(t, geom.Point{}, cube[0], "centre must be position 0")

	seen := make(map[geom.Point]bool)
	for _, p := range cube {
		assert.False(t, seen[p], "duplicate point %v", p)
		seen[p] = true
		for _, c := range []float64{p.X, p.Y, p.Z} {
			assert.Contains(t, []float64{-1, 0, 1}, c)
		}
	}
}

func TestSequence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{0, 1, 2, 3}, Sequence(4))
	assert.Empty(t, Sequence(0))
}

func TestBruteForceNeighbors(t *testing.T) {
	t.Parallel()

	cube := Cube27()
	all := Sequence(len(cube))
	assert.Len(t, BruteForceNeighbors(cube, all, all, 0, 1.1, false), 7)
	assert.Len(t, BruteForceNeighbors(cube, all, all, 0, 2.1, false), 27)
	// Cylindrical search ignores z, so each of the 3 layers contributes 5.
	assert.Len(t, BruteForceNeighbors(cube, all, all, 0, 1.1, true), 15)
}

func TestAssertPartition(t *testing.T) {
	t.Parallel()

	AssertPartition(t, [][]int{{0, 2}, {1}, {3}}, 4)

	rec := &recorder{TB: t}
	AssertPartition(rec, [][]int{{0, 1}, {1}}, 3)
	assert.True(t, rec.failed, "duplicate and missing values should fail")

	rec = &recorder{TB: t}
	AssertPartition(rec, [][]int{{0}, {}}, 1)
	assert.True(t, rec.failed, "empty list should fail")
}

// recorder captures failures instead of failing the enclosing test.
type recorder struct {
	testing.TB
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(string, ...interface{}) { r.failed = true }
