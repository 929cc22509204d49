// Package testutil provides shared test fixtures and reference answers.
//
// This package centralises the small point clouds and brute-force neighbor
// queries the voxel, radius and subsample tests compare against.
package testutil

import (
	"testing"

	"github.com/banshee-data/pointgrid/internal/geom"
)

// Cube27 returns the 27 points with offsets {-1,0,1}³. The centre (0,0,0)
// is position 0; the remaining points follow in z-layers 0, +1, -1.
func Cube27() []geom.Point {
	offsets := []float64{0, 1, -1}
	points := make([]geom.Point, 0, 27)
	for _, z := range offsets {
		for _, x := range offsets {
			for _, y := range offsets {
				points = append(points, geom.Point{X: x, Y: y, Z: z})
			}
		}
	}
	return points
}

// Sequence returns 0, 1, ..., n-1.
func Sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// BruteForceNeighbors returns, in ascending order, the positions j into
// neighborIdx whose points lie within radius of points[queryIdx[i]].
func BruteForceNeighbors(points []geom.Point, queryIdx, neighborIdx []int, i int, radius float64, cylindrical bool) []int {
	q := points[queryIdx[i]]
	var out []int
	for j, n := range neighborIdx {
		d := geom.Distance(q, points[n])
		if cylindrical {
			d = geom.Distance2D(q, points[n])
		}
		if d <= radius {
			out = append(out, j)
		}
	}
	return out
}

// AssertPartition fails t unless lists together contain every value in
// 0..n-1 exactly once and none of them is empty.
func AssertPartition(t testing.TB, lists [][]int, n int) {
	t.Helper()
	seen := make([]bool, n)
	total := 0
	for li, l := range lists {
		if len(l) == 0 {
			t.Errorf("list %d is empty", li)
		}
		for _, v := range l {
			if v < 0 || v >= n {
				t.Errorf("list %d holds out-of-range value %d (n=%d)", li, v, n)
				continue
			}
			if seen[v] {
				t.Errorf("value %d appears more than once", v)
			}
			seen[v] = true
			total++
		}
	}
	if total != n {
		t.Errorf("lists hold %d values, want %d", total, n)
	}
}
