package voxel

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/banshee-data/pointgrid/internal/geom"
	"github.com/banshee-data/pointgrid/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomCloud(n int, seed uint64) []geom.Point {
	rng := rand.New(rand.NewPCG(seed, seed))
	points := make([]geom.Point, n)
	for i := range points {
		points[i] = geom.Point{X: rng.NormFloat64() * 3, Y: rng.NormFloat64() * 3, Z: rng.Float64()}
	}
	return points
}

func collectLists(m *CellMap) [][]int {
	var lists [][]int
	m.Range(func(_ CellIndex, positions []int) bool {
		lists = append(lists, positions)
		return true
	})
	return lists
}

func TestCellMap_Partition(t *testing.T) {
	t.Parallel()

	for _, res := range []float64{0.1, 0.5, 1, 10} {
		points := randomCloud(5000, 3)
		indexes := CellIndexesOf(points, res)
		m := NewCellMap(indexes)

		testutil.AssertPartition(t, collectLists(m), len(points))
		assert.Equal(t, len(points), m.Points())
		assert.Equal(t, NewCellSet(indexes).Len(), m.Len(), "res=%g", res)

		for i, c := range indexes {
			require.True(t, slices.Contains(m.Lookup(c), i), "position %d missing from its cell %v", i, c)
		}
	}
}

func TestCellMap_InsertionOrder(t *testing.T) {
	t.Parallel()

	indexes := []CellIndex{{0, 0, 0}, {1, 0, 0}, {0, 0, 0}, {1, 0, 0}, {0, 0, 0}}
	m := NewCellMap(indexes)
	assert.Equal(t, []int{0, 2, 4}, m.Lookup(CellIndex{0, 0, 0}))
	assert.Equal(t, []int{1, 3}, m.Lookup(CellIndex{1, 0, 0}))
	assert.Nil(t, m.Lookup(CellIndex{2, 0, 0}), "absent cells map to nil, never empty")
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []CellIndex{{0, 0, 0}, {1, 0, 0}}, m.Cells())
}

func TestCellMap_Empty(t *testing.T) {
	t.Parallel()

	m := NewCellMap(nil)
	assert.Zero(t, m.Len())
	assert.Zero(t, m.Points())
	assert.Empty(t, m.Cells())
	assert.Nil(t, m.Lookup(CellIndex{}))
}

func TestCellMap_HashCollisionResolvedStructurally(t *testing.T) {
	t.Parallel()

	m := NewCellMap(nil)
	a := CellIndex{1, 2, 3}
	b := CellIndex{-7, 0, 9}
	const forced = 42
	m.add(forced, a, 0)
	m.add(forced, b, 1)
	m.add(forced, a, 2)

	assert.Equal(t, []int{0, 2}, m.lookup(forced, a))
	assert.Equal(t, []int{1}, m.lookup(forced, b))
	assert.Nil(t, m.lookup(forced, CellIndex{}))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 3, m.Points())
}

func TestCellMap_RangeStops(t *testing.T) {
	t.Parallel()

	m := NewCellMap([]CellIndex{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
	calls := 0
	m.Range(func(CellIndex, []int) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestCellMap_ShuffleIsDeterministicPermutation(t *testing.T) {
	t.Parallel()

	indexes := make([]CellIndex, 400)
	for i := range indexes {
		indexes[i] = CellIndex{int64(i % 4), 0, 0}
	}
	m1 := NewCellMap(indexes)
	m2 := NewCellMap(indexes)
	m1.Shuffle()
	m2.Shuffle()

	for _, c := range m1.Cells() {
		got := m1.Lookup(c)
		if diff := cmp.Diff(got, m2.Lookup(c)); diff != "" {
			t.Errorf("shuffle of %v differs between identical maps (-m1 +m2):\n%s", c, diff)
		}
		assert.ElementsMatch(t, NewCellMap(indexes).Lookup(c), got, "shuffle must be a permutation")
	}
	testutil.AssertPartition(t, collectLists(m1), len(indexes))

	moved := false
	for _, c := range m1.Cells() {
		if !cmp.Equal(m1.Lookup(c), NewCellMap(indexes).Lookup(c)) {
			moved = true
		}
	}
	assert.True(t, moved, "100-element lists should not all keep insertion order")
}

func TestCellMap_ShuffleSeparatesCollidingCells(t *testing.T) {
	t.Parallel()

	m := NewCellMap(nil)
	a := CellIndex{1, 2, 3}
	b := CellIndex{-1, -2, -3}
	const forced, n = 7, 50
	for i := range n {
		m.add(forced, a, i)
		m.add(forced, b, n+i)
	}
	m.Shuffle()

	pa := m.lookup(forced, a)
	pb := slices.Clone(m.lookup(forced, b))
	for i := range pb {
		pb[i] -= n
	}
	assert.ElementsMatch(t, testutil.Sequence(n), pa)
	assert.ElementsMatch(t, testutil.Sequence(n), pb)
	assert.NotEqual(t, pa, pb, "cells sharing a bucket and length should shuffle differently")
}

func TestCellSet(t *testing.T) {
	t.Parallel()

	s := NewCellSet([]CellIndex{{0, 0, 0}, {0, 0, 0}, {1, 1, 1}})
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(CellIndex{1, 1, 1}))
	assert.False(t, s.Contains(CellIndex{2, 2, 2}))
	assert.True(t, s.Add(CellIndex{2, 2, 2}))
	assert.False(t, s.Add(CellIndex{2, 2, 2}))
	assert.Equal(t, 3, s.Len())

	var zero CellSet
	assert.True(t, zero.Add(CellIndex{}))
	assert.True(t, zero.Contains(CellIndex{}))
}

func TestCellSet_HashCollisionResolvedStructurally(t *testing.T) {
	t.Parallel()

	s := NewCellSet(nil)
	assert.True(t, s.add(7, CellIndex{1, 0, 0}))
	assert.True(t, s.add(7, CellIndex{0, 1, 0}))
	assert.False(t, s.add(7, CellIndex{1, 0, 0}))
	assert.Equal(t, 2, s.Len())
}
