// Package voxel assigns points to cells of a sparse uniform 3-D grid and
// groups point positions by cell.
//
// Key types: CellIndex, CellSet, CellMap.
//
// A grid is defined by an origin (normally the minimum corner of an Extent)
// and a strictly positive resolution. Nothing is allocated for empty cells.
// Cell identity is structural over (I, J, K); maps and sets bucket by the
// explicit CellIndex.Hash combiner and resolve collisions with Equal.
package voxel
