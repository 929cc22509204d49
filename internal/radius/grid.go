package radius

import (
	"fmt"

	"github.com/banshee-data/pointgrid/internal/geom"
	"github.com/banshee-data/pointgrid/internal/monitoring"
	"github.com/banshee-data/pointgrid/internal/voxel"
)

// Grid is a read-only voxel index over a subset of a point slice.
// Safe for concurrent queries.
type Grid struct {
	points      []geom.Point
	neighborIdx []int
	origin      geom.Point
	resolution  float64
	cylindrical bool
	cells       *voxel.CellMap
}

// NewGrid indexes points[neighborIdx[j]] for every j on a grid anchored at
// the subset's minimum corner. Query results are positions j.
func NewGrid(points []geom.Point, neighborIdx []int, resolution float64) (*Grid, error) {
	return newGrid(points, neighborIdx, resolution, false)
}

// NewCylinderGrid is NewGrid with Z ignored: every point falls in the K=0
// layer and distances are measured in XY, so a query covers an unbounded
// vertical cylinder.
func NewCylinderGrid(points []geom.Point, neighborIdx []int, resolution float64) (*Grid, error) {
	return newGrid(points, neighborIdx, resolution, true)
}

func newGrid(points []geom.Point, neighborIdx []int, resolution float64, cylindrical bool) (*Grid, error) {
	if err := validateRadius(resolution); err != nil {
		return nil, err
	}
	if err := checkIndexes(len(points), neighborIdx, "neighbor"); err != nil {
		return nil, err
	}

	g := &Grid{
		points:      points,
		neighborIdx: neighborIdx,
		resolution:  resolution,
		cylindrical: cylindrical,
	}

	e := geom.ExtentAt(points, neighborIdx)
	if !e.Empty() {
		if !e.Finite() {
			return nil, fmt.Errorf("neighbor points: %w", ErrNonFinite)
		}
		g.origin = e.Min
	}

	indexes := voxel.CellIndexesAt(points, neighborIdx, geom.Extent{Min: g.origin}, resolution)
	if cylindrical {
		flatten(indexes)
	}
	g.cells = voxel.NewCellMap(indexes)
	// Insertion order follows neighborIdx; shuffling once here makes the
	// order in which a Selector pops each cell random too.
	g.cells.Shuffle()

	monitoring.Debugf("radius grid: %d points in %d cells at resolution %g (cylindrical=%t)",
		len(neighborIdx), g.cells.Len(), resolution, cylindrical)
	return g, nil
}

func flatten(indexes []voxel.CellIndex) {
	for i := range indexes {
		indexes[i].K = 0
	}
}

// Resolution returns the cell edge length.
func (g *Grid) Resolution() float64 {
	return g.resolution
}

// Origin returns the grid's anchor corner.
func (g *Grid) Origin() geom.Point {
	return g.origin
}

// Cells returns the underlying cell map. Callers must not modify it.
func (g *Grid) Cells() *voxel.CellMap {
	return g.cells
}

// Cell returns the grid cell containing p.
func (g *Grid) Cell(p geom.Point) voxel.CellIndex {
	c := voxel.CellIndexOf(p, g.origin, g.resolution)
	if g.cylindrical {
		c.K = 0
	}
	return c
}

// Query returns up to maxNeighbors positions j whose points lie within
// radius of q. radius may be smaller than the resolution but not larger.
func (g *Grid) Query(q geom.Point, radius float64, maxNeighbors int) ([]int, error) {
	if err := validateRadius(radius); err != nil {
		return nil, err
	}
	if radius > g.resolution {
		return nil, fmt.Errorf("%w: %g > %g", ErrRadiusExceedsResolution, radius, g.resolution)
	}
	if maxNeighbors < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidMaxNeighbors, maxNeighbors)
	}
	if !geom.IsFinite(q) {
		return nil, fmt.Errorf("query point: %w", ErrNonFinite)
	}
	if maxNeighbors == 0 {
		return nil, nil
	}
	var sel Selector
	return g.collect(&sel, g.Cell(q), q, radius, maxNeighbors), nil
}

// collect runs one query's draw loop on sel. The returned slice is fresh
// and owned by the caller.
func (g *Grid) collect(sel *Selector, center voxel.CellIndex, q geom.Point, radius float64, maxNeighbors int) []int {
	sel.Reset(center, g.cells)

	var neighbors []int
	for sel.Remaining() > 0 && len(neighbors) < maxNeighbors {
		j := sel.Next()
		if g.distance(q, g.points[g.neighborIdx[j]]) <= radius {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

func (g *Grid) distance(a, b geom.Point) float64 {
	if g.cylindrical {
		return geom.Distance2D(a, b)
	}
	return geom.Distance(a, b)
}
