package radius

import (
	"context"
	"fmt"

	"github.com/banshee-data/pointgrid/internal/geom"
	"github.com/banshee-data/pointgrid/internal/monitoring"
	"github.com/banshee-data/pointgrid/internal/voxel"
	"golang.org/x/sync/errgroup"
)

// NeighborFunc receives the result for query position i: positions into
// the neighbor index list, in draw order. It is called exactly once per i,
// possibly concurrently for different i, and owns the slice it is given.
// Synchronising anything it shares across calls is up to the caller.
// A non-nil error stops the search.
type NeighborFunc func(i int, neighbors []int) error

// Search finds neighbors for every points[queryIdx[i]] among the points
// named by neighborIdx and hands each result to fn.
//
// Query and neighbor cells are both computed on the neighbor subset's grid.
// Queries are split into contiguous ranges over params.Workers goroutines.
// If fn fails, queries not yet started are skipped and the first error is
// returned once every worker has stopped.
func Search(points []geom.Point, queryIdx, neighborIdx []int, params Params, fn NeighborFunc) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := checkIndexes(len(points), queryIdx, "query"); err != nil {
		return err
	}
	if len(queryIdx) == 0 {
		return nil
	}

	if params.MaxNeighbors == 0 {
		if err := checkIndexes(len(points), neighborIdx, "neighbor"); err != nil {
			return err
		}
		for i := range queryIdx {
			if err := fn(i, nil); err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
		}
		return nil
	}

	var (
		g   *Grid
		err error
	)
	if params.Cylindrical {
		g, err = NewCylinderGrid(points, neighborIdx, params.Radius)
	} else {
		g, err = NewGrid(points, neighborIdx, params.Radius)
	}
	if err != nil {
		return err
	}

	if !geom.ExtentAt(points, queryIdx).Finite() {
		return fmt.Errorf("query points: %w", ErrNonFinite)
	}
	queryCells := voxel.CellIndexesAt(points, queryIdx, geom.Extent{Min: g.origin}, params.Radius)
	if params.Cylindrical {
		flatten(queryCells)
	}

	monitoring.Debugf("radius search: %d queries, %d candidates, radius %g, max %d, workers %d",
		len(queryIdx), len(neighborIdx), params.Radius, params.MaxNeighbors, params.Workers)

	return forEachRange(len(queryIdx), params.Workers, func(ctx context.Context, start, end int) error {
		var sel Selector
		for i := start; i < end; i++ {
			if ctx.Err() != nil {
				return nil
			}
			neighbors := g.collect(&sel, queryCells[i], points[queryIdx[i]], params.Radius, params.MaxNeighbors)
			if err := fn(i, neighbors); err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
		}
		return nil
	})
}

// SearchIndexes searches a subset against itself. Points outside indexes
// are neither queried nor returned; results are positions into indexes.
func SearchIndexes(points []geom.Point, indexes []int, params Params, fn NeighborFunc) error {
	return Search(points, indexes, indexes, params, fn)
}

// SearchAllNeighbors queries each point named by indexes against the whole
// cloud. Results are positions into points.
func SearchAllNeighbors(points []geom.Point, indexes []int, params Params, fn NeighborFunc) error {
	return Search(points, indexes, sequence(len(points)), params, fn)
}

// SearchAll queries every point against the whole cloud.
func SearchAll(points []geom.Point, params Params, fn NeighborFunc) error {
	all := sequence(len(points))
	return Search(points, all, all, params, fn)
}

// Neighbors runs SearchAll and collects the results; entry i holds the
// neighbors of points[i].
func Neighbors(points []geom.Point, params Params) ([][]int, error) {
	out := make([][]int, len(points))
	err := SearchAll(points, params, func(i int, neighbors []int) error {
		out[i] = neighbors
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// forEachRange splits [0, n) into contiguous ranges and runs fn on each.
// With one worker fn runs on the calling goroutine.
func forEachRange(n, numWorkers int, fn func(ctx context.Context, start, end int) error) error {
	if numWorkers <= 1 || n <= 1 {
		return fn(context.Background(), 0, n)
	}

	eg, ctx := errgroup.WithContext(context.Background())
	perWorker := (n + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		if start >= n {
			break
		}
		end := min(start+perWorker, n)
		eg.Go(func() error {
			return fn(ctx, start, end)
		})
	}
	return eg.Wait()
}
