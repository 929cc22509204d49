// Package radius finds, for each query point, a bounded random sample of
// the points within a search radius.
//
// Responsibilities: building a sparse voxel Grid over the neighbor points,
// drawing candidates from the 27 cells around each query without bias
// toward crowded cells, filtering by exact distance, and running queries
// in parallel.
// Key types: Grid, Selector, Params.
//
// The grid resolution equals the search radius, so every point within the
// radius lies in the query's own cell or one of its 26 neighbours. Results
// are positions into the neighbor index list, in draw order.
//
// Basic usage:
//
//	params := radius.DefaultParams(1.0)
//	neighbors, err := radius.Neighbors(points, params)
//	// neighbors[i] holds up to params.MaxNeighbors positions near points[i]
//
// For a subset against the whole cloud, with a callback:
//
//	err := radius.SearchAllNeighbors(points, subset, params, func(i int, nb []int) error {
//		// i indexes subset; nb indexes points. Called concurrently.
//		return nil
//	})
package radius
