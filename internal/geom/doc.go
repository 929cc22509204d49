// Package geom holds the point and bounding-box types shared by the voxel,
// radius and subsample packages.
//
// Key types: Point, Extent.
//
// Points are caller-owned and never modified here. An Extent is derived
// fresh from a point collection; nothing caches one across mutation.
package geom
