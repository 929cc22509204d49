package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Point is a Cartesian position in metres. It is an alias of r3.Vector so
// callers holding r3 data can pass it straight through.
type Point = r3.Vector

// Distance returns the 3-D Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return a.Sub(b).Norm()
}

// Distance2D returns the Euclidean distance between a and b in the XY plane,
// ignoring Z. Used for cylindrical searches.
func Distance2D(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// IsFinite reports whether all three coordinates are neither NaN nor ±Inf.
func IsFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}
