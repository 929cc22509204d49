package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Extent is an axis-aligned bounding box.
type Extent struct {
	Min Point
	Max Point
}

// emptyExtent is inverted so that any point extends it.
func emptyExtent() Extent {
	return Extent{
		Min: r3.Vector{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: r3.Vector{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// ExtentOf returns the bounding box of points. For an empty slice the
// result is inverted (Min > Max) and Empty reports true; callers needing a
// real volume must check.
//
// A NaN coordinate propagates into the extent, which then fails Finite.
func ExtentOf(points []Point) Extent {
	e := emptyExtent()
	for i := range points {
		e.extend(points[i])
	}
	return e
}

// ExtentAt returns the bounding box of points[positions[i]] for all i.
// Positions must be in range.
func ExtentAt(points []Point, positions []int) Extent {
	e := emptyExtent()
	for _, p := range positions {
		e.extend(points[p])
	}
	return e
}

func (e *Extent) extend(p Point) {
	e.Min.X = math.Min(e.Min.X, p.X)
	e.Min.Y = math.Min(e.Min.Y, p.Y)
	e.Min.Z = math.Min(e.Min.Z, p.Z)
	e.Max.X = math.Max(e.Max.X, p.X)
	e.Max.Y = math.Max(e.Max.Y, p.Y)
	e.Max.Z = math.Max(e.Max.Z, p.Z)
}

// Empty reports whether the extent encloses no point.
func (e Extent) Empty() bool {
	return e.Min.X > e.Max.X || e.Min.Y > e.Max.Y || e.Min.Z > e.Max.Z
}

// Finite reports whether both corners have finite coordinates.
func (e Extent) Finite() bool {
	return IsFinite(e.Min) && IsFinite(e.Max)
}

// Contains reports whether p lies inside or on the box.
func (e Extent) Contains(p Point) bool {
	return p.X >= e.Min.X && p.X <= e.Max.X &&
		p.Y >= e.Min.Y && p.Y <= e.Max.Y &&
		p.Z >= e.Min.Z && p.Z <= e.Max.Z
}

// Size returns the box edge lengths.
func (e Extent) Size() Point {
	return e.Max.Sub(e.Min)
}

// Volume returns the box volume, or 0 for an empty extent.
func (e Extent) Volume() float64 {
	if e.Empty() {
		return 0
	}
	s := e.Size()
	return s.X * s.Y * s.Z
}

// Area returns the XY footprint area, or 0 for an empty extent.
func (e Extent) Area() float64 {
	if e.Empty() {
		return 0
	}
	s := e.Size()
	return s.X * s.Y
}
