// Package synth generates reproducible synthetic point clouds for tests,
// benchmarks and the analysis tool.
package synth

import (
	"math/rand/v2"

	"github.com/banshee-data/pointgrid/internal/geom"
	"gonum.org/v1/gonum/stat/distuv"
)

// Uniform returns n points uniformly distributed in the box [0, size).
func Uniform(n int, size geom.Point, seed uint64) []geom.Point {
	src := rand.NewPCG(seed, 0x5eed)
	ux := distuv.Uniform{Min: 0, Max: size.X, Src: src}
	uy := distuv.Uniform{Min: 0, Max: size.Y, Src: src}
	uz := distuv.Uniform{Min: 0, Max: size.Z, Src: src}

	points := make([]geom.Point, n)
	for i := range points {
		points[i] = geom.Point{X: ux.Rand(), Y: uy.Rand(), Z: uz.Rand()}
	}
	return points
}

// GaussianDisk returns n points normally distributed about the origin with
// standard deviation radius on X and Y and zStdDev on Z. Density falls off
// from the centre, which gives radius searches a wide spread of
// neighbor counts.
func GaussianDisk(n int, radius, zStdDev float64, seed uint64) []geom.Point {
	src := rand.NewPCG(seed, 0xd15c)
	xy := distuv.Normal{Mu: 0, Sigma: radius, Src: src}
	z := distuv.Normal{Mu: 0, Sigma: zStdDev, Src: src}

	points := make([]geom.Point, n)
	for i := range points {
		points[i] = geom.Point{X: xy.Rand(), Y: xy.Rand(), Z: z.Rand()}
	}
	return points
}

// Diagonal returns 2n points along the x=y=z diagonal: one at each integer
// i in [0, n) and one at i+0.5. At resolution 1 every occupied cell holds
// exactly two points.
func Diagonal(n int) []geom.Point {
	points := make([]geom.Point, 0, 2*n)
	for i := 0; i < n; i++ {
		a := float64(i)
		b := a + 0.5
		points = append(points, geom.Point{X: a, Y: a, Z: a}, geom.Point{X: b, Y: b, Z: b})
	}
	return points
}

// Stack returns copies of p repeated n times.
func Stack(p geom.Point, n int) []geom.Point {
	points := make([]geom.Point, n)
	for i := range points {
		points[i] = p
	}
	return points
}
