package radius

import (
	"errors"
	"fmt"
	"math"
	"runtime"
)

// DefaultMaxNeighbors caps each result when the caller does not choose.
const DefaultMaxNeighbors = 32

var (
	// ErrInvalidRadius reports a radius or resolution that is not a
	// positive finite number.
	ErrInvalidRadius = errors.New("radius must be positive and finite")
	// ErrInvalidMaxNeighbors reports a negative result cap.
	ErrInvalidMaxNeighbors = errors.New("max neighbors must be non-negative")
	// ErrIndexOutOfRange reports a query or neighbor position outside the
	// point slice.
	ErrIndexOutOfRange = errors.New("point index out of range")
	// ErrNonFinite reports a NaN or infinite coordinate in the searched points.
	ErrNonFinite = errors.New("point coordinates must be finite")
	// ErrRadiusExceedsResolution reports a query radius larger than the grid
	// resolution, which the 27-cell neighbourhood cannot cover.
	ErrRadiusExceedsResolution = errors.New("radius exceeds grid resolution")
)

// Params controls a radius search.
type Params struct {
	Radius       float64 // search radius and grid resolution, metres
	MaxNeighbors int     // cap per query; 0 yields empty results
	Cylindrical  bool    // measure distance in XY only, over unbounded Z
	Workers      int     // goroutines; <= 1 runs on the calling goroutine
}

// DefaultParams returns parameters for the given radius with the default
// cap and one worker per available CPU.
func DefaultParams(radius float64) Params {
	return Params{
		Radius:       radius,
		MaxNeighbors: DefaultMaxNeighbors,
		Workers:      runtime.GOMAXPROCS(0),
	}
}

// Validate checks that the parameters describe a runnable search.
func (p Params) Validate() error {
	if err := validateRadius(p.Radius); err != nil {
		return err
	}
	if p.MaxNeighbors < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidMaxNeighbors, p.MaxNeighbors)
	}
	return nil
}

func validateRadius(r float64) error {
	if !(r > 0) || math.IsInf(r, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidRadius, r)
	}
	return nil
}

func checkIndexes(n int, positions []int, what string) error {
	for i, p := range positions {
		if p < 0 || p >= n {
			return fmt.Errorf("%w: %s position %d is %d, have %d points", ErrIndexOutOfRange, what, i, p, n)
		}
	}
	return nil
}
