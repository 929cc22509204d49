// Package stats summarises neighbor-count distributions produced by radius
// searches.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a distribution of per-query neighbor counts.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	// Capped is the fraction of queries that hit the result cap.
	Capped float64 `json:"capped"`
}

// NeighborCounts returns len(lists[i]) for every i.
func NeighborCounts(lists [][]int) []float64 {
	counts := make([]float64, len(lists))
	for i, l := range lists {
		counts[i] = float64(len(l))
	}
	return counts
}

// Summarize describes counts. maxNeighbors is the cap the search ran with;
// pass 0 when there was none. An empty input yields a zero Summary.
func Summarize(counts []float64, maxNeighbors int) Summary {
	if len(counts) == 0 {
		return Summary{}
	}

	sorted := slices.Clone(counts)
	slices.Sort(sorted)

	s := Summary{
		N:   len(counts),
		Min: floats.Min(sorted),
		Max: floats.Max(sorted),
		P50: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95: stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	if len(counts) > 1 {
		s.Mean, s.StdDev = stat.PopMeanStdDev(sorted, nil)
	} else {
		s.Mean = sorted[0]
	}

	if maxNeighbors > 0 {
		capped := 0
		for _, c := range counts {
			if c >= float64(maxNeighbors) {
				capped++
			}
		}
		s.Capped = float64(capped) / float64(len(counts))
	}
	return s
}

// Histogram returns the number of counts falling in each unit-width bin
// [k, k+1) for k in 0..max(counts). Neighbor counts are integers, so bin k
// holds the queries with exactly k neighbors.
func Histogram(counts []float64) []int {
	if len(counts) == 0 {
		return nil
	}
	top := int(math.Floor(floats.Max(counts)))
	bins := make([]int, top+1)
	for _, c := range counts {
		if c < 0 {
			continue
		}
		bins[int(math.Floor(c))]++
	}
	return bins
}
