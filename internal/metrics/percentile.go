package metrics

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile (0-100) of xs using linear
// interpolation between order statistics, or nil if xs is empty.
//
// The rank is r = (n-1)*p/100 over the sorted values: an integral r
// returns that element, otherwise the two bracketing elements are
// interpolated by r's fractional part.
func Percentile(xs []float64, p float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	rank := float64(len(sorted)-1) * p / 100.0
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	v := sorted[lo]
	if hi != lo {
		v += (sorted[hi] - sorted[lo]) * (rank - float64(lo))
	}
	return &v
}

func positiveValues(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x > 0 {
			out = append(out, x)
		}
	}
	return out
}
