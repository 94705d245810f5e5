package estimation

import (
	"math"
)

// WeightedMeanSD returns the weighted mean and weighted population standard
// deviation of values. Positions whose value is NaN are excluded together
// with their weight before anything is computed. values and weights must be
// aligned; weights[i] belongs to values[i].
//
// When every position is missing or the retained weight sums to zero the
// result is mathematically undefined and both returns are NaN. This is the
// "no data" sentinel, not an error.
func WeightedMeanSD(values, weights []float64) (mean, sd float64) {
	var sumW, sumWV float64
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sumW += weights[i]
		sumWV += weights[i] * v
	}
	if sumW == 0 {
		return math.NaN(), math.NaN()
	}
	mean = sumWV / sumW

	var sumWSq float64
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		sumWSq += weights[i] * d * d
	}
	return mean, math.Sqrt(sumWSq / sumW)
}
