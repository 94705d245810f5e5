package combination

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Average scores a vertex by the mean of its per-feature p-values.
type Average struct{}

// NewAverage creates the average combiner.
func NewAverage() *Average {
	return &Average{}
}

// Combine returns the arithmetic mean of the non-NaN p-values; an all-NaN
// sequence combines to NaN.
func (c *Average) Combine(pValues []float64) (float64, error) {
	if err := checkPValues(pValues); err != nil {
		return 0, err
	}
	m, err := stats.Mean(dropNaN(pValues))
	if err != nil {
		return nan(), nil
	}
	return m, nil
}

func dropNaN(pValues []float64) []float64 {
	kept := make([]float64, 0, len(pValues))
	for _, p := range pValues {
		if !math.IsNaN(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func nan() float64 { return math.NaN() }
