package combination

import (
	"github.com/montanaflynn/stats"
)

// Minimum scores a vertex by its most anomalous feature.
type Minimum struct{}

// NewMinimum creates the minimum combiner.
func NewMinimum() *Minimum {
	return &Minimum{}
}

// Combine returns the smallest p-value in the sequence. NaN entries carry
// no reference data and are skipped; an all-NaN sequence combines to NaN.
func (c *Minimum) Combine(pValues []float64) (float64, error) {
	if err := checkPValues(pValues); err != nil {
		return 0, err
	}
	m, err := stats.Min(dropNaN(pValues))
	if err != nil {
		// stats.Min only fails on an empty sample, i.e. all entries NaN.
		return nan(), nil
	}
	return m, nil
}
