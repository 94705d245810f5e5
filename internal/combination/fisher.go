package combination

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Fisher combines p-values with Fisher's method: under the null the
// statistic -2 * sum(ln p_i) follows a chi-squared distribution with 2k
// degrees of freedom, where k is the number of combined p-values.
type Fisher struct{}

// NewFisher creates the Fisher's-method combiner.
func NewFisher() *Fisher {
	return &Fisher{}
}

// Combine returns the chi-squared tail probability of the Fisher statistic
// over the non-NaN p-values. A zero p-value drives the statistic to
// infinity and combines to 0; an all-NaN sequence combines to NaN.
func (c *Fisher) Combine(pValues []float64) (float64, error) {
	if err := checkPValues(pValues); err != nil {
		return 0, err
	}

	kept := dropNaN(pValues)
	if len(kept) == 0 {
		return nan(), nil
	}

	statistic := 0.0
	for _, p := range kept {
		statistic += -2 * math.Log(p)
	}
	if math.IsInf(statistic, 1) {
		return 0, nil
	}

	chi := distuv.ChiSquared{K: float64(2 * len(kept))}
	return 1 - chi.CDF(statistic), nil
}
