// Package estimation implements the probability estimators that turn one
// vertex observation into per-feature p-values against a weighted history
// of reference observations.
package estimation

import (
	"goanomaly/domain/anomaly"
	"goanomaly/domain/table"

	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian is the parametric estimator: each feature's reference
// distribution is assumed Normal and fit with the weighted mean and
// standard deviation of the joined reference sample.
type Gaussian struct {
	direction anomaly.Direction
}

// NewGaussian creates a Gaussian estimator for the given tail direction.
func NewGaussian(direction string) (*Gaussian, error) {
	dir, err := anomaly.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	return &Gaussian{direction: dir}, nil
}

// Direction returns the configured tail direction.
func (g *Gaussian) Direction() anomaly.Direction {
	return g.direction
}

// Estimate returns one p-value per feature column of observed, in column
// order. The full structural contract is validated before any statistics
// are computed. A feature whose reference sample retains zero total weight
// yields NaN.
//
// With zero reference variance the Normal CDF degenerates to a point mass
// at the mean: 1 above it, 0 below it, NaN at the mean itself (gonum's
// distuv convention, pinned by tests).
func (g *Gaussian) Estimate(observed, reference, weights *table.Frame) ([]float64, error) {
	if err := validateEstimateInputs(observed, reference, weights); err != nil {
		return nil, err
	}

	rows, rowWeights := joinWeights(reference, weights)

	pValues := make([]float64, 0, observed.Cols())
	for _, name := range observed.Names() {
		obsCol, _ := observed.Column(name)
		value := obsCol.Floats[0]

		refCol, _ := reference.Column(name)
		sample := make([]float64, len(rows))
		for i, r := range rows {
			sample[i] = refCol.Floats[r]
		}

		mean, sd := WeightedMeanSD(sample, rowWeights)
		dist := distuv.Normal{Mu: mean, Sigma: sd}

		var p float64
		switch g.direction {
		case anomaly.RightTailed:
			p = 1 - dist.CDF(value)
		case anomaly.LeftTailed:
			p = dist.CDF(value)
		default:
			right := 1 - dist.CDF(value)
			left := dist.CDF(value)
			p = 2 * min(right, left)
		}
		pValues = append(pValues, p)
	}

	return pValues, nil
}
