package estimation

import (
	"math"

	"goanomaly/domain/anomaly"
	"goanomaly/domain/core"
	"goanomaly/domain/table"
)

// Empirical is the non-parametric estimator: a feature's p-value is the
// weighted fraction of reference observations at least as extreme as the
// observed value.
type Empirical struct {
	direction anomaly.Direction
}

// NewEmpirical creates an Empirical estimator for the given tail direction.
func NewEmpirical(direction string) (*Empirical, error) {
	dir, err := anomaly.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	return &Empirical{direction: dir}, nil
}

// Direction returns the configured tail direction.
func (e *Empirical) Direction() anomaly.Direction {
	return e.direction
}

// Estimate returns one p-value per feature column of observed, in column
// order. A "name" column in observed identifies the vertex and is stripped
// before validation; the numeric remainder is held to the same structural
// contract as the Gaussian estimator. Missing reference entries are
// excluded from both numerator and denominator; a feature retaining zero
// total weight yields NaN.
func (e *Empirical) Estimate(observed, reference, weights *table.Frame) ([]float64, error) {
	if observed != nil {
		observed = observed.Drop(anomaly.NameColumn)
	}
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

		var p float64
		if e.direction == anomaly.TwoTailed {
			right, err := empiricalTail(value, sample, rowWeights, anomaly.RightTailed)
			if err != nil {
				return nil, err
			}
			left, err := empiricalTail(value, sample, rowWeights, anomaly.LeftTailed)
			if err != nil {
				return nil, err
			}
			p = 2 * min(right, left)
		} else {
			var err error
			p, err = empiricalTail(value, sample, rowWeights, e.direction)
			if err != nil {
				return nil, err
			}
		}
		pValues = append(pValues, p)
	}

	return pValues, nil
}

// empiricalTail computes the single-direction weighted exceedance fraction.
// Only right-tailed and left-tailed are meaningful here; two-tailed must be
// composed from two single-direction calls and is rejected.
func empiricalTail(value float64, references, weights []float64, direction anomaly.Direction) (float64, error) {
	if direction != anomaly.RightTailed && direction != anomaly.LeftTailed {
		return 0, core.ErrInvalidTailDirection
	}

	var sumAll, sumConditional float64
	for i, r := range references {
		if math.IsNaN(r) {
			continue
		}
		sumAll += weights[i]
		if direction == anomaly.RightTailed && r >= value {
			sumConditional += weights[i]
		} else if direction == anomaly.LeftTailed && r <= value {
			sumConditional += weights[i]
		}
	}

	if sumAll == 0 {
		return math.NaN(), nil
	}
	return sumConditional / sumAll, nil
}
