// Package combination implements the probability combiner policies that
// reduce a vertex's ordered per-feature p-values to one anomaly score.
package combination

import (
	"fmt"
	"math"

	"goanomaly/domain/anomaly"
	"goanomaly/domain/core"
)

// Policy names accepted by NewCombiner.
const (
	PolicyFirstFeature = "first_feature"
	PolicyMinimum      = "min"
	PolicyAverage      = "average"
	PolicyFisher       = "fisher"
)

// NewCombiner selects a concrete combiner policy by name.
func NewCombiner(policy string) (anomaly.Combiner, error) {
	switch policy {
	case PolicyFirstFeature:
		return NewFirstFeature(), nil
	case PolicyMinimum:
		return NewMinimum(), nil
	case PolicyAverage:
		return NewAverage(), nil
	case PolicyFisher:
		return NewFisher(), nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownPolicy, policy)
	}
}

// checkPValues enforces the shared combiner input contract: the sequence
// must be non-empty. NaN elements are valid degenerate input (the "no
// data" sentinel from the estimators) and pass through to the policies.
func checkPValues(pValues []float64) error {
	if len(pValues) == 0 {
		return core.ErrEmptySequence
	}
	return nil
}

// ParsePValues coerces untyped boundary input (decoded JSON, CLI values)
// into a p-value sequence. Non-sequence input and non-numeric elements are
// rejected here, before any policy runs.
func ParsePValues(input any) ([]float64, error) {
	switch v := input.(type) {
	case []float64:
		return v, nil
	case []any:
		pValues := make([]float64, len(v))
		for i, e := range v {
			f, ok := asFloat(e)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T", core.ErrNonNumeric, i, e)
			}
			pValues[i] = f
		}
		return pValues, nil
	default:
		return nil, fmt.Errorf("%w: got %T", core.ErrNotSequence, input)
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return math.NaN(), false
	}
}
