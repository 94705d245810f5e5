package estimation

import (
	"fmt"

	"goanomaly/domain/anomaly"
)

// Estimator kinds accepted by NewEstimator.
const (
	KindGaussian  = "gaussian"
	KindEmpirical = "empirical"
)

// NewEstimator selects a concrete estimator by kind and tail direction.
func NewEstimator(kind, direction string) (anomaly.Estimator, error) {
	switch kind {
	case KindGaussian:
		return NewGaussian(direction)
	case KindEmpirical:
		return NewEmpirical(direction)
	default:
		return nil, fmt.Errorf("unknown estimator kind %q (possible kinds are %q and %q)",
			kind, KindGaussian, KindEmpirical)
	}
}
