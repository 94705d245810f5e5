package combination

// FirstFeature returns the first feature's p-value unchanged. It is the
// minimal combiner policy: useful when the first tracked feature is the
// designated primary signal for a vertex type.
type FirstFeature struct{}

// NewFirstFeature creates the first-feature combiner.
func NewFirstFeature() *FirstFeature {
	return &FirstFeature{}
}

// Combine returns pValues[0].
func (c *FirstFeature) Combine(pValues []float64) (float64, error) {
	if err := checkPValues(pValues); err != nil {
		return 0, err
	}
	return pValues[0], nil
}
