package weighting

import (
	"math"
	"testing"

	"goanomaly/domain/anomaly"
	"goanomaly/domain/core"
)

func TestConstant_UniformWeights(t *testing.T) {
	weighter := NewConstant(1)

	frame, err := weighter.Weights(4, []core.TimeWindow{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}

	if frame.Rows() != 3 || frame.Cols() != 2 {
		t.Fatalf("frame is %dx%d, want 3x2", frame.Rows(), frame.Cols())
	}
	weights, _ := frame.Column(anomaly.WeightColumn)
	for i, w := range weights.Floats {
		if w != 1 {
			t.Errorf("weight[%d] = %v, want 1", i, w)
		}
	}
	windows, _ := frame.Column(anomaly.TimeWindowColumn)
	if windows.Floats[0] != 1 || windows.Floats[2] != 3 {
		t.Errorf("windows = %v, want [1 2 3]", windows.Floats)
	}
}

func TestExponentialDecay_HalvesPerHalfLife(t *testing.T) {
	weighter := NewExponentialDecay(2)

	frame, err := weighter.Weights(5, []core.TimeWindow{5, 3, 1})
	if err != nil {
		t.Fatal(err)
	}

	weights, _ := frame.Column(anomaly.WeightColumn)
	want := []float64{1, 0.5, 0.25}
	for i := range want {
		if math.Abs(weights.Floats[i]-want[i]) > 1e-12 {
			t.Errorf("weight[%d] = %v, want %v", i, weights.Floats[i], want[i])
		}
	}
}

func TestExponentialDecay_FutureWindowsClampToFullWeight(t *testing.T) {
	weighter := NewExponentialDecay(1)

	frame, err := weighter.Weights(2, []core.TimeWindow{4})
	if err != nil {
		t.Fatal(err)
	}
	weights, _ := frame.Column(anomaly.WeightColumn)
	if weights.Floats[0] != 1 {
		t.Errorf("weight = %v, want 1", weights.Floats[0])
	}
}
