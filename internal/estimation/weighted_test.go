package estimation

import (
	"math"
	"testing"
)

func TestWeightedMeanSD_UnitWeightsMatchUnweighted(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	weights := []float64{1, 1, 1, 1}

	mean, sd := WeightedMeanSD(values, weights)

	if math.Abs(mean-2.5) > 1e-12 {
		t.Errorf("mean = %v, want 2.5", mean)
	}
	// Population sd: sqrt(5/4)
	want := math.Sqrt(1.25)
	if math.Abs(sd-want) > 1e-12 {
		t.Errorf("sd = %v, want %v", sd, want)
	}
}

func TestWeightedMeanSD_ExcludesMissingPositions(t *testing.T) {
	withMissing := []float64{1, math.NaN(), 3}
	weights := []float64{1, 1, 1}

	meanA, sdA := WeightedMeanSD(withMissing, weights)
	meanB, sdB := WeightedMeanSD([]float64{1, 3}, []float64{1, 1})

	if meanA != meanB {
		t.Errorf("mean with missing = %v, want %v", meanA, meanB)
	}
	if sdA != sdB {
		t.Errorf("sd with missing = %v, want %v", sdA, sdB)
	}
	if meanA != 2 || sdA != 1 {
		t.Errorf("got mean=%v sd=%v, want mean=2 sd=1", meanA, sdA)
	}
}

func TestWeightedMeanSD_WeightsShiftTheMean(t *testing.T) {
	values := []float64{0, 10}
	weights := []float64{1, 3}

	mean, _ := WeightedMeanSD(values, weights)
	if math.Abs(mean-7.5) > 1e-12 {
		t.Errorf("mean = %v, want 7.5", mean)
	}
}

func TestWeightedMeanSD_UndefinedCases(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		weights []float64
	}{
		{"all missing", []float64{math.NaN(), math.NaN()}, []float64{1, 1}},
		{"zero total weight", []float64{1, 2}, []float64{0, 0}},
		{"empty sample", nil, nil},
		{"missing positions carry all the weight", []float64{math.NaN(), 5}, []float64{3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, sd := WeightedMeanSD(tt.values, tt.weights)
			if !math.IsNaN(mean) || !math.IsNaN(sd) {
				t.Errorf("got mean=%v sd=%v, want NaN for both", mean, sd)
			}
		})
	}
}
