package combination

import (
	"errors"
	"math"
	"testing"

	"goanomaly/domain/core"
)

func TestFirstFeature_ReturnsFirstPValue(t *testing.T) {
	combiner := NewFirstFeature()

	pValues := []float64{0.21, 0.12, 0.021, 0.15, 0.067}
	combined, err := combiner.Combine(pValues)
	if err != nil {
		t.Fatal(err)
	}
	if combined != 0.21 {
		t.Errorf("combined = %v, want 0.21", combined)
	}
}

func TestCombine_EmptySequence(t *testing.T) {
	policies := []string{PolicyFirstFeature, PolicyMinimum, PolicyAverage, PolicyFisher}
	for _, policy := range policies {
		t.Run(policy, func(t *testing.T) {
			combiner, err := NewCombiner(policy)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := combiner.Combine(nil); !errors.Is(err, core.ErrEmptySequence) {
				t.Errorf("err = %v, want ErrEmptySequence", err)
			}
		})
	}
}

func TestParsePValues(t *testing.T) {
	t.Run("scalar input is not a sequence", func(t *testing.T) {
		if _, err := ParsePValues(42); !errors.Is(err, core.ErrNotSequence) {
			t.Errorf("err = %v, want ErrNotSequence", err)
		}
	})

	t.Run("non-numeric element", func(t *testing.T) {
		_, err := ParsePValues([]any{0.21, "A", 0.15})
		if !errors.Is(err, core.ErrNonNumeric) {
			t.Errorf("err = %v, want ErrNonNumeric", err)
		}
	})

	t.Run("numeric elements pass through in order", func(t *testing.T) {
		pValues, err := ParsePValues([]any{0.21, 0.12, 1})
		if err != nil {
			t.Fatal(err)
		}
		want := []float64{0.21, 0.12, 1}
		for i := range want {
			if pValues[i] != want[i] {
				t.Fatalf("pValues = %v, want %v", pValues, want)
			}
		}
	})

	t.Run("typed float slice is accepted as-is", func(t *testing.T) {
		in := []float64{0.5, 0.1}
		out, err := ParsePValues(in)
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 2 || out[0] != 0.5 {
			t.Fatalf("out = %v", out)
		}
	})
}

func TestMinimum_SkipsNaNSentinels(t *testing.T) {
	combiner := NewMinimum()

	combined, err := combiner.Combine([]float64{0.3, math.NaN(), 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if combined != 0.1 {
		t.Errorf("combined = %v, want 0.1", combined)
	}

	allNaN, err := combiner.Combine([]float64{math.NaN(), math.NaN()})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(allNaN) {
		t.Errorf("combined = %v, want NaN for an all-NaN sequence", allNaN)
	}
}

func TestAverage_MeanOfPresentPValues(t *testing.T) {
	combiner := NewAverage()

	combined, err := combiner.Combine([]float64{0.2, 0.4, math.NaN()})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(combined-0.3) > 1e-12 {
		t.Errorf("combined = %v, want 0.3", combined)
	}
}

func TestFisher_KnownStatistic(t *testing.T) {
	combiner := NewFisher()

	// p = [0.5, 0.5]: statistic = -2*(ln 0.5 + ln 0.5) = 2.7726, and the
	// chi-squared(4) upper tail of that is e^-x/2 * (1 + x/2) = 0.59657.
	combined, err := combiner.Combine([]float64{0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(combined-0.59657) > 1e-4 {
		t.Errorf("combined = %v, want 0.59657", combined)
	}
}

func TestFisher_ZeroPValueDominates(t *testing.T) {
	combiner := NewFisher()

	combined, err := combiner.Combine([]float64{0, 0.9})
	if err != nil {
		t.Fatal(err)
	}
	if combined != 0 {
		t.Errorf("combined = %v, want 0", combined)
	}
}

func TestNewCombiner_UnknownPolicy(t *testing.T) {
	if _, err := NewCombiner("median-of-medians"); !errors.Is(err, core.ErrUnknownPolicy) {
		t.Fatalf("err = %v, want ErrUnknownPolicy", err)
	}
}
