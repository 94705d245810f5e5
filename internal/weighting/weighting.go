// Package weighting produces the per-window weight tables consumed by the
// probability estimators: one row per reference window, columns
// "time_window" and "weight".
package weighting

import (
	"math"

	"goanomaly/domain/anomaly"
	"goanomaly/domain/core"
	"goanomaly/domain/table"
)

// Weighter assigns a weight to each reference window relative to the
// window currently being evaluated.
type Weighter interface {
	Weights(current core.TimeWindow, reference []core.TimeWindow) (*table.Frame, error)
}

// Constant gives every reference window the same weight.
type Constant struct {
	Weight float64
}

// NewConstant creates a constant weighter. A weight of 1 reduces weighted
// statistics to their unweighted form.
func NewConstant(weight float64) *Constant {
	return &Constant{Weight: weight}
}

// Weights returns the weight table for the given reference windows.
func (c *Constant) Weights(_ core.TimeWindow, reference []core.TimeWindow) (*table.Frame, error) {
	windows := make([]float64, len(reference))
	weights := make([]float64, len(reference))
	for i, w := range reference {
		windows[i] = w.Float()
		weights[i] = c.Weight
	}
	return table.New(
		table.NumericColumn(anomaly.TimeWindowColumn, windows...),
		table.NumericColumn(anomaly.WeightColumn, weights...),
	)
}

// ExponentialDecay halves a window's influence every HalfLife windows of
// age, so recent history dominates the reference statistics.
type ExponentialDecay struct {
	HalfLife float64
}

// NewExponentialDecay creates a decay weighter. halfLife must be positive.
func NewExponentialDecay(halfLife float64) *ExponentialDecay {
	if halfLife <= 0 {
		halfLife = 1
	}
	return &ExponentialDecay{HalfLife: halfLife}
}

// Weights returns the weight table for the given reference windows. A
// reference window at or after the current one gets weight 1.
func (d *ExponentialDecay) Weights(current core.TimeWindow, reference []core.TimeWindow) (*table.Frame, error) {
	windows := make([]float64, len(reference))
	weights := make([]float64, len(reference))
	for i, w := range reference {
		windows[i] = w.Float()
		age := float64(current - w)
		if age < 0 {
			age = 0
		}
		weights[i] = math.Pow(0.5, age/d.HalfLife)
	}
	return table.New(
		table.NumericColumn(anomaly.TimeWindowColumn, windows...),
		table.NumericColumn(anomaly.WeightColumn, weights...),
	)
}
