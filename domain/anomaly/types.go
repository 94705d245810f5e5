// Package anomaly defines the vertex anomaly-scoring contracts: tail
// directions, the probability estimator and combiner interfaces, and the
// score artifacts produced per vertex.
package anomaly

import (
	"goanomaly/domain/core"
	"goanomaly/domain/table"
)

// Column names with fixed meaning across all input tables.
const (
	TimeWindowColumn = "time_window"
	WeightColumn     = "weight"
	NameColumn       = "name"
)

// Direction selects which side of the reference distribution counts as
// extreme.
type Direction string

const (
	RightTailed Direction = "right-tailed"
	LeftTailed  Direction = "left-tailed"
	TwoTailed   Direction = "two-tailed"
)

// ParseDirection validates a direction string at configuration time.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case RightTailed, LeftTailed, TwoTailed:
		return Direction(s), nil
	default:
		return "", core.NewDirectionError(s)
	}
}

// Estimator converts one vertex observation into per-feature p-values
// against a weighted reference history.
//
// Inputs per call: the feature value row for the vertex (one row, one
// numeric column per feature; the empirical variant additionally accepts
// and strips a "name" column), the reference table (one row per historical
// time window: feature columns plus "time_window"), and the weights table
// ("time_window" and "weight" columns, one row per reference window).
// The returned slice holds one p-value per feature column, in feature
// order. A NaN entry means the feature had no usable reference data.
// Inputs are never mutated.
type Estimator interface {
	Estimate(observed, reference, weights *table.Frame) ([]float64, error)
}

// Combiner reduces an ordered list of per-feature p-values to a single
// vertex-level score.
type Combiner interface {
	Combine(pValues []float64) (float64, error)
}

// VertexObservation bundles the three input tables for one vertex in one
// evaluation window.
type VertexObservation struct {
	VertexName core.VertexName
	Observed   *table.Frame
	Reference  *table.Frame
	Weights    *table.Frame
}

// FeatureQuality summarizes one feature's reference sample. It is
// diagnostic output only and never feeds back into the p-value math.
type FeatureQuality struct {
	Feature     string  `json:"feature"`
	SampleSize  int     `json:"sample_size"`
	MissingRate float64 `json:"missing_rate"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
}

// VertexScore is the scoring output for one vertex.
type VertexScore struct {
	ScoreID    core.ScoreID     `json:"score_id"`
	VertexName core.VertexName  `json:"vertex_name"`
	PValues    []float64        `json:"p_values"`
	Score      float64          `json:"score"`
	Quality    []FeatureQuality `json:"quality,omitempty"`
	ScoredAt   core.Timestamp   `json:"scored_at"`
}
