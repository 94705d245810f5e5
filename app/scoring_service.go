package app

import (
	"context"
	"fmt"
	"log"
	"math"

	"goanomaly/domain/anomaly"
	"goanomaly/domain/core"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// ScoringService turns vertex observations into anomaly scores: estimator
// for the per-feature p-values, combiner for the vertex-level score. The
// service holds only configuration, so one instance can score many
// vertices concurrently.
type ScoringService struct {
	estimator   anomaly.Estimator
	combiner    anomaly.Combiner
	parallelism int
	withQuality bool
}

// ScoringOption configures a ScoringService.
type ScoringOption func(*ScoringService)

// WithParallelism caps concurrent vertex scoring in ScoreBatch.
func WithParallelism(n int) ScoringOption {
	return func(s *ScoringService) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithQualitySummary attaches per-feature reference-sample summaries to
// each score.
func WithQualitySummary() ScoringOption {
	return func(s *ScoringService) { s.withQuality = true }
}

// NewScoringService creates a scoring service.
func NewScoringService(estimator anomaly.Estimator, combiner anomaly.Combiner, opts ...ScoringOption) *ScoringService {
	s := &ScoringService{
		estimator:   estimator,
		combiner:    combiner,
		parallelism: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreVertex scores a single vertex observation.
func (s *ScoringService) ScoreVertex(ctx context.Context, obs anomaly.VertexObservation) (*anomaly.VertexScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pValues, err := s.estimator.Estimate(obs.Observed, obs.Reference, obs.Weights)
	if err != nil {
		return nil, fmt.Errorf("estimate vertex %q: %w", obs.VertexName, err)
	}

	score, err := s.combiner.Combine(pValues)
	if err != nil {
		return nil, fmt.Errorf("combine p-values for vertex %q: %w", obs.VertexName, err)
	}

	result := &anomaly.VertexScore{
		ScoreID:    core.NewScoreID(),
		VertexName: obs.VertexName,
		PValues:    pValues,
		Score:      score,
		ScoredAt:   core.Now(),
	}
	if s.withQuality {
		result.Quality = referenceQuality(obs)
	}
	return result, nil
}

// ScoreBatch scores independent vertex observations concurrently. Order of
// results matches the order of observations. The first failing vertex
// fails the batch.
func (s *ScoringService) ScoreBatch(ctx context.Context, observations []anomaly.VertexObservation) ([]*anomaly.VertexScore, error) {
	results := make([]*anomaly.VertexScore, len(observations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, obs := range observations {
		i, obs := i, obs
		g.Go(func() error {
			score, err := s.ScoreVertex(ctx, obs)
			if err != nil {
				return err
			}
			results[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Printf("[Scoring] Scored %d vertices", len(results))
	return results, nil
}

// referenceQuality summarizes each feature's reference column. Summaries
// are unweighted; they describe the sample, not the fitted distribution.
func referenceQuality(obs anomaly.VertexObservation) []anomaly.FeatureQuality {
	if obs.Reference == nil {
		return nil
	}

	var quality []anomaly.FeatureQuality
	for _, col := range obs.Reference.Columns() {
		if col.Name == anomaly.TimeWindowColumn || !col.IsNumeric() {
			continue
		}

		present := make([]float64, 0, col.Len())
		for _, v := range col.Floats {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}

		q := anomaly.FeatureQuality{
			Feature:    col.Name,
			SampleSize: len(present),
		}
		if col.Len() > 0 {
			q.MissingRate = float64(col.Len()-len(present)) / float64(col.Len())
		}
		if len(present) > 0 {
			q.Mean, _ = stats.Mean(present)
			q.Median, _ = stats.Median(present)
			q.Min, _ = stats.Min(present)
			q.Max, _ = stats.Max(present)
		}
		quality = append(quality, q)
	}
	return quality
}
