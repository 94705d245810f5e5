package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"goanomaly/app"
	"goanomaly/domain/anomaly"
	"goanomaly/domain/core"
	"goanomaly/domain/table"
	"goanomaly/internal/combination"
	"goanomaly/internal/estimation"
)

// TableJSON is the wire form of a frame: ordered column names and rows of
// cells. A cell may be a number, null (missing) or a string; a column is
// numeric when all of its cells are numbers or null.
type TableJSON struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// ScoreRequest scores one vertex observation.
type ScoreRequest struct {
	VertexName string    `json:"vertex_name"`
	Estimator  string    `json:"estimator"` // "gaussian" or "empirical"
	Direction  string    `json:"direction"` // "right-tailed", "left-tailed", "two-tailed"
	Combiner   string    `json:"combiner"`  // combiner policy, default "first_feature"
	Observed   TableJSON `json:"observed"`
	Reference  TableJSON `json:"reference"`
	Weights    TableJSON `json:"weights"`
}

// BatchScoreRequest scores many vertices with one configuration.
type BatchScoreRequest struct {
	Estimator    string             `json:"estimator"`
	Direction    string             `json:"direction"`
	Combiner     string             `json:"combiner"`
	Observations []BatchObservation `json:"observations"`
}

// BatchObservation is one vertex's tables inside a batch request.
type BatchObservation struct {
	VertexName string    `json:"vertex_name"`
	Observed   TableJSON `json:"observed"`
	Reference  TableJSON `json:"reference"`
	Weights    TableJSON `json:"weights"`
}

// CombineRequest combines an untyped p-value sequence under a policy.
type CombineRequest struct {
	Policy  string `json:"policy"`
	PValues any    `json:"p_values"`
}

// ScoreResponse mirrors anomaly.VertexScore with NaN rendered as null.
type ScoreResponse struct {
	ScoreID    core.ScoreID             `json:"score_id"`
	VertexName core.VertexName          `json:"vertex_name"`
	PValues    []*float64               `json:"p_values"`
	Score      *float64                 `json:"score"`
	Quality    []anomaly.FeatureQuality `json:"quality,omitempty"`
	ScoredAt   core.Timestamp           `json:"scored_at"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body: %v", core.ErrInvalidInput, err))
		return
	}

	service, err := buildService(req.Estimator, req.Direction, req.Combiner)
	if err != nil {
		writeError(w, err)
		return
	}

	obs, err := decodeObservation(req.VertexName, req.Observed, req.Reference, req.Weights)
	if err != nil {
		writeError(w, err)
		return
	}

	score, err := service.ScoreVertex(r.Context(), obs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScoreResponse(score))
}

func (s *Server) handleScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body: %v", core.ErrInvalidInput, err))
		return
	}

	service, err := buildService(req.Estimator, req.Direction, req.Combiner)
	if err != nil {
		writeError(w, err)
		return
	}

	observations := make([]anomaly.VertexObservation, 0, len(req.Observations))
	for _, o := range req.Observations {
		obs, err := decodeObservation(o.VertexName, o.Observed, o.Reference, o.Weights)
		if err != nil {
			writeError(w, err)
			return
		}
		observations = append(observations, obs)
	}

	scores, err := service.ScoreBatch(r.Context(), observations)
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]ScoreResponse, len(scores))
	for i, score := range scores {
		responses[i] = toScoreResponse(score)
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": responses})
}

func (s *Server) handleCombine(w http.ResponseWriter, r *http.Request) {
	var req CombineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body: %v", core.ErrInvalidInput, err))
		return
	}

	policy := req.Policy
	if policy == "" {
		policy = combination.PolicyFirstFeature
	}
	combiner, err := combination.NewCombiner(policy)
	if err != nil {
		writeError(w, err)
		return
	}

	pValues, err := combination.ParsePValues(req.PValues)
	if err != nil {
		writeError(w, err)
		return
	}

	combined, err := combiner.Combine(pValues)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"policy": policy, "combined": nullableFloat(combined)})
}

func buildService(estimatorKind, direction, combinerPolicy string) (*app.ScoringService, error) {
	if estimatorKind == "" {
		estimatorKind = estimation.KindGaussian
	}
	if direction == "" {
		direction = string(anomaly.RightTailed)
	}
	if combinerPolicy == "" {
		combinerPolicy = combination.PolicyFirstFeature
	}

	estimator, err := estimation.NewEstimator(estimatorKind, direction)
	if err != nil {
		return nil, err
	}
	combiner, err := combination.NewCombiner(combinerPolicy)
	if err != nil {
		return nil, err
	}
	return app.NewScoringService(estimator, combiner, app.WithQualitySummary()), nil
}

func decodeObservation(vertexName string, observed, reference, weights TableJSON) (anomaly.VertexObservation, error) {
	obsFrame, err := decodeTable(observed)
	if err != nil {
		return anomaly.VertexObservation{}, fmt.Errorf("%w: 'observed': %v", core.ErrInvalidInput, err)
	}
	refFrame, err := decodeTable(reference)
	if err != nil {
		return anomaly.VertexObservation{}, fmt.Errorf("%w: 'reference': %v", core.ErrInvalidInput, err)
	}
	weightFrame, err := decodeTable(weights)
	if err != nil {
		return anomaly.VertexObservation{}, fmt.Errorf("%w: 'weights': %v", core.ErrInvalidInput, err)
	}
	return anomaly.VertexObservation{
		VertexName: core.VertexName(vertexName),
		Observed:   obsFrame,
		Reference:  refFrame,
		Weights:    weightFrame,
	}, nil
}

// decodeTable converts the wire table into a Frame. Column kinds are
// inferred per column: numbers and nulls make a numeric column, anything
// else a string column.
func decodeTable(t TableJSON) (*table.Frame, error) {
	cols := make([]table.Column, 0, len(t.Columns))
	for c, name := range t.Columns {
		numeric := true
		values := make([]float64, len(t.Rows))
		raw := make([]string, len(t.Rows))

		for i, row := range t.Rows {
			if c >= len(row) {
				return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
			}
			switch v := row[c].(type) {
			case nil:
				values[i] = math.NaN()
			case float64:
				values[i] = v
				raw[i] = fmt.Sprintf("%v", v)
			case string:
				numeric = false
				raw[i] = v
			default:
				numeric = false
				raw[i] = fmt.Sprintf("%v", v)
			}
		}

		if numeric {
			cols = append(cols, table.NumericColumn(name, values...))
		} else {
			for i, row := range t.Rows {
				if s, ok := row[c].(string); ok {
					raw[i] = s
				}
			}
			cols = append(cols, table.StringColumn(name, raw...))
		}
	}
	return table.New(cols...)
}

func toScoreResponse(score *anomaly.VertexScore) ScoreResponse {
	pValues := make([]*float64, len(score.PValues))
	for i, p := range score.PValues {
		pValues[i] = nullableFloat(p)
	}
	return ScoreResponse{
		ScoreID:    score.ScoreID,
		VertexName: score.VertexName,
		PValues:    pValues,
		Score:      nullableFloat(score.Score),
		Quality:    score.Quality,
		ScoredAt:   score.ScoredAt,
	}
}

// nullableFloat maps the NaN "no data" sentinel to JSON null.
func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
