package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, server *Server, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func scoreRequestFixture() ScoreRequest {
	return ScoreRequest{
		VertexName: "A",
		Estimator:  "gaussian",
		Direction:  "left-tailed",
		Combiner:   "first_feature",
		Observed: TableJSON{
			Columns: []string{"activity"},
			Rows:    [][]any{{4.0}},
		},
		Reference: TableJSON{
			Columns: []string{"activity", "time_window"},
			Rows:    [][]any{{2.0, 1.0}, {4.0, 2.0}, {6.0, 3.0}},
		},
		Weights: TableJSON{
			Columns: []string{"time_window", "weight"},
			Rows:    [][]any{{1.0, 1.0}, {2.0, 1.0}, {3.0, 1.0}},
		},
	}
}

func TestHealthz(t *testing.T) {
	server := NewServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScoreEndpoint(t *testing.T) {
	server := NewServer()

	rec := postJSON(t, server, "/v1/score", scoreRequestFixture())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ScoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "A", string(resp.VertexName))
	require.Len(t, resp.PValues, 1)
	require.NotNil(t, resp.PValues[0])
	assert.InDelta(t, 0.5, *resp.PValues[0], 1e-9)
	require.NotNil(t, resp.Score)
	assert.InDelta(t, 0.5, *resp.Score, 1e-9)
	require.Len(t, resp.Quality, 1)
	assert.Equal(t, "activity", resp.Quality[0].Feature)
}

func TestScoreEndpoint_RendersNaNAsNull(t *testing.T) {
	server := NewServer()

	req := scoreRequestFixture()
	// All weights zero: no usable reference data, p-value is undefined.
	req.Weights.Rows = [][]any{{1.0, 0.0}, {2.0, 0.0}, {3.0, 0.0}}

	rec := postJSON(t, server, "/v1/score", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ScoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.PValues, 1)
	assert.Nil(t, resp.PValues[0])
	assert.Nil(t, resp.Score)
}

func TestScoreEndpoint_ValidationFailure(t *testing.T) {
	server := NewServer()

	req := scoreRequestFixture()
	req.Observed.Rows = [][]any{{4.0}, {5.0}} // two observation rows

	rec := postJSON(t, server, "/v1/score", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "observed shape")
}

func TestScoreEndpoint_UnknownDirection(t *testing.T) {
	server := NewServer()

	req := scoreRequestFixture()
	req.Direction = "sideways"

	rec := postJSON(t, server, "/v1/score", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchEndpoint(t *testing.T) {
	server := NewServer()

	single := scoreRequestFixture()
	req := BatchScoreRequest{
		Estimator: "empirical",
		Direction: "right-tailed",
		Combiner:  "min",
		Observations: []BatchObservation{
			{VertexName: "A", Observed: single.Observed, Reference: single.Reference, Weights: single.Weights},
			{VertexName: "B", Observed: single.Observed, Reference: single.Reference, Weights: single.Weights},
		},
	}

	rec := postJSON(t, server, "/v1/score/batch", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Scores []ScoreResponse `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Scores, 2)
	assert.Equal(t, "A", string(resp.Scores[0].VertexName))
	assert.Equal(t, "B", string(resp.Scores[1].VertexName))
}

func TestCombineEndpoint(t *testing.T) {
	server := NewServer()

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "first feature policy",
			payload:    map[string]any{"policy": "first_feature", "p_values": []any{0.21, 0.12, 0.021, 0.15, 0.067}},
			wantStatus: http.StatusOK,
			wantBody:   "0.21",
		},
		{
			name:       "empty sequence",
			payload:    map[string]any{"policy": "first_feature", "p_values": []any{}},
			wantStatus: http.StatusBadRequest,
			wantBody:   "empty",
		},
		{
			name:       "scalar input",
			payload:    map[string]any{"policy": "first_feature", "p_values": 42},
			wantStatus: http.StatusBadRequest,
			wantBody:   "not a sequence",
		},
		{
			name:       "non-numeric element",
			payload:    map[string]any{"policy": "first_feature", "p_values": []any{0.21, "A", 0.15}},
			wantStatus: http.StatusBadRequest,
			wantBody:   "non-numeric",
		},
		{
			name:       "unknown policy",
			payload:    map[string]any{"policy": "geometric", "p_values": []any{0.5}},
			wantStatus: http.StatusBadRequest,
			wantBody:   "policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, server, "/v1/combine", tt.payload)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
