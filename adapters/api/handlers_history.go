package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"goanomaly/domain/anomaly"
	"goanomaly/domain/core"
	"goanomaly/internal/features"
	"goanomaly/internal/weighting"

	"github.com/go-chi/chi/v5"
)

// HistoryScoreRequest scores a vertex against its persisted history.
type HistoryScoreRequest struct {
	Estimator string    `json:"estimator"`
	Direction string    `json:"direction"`
	Combiner  string    `json:"combiner"`
	Observed  TableJSON `json:"observed"`
	LastN     int       `json:"last_n"`    // reference windows to load, default 10
	HalfLife  float64   `json:"half_life"` // decay half-life in windows, 0 means constant weights
}

// IngestWindowRequest stores one window of edges as activity features.
type IngestWindowRequest struct {
	EdgeTypes []string   `json:"edge_types"`
	Edges     []EdgeJSON `json:"edges"`
}

// EdgeJSON is the wire form of one observed edge.
type EdgeJSON struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	SrcName   string    `json:"src_name"`
	SrcType   string    `json:"src_type"`
	DstName   string    `json:"dst_name"`
	DstType   string    `json:"dst_type"`
}

func (s *Server) handleScoreFromHistory(w http.ResponseWriter, r *http.Request) {
	vertex := core.VertexName(chi.URLParam(r, "vertex"))

	var req HistoryScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body: %v", core.ErrInvalidInput, err))
		return
	}

	service, err := buildService(req.Estimator, req.Direction, req.Combiner)
	if err != nil {
		writeError(w, err)
		return
	}

	observed, err := decodeTable(req.Observed)
	if err != nil {
		writeError(w, fmt.Errorf("%w: 'observed': %v", core.ErrInvalidInput, err))
		return
	}

	featureNames := make([]string, 0, observed.Cols())
	for _, name := range observed.Names() {
		if name != anomaly.NameColumn {
			featureNames = append(featureNames, name)
		}
	}

	lastN := req.LastN
	if lastN <= 0 {
		lastN = 10
	}

	reference, err := s.repo.Reference(r.Context(), vertex, featureNames, lastN)
	if err != nil {
		writeError(w, err)
		return
	}

	windowCol, _ := reference.Column(anomaly.TimeWindowColumn)
	windows := make([]core.TimeWindow, windowCol.Len())
	current := core.TimeWindow(0)
	for i, v := range windowCol.Floats {
		windows[i] = core.TimeWindow(v)
		if windows[i] >= current {
			current = windows[i] + 1
		}
	}

	var weighter weighting.Weighter = weighting.NewConstant(1)
	if req.HalfLife > 0 {
		weighter = weighting.NewExponentialDecay(req.HalfLife)
	}
	weights, err := weighter.Weights(current, windows)
	if err != nil {
		writeError(w, err)
		return
	}

	score, err := service.ScoreVertex(r.Context(), anomaly.VertexObservation{
		VertexName: vertex,
		Observed:   observed,
		Reference:  reference,
		Weights:    weights,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScoreResponse(score))
}

func (s *Server) handleIngestWindow(w http.ResponseWriter, r *http.Request) {
	var window core.TimeWindow
	if _, err := fmt.Sscanf(chi.URLParam(r, "window"), "%d", &window); err != nil {
		writeError(w, fmt.Errorf("%w: window must be an integer: %v", core.ErrInvalidInput, err))
		return
	}

	var req IngestWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed request body: %v", core.ErrInvalidInput, err))
		return
	}
	if len(req.EdgeTypes) == 0 {
		writeError(w, fmt.Errorf("%w: 'edge_types' must not be empty", core.ErrInvalidInput))
		return
	}

	edges := make([]features.Edge, len(req.Edges))
	for i, e := range req.Edges {
		edges[i] = features.Edge{
			Timestamp: e.Timestamp,
			Type:      e.Type,
			SrcName:   e.SrcName,
			SrcType:   e.SrcType,
			DstName:   e.DstName,
			DstType:   e.DstType,
		}
	}

	feature := features.NewVertexActivityByType(req.EdgeTypes)
	frame, err := feature.ProcessVertices(edges)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.repo.SaveWindow(r.Context(), window, frame); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"window":   window,
		"vertices": frame.Rows(),
		"features": feature.Names(),
	})
}
