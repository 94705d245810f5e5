// Command score performs offline vertex scoring from tabular files: an
// observation table (one row per vertex), a reference table and a weights
// table, each xlsx or csv.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"goanomaly/adapters/tabular"
	"goanomaly/app"
	"goanomaly/domain/anomaly"
	"goanomaly/domain/core"
	"goanomaly/domain/table"
	"goanomaly/internal/combination"
	"goanomaly/internal/estimation"
)

func main() {
	var (
		observedPath  = flag.String("observed", "", "observation table (xlsx or csv), one row per vertex with a 'name' column")
		referencePath = flag.String("reference", "", "reference table (xlsx or csv)")
		weightsPath   = flag.String("weights", "", "weights table (xlsx or csv)")
		estimatorKind = flag.String("estimator", estimation.KindGaussian, "estimator kind: gaussian or empirical")
		direction     = flag.String("direction", string(anomaly.RightTailed), "tail direction")
		policy        = flag.String("combiner", combination.PolicyFirstFeature, "combiner policy")
	)
	flag.Parse()

	if *observedPath == "" || *referencePath == "" || *weightsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	estimator, err := estimation.NewEstimator(*estimatorKind, *direction)
	if err != nil {
		log.Fatalf("[Score] %v", err)
	}
	combiner, err := combination.NewCombiner(*policy)
	if err != nil {
		log.Fatalf("[Score] %v", err)
	}
	service := app.NewScoringService(estimator, combiner, app.WithQualitySummary())

	observed, err := tabular.NewReader(*observedPath).Read()
	if err != nil {
		log.Fatalf("[Score] Failed to read observation table: %v", err)
	}
	reference, err := tabular.NewReader(*referencePath).Read()
	if err != nil {
		log.Fatalf("[Score] Failed to read reference table: %v", err)
	}
	weights, err := tabular.NewReader(*weightsPath).Read()
	if err != nil {
		log.Fatalf("[Score] Failed to read weights table: %v", err)
	}

	observations, err := splitVertices(observed, reference, weights)
	if err != nil {
		log.Fatalf("[Score] %v", err)
	}

	scores, err := service.ScoreBatch(context.Background(), observations)
	if err != nil {
		log.Fatalf("[Score] %v", err)
	}

	out := make([]map[string]any, len(scores))
	for i, s := range scores {
		pValues := make([]any, len(s.PValues))
		for j, p := range s.PValues {
			if math.IsNaN(p) {
				pValues[j] = nil
			} else {
				pValues[j] = p
			}
		}
		var combined any
		if !math.IsNaN(s.Score) {
			combined = s.Score
		}
		out[i] = map[string]any{
			"vertex_name": s.VertexName,
			"p_values":    pValues,
			"score":       combined,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("[Score] Failed to encode output: %v", err)
	}
}

// splitVertices turns a multi-row observation table into one single-row
// observation per vertex, all sharing the reference and weight tables.
func splitVertices(observed, reference, weights *table.Frame) ([]anomaly.VertexObservation, error) {
	nameCol, ok := observed.Column(anomaly.NameColumn)
	if !ok || nameCol.Kind != table.KindString {
		return nil, fmt.Errorf("observation table must have a string %q column", anomaly.NameColumn)
	}

	observations := make([]anomaly.VertexObservation, 0, observed.Rows())
	for r := 0; r < observed.Rows(); r++ {
		cols := make([]table.Column, 0, observed.Cols()-1)
		for _, c := range observed.Columns() {
			if c.Name == anomaly.NameColumn {
				continue
			}
			if !c.IsNumeric() {
				return nil, fmt.Errorf("feature column %q must be numeric, got %s", c.Name, c.Kind)
			}
			cols = append(cols, table.NumericColumn(c.Name, c.Floats[r]))
		}
		row, err := table.New(cols...)
		if err != nil {
			return nil, err
		}
		observations = append(observations, anomaly.VertexObservation{
			VertexName: core.VertexName(nameCol.Strings[r]),
			Observed:   row,
			Reference:  reference,
			Weights:    weights,
		})
	}
	return observations, nil
}
