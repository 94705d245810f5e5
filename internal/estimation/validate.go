package estimation

import (
	"fmt"

	"goanomaly/domain/anomaly"
	"goanomaly/domain/core"
	"goanomaly/domain/table"
)

// validateEstimateInputs enforces the full structural contract on the three
// estimation inputs before any numeric work happens. The first violated
// contract fails the call; no partial computation occurs. The observed
// frame must already be name-free (one numeric column per feature).
func validateEstimateInputs(observed, reference, weights *table.Frame) error {
	if observed == nil || reference == nil || weights == nil {
		return core.NewContractError("tabular inputs",
			"'observed', 'reference' and 'weights' must all be present tables")
	}

	if observed.Rows() != 1 || observed.Cols() < 1 {
		return core.NewContractError("observed shape",
			fmt.Sprintf("'observed' must have exactly 1 row and a column per feature, got %dx%d",
				observed.Rows(), observed.Cols()))
	}

	if reference.Rows() < 1 || reference.Cols() != observed.Cols()+1 {
		return core.NewContractError("reference shape",
			fmt.Sprintf("'reference' must have >= 1 rows and a column per feature plus %q, got %dx%d",
				anomaly.TimeWindowColumn, reference.Rows(), reference.Cols()))
	}

	if weights.Rows() != reference.Rows() || weights.Cols() != 2 {
		return core.NewContractError("weights shape",
			fmt.Sprintf("'weights' must have exactly %d rows (one per reference row) and the 2 columns %q and %q, got %dx%d",
				reference.Rows(), anomaly.TimeWindowColumn, anomaly.WeightColumn, weights.Rows(), weights.Cols()))
	}

	if !reference.HasColumn(anomaly.TimeWindowColumn) {
		return core.NewContractError("reference columns",
			fmt.Sprintf("'reference' must have the column %q", anomaly.TimeWindowColumn))
	}

	for _, name := range observed.Names() {
		if !reference.HasColumn(name) {
			return core.NewContractError("column sets",
				fmt.Sprintf("'observed' and 'reference' must share feature columns, %q is missing from 'reference'", name))
		}
	}
	for _, name := range reference.Names() {
		if name != anomaly.TimeWindowColumn && !observed.HasColumn(name) {
			return core.NewContractError("column sets",
				fmt.Sprintf("'reference' column %q has no counterpart in 'observed'", name))
		}
	}

	if !weights.HasColumn(anomaly.TimeWindowColumn) || !weights.HasColumn(anomaly.WeightColumn) {
		return core.NewContractError("weights columns",
			fmt.Sprintf("'weights' must have exactly the columns %q and %q",
				anomaly.TimeWindowColumn, anomaly.WeightColumn))
	}

	for _, name := range observed.Names() {
		obsCol, _ := observed.Column(name)
		if !obsCol.IsNumeric() {
			return core.NewContractError("observed value types",
				fmt.Sprintf("feature %q in 'observed' must be numeric, got %s", name, obsCol.Kind))
		}
		refCol, _ := reference.Column(name)
		if !refCol.IsNumeric() {
			return core.NewContractError("reference value types",
				fmt.Sprintf("feature %q in 'reference' must be numeric, got %s", name, refCol.Kind))
		}
	}

	refWindows, _ := reference.Column(anomaly.TimeWindowColumn)
	if !refWindows.IsNumeric() {
		return core.NewContractError("time window types",
			fmt.Sprintf("%q values in 'reference' must be numeric, got %s", anomaly.TimeWindowColumn, refWindows.Kind))
	}
	wWindows, _ := weights.Column(anomaly.TimeWindowColumn)
	if !wWindows.IsNumeric() {
		return core.NewContractError("time window types",
			fmt.Sprintf("%q values in 'weights' must be numeric, got %s", anomaly.TimeWindowColumn, wWindows.Kind))
	}
	wVals, _ := weights.Column(anomaly.WeightColumn)
	if !wVals.IsNumeric() {
		return core.NewContractError("weight types",
			fmt.Sprintf("%q values in 'weights' must be numeric, got %s", anomaly.WeightColumn, wVals.Kind))
	}

	refSet := windowSet(refWindows.Floats)
	wSet := windowSet(wWindows.Floats)
	if len(refSet) != len(wSet) {
		return core.NewContractError("time window coverage",
			"each time window in 'reference' must have exactly one weight in 'weights'")
	}
	for w := range refSet {
		if _, ok := wSet[w]; !ok {
			return core.NewContractError("time window coverage",
				fmt.Sprintf("time window %v in 'reference' has no weight in 'weights'", w))
		}
	}

	return nil
}

func windowSet(windows []float64) map[float64]struct{} {
	set := make(map[float64]struct{}, len(windows))
	for _, w := range windows {
		set[w] = struct{}{}
	}
	return set
}

// joinWeights performs the inner join of reference rows with their window
// weights. It returns the kept reference row indices and the weight aligned
// to each kept row. Rows whose window has no weight are dropped; after
// validation there are none.
func joinWeights(reference, weights *table.Frame) (rows []int, rowWeights []float64) {
	refWindows, _ := reference.Column(anomaly.TimeWindowColumn)
	wWindows, _ := weights.Column(anomaly.TimeWindowColumn)
	wVals, _ := weights.Column(anomaly.WeightColumn)

	byWindow := make(map[float64]float64, wWindows.Len())
	for i, w := range wWindows.Floats {
		byWindow[w] = wVals.Floats[i]
	}

	rows = make([]int, 0, refWindows.Len())
	rowWeights = make([]float64, 0, refWindows.Len())
	for i, w := range refWindows.Floats {
		wv, ok := byWindow[w]
		if !ok {
			continue
		}
		rows = append(rows, i)
		rowWeights = append(rowWeights, wv)
	}
	return rows, rowWeights
}
