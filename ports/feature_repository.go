package ports

import (
	"context"

	"goanomaly/domain/core"
	"goanomaly/domain/table"
)

// FeatureRepository persists per-vertex feature values by time window and
// reconstructs the reference tables consumed by the estimators.
type FeatureRepository interface {
	// SaveWindow stores one window's feature frame. The frame must carry a
	// "name" column identifying the vertex per row plus one numeric column
	// per feature; NaN cells are stored as SQL NULL.
	SaveWindow(ctx context.Context, window core.TimeWindow, features *table.Frame) error

	// Reference returns the vertex's historical values for the given
	// features over the lastN most recent windows, shaped as a reference
	// table: a "time_window" column plus one numeric column per feature,
	// with NULLs surfaced as NaN. Returns core.ErrVertexNotFound when the
	// vertex has no history at all.
	Reference(ctx context.Context, vertex core.VertexName, features []string, lastN int) (*table.Frame, error)

	// Windows lists the distinct stored time windows in ascending order.
	Windows(ctx context.Context) ([]core.TimeWindow, error)
}
