package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"goanomaly/domain/anomaly"
	"goanomaly/domain/core"
	"goanomaly/domain/table"
	"goanomaly/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// featureRepository implements ports.FeatureRepository on Postgres.
//
// Schema:
//
//	CREATE TABLE vertex_features (
//	    vertex_name  TEXT             NOT NULL,
//	    time_window  BIGINT           NOT NULL,
//	    feature_name TEXT             NOT NULL,
//	    value        DOUBLE PRECISION,
//	    PRIMARY KEY (vertex_name, time_window, feature_name)
//	);
//
// A NULL value records that the vertex existed in the window but the
// measurement is missing; it surfaces as NaN in reference frames.
type featureRepository struct {
	db *sqlx.DB
}

// NewFeatureRepository creates a new feature repository
func NewFeatureRepository(db *sqlx.DB) ports.FeatureRepository {
	return &featureRepository{db: db}
}

// SaveWindow stores one window's feature frame.
func (r *featureRepository) SaveWindow(ctx context.Context, window core.TimeWindow, features *table.Frame) error {
	if features == nil || !features.HasColumn(anomaly.NameColumn) {
		return fmt.Errorf("feature frame must have a %q column", anomaly.NameColumn)
	}
	names, _ := features.Column(anomaly.NameColumn)
	if names.Kind != table.KindString {
		return fmt.Errorf("%q column must be a string column", anomaly.NameColumn)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO vertex_features (vertex_name, time_window, feature_name, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (vertex_name, time_window, feature_name) DO UPDATE SET value = EXCLUDED.value`

	for _, col := range features.Columns() {
		if col.Name == anomaly.NameColumn {
			continue
		}
		if !col.IsNumeric() {
			return fmt.Errorf("feature column %q must be numeric, got %s", col.Name, col.Kind)
		}
		for i, v := range col.Floats {
			var value sql.NullFloat64
			if !math.IsNaN(v) {
				value = sql.NullFloat64{Float64: v, Valid: true}
			}
			if _, err := tx.ExecContext(ctx, query, names.Strings[i], int64(window), col.Name, value); err != nil {
				return fmt.Errorf("failed to save feature %s for vertex %s: %w", col.Name, names.Strings[i], err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit feature window: %w", err)
	}
	return nil
}

// Reference reconstructs the vertex's reference table over the lastN most
// recent windows the vertex appears in.
func (r *featureRepository) Reference(ctx context.Context, vertex core.VertexName, features []string, lastN int) (*table.Frame, error) {
	windowQuery := `SELECT DISTINCT time_window FROM vertex_features
		WHERE vertex_name = $1 ORDER BY time_window DESC LIMIT $2`

	var windows []int64
	if err := r.db.SelectContext(ctx, &windows, windowQuery, string(vertex), lastN); err != nil {
		return nil, fmt.Errorf("failed to list windows for vertex %s: %w", vertex, err)
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrVertexNotFound, vertex)
	}
	// Windows come back newest-first; references are built oldest-first.
	for i, j := 0, len(windows)-1; i < j; i, j = i+1, j-1 {
		windows[i], windows[j] = windows[j], windows[i]
	}

	rowIdx := make(map[int64]int, len(windows))
	windowValues := make([]float64, len(windows))
	for i, w := range windows {
		rowIdx[w] = i
		windowValues[i] = float64(w)
	}

	columns := make(map[string][]float64, len(features))
	for _, f := range features {
		missing := make([]float64, len(windows))
		for i := range missing {
			missing[i] = math.NaN()
		}
		columns[f] = missing
	}

	valueQuery := `SELECT time_window, feature_name, value FROM vertex_features
		WHERE vertex_name = $1 AND feature_name = ANY($2) AND time_window = ANY($3)`

	rows, err := r.db.QueryContext(ctx, valueQuery, string(vertex), pq.Array(features), pq.Array(windows))
	if err != nil {
		return nil, fmt.Errorf("failed to load reference values for vertex %s: %w", vertex, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			window  int64
			feature string
			value   sql.NullFloat64
		)
		if err := rows.Scan(&window, &feature, &value); err != nil {
			return nil, fmt.Errorf("failed to scan reference row: %w", err)
		}
		col, ok := columns[feature]
		if !ok {
			continue
		}
		if i, ok := rowIdx[window]; ok && value.Valid {
			col[i] = value.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reference rows: %w", err)
	}

	cols := make([]table.Column, 0, len(features)+1)
	cols = append(cols, table.NumericColumn(anomaly.TimeWindowColumn, windowValues...))
	for _, f := range features {
		cols = append(cols, table.NumericColumn(f, columns[f]...))
	}
	return table.New(cols...)
}

// Windows lists distinct stored time windows ascending.
func (r *featureRepository) Windows(ctx context.Context) ([]core.TimeWindow, error) {
	var raw []int64
	if err := r.db.SelectContext(ctx, &raw, `SELECT DISTINCT time_window FROM vertex_features ORDER BY time_window`); err != nil {
		return nil, fmt.Errorf("failed to list time windows: %w", err)
	}
	windows := make([]core.TimeWindow, len(raw))
	for i, w := range raw {
		windows[i] = core.TimeWindow(w)
	}
	return windows, nil
}
