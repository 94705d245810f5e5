// Package features extracts per-vertex feature rows from windowed edge
// streams, shaped for the probability estimators.
package features

import (
	"time"

	"goanomaly/domain/anomaly"
	"goanomaly/domain/table"
)

// Edge is one directed interaction observed in a time window.
type Edge struct {
	Timestamp time.Time
	Type      string
	SrcName   string
	SrcType   string
	DstName   string
	DstType   string
}

// VertexActivityByType emits, per vertex and per tracked edge type, a
// binary indicator of whether the vertex participated in at least one edge
// of that type during the window. Vertices seen in earlier windows but
// inactive in the current one are still reported, with all indicators 0.
type VertexActivityByType struct {
	edgeTypes []string
	names     []string

	seen    []string
	seenSet map[string]struct{}
}

// NewVertexActivityByType creates the feature for the given edge types.
// Feature column names follow the pattern "VertexActivityBy<TYPE>".
func NewVertexActivityByType(edgeTypes []string) *VertexActivityByType {
	names := make([]string, len(edgeTypes))
	for i, t := range edgeTypes {
		names[i] = "VertexActivityBy" + t
	}
	return &VertexActivityByType{
		edgeTypes: edgeTypes,
		names:     names,
		seenSet:   make(map[string]struct{}),
	}
}

// Names returns the feature column names in edge-type order.
func (f *VertexActivityByType) Names() []string {
	return f.names
}

// ProcessVertices computes the activity frame for one window of edges.
// The result has a "name" column followed by one numeric column per edge
// type. Row order: vertices active this window in order of first
// appearance, then previously seen inactive vertices in the order they
// were first observed.
func (f *VertexActivityByType) ProcessVertices(edges []Edge) (*table.Frame, error) {
	typeIdx := make(map[string]int, len(f.edgeTypes))
	for i, t := range f.edgeTypes {
		typeIdx[t] = i
	}

	var active []string
	activity := make(map[string][]float64)

	touch := func(vertex, edgeType string) {
		row, ok := activity[vertex]
		if !ok {
			row = make([]float64, len(f.edgeTypes))
			activity[vertex] = row
			active = append(active, vertex)
		}
		if i, tracked := typeIdx[edgeType]; tracked {
			row[i] = 1
		}
	}

	for _, e := range edges {
		touch(e.SrcName, e.Type)
		touch(e.DstName, e.Type)
	}

	ordered := make([]string, 0, len(active))
	ordered = append(ordered, active...)
	for _, v := range f.seen {
		if _, isActive := activity[v]; !isActive {
			ordered = append(ordered, v)
		}
	}

	for _, v := range active {
		if _, known := f.seenSet[v]; !known {
			f.seenSet[v] = struct{}{}
			f.seen = append(f.seen, v)
		}
	}

	cols := make([]table.Column, 0, len(f.edgeTypes)+1)
	cols = append(cols, table.StringColumn(anomaly.NameColumn, ordered...))
	for i, name := range f.names {
		values := make([]float64, len(ordered))
		for r, v := range ordered {
			if row, ok := activity[v]; ok {
				values[r] = row[i]
			}
		}
		cols = append(cols, table.NumericColumn(name, values...))
	}

	return table.New(cols...)
}
