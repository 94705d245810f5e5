// Package table provides the typed tabular structure shared by the
// estimation core and its adapters. A Frame is an ordered set of named,
// kinded columns. Numeric columns use NaN as the missing-value marker;
// string columns exist so that malformed inputs remain representable and
// can be rejected by schema validation instead of being coerced silently.
package table

import (
	"fmt"
	"math"
)

// Kind describes the declared type of a column.
type Kind int

const (
	KindNumeric Kind = iota
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is one named column of a Frame. Exactly one of Floats/Strings is
// populated, matching Kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
}

// NumericColumn builds a numeric column. NaN marks a missing measurement.
func NumericColumn(name string, values ...float64) Column {
	return Column{Name: name, Kind: KindNumeric, Floats: values}
}

// StringColumn builds a string column.
func StringColumn(name string, values ...string) Column {
	return Column{Name: name, Kind: KindString, Strings: values}
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	if c.Kind == KindString {
		return len(c.Strings)
	}
	return len(c.Floats)
}

// IsNumeric reports whether the column holds numeric values.
func (c Column) IsNumeric() bool {
	return c.Kind == KindNumeric
}

// Missing reports whether the value at row i is absent.
func (c Column) Missing(i int) bool {
	return c.Kind == KindNumeric && math.IsNaN(c.Floats[i])
}

// Frame is an immutable-by-convention table: callers must not mutate the
// column slices after construction.
type Frame struct {
	cols   []Column
	byName map[string]int
}

// New builds a Frame from ordered columns. Column names must be unique and
// all columns must have the same length.
func New(cols ...Column) (*Frame, error) {
	byName := make(map[string]int, len(cols))
	rows := -1
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		if rows == -1 {
			rows = c.Len()
		} else if c.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), rows)
		}
		byName[c.Name] = i
	}
	return &Frame{cols: cols, byName: byName}, nil
}

// MustNew builds a Frame and panics on construction errors.
// Use only in tests and fixtures.
func MustNew(cols ...Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// Cols returns the number of columns.
func (f *Frame) Cols() int {
	return len(f.cols)
}

// Names returns the column names in declaration order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column.
func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.byName[name]
	if !ok {
		return Column{}, false
	}
	return f.cols[i], true
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Columns returns the columns in declaration order.
func (f *Frame) Columns() []Column {
	return f.cols
}

// Drop returns a new Frame without the named column. The original frame is
// left untouched; column data is shared, not copied.
func (f *Frame) Drop(name string) *Frame {
	if !f.HasColumn(name) {
		return f
	}
	kept := make([]Column, 0, len(f.cols)-1)
	for _, c := range f.cols {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	nf, err := New(kept...)
	if err != nil {
		// Dropping a column cannot introduce duplicates or ragged lengths.
		panic(err)
	}
	return nf
}
