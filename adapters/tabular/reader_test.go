package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"goanomaly/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReader_CSVNumericColumnsWithMissingCells(t *testing.T) {
	path := writeTempCSV(t, "activity,time_window\n2,1\n,2\n6,3\n")

	frame, err := NewReader(path).Read()
	require.NoError(t, err)

	require.Equal(t, 3, frame.Rows())
	require.Equal(t, 2, frame.Cols())

	col, ok := frame.Column("activity")
	require.True(t, ok)
	assert.Equal(t, table.KindNumeric, col.Kind)
	assert.Equal(t, 2.0, col.Floats[0])
	assert.True(t, col.Missing(1), "empty cell should read as missing")
	assert.Equal(t, 6.0, col.Floats[2])
}

func TestReader_NonNumericColumnBecomesString(t *testing.T) {
	path := writeTempCSV(t, "name,activity\nvertex_a,1\nvertex_b,2\n")

	frame, err := NewReader(path).Read()
	require.NoError(t, err)

	names, ok := frame.Column("name")
	require.True(t, ok)
	assert.Equal(t, table.KindString, names.Kind)
	assert.Equal(t, []string{"vertex_a", "vertex_b"}, names.Strings)

	activity, _ := frame.Column("activity")
	assert.Equal(t, table.KindNumeric, activity.Kind)
}

func TestReader_RaggedRowsArePadded(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,2\n3\n")

	frame, err := NewReader(path).Read()
	require.NoError(t, err)

	b, _ := frame.Column("b")
	require.Equal(t, 2, b.Len())
	assert.True(t, b.Missing(1))
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv")).Read()
	assert.Error(t, err)
}
