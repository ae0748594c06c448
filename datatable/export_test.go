package datatable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportModel(t *testing.T) *RowModel {
	t.Helper()
	m, err := NewRowModel(
		[]string{"table", "rows", "ratio", "use"},
		[]Row{
			{"origin", int64(10), 0.5, true},
			{"arrival", nil, 1.25, false},
		},
	)
	require.NoError(t, err)
	return m
}

func TestToRecord(t *testing.T) {
	m := exportModel(t)
	require.NoError(t, m.Sort([]int{0}))

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec, err := ToRecord(m, mem)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(2), rec.NumRows())
	assert.Equal(t, int64(4), rec.NumCols())
	assert.Equal(t, arrow.BinaryTypes.String, rec.Schema().Field(0).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, rec.Schema().Field(1).Type)

	names := rec.Column(0).(*array.String)
	assert.Equal(t, "arrival", names.Value(0))
	assert.Equal(t, "origin", names.Value(1))

	counts := rec.Column(1).(*array.Int64)
	assert.True(t, counts.IsNull(0))
	assert.Equal(t, int64(10), counts.Value(1))

	uses := rec.Column(3).(*array.Boolean)
	assert.False(t, uses.Value(0))
	assert.True(t, uses.Value(1))
}

func TestToRecord_NilSource(t *testing.T) {
	_, err := ToRecord(nil, nil)
	assert.ErrorIs(t, err, ErrNoDataSource)
}

func TestToRecord_MixedColumn(t *testing.T) {
	m, err := NewRowModel([]string{"n"}, []Row{{int64(1)}, {"two"}})
	require.NoError(t, err)

	_, err = ToRecord(m, nil)
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestExportCSV(t *testing.T) {
	m := exportModel(t)
	path := filepath.Join(t.TempDir(), "tables.csv")

	require.NoError(t, ExportCSV(m, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "table,rows,ratio,use", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "origin,10,"))
}

func TestExportParquet(t *testing.T) {
	m := exportModel(t)
	path := filepath.Join(t.TempDir(), "tables.parquet")

	require.NoError(t, ExportParquet(m, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
