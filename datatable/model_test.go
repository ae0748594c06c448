package datatable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tablesModel(t *testing.T) *RowModel {
	t.Helper()
	m, err := NewRowModel(
		[]string{"Use", "Table", "Type"},
		[]Row{
			{false, "origin", "origin"},
			{true, "arrival", "arrival"},
			{true, "assoc", "assoc"},
			{false, "site", "site"},
		},
	)
	require.NoError(t, err)
	return m
}

type prefixFilter struct {
	col    int
	prefix string
}

func (f prefixFilter) Evaluate(row []Value, _ []string) (bool, error) {
	return strings.HasPrefix(row[f.col].Formatted, f.prefix), nil
}

func (f prefixFilter) Description() string { return "prefix " + f.prefix }

func TestRowModel_Populate(t *testing.T) {
	m := tablesModel(t)

	assert.Equal(t, 4, m.RowCount())
	assert.Equal(t, 3, m.ColumnCount())
	assert.Equal(t, []string{"Use", "Table", "Type"}, m.ColumnNames())
	assert.Equal(t, 1, m.ColumnIndex("table"))
	assert.Equal(t, -1, m.ColumnIndex("missing"))

	err := m.Populate([]string{"a", "b"}, []Row{{"x"}})
	assert.ErrorIs(t, err, ErrRowLength)
}

func TestRowModel_PopulateKeepsSortList(t *testing.T) {
	m := tablesModel(t)
	require.NoError(t, m.Sort([]int{1}))

	require.NoError(t, m.Populate([]string{"Use", "Table", "Type"}, []Row{
		{true, "wfdisc", "wfdisc"},
		{true, "affiliation", "affiliation"},
	}))
	row, ok := m.RowAt(0)
	require.True(t, ok)
	assert.Equal(t, "affiliation", row[1])
	assert.Equal(t, []int{1}, m.GetSortState().Columns)

	// a sort list that no longer fits the columns is dropped
	require.NoError(t, m.Populate([]string{"Name"}, []Row{{"b"}, {"a"}}))
	assert.False(t, m.GetSortState().IsSorted())
	cell, ok := m.CellAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, "b", cell)
}

func TestRowModel_Sort(t *testing.T) {
	m := tablesModel(t)

	var events []ChangeEvent
	m.OnChanged(func(ev ChangeEvent) { events = append(events, ev) })

	require.NoError(t, m.Sort([]int{0, 1}))
	want := []string{"arrival", "assoc", "origin", "site"}
	for i, name := range want {
		cell, ok := m.CellAt(i, 1)
		require.True(t, ok)
		assert.Equal(t, name, cell)
	}
	assert.Equal(t, []ChangeEvent{{Row: AllRows, Column: -1}}, events)

	err := m.Sort([]int{3})
	assert.ErrorIs(t, err, ErrInvalidSortColumn)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, []int{0, 1}, m.GetSortState().Columns)
}

func TestRowModel_SortEmptyModel(t *testing.T) {
	m, err := NewRowModel([]string{"a", "b"}, nil)
	require.NoError(t, err)

	require.NoError(t, m.Sort([]int{1}))
	assert.Equal(t, 0, m.RowCount())
	assert.ErrorIs(t, m.Sort([]int{2}), ErrIndexOutOfRange)
}

func TestRowModel_ClickColumn(t *testing.T) {
	m := tablesModel(t)

	require.NoError(t, m.ClickColumn(0, 1))
	require.NoError(t, m.ClickColumn(1, 1))
	assert.Equal(t, []int{0, 1}, m.GetSortState().Columns)

	require.NoError(t, m.ClickColumn(2, 2))
	assert.Equal(t, []int{2}, m.GetSortState().Columns)

	cell, ok := m.CellAt(0, 2)
	require.True(t, ok)
	assert.Equal(t, "arrival", cell)

	assert.Error(t, m.ClickColumn(9, 1))
	assert.Equal(t, []int{2}, m.GetSortState().Columns)
}

func TestRowModel_OutOfRangeReads(t *testing.T) {
	m := tablesModel(t)

	tests := []struct {
		name     string
		row, col int
	}{
		{"negative row", -1, 0},
		{"row past end", 4, 0},
		{"negative column", 0, -1},
		{"column past end", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := m.CellAt(tt.row, tt.col)
			assert.False(t, ok)
		})
	}

	_, ok := m.RowAt(4)
	assert.False(t, ok)
	_, err := m.Cell(4, 0)
	assert.ErrorIs(t, err, ErrInvalidRow)
	_, err = m.Cell(0, 3)
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestRowModel_RowAtReturnsCopy(t *testing.T) {
	m := tablesModel(t)

	row, ok := m.RowAt(0)
	require.True(t, ok)
	row[1] = "changed"

	cell, _ := m.CellAt(0, 1)
	assert.Equal(t, "origin", cell)
}

func TestRowModel_Filter(t *testing.T) {
	m := tablesModel(t)
	require.NoError(t, m.Sort([]int{1}))

	require.NoError(t, m.SetFilter(prefixFilter{col: 1, prefix: "a"}))
	assert.Equal(t, 2, m.RowCount())
	assert.Equal(t, 4, m.TotalRowCount())
	cell, _ := m.CellAt(1, 1)
	assert.Equal(t, "assoc", cell)

	// sorting keeps the filter
	require.NoError(t, m.Sort([]int{0}))
	assert.Equal(t, 2, m.RowCount())

	require.NoError(t, m.SetFilter(nil))
	assert.Equal(t, 4, m.RowCount())
}

func TestRowModel_SetCell(t *testing.T) {
	m := tablesModel(t)
	m.SetEditableColumns("Use", "Type")

	assert.True(t, m.IsCellEditable(0, 0))
	assert.False(t, m.IsCellEditable(0, 1))

	var events []ChangeEvent
	m.OnChanged(func(ev ChangeEvent) { events = append(events, ev) })

	require.NoError(t, m.SetCell(0, 0, true))
	cell, _ := m.CellAt(0, 0)
	assert.Equal(t, true, cell)
	assert.Equal(t, []ChangeEvent{{Row: 0, Column: 0}}, events)

	assert.ErrorIs(t, m.SetCell(0, 1, "x"), ErrReadOnlyColumn)
	assert.ErrorIs(t, m.SetCell(10, 0, true), ErrInvalidRow)
	assert.ErrorIs(t, m.SetCell(0, 7, true), ErrInvalidColumn)
}

func TestRowModel_ColumnType(t *testing.T) {
	m, err := NewRowModel([]string{"n", "f", "s", "empty"}, []Row{
		{nil, 1.5, "x", nil},
		{int64(3), 2.5, "y", nil},
	})
	require.NoError(t, err)

	for col, want := range []DataType{TypeInt, TypeFloat, TypeString, TypeString} {
		got, err := m.ColumnType(col)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %d", col)
	}
	_, err = m.ColumnType(4)
	assert.ErrorIs(t, err, ErrInvalidColumn)
}
