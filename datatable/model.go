package datatable

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// AllRows is the ChangeEvent row for "every row changed".
const AllRows = -1

// ChangeEvent tells a view which part of the model changed.
type ChangeEvent struct {
	Row    int
	Column int
}

// ChangeListener receives model change notifications.
type ChangeListener func(ChangeEvent)

// RowModel is the data model under a sortable table. It keeps the rows in
// the current sort order and a view of the rows that pass the filter.
type RowModel struct {
	mu sync.RWMutex

	columnNames []string
	columnIndex map[string]int

	// data is every row, in current sort order.
	data []Row
	// visible holds indexes into data of the rows passing filter; nil means all.
	visible []int

	sortList  []int
	filter    Filter
	editable  map[string]bool
	listeners []ChangeListener
}

// NewRowModel creates a model and populates it.
func NewRowModel(columnNames []string, rows []Row) (*RowModel, error) {
	m := &RowModel{
		editable: make(map[string]bool),
	}
	if err := m.Populate(columnNames, rows); err != nil {
		return nil, err
	}
	return m, nil
}

// Populate replaces the column schema and the rows. Every row must hold one
// cell per column. The current sort list is re-applied when it still fits the
// new columns and dropped otherwise.
func (m *RowModel) Populate(columnNames []string, rows []Row) error {
	for i, row := range rows {
		if len(row) != len(columnNames) {
			return fmt.Errorf("%w: row %d has %d cells, want %d",
				ErrRowLength, i, len(row), len(columnNames))
		}
	}

	m.mu.Lock()
	m.columnNames = slices.Clone(columnNames)
	m.columnIndex = make(map[string]int, len(columnNames))
	for i, name := range columnNames {
		m.columnIndex[strings.ToLower(name)] = i
	}
	for _, col := range m.sortList {
		if col >= len(columnNames) {
			m.sortList = nil
			break
		}
	}

	sorted, err := SortRows(rows, m.sortList)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.data = sorted
	err = m.applyFilterLocked(m.filter)
	if err != nil {
		m.filter = nil
		m.visible = nil
	}
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	notify(listeners, ChangeEvent{Row: AllRows, Column: -1})
	return err
}

// Sort orders the rows by sortColumns and notifies listeners that all rows
// changed. Columns that do not exist are rejected.
func (m *RowModel) Sort(sortColumns []int) error {
	m.mu.Lock()
	for _, col := range sortColumns {
		if col < 0 || col >= len(m.columnNames) {
			m.mu.Unlock()
			return fmt.Errorf("%w: column %d with %d columns: %w",
				ErrInvalidSortColumn, col, len(m.columnNames), ErrIndexOutOfRange)
		}
	}

	sorted, err := SortRows(m.data, sortColumns)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.data = sorted
	m.sortList = slices.Clone(sortColumns)
	if err := m.applyFilterLocked(m.filter); err != nil {
		m.mu.Unlock()
		return err
	}
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	notify(listeners, ChangeEvent{Row: AllRows, Column: -1})
	return nil
}

// ClickColumn applies a header click: a multi-click starts a fresh sort list,
// then col is appended as the least significant key.
func (m *RowModel) ClickColumn(col, clickCount int) error {
	m.mu.RLock()
	keys := slices.Clone(m.sortList)
	m.mu.RUnlock()

	if clickCount > 1 {
		keys = keys[:0]
	}
	return m.Sort(append(keys, col))
}

// GetSortState returns the current sort key list.
func (m *RowModel) GetSortState() SortState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return SortState{Columns: slices.Clone(m.sortList)}
}

// SetFilter restricts the visible rows. A nil filter shows every row.
func (m *RowModel) SetFilter(f Filter) error {
	m.mu.Lock()
	if err := m.applyFilterLocked(f); err != nil {
		m.mu.Unlock()
		return err
	}
	m.filter = f
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	notify(listeners, ChangeEvent{Row: AllRows, Column: -1})
	return nil
}

func (m *RowModel) applyFilterLocked(f Filter) error {
	if f == nil {
		m.visible = nil
		return nil
	}
	visible := make([]int, 0, len(m.data))
	for i, row := range m.data {
		ok, err := f.Evaluate(toValues(row), m.columnNames)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidFilter, f.Description(), err)
		}
		if ok {
			visible = append(visible, i)
		}
	}
	m.visible = visible
	return nil
}

// OnChanged registers a listener for model changes.
func (m *RowModel) OnChanged(l ChangeListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func notify(listeners []ChangeListener, ev ChangeEvent) {
	for _, l := range listeners {
		l(ev)
	}
}

// dataIndex maps a visible row index to an index into data.
func (m *RowModel) dataIndex(row int) (int, bool) {
	if m.visible == nil {
		return row, row >= 0 && row < len(m.data)
	}
	if row < 0 || row >= len(m.visible) {
		return 0, false
	}
	return m.visible[row], true
}

// RowAt returns a copy of the visible row at index row, or false when there
// is no such row.
func (m *RowModel) RowAt(row int) (Row, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.dataIndex(row)
	if !ok {
		return nil, false
	}
	return slices.Clone(m.data[i]), true
}

// CellAt returns the cell at (row, col) of the visible rows, or false when
// either index is out of range.
func (m *RowModel) CellAt(row, col int) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.dataIndex(row)
	if !ok || col < 0 || col >= len(m.data[i]) {
		return nil, false
	}
	return m.data[i][col], true
}

// ColumnIndex returns the index of the named column, ignoring case, or -1.
func (m *RowModel) ColumnIndex(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i, ok := m.columnIndex[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// ColumnNames returns the column names in display order.
func (m *RowModel) ColumnNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.columnNames)
}

// SetEditableColumns marks the named columns as editable.
func (m *RowModel) SetEditableColumns(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editable = make(map[string]bool, len(names))
	for _, name := range names {
		m.editable[name] = true
	}
}

// IsCellEditable reports whether the column at col accepts edits.
func (m *RowModel) IsCellEditable(row, col int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if col < 0 || col >= len(m.columnNames) {
		return false
	}
	return m.editable[m.columnNames[col]]
}

// SetCell replaces one cell of a visible row.
func (m *RowModel) SetCell(row, col int, value any) error {
	m.mu.Lock()
	i, ok := m.dataIndex(row)
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	if col < 0 || col >= len(m.columnNames) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	if !m.editable[m.columnNames[col]] {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrReadOnlyColumn, m.columnNames[col])
	}
	updated := slices.Clone(m.data[i])
	updated[col] = value
	m.data[i] = updated
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	notify(listeners, ChangeEvent{Row: row, Column: col})
	return nil
}

// RowCount returns the number of visible rows.
func (m *RowModel) RowCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.visible == nil {
		return len(m.data)
	}
	return len(m.visible)
}

// TotalRowCount returns the number of rows, ignoring the filter.
func (m *RowModel) TotalRowCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// ColumnCount returns the number of columns.
func (m *RowModel) ColumnCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.columnNames)
}

// ColumnName returns the name of the column at col.
func (m *RowModel) ColumnName(col int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if col < 0 || col >= len(m.columnNames) {
		return "", fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	return m.columnNames[col], nil
}

// ColumnType reports the type of the first non-nil cell in the column, or
// TypeString for a column with no values.
func (m *RowModel) ColumnType(col int) (DataType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if col < 0 || col >= len(m.columnNames) {
		return TypeString, fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	for _, row := range m.data {
		if t := TypeOf(row[col]); t != TypeNull {
			return t, nil
		}
	}
	return TypeString, nil
}

// Cell returns the value at (row, col) of the visible rows.
func (m *RowModel) Cell(row, col int) (Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.dataIndex(row)
	if !ok {
		return Value{}, fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	if col < 0 || col >= len(m.data[i]) {
		return Value{}, fmt.Errorf("%w: %d", ErrInvalidColumn, col)
	}
	return NewValue(m.data[i][col]), nil
}

// Row returns the values of the visible row at row.
func (m *RowModel) Row(row int) ([]Value, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.dataIndex(row)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRow, row)
	}
	return toValues(m.data[i]), nil
}

func toValues(row Row) []Value {
	values := make([]Value, len(row))
	for i, cell := range row {
		values[i] = NewValue(cell)
	}
	return values
}

var _ DataSource = (*RowModel)(nil)
