package datatable

// DataSource is the read side of a table as the exporters and the table view
// see it: the visible rows in their current order. Out of range indexes
// yield ErrInvalidRow or ErrInvalidColumn.
type DataSource interface {
	RowCount() int
	ColumnCount() int
	ColumnName(col int) (string, error)
	// ColumnType is the type of the column's first non-nil cell.
	ColumnType(col int) (DataType, error)
	Cell(row, col int) (Value, error)
	Row(row int) ([]Value, error)
}

// Filter hides rows of a RowModel. Filtering never changes the order of the
// rows that stay visible.
type Filter interface {
	Evaluate(row []Value, columnNames []string) (bool, error)
	Description() string
}
