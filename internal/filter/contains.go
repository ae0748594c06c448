package filter

import (
	"fmt"
	"strings"

	"schemaeditor/datatable"
)

// Contains passes rows where a cell contains Text, ignoring case. An empty
// Column searches every column.
type Contains struct {
	Column string
	Text   string
}

// Evaluate implements datatable.Filter.
func (f *Contains) Evaluate(row []datatable.Value, columnNames []string) (bool, error) {
	needle := strings.ToLower(strings.TrimSpace(f.Text))
	if needle == "" {
		return true, nil
	}

	if f.Column == "" {
		for _, v := range row {
			if strings.Contains(strings.ToLower(v.Formatted), needle) {
				return true, nil
			}
		}
		return false, nil
	}

	for i, name := range columnNames {
		if strings.EqualFold(name, f.Column) {
			if i >= len(row) {
				return false, fmt.Errorf("%w: %s", datatable.ErrInvalidColumn, f.Column)
			}
			return strings.Contains(strings.ToLower(row[i].Formatted), needle), nil
		}
	}
	return false, fmt.Errorf("%w: unknown column %q", datatable.ErrInvalidFilter, f.Column)
}

// Description implements datatable.Filter.
func (f *Contains) Description() string {
	if f.Column == "" {
		return fmt.Sprintf("any column contains %q", f.Text)
	}
	return fmt.Sprintf("%s contains %q", f.Column, f.Text)
}
