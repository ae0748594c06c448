// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package datatable holds the row model behind the editor's sortable tables:
// heterogeneous rows, the multi-key sorter and the read accessors the view uses.
package datatable

import (
	"fmt"
	"time"
)

// DataType represents the type of data in a column.
type DataType int

const (
	// TypeString represents string data.
	TypeString DataType = iota
	// TypeInt represents integer data (any size).
	TypeInt
	// TypeFloat represents floating-point data (any precision).
	TypeFloat
	// TypeBool represents boolean data.
	TypeBool
	// TypeTimestamp represents timestamp data (date + time).
	TypeTimestamp
	// TypeNull is reported for a column whose first cell is nil.
	TypeNull
)

// String returns the string representation of a DataType.
func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeTimestamp:
		return "Timestamp"
	case TypeNull:
		return "Null"
	default:
		return fmt.Sprintf("Unknown(%d)", dt)
	}
}

// TypeOf reports the DataType of a raw cell value.
func TypeOf(raw any) DataType {
	switch v := raw.(type) {
	case nil:
		return TypeNull
	case Value:
		return v.Type
	case bool:
		return TypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt
	case float32, float64:
		return TypeFloat
	case time.Time:
		return TypeTimestamp
	default:
		return TypeString
	}
}

// Row is one record: an ordered, fixed-length sequence of cells.
type Row []any

// Value is a cell as the view and the exporters read it. A Value stored in a
// Row sorts by its Raw field.
type Value struct {
	Raw       any
	Type      DataType
	IsNull    bool
	Formatted string // display text; empty for nil
}

// NewValue wraps a raw cell, inferring its type.
func NewValue(raw any) Value {
	if v, ok := raw.(Value); ok {
		return v
	}
	if raw == nil {
		return NewNullValue(TypeNull)
	}
	return Value{
		Raw:       raw,
		Type:      TypeOf(raw),
		Formatted: formatValue(raw),
	}
}

// NewNullValue returns a nil cell of a column typed dataType.
func NewNullValue(dataType DataType) Value {
	return Value{
		Type:   dataType,
		IsNull: true,
	}
}

func formatValue(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(time.RFC3339)
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", raw)
	}
}

// SortState represents the current sorting configuration: the sort key list,
// most significant column first.
type SortState struct {
	Columns []int
}

// IsSorted reports whether any sort key is set.
func (s SortState) IsSorted() bool {
	return len(s.Columns) > 0
}
