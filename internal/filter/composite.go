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

// Package filter holds the row filters used by the table chooser's search box.
package filter

import (
	"strings"

	"schemaeditor/datatable"
)

// Composite passes a row when all of its filters pass, or with Any set,
// when at least one does. A composite with no filters passes every row.
type Composite struct {
	Filters []datatable.Filter
	Any     bool
}

// AllOf returns a composite requiring every filter to pass.
func AllOf(filters ...datatable.Filter) *Composite {
	return &Composite{Filters: filters}
}

// AnyOf returns a composite requiring one of filters to pass.
func AnyOf(filters ...datatable.Filter) *Composite {
	return &Composite{Filters: filters, Any: true}
}

// Evaluate implements datatable.Filter. Evaluation stops at the first filter
// that decides the outcome.
func (f *Composite) Evaluate(row []datatable.Value, columnNames []string) (bool, error) {
	if len(f.Filters) == 0 {
		return true, nil
	}
	for _, filter := range f.Filters {
		passes, err := filter.Evaluate(row, columnNames)
		if err != nil {
			return false, err
		}
		if passes == f.Any {
			return passes, nil
		}
	}
	return !f.Any, nil
}

// Description implements datatable.Filter.
func (f *Composite) Description() string {
	if len(f.Filters) == 0 {
		return "all rows"
	}
	op := " and "
	if f.Any {
		op = " or "
	}
	parts := make([]string, len(f.Filters))
	for i, filter := range f.Filters {
		parts[i] = filter.Description()
	}
	return "(" + strings.Join(parts, op) + ")"
}
