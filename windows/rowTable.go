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

package windows

import (
	"fmt"
	"log/slog"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"schemaeditor/datatable"
)

// headerCell is a column header that sorts on tap. A single tap adds the
// column as the least significant sort key; a double tap sorts by the
// column alone.
type headerCell struct {
	widget.Label
	col   int
	onTap func(col, clickCount int)
}

func newHeaderCell(onTap func(col, clickCount int)) *headerCell {
	h := &headerCell{col: -1, onTap: onTap}
	h.TextStyle = fyne.TextStyle{Bold: true}
	h.ExtendBaseWidget(h)
	return h
}

// Tapped handles a single click.
func (h *headerCell) Tapped(*fyne.PointEvent) {
	if h.onTap != nil && h.col >= 0 {
		h.onTap(h.col, 1)
	}
}

// DoubleTapped handles a double click.
func (h *headerCell) DoubleTapped(*fyne.PointEvent) {
	if h.onTap != nil && h.col >= 0 {
		h.onTap(h.col, 2)
	}
}

// RowTable shows a RowModel in a fyne table whose header sorts the rows.
type RowTable struct {
	model      *datatable.RowModel
	table      *widget.Table
	onSelected func(row, col int)
	onStatus   func(string)
}

// NewRowTable creates a table over model. onStatus, when not nil, receives
// a one-line summary after each sort or filter.
func NewRowTable(model *datatable.RowModel, onStatus func(string)) *RowTable {
	rt := &RowTable{model: model, onStatus: onStatus}

	rt.table = widget.NewTableWithHeaders(
		func() (int, int) {
			return rt.model.RowCount(), rt.model.ColumnCount()
		},
		func() fyne.CanvasObject {
			l := widget.NewLabel("template")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			cell, err := rt.model.Cell(id.Row, id.Col)
			if err != nil {
				label.SetText("")
				return
			}
			label.SetText(cell.Formatted)
		},
	)
	rt.table.ShowHeaderColumn = false
	rt.table.CreateHeader = func() fyne.CanvasObject {
		return newHeaderCell(rt.sortBy)
	}
	rt.table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		h := obj.(*headerCell)
		h.col = id.Col
		h.SetText(rt.headerText(id.Col))
	}
	rt.table.OnSelected = func(id widget.TableCellID) {
		if rt.onSelected != nil && id.Row >= 0 {
			rt.onSelected(id.Row, id.Col)
		}
		rt.table.UnselectAll()
	}

	for col := 0; col < model.ColumnCount(); col++ {
		rt.table.SetColumnWidth(col, 160)
	}

	model.OnChanged(func(datatable.ChangeEvent) {
		rt.table.Refresh()
		rt.updateStatus()
	})
	return rt
}

// Widget returns the table widget.
func (rt *RowTable) Widget() fyne.CanvasObject { return rt.table }

// Model returns the model shown.
func (rt *RowTable) Model() *datatable.RowModel { return rt.model }

// OnSelected sets the hook called with the visible row and the column of a
// tapped cell.
func (rt *RowTable) OnSelected(fn func(row, col int)) { rt.onSelected = fn }

func (rt *RowTable) sortBy(col, clickCount int) {
	if err := rt.model.ClickColumn(col, clickCount); err != nil {
		slog.Warn("sort failed", "column", col, "error", err)
	}
}

// headerText is the column name followed by its position in the sort key
// list, if any.
func (rt *RowTable) headerText(col int) string {
	name, err := rt.model.ColumnName(col)
	if err != nil {
		return ""
	}
	keys := rt.model.GetSortState().Columns
	if i := slices.Index(keys, col); i >= 0 {
		return fmt.Sprintf("%s ↑%d", name, i+1)
	}
	return name
}

func (rt *RowTable) updateStatus() {
	if rt.onStatus == nil {
		return
	}
	visible, total := rt.model.RowCount(), rt.model.TotalRowCount()
	var text string
	if visible != total {
		text = fmt.Sprintf("Showing %d/%d rows", visible, total)
	} else {
		text = fmt.Sprintf("%d rows", total)
	}

	if state := rt.model.GetSortState(); state.IsSorted() {
		text += " | Sorted by"
		for _, col := range state.Columns {
			name, _ := rt.model.ColumnName(col)
			text += " " + name
		}
	}
	rt.onStatus(text)
}
