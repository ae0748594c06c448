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

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"schemaeditor/datatable"
)

// ExportFormat represents the supported export formats
type ExportFormat int

const (
	FormatParquet ExportFormat = iota
	FormatCSV
)

func (f ExportFormat) String() string {
	switch f {
	case FormatParquet:
		return "Parquet"
	case FormatCSV:
		return "CSV"
	default:
		return fmt.Sprintf("ExportFormat(%d)", int(f))
	}
}

// Extension returns the file extension written for f.
func (f ExportFormat) Extension() string {
	if f == FormatCSV {
		return ".csv"
	}
	return ".parquet"
}

// exportTo writes the visible rows of src, in their current order, to
// filePath.
func exportTo(src datatable.DataSource, format ExportFormat, filePath string) error {
	switch format {
	case FormatParquet:
		return datatable.ExportParquet(src, filePath)
	case FormatCSV:
		return datatable.ExportCSV(src, filePath)
	default:
		return fmt.Errorf("%w: unknown format %v", datatable.ErrExportFailed, format)
	}
}

// showExportDialog asks for a format and a file, then exports src.
func showExportDialog(w fyne.Window, src datatable.DataSource, name string, onStatus func(string)) {
	if src.RowCount() == 0 {
		dialog.ShowInformation("Nothing to export", "There are no rows to export", w)
		return
	}

	formats := widget.NewRadioGroup([]string{FormatParquet.String(), FormatCSV.String()}, nil)
	formats.SetSelected(FormatParquet.String())
	formats.Required = true

	dialog.ShowCustomConfirm("Export rows", "Next", "Cancel", formats, func(ok bool) {
		if !ok {
			return
		}
		format := FormatParquet
		if formats.Selected == FormatCSV.String() {
			format = FormatCSV
		}
		exportData(w, src, format, name, onStatus)
	}, w)
}

// exportData handles the export of data to different formats.
func exportData(w fyne.Window, src datatable.DataSource, format ExportFormat, name string, onStatus func(string)) {
	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if writer == nil {
			// User cancelled
			return
		}
		filePath := writer.URI().Path()
		// the exporters create the file themselves
		writer.Close()

		var exportErr error
		runWithProgress(w, "Exporting...", func() {
			exportErr = exportTo(src, format, filePath)
		}, func() {
			if exportErr != nil {
				dialog.ShowError(fmt.Errorf("export failed: %w", exportErr), w)
				return
			}
			if onStatus != nil {
				onStatus(fmt.Sprintf("Exported %d rows to %s", src.RowCount(), filePath))
			}
			dialog.ShowInformation("Export Successful",
				fmt.Sprintf("Data exported successfully to:\n%s", filePath), w)
		})
	}, w)

	saveDialog.SetFileName(cleanFilename(name) + format.Extension())
	saveDialog.Show()
}
