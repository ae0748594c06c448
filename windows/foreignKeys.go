package windows

import (
	"maps"
	"slices"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"schemaeditor/panel"
)

// showForeignKeysDialog edits the foreign key columns an input schema
// fixes, one table at a time.
func showForeignKeysDialog(w fyne.Window, schema *panel.Schema, onChanged func()) {
	if schema.Direction() != panel.Input {
		dialog.ShowInformation("Fix foreign keys", "Only input schemas fix foreign keys", w)
		return
	}
	types := schema.TableTypes()
	if len(types) == 0 {
		dialog.ShowInformation("Fix foreign keys", "Add tables first", w)
		return
	}

	summary := widget.NewLabel("")
	refresh := func() {
		fixed := schema.FixedForeignKeys()
		var b strings.Builder
		for _, table := range slices.Sorted(maps.Keys(fixed)) {
			b.WriteString(table + ": " + strings.Join(fixed[table], ", ") + "\n")
		}
		if b.Len() == 0 {
			b.WriteString("No foreign keys fixed")
		}
		summary.SetText(strings.TrimSpace(b.String()))
	}
	refresh()

	columns := widget.NewEntry()
	columns.SetPlaceHolder("column1,column2")
	table := widget.NewSelect(types, func(t string) {
		columns.SetText(strings.Join(schema.FixedForeignKeysFor(t), ","))
	})

	apply := widget.NewButton("Apply", func() {
		if table.Selected == "" {
			return
		}
		var cols []string
		for _, c := range strings.Split(columns.Text, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cols = append(cols, c)
			}
		}
		schema.SetFixedForeignKeys(table.Selected, cols)
		refresh()
		if onChanged != nil {
			onChanged()
		}
	})

	form := widget.NewForm(
		widget.NewFormItem("Table", table),
		widget.NewFormItem("Columns", columns),
	)
	content := container.NewVBox(form, apply, widget.NewSeparator(), summary)
	d := dialog.NewCustom("Fix foreign keys", "Close", content, w)
	d.Resize(fyne.NewSize(420, 320))
	d.Show()
}
