package windows

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"schemaeditor/dao"
	"schemaeditor/datatable"
	"schemaeditor/internal/filter"
	"schemaeditor/panel"
)

// Column layout of the tables view.
const (
	colNum = iota
	colUse
	colName
	colType
)

// The # column is the table's position in the schema, counted from 1.
var tableColumns = []string{"#", "Use", "Name", "Type"}

// TablesView lists the tables of the selected schema in a sortable,
// searchable table. Tapping the Use cell toggles the table; tapping any other
// cell edits it.
type TablesView struct {
	w       fyne.Window
	logger  *slog.Logger
	timeout time.Duration
	current func() *panel.Schema

	model     *datatable.RowModel
	rows      *RowTable
	search    *widget.Entry
	onChanged func()
	content   fyne.CanvasObject
}

// NewTablesView builds the view. current returns the schema being edited;
// onChanged is called after every edit of its tables.
func NewTablesView(w fyne.Window, timeout time.Duration, logger *slog.Logger,
	current func() *panel.Schema, onStatus func(string), onChanged func(),
) *TablesView {
	v := &TablesView{
		w:         w,
		logger:    logger,
		timeout:   timeout,
		current:   current,
		onChanged: onChanged,
	}
	v.model, _ = datatable.NewRowModel(tableColumns, nil)
	v.model.SetEditableColumns(tableColumns[colUse])
	v.rows = NewRowTable(v.model, onStatus)
	v.rows.OnSelected(v.cellTapped)

	v.search = widget.NewEntry()
	v.search.SetPlaceHolder("Search tables...")
	v.search.OnChanged = func(text string) {
		var f datatable.Filter
		if strings.TrimSpace(text) != "" {
			f = filter.AnyOf(
				&filter.Contains{Column: tableColumns[colName], Text: text},
				&filter.Contains{Column: tableColumns[colType], Text: text},
			)
		}
		if err := v.model.SetFilter(f); err != nil {
			v.logger.Warn("filter rejected", "error", err)
		}
	}

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Add", theme.ContentAddIcon(), v.addTable),
		widget.NewButtonWithIcon("Add from source...", theme.SearchIcon(), v.addFromSource),
		widget.NewButtonWithIcon("Check tables", theme.ConfirmIcon(), v.checkTables),
	)
	v.content = container.NewBorder(
		container.NewBorder(nil, nil, nil, toolbar, v.search),
		nil, nil, nil,
		v.rows.Widget(),
	)
	return v
}

// Content returns the view's canvas object.
func (v *TablesView) Content() fyne.CanvasObject { return v.content }

// Model returns the row model behind the view.
func (v *TablesView) Model() *datatable.RowModel { return v.model }

// Reload shows the tables of the current schema.
func (v *TablesView) Reload() {
	if err := v.model.Populate(tableColumns, tableRows(v.current().Tables())); err != nil {
		v.logger.Error("cannot show tables", "error", err)
	}
}

// setTables stores tables in the current schema and refreshes the view.
func (v *TablesView) setTables(tables []panel.Table) {
	v.current().SetTables(tables)
	v.Reload()
	if v.onChanged != nil {
		v.onChanged()
	}
}

// indexOf finds the schema table shown in the visible row.
func (v *TablesView) indexOf(row int) (int, bool) {
	r, ok := v.model.RowAt(row)
	if !ok {
		return 0, false
	}
	return tableIndex(r, len(v.current().Tables()))
}

func tableRows(tables []panel.Table) []datatable.Row {
	rows := make([]datatable.Row, len(tables))
	for i, t := range tables {
		rows[i] = datatable.Row{i + 1, t.Use, t.Name, t.Type}
	}
	return rows
}

// tableIndex reads the schema index of a row built by tableRows.
func tableIndex(r datatable.Row, count int) (int, bool) {
	if len(r) <= colNum {
		return 0, false
	}
	n, ok := r[colNum].(int)
	if !ok || n < 1 || n > count {
		return 0, false
	}
	return n - 1, true
}

func (v *TablesView) cellTapped(row, col int) {
	i, ok := v.indexOf(row)
	if !ok {
		return
	}
	tables := v.current().Tables()

	if col == colUse && v.model.IsCellEditable(row, col) {
		tables[i].Use = !tables[i].Use
		if err := v.model.SetCell(row, col, tables[i].Use); err != nil {
			v.logger.Warn("cannot toggle table", "error", err)
			return
		}
		v.current().SetTables(tables)
		if v.onChanged != nil {
			v.onChanged()
		}
		return
	}
	v.editTable(tables, i)
}

func (v *TablesView) editTable(tables []panel.Table, i int) {
	name := widget.NewEntry()
	name.SetText(tables[i].Name)
	typ := widget.NewEntry()
	typ.SetText(tables[i].Type)
	use := widget.NewCheck("", nil)
	use.SetChecked(tables[i].Use)
	remove := widget.NewCheck("", nil)

	items := []*widget.FormItem{
		widget.NewFormItem("Name", name),
		widget.NewFormItem("Type", typ),
		widget.NewFormItem("Use", use),
		widget.NewFormItem("Remove", remove),
	}
	dialog.ShowForm("Edit table", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if remove.Checked {
			v.setTables(slices.Delete(tables, i, i+1))
			return
		}
		if strings.TrimSpace(typ.Text) == "" {
			dialog.ShowError(fmt.Errorf("a table needs a type"), v.w)
			return
		}
		tables[i] = panel.Table{Name: strings.TrimSpace(name.Text), Type: strings.TrimSpace(typ.Text), Use: use.Checked}
		v.setTables(tables)
	}, v.w)
}

func (v *TablesView) addTable() {
	name := widget.NewEntry()
	typ := widget.NewEntry()
	items := []*widget.FormItem{
		widget.NewFormItem("Name", name),
		widget.NewFormItem("Type", typ),
	}
	dialog.ShowForm("Add table", "Add", "Cancel", items, func(ok bool) {
		if !ok || strings.TrimSpace(typ.Text) == "" {
			return
		}
		tables := append(v.current().Tables(), panel.Table{
			Name: strings.TrimSpace(name.Text),
			Type: strings.TrimSpace(typ.Text),
			Use:  true,
		})
		v.setTables(tables)
	}, v.w)
}

// addFromSource lists the tables the data source offers and adds the ones
// picked.
func (v *TablesView) addFromSource() {
	schema := v.current()
	params := schema.Panel().Parameters()

	var names []string
	var err error
	runWithProgress(v.w, "Reading tables...", func() {
		ctx, cancel := createTimeoutContext(v.timeout)
		defer cancel()
		names, err = dao.AvailableTables(ctx, params)
	}, func() {
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to list tables: %w", err), v.w)
			return
		}
		if len(names) == 0 {
			dialog.ShowInformation("No tables", "The data source has no tables", v.w)
			return
		}
		v.pickTables(names)
	})
}

// checkTables reports the used, named tables the data source does not have.
func (v *TablesView) checkTables() {
	names := usedTableNames(v.current().Tables())
	if len(names) == 0 {
		dialog.ShowInformation("Check tables", "No used table has a name", v.w)
		return
	}
	params := v.current().Panel().Parameters()

	var missing []string
	var err error
	runWithProgress(v.w, "Checking tables...", func() {
		ctx, cancel := createTimeoutContext(v.timeout)
		defer cancel()
		missing, err = dao.MissingTables(ctx, params, names)
	}, func() {
		switch {
		case err != nil:
			dialog.ShowError(fmt.Errorf("failed to check tables: %w", err), v.w)
		case len(missing) > 0:
			v.logger.Warn("tables missing", "tables", missing)
			dialog.ShowInformation("Missing tables",
				"These tables must be created before continuing:\n"+strings.Join(missing, "\n"), v.w)
		default:
			dialog.ShowInformation("Check tables", fmt.Sprintf("All %d tables exist", len(names)), v.w)
		}
	})
}

// usedTableNames lists the names of the tables in use, skipping unnamed ones.
func usedTableNames(tables []panel.Table) []string {
	var names []string
	for _, t := range tables {
		if t.Use && strings.TrimSpace(t.Name) != "" {
			names = append(names, t.Name)
		}
	}
	return names
}

func (v *TablesView) pickTables(names []string) {
	existing := make(map[string]bool)
	for _, t := range v.current().Tables() {
		existing[t.Name] = true
	}
	offered := slices.DeleteFunc(names, func(n string) bool { return existing[n] })

	group := widget.NewCheckGroup(offered, nil)
	content := container.NewVScroll(group)
	content.SetMinSize(fyne.NewSize(400, 300))

	dialog.ShowCustomConfirm("Add tables", "Add", "Cancel", content, func(ok bool) {
		if !ok || len(group.Selected) == 0 {
			return
		}
		schema := v.current()
		file := schema.Kind() == panel.KindFF
		tables := schema.Tables()
		for _, name := range group.Selected {
			tables = append(tables, panel.Table{Name: name, Type: typeFromName(name, file), Use: true})
		}
		v.logger.Info("tables added", "count", len(group.Selected))
		v.setTables(tables)
	}, v.w)
}

// typeFromName derives a table type from a name the data source offers:
// a file name loses its extension, a database table its schema qualifier.
func typeFromName(name string, file bool) string {
	if file {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	} else if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}
