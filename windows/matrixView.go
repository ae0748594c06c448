package windows

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"schemaeditor/panel"
	"schemaeditor/relationship"
)

// matrixCell is one colored source × target square.
type matrixCell struct {
	widget.BaseWidget
	rect  *canvas.Rectangle
	text  *canvas.Text
	onTap func()
}

func newMatrixCell(state relationship.State, label string, onTap func()) *matrixCell {
	c := &matrixCell{
		rect:  canvas.NewRectangle(state.Color()),
		text:  canvas.NewText(label, theme.Color(theme.ColorNameForeground)),
		onTap: onTap,
	}
	c.rect.SetMinSize(fyne.NewSize(72, 32))
	c.rect.StrokeColor = theme.Color(theme.ColorNameSeparator)
	c.rect.StrokeWidth = 1
	c.text.TextSize = theme.CaptionTextSize()
	c.text.Alignment = fyne.TextAlignCenter
	c.ExtendBaseWidget(c)
	return c
}

func (c *matrixCell) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(c.rect, container.NewCenter(c.text)))
}

// Tapped opens the cell's editor.
func (c *matrixCell) Tapped(*fyne.PointEvent) {
	if c.onTap != nil {
		c.onTap()
	}
}

// MatrixView shows the relationships of the selected schema as a grid of
// source rows and target columns, colored by state.
type MatrixView struct {
	w         fyne.Window
	logger    *slog.Logger
	defaults  *relationship.Defaults
	current   func() *panel.Schema
	onChanged func()

	matrix  *relationship.Matrix
	grid    *fyne.Container
	content fyne.CanvasObject
}

// NewMatrixView builds the view. defaults marks the cells that use a
// standard relationship.
func NewMatrixView(w fyne.Window, defaults *relationship.Defaults, logger *slog.Logger,
	current func() *panel.Schema, onChanged func(),
) *MatrixView {
	v := &MatrixView{
		w:         w,
		logger:    logger,
		defaults:  defaults,
		current:   current,
		onChanged: onChanged,
		grid:      container.NewVBox(),
	}

	legend := container.NewHBox()
	for _, s := range []relationship.State{relationship.None, relationship.Defined, relationship.Default} {
		swatch := canvas.NewRectangle(s.Color())
		swatch.SetMinSize(fyne.NewSize(16, 16))
		legend.Add(container.NewHBox(swatch, widget.NewLabel(s.String())))
	}

	toolbar := container.NewHBox(
		widget.NewButtonWithIcon("Use defaults", theme.ContentAddIcon(), v.applyDefaults),
		widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), v.clear),
		layout.NewSpacer(),
		legend,
	)
	v.content = container.NewBorder(toolbar, nil, nil, nil, container.NewScroll(v.grid))
	return v
}

// Content returns the view's canvas object.
func (v *MatrixView) Content() fyne.CanvasObject { return v.content }

// Reload rebuilds the grid from the current schema.
func (v *MatrixView) Reload() {
	schema := v.current()
	v.matrix = relationship.NewMatrix(schema.TableTypes(), v.defaults, v.logger)
	v.matrix.Apply(schema.Relationships())
	v.render()
}

func (v *MatrixView) render() {
	tables := v.matrix.Tables()
	v.grid.RemoveAll()
	if len(tables) == 0 {
		v.grid.Add(widget.NewLabel("Add tables to define relationships"))
		v.grid.Refresh()
		return
	}

	header := container.NewGridWithColumns(len(tables) + 1)
	header.Add(widget.NewLabelWithStyle("source \\ target", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))
	for _, dst := range tables {
		header.Add(widget.NewLabelWithStyle(dst, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
	}
	v.grid.Add(header)

	rels := v.current().Relationships()
	for _, src := range tables {
		row := container.NewGridWithColumns(len(tables) + 1)
		row.Add(widget.NewLabelWithStyle(src, fyne.TextAlignTrailing, fyne.TextStyle{Bold: true}))
		for _, dst := range tables {
			label := ""
			if i := slices.IndexFunc(rels, func(r relationship.Relationship) bool {
				return r.Source == src && r.Target == dst
			}); i >= 0 {
				label = string(rels[i].Constraint)
			}
			row.Add(newMatrixCell(v.matrix.State(src, dst), label, func() { v.edit(src, dst) }))
		}
		v.grid.Add(row)
	}
	v.grid.Refresh()
}

// edit opens the editor for the source → target relationship.
func (v *MatrixView) edit(src, dst string) {
	if src == dst {
		return
	}
	schema := v.current()
	rels := schema.Relationships()
	i := slices.IndexFunc(rels, func(r relationship.Relationship) bool {
		return r.Source == src && r.Target == dst
	})

	old := relationship.New(src, dst, "", relationship.AnyNumber)
	if i >= 0 {
		old = rels[i]
	} else if def, ok := v.defaults.Get(src, dst); ok {
		old = relationship.New(src, dst, def.Where, def.Constraint)
	}

	id := widget.NewEntry()
	id.SetText(old.ID)
	where := widget.NewMultiLineEntry()
	where.SetText(old.Where)
	where.SetPlaceHolder("e.g. orid=#orid#")

	descriptions := make([]string, len(relationship.Constraints))
	for j, c := range relationship.Constraints {
		descriptions[j] = c.Description()
	}
	constraint := widget.NewSelect(descriptions, nil)
	constraint.SetSelected(old.Constraint.Description())

	items := []*widget.FormItem{
		widget.NewFormItem("ID", id),
		widget.NewFormItem("Where", where),
		widget.NewFormItem("Constraint", constraint),
	}
	title := fmt.Sprintf("%s → %s", src, dst)
	d := dialog.NewForm(title, "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		c, err := relationship.ParseConstraint(constraint.Selected)
		if err != nil {
			dialog.ShowError(err, v.w)
			return
		}
		updated := relationship.New(src, dst, strings.Join(strings.Fields(where.Text), " "), c)
		if s := strings.TrimSpace(id.Text); s != "" && !strings.ContainsAny(s, " \t") {
			updated.ID = s
		}

		v.matrix.Change(old, updated)
		if i >= 0 {
			rels = slices.Delete(rels, i, i+1)
		}
		if updated.Where != "" {
			rels = append(rels, updated)
		}
		v.store(rels)
	}, v.w)
	d.Resize(fyne.NewSize(480, 320))
	d.Show()
}

// applyDefaults adds the standard relationship of every pair that has none.
func (v *MatrixView) applyDefaults() {
	schema := v.current()
	rels := schema.Relationships()
	added := 0
	for _, def := range v.defaults.For(schema.TableTypes()) {
		if slices.ContainsFunc(rels, func(r relationship.Relationship) bool {
			return r.Source == def.Source && r.Target == def.Target
		}) {
			continue
		}
		rels = append(rels, def)
		added++
	}
	v.logger.Info("default relationships applied", "added", added)
	v.store(rels)
}

func (v *MatrixView) clear() {
	dialog.ShowConfirm("Clear relationships", "Remove every relationship of this schema?", func(ok bool) {
		if !ok {
			return
		}
		for _, r := range v.current().Relationships() {
			v.matrix.Remove(r)
		}
		v.store(nil)
	}, v.w)
}

func (v *MatrixView) store(rels []relationship.Relationship) {
	slices.SortFunc(rels, relationship.Compare)
	v.current().SetRelationships(rels)
	v.matrix.Apply(rels)
	v.render()
	if v.onChanged != nil {
		v.onChanged()
	}
}
