package windows

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"schemaeditor/accounts"
	"schemaeditor/dao"
	"schemaeditor/panel"
)

// schemaForm draws the fields of one schema's panel. Widget edits flow into
// the panel; panel changes flow back into the widgets.
type schemaForm struct {
	w       fyne.Window
	schema  *panel.Schema
	cache   *accounts.Cache
	logger  *slog.Logger
	timeout time.Duration
	status  func(string)

	setters  map[string]func(panel.Field)
	configs  *widget.Select
	tableDef *widget.Entry
	defRow   *fyne.Container
	content  *fyne.Container
}

func newSchemaForm(w fyne.Window, schema *panel.Schema, cache *accounts.Cache, timeout time.Duration,
	logger *slog.Logger, status func(string),
) *schemaForm {
	f := &schemaForm{
		w:       w,
		schema:  schema,
		cache:   cache,
		logger:  logger,
		timeout: timeout,
		status:  status,
		setters: make(map[string]func(panel.Field)),
	}
	p := schema.Panel()

	rows := container.New(layout.NewFormLayout())
	for _, field := range p.Fields() {
		label := widget.NewLabel(field.Label)
		input, set := f.newInput(field)
		rows.Add(label)
		rows.Add(input)
		f.setters[field.Param] = func(fl panel.Field) {
			set(fl)
			if fl.Visible {
				label.Show()
				input.Show()
			} else {
				label.Hide()
				input.Hide()
			}
		}
		f.setters[field.Param](field)
	}
	p.OnFieldChanged(func(fl panel.Field) {
		if set, ok := f.setters[fl.Param]; ok {
			set(fl)
		}
	})

	f.configs = widget.NewSelect(nil, f.applyConfiguration)
	f.configs.PlaceHolder = "Loading configurations..."
	f.configs.Disable()
	configRow := container.NewBorder(nil, nil, widget.NewLabel("Configuration:"), nil, f.configs)
	if p.Kind() == panel.KindXML {
		configRow.Hide()
	}

	f.tableDef = widget.NewEntry()
	f.tableDef.SetPlaceHolder("table holding the column definitions")
	f.tableDef.OnChanged = schema.SetTableDefinitionTable
	f.defRow = container.NewBorder(nil, nil, widget.NewLabel("Table Definition Table:"), nil, f.tableDef)
	f.SetTableDefVisible(schema.TableDefVisible())

	test := widget.NewButtonWithIcon("Test connection", theme.ConfirmIcon(), f.testConnection)

	f.content = container.NewVBox(
		widget.NewLabelWithStyle(p.Kind().Description(), fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
		configRow,
		widget.NewSeparator(),
		rows,
		f.defRow,
		container.NewHBox(layout.NewSpacer(), test),
	)
	return f
}

// newInput creates the widget for field and the function that updates it.
func (f *schemaForm) newInput(field panel.Field) (fyne.CanvasObject, func(panel.Field)) {
	p := f.schema.Panel()
	param := field.Param
	edit := func(v string) {
		if err := p.SetValue(param, v); err != nil {
			f.logger.Error("field edit rejected", "param", param, "error", err)
		}
	}
	enable := func(w fyne.Disableable, on bool) {
		if on {
			w.Enable()
		} else {
			w.Disable()
		}
	}

	switch field.Widget {
	case panel.Check:
		c := widget.NewCheck("", func(b bool) { edit(strconv.FormatBool(b)) })
		return c, func(fl panel.Field) {
			if c.Checked != fl.Checked() {
				c.SetChecked(fl.Checked())
			}
			enable(c, fl.Enabled)
		}
	case panel.Choice:
		if field.Editable {
			s := widget.NewSelectEntry(field.Options)
			s.OnChanged = edit
			return s, func(fl panel.Field) {
				if s.Text != fl.Value {
					s.SetText(fl.Value)
				}
				enable(s, fl.Enabled)
			}
		}
		s := widget.NewSelect(field.Options, edit)
		return s, func(fl panel.Field) {
			if s.Selected != fl.Value {
				s.SetSelected(fl.Value)
			}
			enable(s, fl.Enabled)
		}
	default:
		var e *widget.Entry
		if field.Widget == panel.PasswordText {
			e = widget.NewPasswordEntry()
		} else {
			e = widget.NewEntry()
		}
		e.SetPlaceHolder(field.Tooltip)
		e.OnChanged = edit
		return e, func(fl panel.Field) {
			if e.Text != fl.Value {
				e.SetText(fl.Value)
			}
			enable(e, fl.Enabled)
		}
	}
}

// setConfigurations offers names in the configuration choice.
func (f *schemaForm) setConfigurations(names []string) {
	f.configs.Options = names
	f.configs.PlaceHolder = "(select one)"
	if len(names) > 0 {
		f.configs.Enable()
	}
	f.configs.Refresh()
}

func (f *schemaForm) applyConfiguration(name string) {
	if name == "" || name == accounts.CustomItem {
		return
	}
	cfg, ok := f.cache.Get(name)
	if !ok {
		dialog.ShowError(fmt.Errorf("unknown configuration %q", name), f.w)
		return
	}
	if err := f.schema.ApplyConfiguration(cfg); err != nil {
		dialog.ShowError(err, f.w)
		return
	}
	f.tableDef.SetText(f.schema.TableDefinitionTable())
	f.status("Configuration applied: " + name)
}

// SetTableDefVisible shows or hides the table definition table entry.
func (f *schemaForm) SetTableDefVisible(visible bool) {
	f.schema.SetTableDefVisible(visible)
	if visible {
		f.defRow.Show()
	} else {
		f.defRow.Hide()
	}
}

// refresh copies every field and the table definition table into the widgets.
func (f *schemaForm) refresh() {
	for _, fl := range f.schema.Panel().Fields() {
		f.setters[fl.Param](fl)
	}
	f.tableDef.SetText(f.schema.TableDefinitionTable())
}

func (f *schemaForm) testConnection() {
	params := f.schema.Panel().Parameters()
	var err error
	f.status("Testing connection...")
	runWithProgress(f.w, "Testing connection...", func() {
		ctx, cancel := createTimeoutContext(f.timeout)
		defer cancel()
		err = dao.Test(ctx, params)
	}, func() {
		switch {
		case err == nil:
			f.status("Connection OK")
			dialog.ShowInformation("Test connection", "Connection succeeded", f.w)
		case errors.Is(err, dao.ErrMissingParam):
			f.status("Connection settings incomplete")
			dialog.ShowError(err, f.w)
		default:
			f.logger.Warn("connection test failed", "dao", f.schema.Kind().String(), "error", err)
			f.status("Connection failed")
			dialog.ShowError(fmt.Errorf("connection failed: %w", err), f.w)
		}
	})
}
