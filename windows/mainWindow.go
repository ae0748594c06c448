package windows

import (
	"errors"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"schemaeditor/accounts"
	"schemaeditor/internal/config"
	"schemaeditor/panel"
	"schemaeditor/parinfo"
	"schemaeditor/relationship"
)

// MainWindow is the schema editor: a chooser over the database, flat file
// and XML connection forms, the tables and relationships of the selected
// schema, and the parameter file they are saved to.
type MainWindow struct {
	a      fyne.App
	w      fyne.Window
	cfg    *config.Config
	logger *slog.Logger

	store   *parinfo.Store
	parFile string
	cache   *accounts.Cache
	chooser *panel.Chooser
	forms   map[panel.Kind]*schemaForm

	tables    *TablesView
	matrix    *MatrixView
	radio     *widget.RadioGroup
	statusBar *widget.Label
}

// CreateMainWindow builds the editor from cfg. The window is shown by
// ShowAndRun.
func CreateMainWindow(cfg *config.Config, logger *slog.Logger) (*MainWindow, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := &MainWindow{
		cfg:    cfg,
		logger: logger,
		store:  parinfo.New(),
		cache:  accounts.Shared(),
		forms:  make(map[panel.Kind]*schemaForm),
	}
	if env, ok := cfg.EnvironmentConfiguration(); ok {
		t.cache.Add(env)
	}

	ctx := panel.NewContext()
	schemas := []*panel.Schema{
		panel.NewSchema(panel.NewDB(ctx, logger), panel.Input, logger),
		panel.NewSchema(panel.NewFF(ctx, true, logger), panel.Input, logger),
		panel.NewSchema(panel.NewXML(ctx, false, logger), panel.Input, logger),
	}
	for _, s := range schemas {
		s.Register(t.store, cfg.Prefix)
	}
	chooser, err := panel.NewChooser(schemas...)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema chooser: %w", err)
	}
	t.chooser = chooser

	t.NewMainWindow()
	return t, nil
}

// SetStatus updates the status bar message
func (t *MainWindow) SetStatus(message string) {
	if t.statusBar != nil {
		t.statusBar.SetText(message)
	}
}

func (t *MainWindow) current() *panel.Schema { return t.chooser.Selected() }

func (t *MainWindow) NewMainWindow() {
	t.a = app.NewWithID("schemaeditor")
	t.a.Settings().SetTheme(&CustomTheme{})
	t.w = t.a.NewWindow("Schema Editor")
	t.w.Resize(fyne.NewSize(float32(t.cfg.Window.Width), float32(t.cfg.Window.Height)))

	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}

	stack := container.NewStack()
	for _, s := range t.chooser.Schemas() {
		form := newSchemaForm(t.w, s, t.cache, t.cfg.Timeout(), t.logger, t.SetStatus)
		t.forms[s.Kind()] = form
		stack.Add(container.NewVScroll(form.content))

		s.InitializeAsync(t.cache, t.cfg.Accounts, fyne.Do, form.setConfigurations)
	}

	t.tables = NewTablesView(t.w, t.cfg.Timeout(), t.logger, t.current, t.SetStatus, t.schemaChanged)
	t.matrix = NewMatrixView(t.w, relationship.StandardDefaults(), t.logger, t.current, t.showCounts)

	labels := make([]string, 0, 3)
	byLabel := make(map[string]panel.Kind)
	for _, k := range t.chooser.Kinds() {
		label := kindLabel(k)
		labels = append(labels, label)
		byLabel[label] = k
	}
	t.radio = widget.NewRadioGroup(labels, func(label string) {
		if k, ok := byLabel[label]; ok {
			t.selectKind(k)
		}
	})
	t.radio.Horizontal = true
	t.radio.Required = true

	t.chooser.OnSelect(func(s *panel.Schema) {
		for i, other := range t.chooser.Schemas() {
			if other == s {
				stack.Objects[i].Show()
			} else {
				stack.Objects[i].Hide()
			}
		}
		t.tables.Reload()
		t.matrix.Reload()
		t.SetStatus(s.Kind().Description())
	})

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), t.openParFile),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), t.saveParFile),
		widget.NewToolbarAction(theme.FileIcon(), t.saveParFileAs),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DownloadIcon(), func() {
			showExportDialog(t.w, t.tables.Model(), "tables", t.SetStatus)
		}),
		widget.NewToolbarAction(theme.ListIcon(), func() {
			showForeignKeysDialog(t.w, t.current(), t.schemaChanged)
		}),
		widget.NewToolbarAction(theme.SettingsIcon(), t.toggleAdvanced),
		widget.NewToolbarSpacer(),
	)

	tabs := container.NewAppTabs(
		container.NewTabItem("Tables", t.tables.Content()),
		container.NewTabItem("Relationships", t.matrix.Content()),
	)
	tabs.OnSelected = func(*container.TabItem) { t.matrix.Reload() }

	split := container.NewHSplit(widget.NewCard("", "Connection", stack), tabs)
	split.Offset = 0.4

	top := container.NewVBox(toolbar, t.radio)
	t.w.SetContent(container.NewBorder(top, container.NewHBox(t.statusBar), nil, nil, split))

	kind, err := panel.ParseKind(t.cfg.DefaultDAO)
	if err != nil {
		t.logger.Warn("unknown default DAO type, using DB", "default_dao", t.cfg.DefaultDAO)
		kind = panel.KindDB
	}
	t.radio.SetSelected(kindLabel(kind))

	if t.cfg.ParFile != "" {
		t.loadParFile(t.cfg.ParFile)
	}
}

// ShowAndRun shows the window and runs the application until it is closed.
func (t *MainWindow) ShowAndRun() {
	t.w.ShowAndRun()
}

func kindLabel(k panel.Kind) string {
	switch k {
	case panel.KindDB:
		return "Database"
	case panel.KindFF:
		return "Flat File"
	case panel.KindXML:
		return "XML"
	default:
		return k.String()
	}
}

func (t *MainWindow) selectKind(k panel.Kind) {
	if err := t.chooser.Select(k); err != nil {
		dialog.ShowError(err, t.w)
	}
}

// schemaChanged refreshes the views after the tables, relationships or
// fixed foreign keys of the current schema change.
func (t *MainWindow) schemaChanged() {
	t.matrix.Reload()
	t.showCounts()
}

func (t *MainWindow) showCounts() {
	t.SetStatus(fmt.Sprintf("%d tables, %d relationships",
		len(t.current().Tables()), len(t.current().Relationships())))
}

func (t *MainWindow) toggleAdvanced() {
	show := !t.current().TableDefVisible()
	for _, form := range t.forms {
		form.SetTableDefVisible(show)
	}
	t.chooser.SetTableDefVisible(show)
	if s, ok := t.chooser.Schema(panel.KindDB); ok {
		s.Panel().SetTablespaceFieldsVisible(show)
	}
}

func (t *MainWindow) openParFile() {
	NewParFileDialog(t.w, t.parFile, t.loadParFile).Show()
}

// loadParFile reads path and shows the schema its DAOType names.
func (t *MainWindow) loadParFile(path string) {
	store := parinfo.New()
	if err := store.ReadFile(path); err != nil {
		dialog.ShowError(fmt.Errorf("failed to read parameter file: %w", err), t.w)
		return
	}
	t.logger.Debug("parameter file read", "path", path, "parameters", store.Len())

	t.store.Clear()
	t.store.Merge(store)
	t.parFile = path

	if v, ok := t.store.Get(t.cfg.Prefix + parinfo.DAOType); ok {
		kind, err := panel.ParseKind(v)
		if err != nil {
			dialog.ShowError(err, t.w)
		} else {
			t.radio.SetSelected(kindLabel(kind))
		}
	}

	schema := t.current()
	err := schema.ReadFrom(t.store)
	t.forms[schema.Kind()].refresh()
	t.tables.Reload()
	t.matrix.Reload()
	if err != nil {
		dialog.ShowError(fmt.Errorf("some parameters were skipped: %w", err), t.w)
	}
	t.SetStatus("Loaded " + path)
}

func (t *MainWindow) saveParFile() {
	if t.parFile == "" {
		t.saveParFileAs()
		return
	}
	t.writeParFile(t.parFile)
}

func (t *MainWindow) saveParFileAs() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		t.writeParFile(path)
	}, t.w)
	d.SetFileName("schema.par")
	d.Show()
}

// writeParFile stores the selected schema and writes the parameters. The
// fields of the schemas not selected are left out.
func (t *MainWindow) writeParFile(path string) {
	selected := t.current()
	for _, s := range t.chooser.Schemas() {
		if s == selected {
			continue
		}
		for _, f := range s.Panel().Fields() {
			t.store.Remove(t.cfg.Prefix + f.Param)
		}
	}
	selected.WriteTo(t.store)

	if err := t.store.WriteFile(path, true); err != nil {
		if errors.Is(err, parinfo.ErrNoFileName) {
			t.saveParFileAs()
			return
		}
		dialog.ShowError(fmt.Errorf("failed to write parameter file: %w", err), t.w)
		return
	}
	t.parFile = path
	t.logger.Info("parameter file written", "path", path)
	t.SetStatus("Saved " + path)
}
