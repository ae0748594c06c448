package panel

import (
	"fmt"
	"log/slog"
	"strings"

	"schemaeditor/accounts"
	"schemaeditor/parinfo"
)

// Drivers offered by the database panel's driver choice.
var Drivers = []string{"pgx", "postgres", "sqlite"}

// Panel is the connection panel of one data-access mechanism. Its fields
// are bound to parameters named prefix + Field.Param in a parameter store.
//
// A Panel belongs to the UI goroutine and is not safe for concurrent use.
type Panel struct {
	kind   Kind
	ctx    *Context
	logger *slog.Logger

	fields  []*Field
	store   *parinfo.Store
	prefix  string
	visible bool

	onFieldChanged func(Field)
}

func newPanel(kind Kind, ctx *Context, logger *slog.Logger, fields []*Field) *Panel {
	if ctx == nil {
		ctx = NewContext()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, f := range fields {
		f.Enabled = true
	}
	return &Panel{
		kind:   kind,
		ctx:    ctx,
		logger: logger.With("dao", kind.String()),
		fields: fields,
	}
}

// NewDB returns a database panel. The tablespace fields start hidden.
func NewDB(ctx *Context, logger *slog.Logger) *Panel {
	return newPanel(KindDB, ctx, logger, []*Field{
		{Param: parinfo.Username, Label: "Username:", Tooltip: "Database username", Widget: Text, Visible: true},
		{Param: parinfo.Password, Label: "Password:", Tooltip: "Database password", Widget: PasswordText, Visible: true},
		{Param: parinfo.Instance, Label: "Instance:", Tooltip: "Database instance", Widget: Text, Visible: true},
		{Param: parinfo.Driver, Label: "Driver:", Tooltip: "Database driver", Widget: Choice,
			Options: Drivers, Editable: true, Visible: true},
		{Param: parinfo.IndexTablespace, Label: "Index Tablespace:", Tooltip: "Database index tablespace", Widget: Text},
		{Param: parinfo.TableTablespace, Label: "Table Tablespace:", Tooltip: "Database table tablespace", Widget: Text},
	})
}

// NewFF returns a flat-file panel. showDateFormat adds the date format field.
func NewFF(ctx *Context, showDateFormat bool, logger *slog.Logger) *Panel {
	fields := []*Field{
		{Param: parinfo.FlatFilePath, Label: "Flat File Path:", Tooltip: "Flat file path directory", Widget: Text, Visible: true},
	}
	if showDateFormat {
		fields = append(fields, &Field{Param: parinfo.DateFormat, Label: "Date Format:",
			Tooltip: "Date format of flat file data (e.g. yy/MM/dd hh:mm:ss)", Widget: Text, Visible: true})
	}
	return newPanel(KindFF, ctx, logger, fields)
}

// NewXML returns an XML panel. Its one field is the input file, or the
// output file when output is set.
func NewXML(ctx *Context, output bool, logger *slog.Logger) *Panel {
	param, tip := parinfo.XMLInputFile, "XML file to read"
	if output {
		param, tip = parinfo.XMLOutputFile, "XML file to write"
	}
	return newPanel(KindXML, ctx, logger, []*Field{
		{Param: param, Label: "XML File:", Tooltip: tip, Widget: Text, Visible: true},
	})
}

// New returns a panel of the given kind with default options.
func New(kind Kind, ctx *Context, logger *slog.Logger) (*Panel, error) {
	switch kind {
	case KindDB:
		return NewDB(ctx, logger), nil
	case KindFF:
		return NewFF(ctx, true, logger), nil
	case KindXML:
		return NewXML(ctx, false, logger), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidKind, kind)
	}
}

// Kind returns the panel's data-access mechanism.
func (p *Panel) Kind() Kind { return p.kind }

// Context returns the panel's shared context.
func (p *Panel) Context() *Context { return p.ctx }

// Prefix returns the parameter name prefix set by Register.
func (p *Panel) Prefix() string { return p.prefix }

// OnFieldChanged sets the hook called whenever a field changes.
func (p *Panel) OnFieldChanged(fn func(Field)) {
	p.onFieldChanged = fn
}

func (p *Panel) changed(f *Field) {
	if p.onFieldChanged != nil {
		p.onFieldChanged(f.clone())
	}
}

func (p *Panel) field(param string) *Field {
	for _, f := range p.fields {
		if strings.EqualFold(f.Param, param) {
			return f
		}
	}
	return nil
}

// Field returns a copy of the field bound to param.
func (p *Panel) Field(param string) (Field, bool) {
	f := p.field(param)
	if f == nil {
		return Field{}, false
	}
	return f.clone(), true
}

// Fields returns copies of every field in display order.
func (p *Panel) Fields() []Field {
	out := make([]Field, len(p.fields))
	for i, f := range p.fields {
		out[i] = f.clone()
	}
	return out
}

// Register binds the panel to store under prefix and writes every field to
// it once.
func (p *Panel) Register(store *parinfo.Store, prefix string) {
	p.store = store
	p.prefix = prefix
	p.Synchronize(store)
}

// Synchronize writes every field to store.
func (p *Panel) Synchronize(store *parinfo.Store) {
	if store == nil {
		return
	}
	for _, f := range p.fields {
		p.syncField(store, f)
	}
}

func (p *Panel) syncField(store *parinfo.Store, f *Field) {
	name := p.prefix + f.Param
	if v, ok := f.parameter(); ok {
		store.Set(name, v)
		return
	}
	store.Remove(name)
}

// Load fills the fields from store with listeners suppressed. Parameters
// that are not set leave their field unchanged.
func (p *Panel) Load(store *parinfo.Store) {
	if store == nil {
		return
	}
	p.ctx.Suppress(func() {
		for _, f := range p.fields {
			v, ok := store.Get(p.prefix + f.Param)
			if !ok {
				continue
			}
			if f.load(v) {
				p.changed(f)
			}
		}
	})
}

// SetValue records a widget edit. The bound parameter is updated only
// while listeners are enabled.
func (p *Panel) SetValue(param, value string) error {
	f := p.field(param)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, param)
	}
	f.Value = value
	p.afterEdit(f)
	return nil
}

// SetEnabled enables or disables a field. A disabled field's parameter is
// removed.
func (p *Panel) SetEnabled(param string, enabled bool) error {
	f := p.field(param)
	if f == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, param)
	}
	f.Enabled = enabled
	p.afterEdit(f)
	p.changed(f)
	return nil
}

func (p *Panel) afterEdit(f *Field) {
	if !p.ctx.ListenersEnabled() || p.store == nil {
		return
	}
	p.syncField(p.store, f)
	p.logger.Debug("parameter synchronized", "param", p.prefix+f.Param)
}

// SetVisible shows or hides the panel.
func (p *Panel) SetVisible(visible bool) { p.visible = visible }

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool { return p.visible }

// SetTablespaceFieldsVisible shows or hides the database tablespace fields.
func (p *Panel) SetTablespaceFieldsVisible(visible bool) {
	for _, param := range []string{parinfo.IndexTablespace, parinfo.TableTablespace} {
		if f := p.field(param); f != nil && f.Visible != visible {
			f.Visible = visible
			p.changed(f)
		}
	}
}

// ApplyConfiguration copies a named account into the panel's fields as if
// the user had typed it.
func (p *Panel) ApplyConfiguration(cfg accounts.Configuration) error {
	var values map[string]string
	switch p.kind {
	case KindDB:
		values = map[string]string{
			parinfo.Username: cfg.Username,
			parinfo.Password: cfg.Password,
			parinfo.Instance: cfg.Instance,
			parinfo.Driver:   cfg.Driver,
		}
	case KindFF:
		values = map[string]string{parinfo.FlatFilePath: cfg.FlatFilePath}
	default:
		return fmt.Errorf("%w: %v", ErrNoConfigurations, p.kind)
	}
	for _, f := range p.fields {
		v, ok := values[f.Param]
		if !ok {
			continue
		}
		f.Value = v
		p.afterEdit(f)
		p.changed(f)
	}
	p.logger.Info("applied account configuration", "name", cfg.Name)
	return nil
}

// Parameters returns a standalone store with the panel's DAOType and field
// values, without prefix, for connection tests.
func (p *Panel) Parameters() *parinfo.Store {
	s := parinfo.New()
	s.Set(parinfo.DAOType, p.kind.String())
	for _, f := range p.fields {
		if v, ok := f.parameter(); ok {
			s.Set(f.Param, v)
		}
	}
	return s
}
