package panel

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"schemaeditor/accounts"
	"schemaeditor/parinfo"
	"schemaeditor/relationship"
)

// Direction is what a schema is used for.
type Direction int

const (
	Input Direction = iota
	Output
	Target
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	case Target:
		return "target"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// nullTableName stands in for a table with no name in the Tables parameter.
const nullTableName = "null"

// Table is one table of a schema.
type Table struct {
	Name string
	Type string
	Use  bool
}

// Schema is a connection panel plus the tables, relationships and fixed
// foreign keys configured with it.
type Schema struct {
	panel     *Panel
	direction Direction
	logger    *slog.Logger

	tables               []Table
	relationships        []relationship.Relationship
	fixedForeignKeys     map[string][]string
	tableDefinitionTable string
	tableDefVisible      bool

	initOnce sync.Once
}

// NewSchema wraps p. The schema starts hidden until InitializeAsync
// completes or a chooser selects it.
func NewSchema(p *Panel, dir Direction, logger *slog.Logger) *Schema {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Schema{
		panel:            p,
		direction:        dir,
		logger:           logger.With("dao", p.Kind().String(), "direction", dir.String()),
		fixedForeignKeys: make(map[string][]string),
	}
}

func (s *Schema) Panel() *Panel         { return s.panel }
func (s *Schema) Kind() Kind            { return s.panel.Kind() }
func (s *Schema) Direction() Direction  { return s.direction }
func (s *Schema) TableDefVisible() bool { return s.tableDefVisible }

// SetTableDefVisible shows or hides the table definition area.
func (s *Schema) SetTableDefVisible(visible bool) { s.tableDefVisible = visible }

// TableDefinitionTable returns the table holding the column definitions.
func (s *Schema) TableDefinitionTable() string { return s.tableDefinitionTable }

// SetTableDefinitionTable sets the table holding the column definitions.
func (s *Schema) SetTableDefinitionTable(name string) {
	s.tableDefinitionTable = strings.TrimSpace(name)
}

// Tables returns a copy of the schema's tables.
func (s *Schema) Tables() []Table { return slices.Clone(s.tables) }

// SetTables replaces the tables and drops relationships and fixed foreign
// keys that name a table type no longer present.
func (s *Schema) SetTables(tables []Table) {
	s.tables = slices.Clone(tables)
	types := s.TableTypes()
	s.relationships = relationship.Prune(s.relationships, types)
	for table := range s.fixedForeignKeys {
		if !slices.ContainsFunc(s.tables, func(t Table) bool {
			return strings.EqualFold(t.Name, table) || strings.EqualFold(t.Type, table)
		}) {
			delete(s.fixedForeignKeys, table)
		}
	}
}

// TableTypes returns the distinct table types, sorted.
func (s *Schema) TableTypes() []string {
	types := make([]string, 0, len(s.tables))
	for _, t := range s.tables {
		types = append(types, t.Type)
	}
	slices.Sort(types)
	return slices.Compact(types)
}

// Relationships returns a copy of the schema's relationships.
func (s *Schema) Relationships() []relationship.Relationship {
	return slices.Clone(s.relationships)
}

// SetRelationships replaces the relationships.
func (s *Schema) SetRelationships(rels []relationship.Relationship) {
	s.relationships = slices.Clone(rels)
}

// fixedKey is the key fixed foreign keys are stored under: the table
// upper-cased, as par files have always written it.
func fixedKey(table string) string {
	return strings.ToUpper(strings.TrimSpace(table))
}

// FixedForeignKeys returns the foreign key columns to fix, by upper-cased
// table.
func (s *Schema) FixedForeignKeys() map[string][]string {
	out := make(map[string][]string, len(s.fixedForeignKeys))
	for table, cols := range s.fixedForeignKeys {
		out[table] = slices.Clone(cols)
	}
	return out
}

// FixedForeignKeysFor returns the columns to fix for table, ignoring case.
func (s *Schema) FixedForeignKeysFor(table string) []string {
	return slices.Clone(s.fixedForeignKeys[fixedKey(table)])
}

// SetFixedForeignKeys sets the columns to fix for table. No columns removes
// the table.
func (s *Schema) SetFixedForeignKeys(table string, columns []string) {
	table = fixedKey(table)
	if len(columns) == 0 {
		delete(s.fixedForeignKeys, table)
		return
	}
	s.fixedForeignKeys[table] = slices.Clone(columns)
}

// SetAll replaces tables, relationships and fixed foreign keys at once, as
// when the chooser carries them over from another schema.
func (s *Schema) SetAll(tables []Table, rels []relationship.Relationship, fixed map[string][]string) {
	s.tables = slices.Clone(tables)
	s.relationships = slices.Clone(rels)
	s.fixedForeignKeys = make(map[string][]string, len(fixed))
	for table, cols := range fixed {
		s.fixedForeignKeys[fixedKey(table)] = slices.Clone(cols)
	}
}

// Register binds the schema's panel to store under prefix.
func (s *Schema) Register(store *parinfo.Store, prefix string) {
	s.panel.Register(store, prefix)
}

// WriteTo writes the schema to store: DAOType, the panel fields, Tables,
// UseTableTypes, Relationships, TableDefinitionTable and, for an input
// schema, FixForeignKeys. Parameters with nothing to say are removed.
func (s *Schema) WriteTo(store *parinfo.Store) {
	prefix := s.panel.Prefix()
	name := func(param string) string { return prefix + param }

	store.Set(name(parinfo.DAOType), s.Kind().String())
	s.panel.Synchronize(store)

	var tables strings.Builder
	var use []string
	for _, t := range s.tables {
		if t.Use {
			use = append(use, t.Type)
		}
		tableName := strings.TrimSpace(t.Name)
		switch {
		case tableName == "":
			tableName = nullTableName
		case strings.Contains(tableName, " "):
			tableName = `"` + tableName + `"`
		}
		tables.WriteString(tableName + " " + t.Type + "\n")
	}
	setOrRemove(store, name(parinfo.Tables), tables.String())
	setOrRemove(store, name(parinfo.UseTableTypes), strings.Join(use, ","))
	setOrRemove(store, name(parinfo.Relationships), relationship.FormatAll(s.relationships))
	setOrRemove(store, name(parinfo.TableDefinitionTable), s.tableDefinitionTable)

	store.Remove(name(parinfo.FixForeignKeys))
	if s.direction == Input {
		var fks strings.Builder
		for _, table := range slices.Sorted(maps.Keys(s.fixedForeignKeys)) {
			fks.WriteString(table + " " + strings.Join(s.fixedForeignKeys[table], ",") + "\n")
		}
		setOrRemove(store, name(parinfo.FixForeignKeys), fks.String())
	}
}

func setOrRemove(store *parinfo.Store, name, value string) {
	if strings.TrimSpace(value) == "" {
		store.Remove(name)
		return
	}
	store.Set(name, value)
}

// ReadFrom fills the schema from store. Lines that cannot be parsed are
// skipped and reported together in the returned error.
func (s *Schema) ReadFrom(store *parinfo.Store) error {
	prefix := s.panel.Prefix()
	get := func(param string) (string, bool) { return store.Get(prefix + param) }

	s.panel.Load(store)

	var errs []error
	s.tables = nil
	if text, ok := get(parinfo.Tables); ok {
		s.tables = parseTables(text)
	}
	if text, ok := get(parinfo.UseTableTypes); ok {
		use := make(map[string]bool)
		for _, typ := range strings.Split(text, ",") {
			use[strings.TrimSpace(typ)] = true
		}
		for i := range s.tables {
			s.tables[i].Use = use[s.tables[i].Type]
		}
	}

	s.relationships = nil
	if text, ok := get(parinfo.Relationships); ok {
		rels, err := relationship.ParseAll(text)
		if err != nil {
			s.logger.Warn("skipping malformed relationships", "error", err)
			errs = append(errs, err)
		}
		s.relationships = rels
	}

	clear(s.fixedForeignKeys)
	if text, ok := get(parinfo.FixForeignKeys); ok && s.direction == Input {
		for _, line := range strings.Split(text, "\n") {
			words := strings.Fields(joinCommaLists(line))
			if len(words) == 0 {
				continue
			}
			if len(words) != 2 {
				errs = append(errs, fmt.Errorf("malformed fixed foreign keys %q", line))
				continue
			}
			cols := strings.Split(words[1], ",")
			for i := range cols {
				cols[i] = strings.TrimSpace(cols[i])
			}
			s.fixedForeignKeys[fixedKey(words[0])] = slices.DeleteFunc(cols, func(c string) bool { return c == "" })
		}
	}

	if v, ok := get(parinfo.TableDefinitionTable); ok {
		s.tableDefinitionTable = v
	}
	return errors.Join(errs...)
}

// joinCommaLists removes the blanks around commas, so "orid, evid" reads
// as the single word "orid,evid".
func joinCommaLists(line string) string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}

// parseTables reads "name type" lines. A line with only a type is a table
// with no name; so is the name "null" in any case. Older files wrote
// "type bool bool bool" lines, which also carry only a type. Every table
// starts in use.
func parseTables(text string) []Table {
	var tables []Table
	for _, line := range strings.Split(text, "\n") {
		words := parinfo.Fields(line)
		switch len(words) {
		case 0:
			continue
		case 1, 4:
			tables = append(tables, Table{Type: words[0], Use: true})
		default:
			name := words[0]
			if strings.EqualFold(name, nullTableName) {
				name = ""
			}
			tables = append(tables, Table{Name: name, Type: words[1], Use: true})
		}
	}
	return tables
}

// InitializeAsync loads the account files on a background goroutine, once
// per schema. When the load finishes, post runs a function on the UI
// goroutine that makes the panel visible and hands done the configuration
// names offered for this schema's kind.
func (s *Schema) InitializeAsync(cache *accounts.Cache, files []string, post func(func()), done func(names []string)) {
	s.initOnce.Do(func() {
		go func() {
			var names []string
			if cache != nil {
				cache.Load(files...)
				if typ, err := accounts.TypeFor(s.Kind().String()); err == nil {
					names = cache.Names(typ)
				}
			}
			post(func() {
				s.panel.SetVisible(true)
				s.logger.Debug("schema initialized", "configurations", len(names))
				if done != nil {
					done(names)
				}
			})
		}()
	})
}

// ApplyConfiguration fills the panel from a named account and takes its
// table definition table.
func (s *Schema) ApplyConfiguration(cfg accounts.Configuration) error {
	if err := s.panel.ApplyConfiguration(cfg); err != nil {
		return err
	}
	if cfg.TableDefinitionTable != "" {
		s.SetTableDefinitionTable(cfg.TableDefinitionTable)
	}
	return nil
}
