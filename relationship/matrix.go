package relationship

import (
	"image/color"
	"log/slog"
	"slices"
)

// State is what one source × target cell of the matrix shows.
type State int

const (
	None State = iota
	Defined
	Default
)

func (s State) String() string {
	switch s {
	case Defined:
		return "Defined"
	case Default:
		return "Default"
	default:
		return "None"
	}
}

// Color is the legend color of s.
func (s State) Color() color.Color {
	switch s {
	case Defined:
		return color.NRGBA{R: 155, G: 155, B: 225, A: 255}
	case Default:
		return color.NRGBA{R: 155, G: 200, B: 155, A: 255}
	default:
		return color.NRGBA{R: 192, G: 192, B: 192, A: 255}
	}
}

// Matrix is the source × target grid over the table types of a schema.
type Matrix struct {
	tables   []string
	cells    map[string]map[string]State
	defaults *Defaults
	logger   *slog.Logger
}

// NewMatrix builds an empty matrix over the distinct, sorted table types.
// defaults may be nil, in which case no cell is ever Default.
func NewMatrix(tables []string, defaults *Defaults, logger *slog.Logger) *Matrix {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sorted := slices.Clone(tables)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	m := &Matrix{
		tables:   sorted,
		cells:    make(map[string]map[string]State, len(sorted)),
		defaults: defaults,
		logger:   logger,
	}
	m.reset()
	return m
}

func (m *Matrix) reset() {
	for _, src := range m.tables {
		row := make(map[string]State, len(m.tables))
		for _, dst := range m.tables {
			row[dst] = None
		}
		m.cells[src] = row
	}
}

// Tables returns the table types along both axes.
func (m *Matrix) Tables() []string {
	return slices.Clone(m.tables)
}

// State returns the state of the source → target cell. Unknown tables are None.
func (m *Matrix) State(source, target string) State {
	return m.cells[source][target]
}

func (m *Matrix) has(source, target string) bool {
	_, ok := m.cells[source][target]
	return ok
}

func (m *Matrix) stateOf(r Relationship) State {
	if m.defaults.IsDefault(r) {
		return Default
	}
	return Defined
}

// Apply resets every cell and marks the cells of rels. Relationships naming
// a table outside the matrix are skipped.
func (m *Matrix) Apply(rels []Relationship) {
	m.reset()
	for _, r := range rels {
		if _, ok := m.cells[r.Source]; !ok {
			m.logger.Warn("relationship source table is not in the schema, ignoring",
				"source", r.Source, "relationship", r.String())
			continue
		}
		if !m.has(r.Source, r.Target) {
			m.logger.Warn("relationship target table is not in the schema, ignoring",
				"target", r.Target, "relationship", r.String())
			continue
		}
		m.cells[r.Source][r.Target] = m.stateOf(r)
	}
}

// Change moves a relationship being edited from old to updated: the old
// cell is cleared and the new one marked, unless updated links a table to
// itself or has no where clause.
func (m *Matrix) Change(old, updated Relationship) {
	if m.has(old.Source, old.Target) {
		m.cells[old.Source][old.Target] = None
	}
	if updated.Source == updated.Target || updated.Where == "" {
		return
	}
	if m.has(updated.Source, updated.Target) {
		m.cells[updated.Source][updated.Target] = m.stateOf(updated)
	}
}

// Remove clears the cell of r.
func (m *Matrix) Remove(r Relationship) {
	if m.has(r.Source, r.Target) {
		m.cells[r.Source][r.Target] = None
	}
}

// Prune drops the relationships that name a table outside tables.
func Prune(rels []Relationship, tables []string) []Relationship {
	out := make([]Relationship, 0, len(rels))
	for _, r := range rels {
		if slices.Contains(tables, r.Source) && slices.Contains(tables, r.Target) {
			out = append(out, r)
		}
	}
	return out
}
