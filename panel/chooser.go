package panel

import "fmt"

// maxSchemas is the most schemas a chooser switches between, one per kind.
const maxSchemas = 3

// Chooser switches between schemas of different kinds. Exactly one schema
// is selected; the others are hidden.
type Chooser struct {
	schemas  []*Schema
	selected *Schema
	onSelect func(*Schema)
}

// NewChooser returns a chooser over schemas, selecting the first. Every
// schema must have a distinct valid kind.
func NewChooser(schemas ...*Schema) (*Chooser, error) {
	switch {
	case len(schemas) == 0:
		return nil, ErrNoSchemas
	case len(schemas) > maxSchemas:
		return nil, fmt.Errorf("%w: %d schemas, at most %d allowed", ErrTooManySchemas, len(schemas), maxSchemas)
	}

	seen := make(map[Kind]bool, len(schemas))
	for _, s := range schemas {
		k := s.Kind()
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKind, k)
		}
		if seen[k] {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateKind, k)
		}
		seen[k] = true
	}
	return &Chooser{schemas: schemas, selected: schemas[0]}, nil
}

// OnSelect sets the hook called after a selection.
func (c *Chooser) OnSelect(fn func(*Schema)) { c.onSelect = fn }

// Selected returns the selected schema.
func (c *Chooser) Selected() *Schema { return c.selected }

// Schemas returns the schemas in the order they were given.
func (c *Chooser) Schemas() []*Schema {
	out := make([]*Schema, len(c.schemas))
	copy(out, c.schemas)
	return out
}

// Kinds returns the kinds offered, in order.
func (c *Chooser) Kinds() []Kind {
	kinds := make([]Kind, len(c.schemas))
	for i, s := range c.schemas {
		kinds[i] = s.Kind()
	}
	return kinds
}

// Schema returns the schema of kind k.
func (c *Chooser) Schema(k Kind) (*Schema, bool) {
	for _, s := range c.schemas {
		if s.Kind() == k {
			return s, true
		}
	}
	return nil, false
}

// Select makes the schema of kind k current. It takes over the tables,
// relationships and fixed foreign keys of the previously selected schema
// and is shown; every other schema is hidden.
func (c *Chooser) Select(k Kind) error {
	next, ok := c.Schema(k)
	if !ok {
		return fmt.Errorf("%w: %v is not offered", ErrInvalidKind, k)
	}

	if prev := c.selected; prev != nil && prev != next {
		next.SetAll(prev.Tables(), prev.Relationships(), prev.FixedForeignKeys())
	}
	for _, s := range c.schemas {
		s.Panel().SetVisible(s == next)
	}
	c.selected = next
	if c.onSelect != nil {
		c.onSelect(next)
	}
	return nil
}

// SetTableDefVisible shows or hides the table definition area of every
// schema together.
func (c *Chooser) SetTableDefVisible(visible bool) {
	for _, s := range c.schemas {
		s.SetTableDefVisible(visible)
	}
}
