package relationship

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
)

//go:embed defaults.txt
var defaultsText string

// Defaults is a set of well-known relationships, at most one per source and
// target pair. Table types are matched ignoring case.
type Defaults struct {
	rels map[string]map[string]Relationship
}

// ParseDefaults reads "source target where... constraint" lines. Blank lines
// and // comments are skipped.
func ParseDefaults(text string) (*Defaults, error) {
	d := &Defaults{rels: make(map[string]map[string]Relationship)}
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 3 {
			return nil, fmt.Errorf("line %d: %w: %q", i+1, ErrMalformed, line)
		}
		c, err := ParseConstraint(words[len(words)-1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		r := New(words[0], words[1], strings.Join(words[2:len(words)-1], " "), c)
		d.add(r)
	}
	return d, nil
}

// StandardDefaults returns the built-in default relationships.
func StandardDefaults() *Defaults {
	d, err := ParseDefaults(defaultsText)
	if err != nil {
		panic(fmt.Sprintf("relationship: built-in defaults: %v", err))
	}
	return d
}

func (d *Defaults) add(r Relationship) {
	src := strings.ToLower(r.Source)
	if d.rels[src] == nil {
		d.rels[src] = make(map[string]Relationship)
	}
	d.rels[src][strings.ToLower(r.Target)] = r
}

// Get returns the default relationship from source to target.
func (d *Defaults) Get(source, target string) (Relationship, bool) {
	if d == nil {
		return Relationship{}, false
	}
	r, ok := d.rels[strings.ToLower(strings.TrimSpace(source))][strings.ToLower(strings.TrimSpace(target))]
	return r, ok
}

// IsDefault reports whether r has the same rule as the default relationship
// between its tables.
func (d *Defaults) IsDefault(r Relationship) bool {
	def, ok := d.Get(r.Source, r.Target)
	return ok && SameRule(def, r)
}

// For returns the default relationships among tables, sorted.
func (d *Defaults) For(tables []string) []Relationship {
	var out []Relationship
	for _, src := range tables {
		for _, dst := range tables {
			if src == dst {
				continue
			}
			if r, ok := d.Get(src, dst); ok {
				out = append(out, New(src, dst, r.Where, r.Constraint))
			}
		}
	}
	slices.SortFunc(out, Compare)
	return out
}

// All returns every default relationship, sorted.
func (d *Defaults) All() []Relationship {
	var out []Relationship
	for _, targets := range d.rels {
		for _, r := range targets {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, Compare)
	return out
}
