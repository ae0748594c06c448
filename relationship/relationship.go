// Package relationship describes the parent/child links between table types
// in a schema and the source × target matrix the editor shows for them.
package relationship

import (
	"errors"
	"fmt"
	"strings"
)

// Constraint is the number of target rows a source row may have.
type Constraint string

const (
	ExactlyOne Constraint = "1"
	ZeroOrOne  Constraint = "0/1"
	AtLeastOne Constraint = "N"
	AnyNumber  Constraint = "0/N"
)

// Constraints lists the constraints in the order the editor offers them.
var Constraints = []Constraint{AnyNumber, ZeroOrOne, ExactlyOne, AtLeastOne}

// Valid reports whether c is one of the known constraints.
func (c Constraint) Valid() bool {
	switch c {
	case ExactlyOne, ZeroOrOne, AtLeastOne, AnyNumber:
		return true
	}
	return false
}

// Description is the label shown next to c in the editor.
func (c Constraint) Description() string {
	switch c {
	case AnyNumber:
		return "0/N: Any Number of Rows"
	case ZeroOrOne:
		return "0/1: 0 or 1 Row"
	case ExactlyOne:
		return "1: Exactly One Row"
	case AtLeastOne:
		return "N: At Least One Row"
	default:
		return string(c)
	}
}

// ParseConstraint maps a constraint or its description back to a Constraint.
func ParseConstraint(s string) (Constraint, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ':'); i > 0 {
		s = s[:i]
	}
	c := Constraint(strings.ToUpper(s))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidConstraint, s)
	}
	return c, nil
}

var (
	// ErrMalformed is returned for a relationship line with too few fields.
	ErrMalformed = errors.New("malformed relationship")

	// ErrInvalidConstraint is returned for an unknown constraint.
	ErrInvalidConstraint = errors.New("invalid relationship constraint")
)

// Relationship links a source table type to a target table type.
type Relationship struct {
	ID         string
	Source     string
	Target     string
	Where      string
	Constraint Constraint
}

// New returns a relationship with the default "source->target" ID. Every
// field is trimmed.
func New(source, target, where string, c Constraint) Relationship {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	return Relationship{
		ID:         source + "->" + target,
		Source:     source,
		Target:     target,
		Where:      strings.TrimSpace(where),
		Constraint: Constraint(strings.TrimSpace(string(c))),
	}
}

// String formats r as "id source target where constraint".
func (r Relationship) String() string {
	return r.ID + " " + r.withoutID()
}

func (r Relationship) withoutID() string {
	return r.Source + " " + r.Target + " " + r.Where + " " + string(r.Constraint)
}

// Equal reports whether r and o describe the same link. IDs are ignored.
func (r Relationship) Equal(o Relationship) bool {
	return r.Source == o.Source &&
		r.Target == o.Target &&
		strings.TrimSpace(r.Where) == strings.TrimSpace(o.Where) &&
		r.Constraint == o.Constraint
}

// Compare orders relationships by their text without the ID.
func Compare(a, b Relationship) int {
	return strings.Compare(a.withoutID(), b.withoutID())
}

// SameRule reports whether r and o have the same where clause (ignoring
// case and spaces around "=") and the same constraint.
func SameRule(r, o Relationship) bool {
	return strings.EqualFold(normalizeWhere(r.Where), normalizeWhere(o.Where)) &&
		r.Constraint == o.Constraint
}

func normalizeWhere(where string) string {
	return strings.ReplaceAll(strings.Join(strings.Fields(where), " "), " = ", "=")
}

// Parse reads one "id source target where... constraint" line. The where
// clause is every word between the target and the constraint.
func Parse(line string) (Relationship, error) {
	words := strings.Fields(line)
	if len(words) < 4 {
		return Relationship{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	c, err := ParseConstraint(words[len(words)-1])
	if err != nil {
		return Relationship{}, err
	}
	return Relationship{
		ID:         words[0],
		Source:     words[1],
		Target:     words[2],
		Where:      strings.Join(words[3:len(words)-1], " "),
		Constraint: c,
	}, nil
}

// ParseAll reads one relationship per non-blank line. Every malformed line
// is reported in the returned error; the well-formed ones are still returned.
func ParseAll(text string) ([]Relationship, error) {
	var (
		rels []Relationship
		errs []error
	)
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := Parse(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", i+1, err))
			continue
		}
		rels = append(rels, r)
	}
	return rels, errors.Join(errs...)
}

// FormatAll formats rels one per line.
func FormatAll(rels []Relationship) string {
	var b strings.Builder
	for _, r := range rels {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}
