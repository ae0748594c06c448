package panel

import (
	"slices"
	"strconv"
	"strings"
)

// Widget is the kind of input a field is drawn with.
type Widget int

const (
	Text Widget = iota
	PasswordText
	Check
	Choice
)

// Field is one input of a panel, bound to a parameter.
type Field struct {
	Param   string
	Label   string
	Tooltip string
	Widget  Widget
	// Options are the choices of a Choice field. An Editable choice also
	// accepts values outside Options.
	Options  []string
	Editable bool

	Value   string
	Enabled bool
	Visible bool
}

// Checked reports the state of a Check field.
func (f Field) Checked() bool {
	b, _ := strconv.ParseBool(f.Value)
	return b
}

// parameter returns the value the field stores, or false when the parameter
// is to be removed: a disabled field, or a text or choice that is blank.
func (f *Field) parameter() (string, bool) {
	if !f.Enabled {
		return "", false
	}
	if f.Widget == Check {
		return strconv.FormatBool(f.Checked()), true
	}
	v := strings.TrimSpace(f.Value)
	return v, v != ""
}

// load sets the field from a parameter value and reports whether it changed.
// A fixed choice ignores values it does not offer.
func (f *Field) load(v string) bool {
	switch f.Widget {
	case Check:
		b, _ := strconv.ParseBool(v)
		v = strconv.FormatBool(b)
	case Choice:
		if !f.Editable && !slices.Contains(f.Options, v) {
			return false
		}
	}
	if f.Value == v {
		return false
	}
	f.Value = v
	return true
}

func (f *Field) clone() Field {
	c := *f
	c.Options = slices.Clone(f.Options)
	return c
}
