// Package panel holds the connection panels of the schema editor and the
// rules that keep their fields and the parameter store in step.
//
// A Panel is one data-access mechanism (database, flat files or XML). A
// Schema adds the tables, relationships and fixed foreign keys configured
// for that mechanism, and a Chooser switches between up to three schemas.
// Nothing here draws widgets; the windows package renders panels and feeds
// edits back through SetValue.
package panel

import (
	"errors"
	"fmt"
	"strings"

	"schemaeditor/parinfo"
)

var (
	ErrInvalidKind      = errors.New("invalid DAO type")
	ErrUnknownField     = errors.New("unknown panel field")
	ErrNoSchemas        = errors.New("no schemas to choose from")
	ErrTooManySchemas   = errors.New("too many schemas")
	ErrDuplicateKind    = errors.New("duplicate DAO type")
	ErrNoConfigurations = errors.New("DAO type has no account configurations")
)

// Kind is the data-access mechanism of a panel.
type Kind int

const (
	KindDB Kind = iota + 1
	KindFF
	KindXML
)

// String returns the DAOType parameter value of k.
func (k Kind) String() string {
	switch k {
	case KindDB:
		return parinfo.DAOTypeDB
	case KindFF:
		return parinfo.DAOTypeFF
	case KindXML:
		return parinfo.DAOTypeXML
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= KindDB && k <= KindXML
}

// Description is the tooltip of the chooser button for k.
func (k Kind) Description() string {
	switch k {
	case KindDB:
		return "Select database configuration"
	case KindFF:
		return "Select flat file configuration"
	case KindXML:
		return "Select XML configuration"
	default:
		return ""
	}
}

// ParseKind maps a DAOType value to a Kind, ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case parinfo.DAOTypeDB:
		return KindDB, nil
	case parinfo.DAOTypeFF:
		return KindFF, nil
	case parinfo.DAOTypeXML:
		return KindXML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}
