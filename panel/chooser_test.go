package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemaeditor/relationship"
)

func threeSchemas() (db, ff, xml *Schema) {
	ctx := NewContext()
	return NewSchema(NewDB(ctx, nil), Input, nil),
		NewSchema(NewFF(ctx, true, nil), Input, nil),
		NewSchema(NewXML(ctx, false, nil), Input, nil)
}

func TestNewChooser_Validation(t *testing.T) {
	db, ff, xml := threeSchemas()

	_, err := NewChooser()
	assert.ErrorIs(t, err, ErrNoSchemas)

	extra := NewSchema(NewDB(nil, nil), Input, nil)
	_, err = NewChooser(db, ff, xml, extra)
	assert.ErrorIs(t, err, ErrTooManySchemas)

	_, err = NewChooser(db, extra)
	assert.ErrorIs(t, err, ErrDuplicateKind)

	bad := NewSchema(&Panel{kind: Kind(7), ctx: NewContext()}, Input, nil)
	_, err = NewChooser(db, bad)
	assert.ErrorIs(t, err, ErrInvalidKind)

	c, err := NewChooser(db, ff, xml)
	require.NoError(t, err)
	assert.Same(t, db, c.Selected())
	assert.Equal(t, []Kind{KindDB, KindFF, KindXML}, c.Kinds())
	assert.Len(t, c.Schemas(), 3)
}

func TestChooser_SelectCarriesState(t *testing.T) {
	db, ff, xml := threeSchemas()
	c, err := NewChooser(db, ff, xml)
	require.NoError(t, err)

	tables := []Table{{Name: "kb.origin", Type: "origin", Use: true}, {Name: "kb.assoc", Type: "assoc", Use: true}}
	rels := []relationship.Relationship{relationship.New("origin", "assoc", "orid=#orid#", relationship.AnyNumber)}
	db.SetAll(tables, rels, map[string][]string{"assoc": {"commid"}})

	var selected []Kind
	c.OnSelect(func(s *Schema) { selected = append(selected, s.Kind()) })

	require.NoError(t, c.Select(KindFF))
	assert.Same(t, ff, c.Selected())
	assert.Equal(t, tables, ff.Tables())
	assert.Equal(t, rels, ff.Relationships())
	assert.Equal(t, map[string][]string{"ASSOC": {"commid"}}, ff.FixedForeignKeys())

	assert.True(t, ff.Panel().Visible())
	assert.False(t, db.Panel().Visible())
	assert.False(t, xml.Panel().Visible())

	// edits on the new selection travel on
	ff.SetTables(tables[:1])
	require.NoError(t, c.Select(KindXML))
	assert.Equal(t, tables[:1], xml.Tables())
	assert.Empty(t, xml.Relationships())

	assert.Equal(t, []Kind{KindFF, KindXML}, selected)
}

func TestChooser_SelectUnknown(t *testing.T) {
	db, ff, _ := threeSchemas()
	c, err := NewChooser(db, ff)
	require.NoError(t, err)

	assert.ErrorIs(t, c.Select(KindXML), ErrInvalidKind)
	assert.Same(t, db, c.Selected())
}

func TestChooser_SetTableDefVisible(t *testing.T) {
	db, ff, xml := threeSchemas()
	c, err := NewChooser(db, ff, xml)
	require.NoError(t, err)

	c.SetTableDefVisible(true)
	for _, s := range c.Schemas() {
		assert.True(t, s.TableDefVisible())
	}
}
