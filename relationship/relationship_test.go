package relationship

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultID(t *testing.T) {
	r := New(" origin ", "assoc", "  orid=#orid# ", AnyNumber)
	assert.Equal(t, "origin->assoc", r.ID)
	assert.Equal(t, "orid=#orid#", r.Where)
	assert.Equal(t, "origin->assoc origin assoc orid=#orid# 0/N", r.String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Relationship
	}{
		{
			name: "simple",
			line: "rel1 origin assoc orid=#orid# N",
			want: Relationship{ID: "rel1", Source: "origin", Target: "assoc", Where: "orid=#orid#", Constraint: AtLeastOne},
		},
		{
			name: "multi-word where",
			line: "  r2  arrival site  sta=#sta#   and ondate<=#jdate#  1 ",
			want: Relationship{ID: "r2", Source: "arrival", Target: "site", Where: "sta=#sta# and ondate<=#jdate#", Constraint: ExactlyOne},
		},
		{
			name: "lower case constraint",
			line: "r3 a b x=y 0/n",
			want: Relationship{ID: "r3", Source: "a", Target: "b", Where: "x=y", Constraint: AnyNumber},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("r1 origin assoc")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse("r1 origin assoc orid=#orid# many")
	assert.ErrorIs(t, err, ErrInvalidConstraint)
}

func TestParseAll_FormatAll(t *testing.T) {
	text := "r1 origin assoc orid=#orid# N\n\nbad line\nr2 assoc arrival arid=#arid# 1\n"

	rels, err := ParseAll(text)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	require.Len(t, rels, 2)

	assert.Equal(t,
		"r1 origin assoc orid=#orid# N\nr2 assoc arrival arid=#arid# 1\n",
		FormatAll(rels))

	back, err := ParseAll(FormatAll(rels))
	require.NoError(t, err)
	assert.Equal(t, rels, back)
}

func TestEqualAndCompare(t *testing.T) {
	a := Relationship{ID: "x", Source: "origin", Target: "assoc", Where: "orid=#orid#", Constraint: AnyNumber}
	b := a
	b.ID = "y"
	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, Compare(a, b))

	b.Constraint = ExactlyOne
	assert.False(t, a.Equal(b))
	assert.NotEqual(t, 0, Compare(a, b))
}

func TestSameRule(t *testing.T) {
	a := New("origin", "assoc", "ORID = #orid#", AnyNumber)
	b := New("origin", "assoc", "orid=#orid#", AnyNumber)
	assert.True(t, SameRule(a, b))

	b.Constraint = AtLeastOne
	assert.False(t, SameRule(a, b))
}

func TestConstraint(t *testing.T) {
	for _, c := range Constraints {
		assert.True(t, c.Valid())
		got, err := ParseConstraint(c.Description())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	assert.False(t, Constraint("2").Valid())
}

func TestStandardDefaults(t *testing.T) {
	d := StandardDefaults()

	r, ok := d.Get("ORIGIN", "assoc")
	require.True(t, ok)
	assert.Equal(t, AnyNumber, r.Constraint)
	assert.Equal(t, "orid=#orid#", r.Where)

	_, ok = d.Get("assoc", "origin")
	assert.False(t, ok)

	rels := d.For([]string{"origin", "assoc", "arrival"})
	require.Len(t, rels, 2)
	assert.Equal(t, "assoc->arrival", rels[0].ID)
	assert.Equal(t, "origin->assoc", rels[1].ID)

	assert.NotEmpty(t, d.All())
}

func TestParseDefaults_Errors(t *testing.T) {
	_, err := ParseDefaults("origin assoc")
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = ParseDefaults("origin assoc orid=#orid# lots")
	assert.ErrorIs(t, err, ErrInvalidConstraint)
}

func TestMatrix_Apply(t *testing.T) {
	m := NewMatrix([]string{"origin", "assoc", "arrival", "assoc"}, StandardDefaults(), nil)
	assert.Equal(t, []string{"arrival", "assoc", "origin"}, m.Tables())

	m.Apply([]Relationship{
		New("origin", "assoc", "orid = #orid#", AnyNumber),
		New("assoc", "arrival", "arid=#arid#", AnyNumber),
		New("origin", "wfdisc", "x=y", ExactlyOne),
		New("stamag", "origin", "x=y", ExactlyOne),
	})

	assert.Equal(t, Default, m.State("origin", "assoc"))
	assert.Equal(t, Defined, m.State("assoc", "arrival"))
	assert.Equal(t, None, m.State("arrival", "origin"))
	assert.Equal(t, None, m.State("origin", "wfdisc"))

	m.Apply(nil)
	assert.Equal(t, None, m.State("origin", "assoc"))
}

func TestMatrix_Change(t *testing.T) {
	m := NewMatrix([]string{"origin", "assoc", "arrival"}, nil, nil)
	old := New("origin", "assoc", "orid=#orid#", AnyNumber)
	m.Apply([]Relationship{old})
	require.Equal(t, Defined, m.State("origin", "assoc"))

	updated := New("origin", "arrival", "orid=#orid#", AnyNumber)
	m.Change(old, updated)
	assert.Equal(t, None, m.State("origin", "assoc"))
	assert.Equal(t, Defined, m.State("origin", "arrival"))

	self := New("origin", "origin", "a=b", AnyNumber)
	m.Change(updated, self)
	assert.Equal(t, None, m.State("origin", "arrival"))
	assert.Equal(t, None, m.State("origin", "origin"))

	m.Apply([]Relationship{old})
	m.Remove(old)
	assert.Equal(t, None, m.State("origin", "assoc"))
}

func TestState_Color(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 192, G: 192, B: 192, A: 255}, None.Color())
	assert.Equal(t, color.NRGBA{R: 155, G: 155, B: 225, A: 255}, Defined.Color())
	assert.Equal(t, color.NRGBA{R: 155, G: 200, B: 155, A: 255}, Default.Color())
	assert.Equal(t, "Default", Default.String())
}

func TestPrune(t *testing.T) {
	rels := []Relationship{
		New("origin", "assoc", "a=b", AnyNumber),
		New("origin", "wfdisc", "a=b", AnyNumber),
	}
	got := Prune(rels, []string{"origin", "assoc"})
	require.Len(t, got, 1)
	assert.Equal(t, "assoc", got[0].Target)
}
