package panel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemaeditor/accounts"
	"schemaeditor/parinfo"
	"schemaeditor/relationship"
)

func inputSchema(t *testing.T, store *parinfo.Store) *Schema {
	t.Helper()
	s := NewSchema(NewDB(NewContext(), nil), Input, nil)
	s.Register(store, "In_")
	return s
}

func TestSchema_WriteTo(t *testing.T) {
	store := parinfo.New()
	s := inputSchema(t, store)
	require.NoError(t, s.Panel().SetValue(parinfo.Username, "scott"))

	s.SetTables([]Table{
		{Name: "kb.origin", Type: "origin", Use: true},
		{Name: "", Type: "assoc", Use: false},
		{Name: "my arrivals", Type: "arrival", Use: true},
	})
	s.SetRelationships([]relationship.Relationship{
		relationship.New("origin", "assoc", "orid=#orid#", relationship.AnyNumber),
	})
	s.SetFixedForeignKeys("arrival", []string{"chanid", "commid"})
	s.SetFixedForeignKeys("assoc", []string{"commid"})
	s.SetTableDefinitionTable("table_defs")

	s.WriteTo(store)

	assert.Equal(t, "DB", store.GetOr("In_DAOType", ""))
	assert.Equal(t, "scott", store.GetOr("In_Username", ""))
	assert.Equal(t, "kb.origin origin\nnull assoc\n\"my arrivals\" arrival", store.GetOr("In_Tables", ""))
	assert.Equal(t, "origin,arrival", store.GetOr("In_UseTableTypes", ""))
	assert.Equal(t, "origin->assoc origin assoc orid=#orid# 0/N", store.GetOr("In_Relationships", ""))
	assert.Equal(t, "ARRIVAL chanid,commid\nASSOC commid", store.GetOr("In_FixForeignKeys", ""))
	assert.Equal(t, "table_defs", store.GetOr("In_TableDefinitionTable", ""))
}

func TestSchema_WriteToRemovesEmpty(t *testing.T) {
	store := parinfo.New()
	store.Set("Out_Tables", "old old")
	store.Set("Out_Relationships", "r a b x=y 1")
	store.Set("Out_FixForeignKeys", "arrival chanid")

	s := NewSchema(NewFF(nil, true, nil), Output, nil)
	s.Register(store, "Out_")
	s.SetFixedForeignKeys("arrival", []string{"chanid"})
	s.WriteTo(store)

	assert.Equal(t, "FF", store.GetOr("Out_DAOType", ""))
	assert.False(t, store.Has("Out_Tables"))
	assert.False(t, store.Has("Out_UseTableTypes"))
	assert.False(t, store.Has("Out_Relationships"))
	assert.False(t, store.Has("Out_FixForeignKeys"), "only input schemas fix foreign keys")
}

func TestSchema_ReadFrom(t *testing.T) {
	store := parinfo.New()
	store.Set("In_Username", "scott")
	store.Set("In_Tables", "kb.origin origin\nnull assoc\n\"my arrivals\" arrival\nsite")
	store.Set("In_UseTableTypes", "origin, site")
	store.Set("In_Relationships", "r1 origin assoc orid=#orid# N\nbroken")
	store.Set("In_FixForeignKeys", "arrival chanid,commid")

	s := inputSchema(t, parinfo.New())
	err := s.ReadFrom(store)
	require.Error(t, err)
	assert.ErrorIs(t, err, relationship.ErrMalformed)

	assert.Equal(t, []Table{
		{Name: "kb.origin", Type: "origin", Use: true},
		{Name: "", Type: "assoc", Use: false},
		{Name: "my arrivals", Type: "arrival", Use: false},
		{Name: "", Type: "site", Use: true},
	}, s.Tables())
	require.Len(t, s.Relationships(), 1)
	assert.Equal(t, "r1", s.Relationships()[0].ID)
	assert.Equal(t, map[string][]string{"ARRIVAL": {"chanid", "commid"}}, s.FixedForeignKeys())

	f, _ := s.Panel().Field(parinfo.Username)
	assert.Equal(t, "scott", f.Value)
}

func TestSchema_RoundTrip(t *testing.T) {
	store := parinfo.New()
	s := inputSchema(t, store)
	s.SetTables([]Table{
		{Name: "kb.origin", Type: "origin", Use: true},
		{Name: "kb.assoc", Type: "assoc", Use: false},
	})
	s.SetRelationships([]relationship.Relationship{
		relationship.New("origin", "assoc", "orid=#orid#", relationship.AnyNumber),
	})
	s.SetFixedForeignKeys("assoc", []string{"commid"})
	s.WriteTo(store)

	back := inputSchema(t, parinfo.New())
	require.NoError(t, back.ReadFrom(store))
	assert.Equal(t, s.Tables(), back.Tables())
	assert.Equal(t, s.Relationships(), back.Relationships())
	assert.Equal(t, s.FixedForeignKeys(), back.FixedForeignKeys())
}

func TestSchema_SetTablesPrunes(t *testing.T) {
	s := NewSchema(NewDB(nil, nil), Input, nil)
	s.SetAll(
		[]Table{{Type: "origin"}, {Type: "assoc"}},
		[]relationship.Relationship{relationship.New("origin", "assoc", "orid=#orid#", relationship.AnyNumber)},
		map[string][]string{"assoc": {"commid"}},
	)

	s.SetTables([]Table{{Type: "origin"}})
	assert.Empty(t, s.Relationships())
	assert.Empty(t, s.FixedForeignKeys())
	assert.Equal(t, []string{"origin"}, s.TableTypes())
}

func TestSchema_InitializeAsync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kbdb.properties")
	require.NoError(t, os.WriteFile(path, []byte("a.name = Development\na.type = sql\n"), 0o600))

	s := NewSchema(NewDB(nil, nil), Input, nil)
	cache := accounts.NewCache(nil)

	posted := make(chan func(), 2)
	got := make(chan []string, 2)
	post := func(fn func()) { posted <- fn }
	done := func(names []string) { got <- names }

	s.InitializeAsync(cache, []string{path}, post, done)
	s.InitializeAsync(cache, []string{path}, post, done)

	select {
	case fn := <-posted:
		assert.False(t, s.Panel().Visible())
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("initialization never posted back")
	}
	assert.True(t, s.Panel().Visible())
	assert.Equal(t, []string{"Development", accounts.CustomItem}, <-got)
	assert.Empty(t, posted, "initialization runs once")
}

func TestSchema_ApplyConfiguration(t *testing.T) {
	s := NewSchema(NewDB(nil, nil), Input, nil)
	require.NoError(t, s.ApplyConfiguration(accounts.Configuration{
		Username:             "scott",
		TableDefinitionTable: "table_defs",
	}))
	assert.Equal(t, "table_defs", s.TableDefinitionTable())
}

func TestSchema_FixedForeignKeysIgnoreCase(t *testing.T) {
	store := parinfo.New()
	store.Set("In_Tables", "kb.origin origin\nkb.assoc assoc")
	store.Set("In_FixForeignKeys", "ORIGIN orid")

	s := inputSchema(t, parinfo.New())
	require.NoError(t, s.ReadFrom(store))
	assert.Equal(t, []string{"orid"}, s.FixedForeignKeysFor("origin"))

	tables := s.Tables()
	tables[1].Use = !tables[1].Use
	s.SetTables(tables)
	assert.Equal(t, map[string][]string{"ORIGIN": {"orid"}}, s.FixedForeignKeys())

	s.SetFixedForeignKeys("assoc", []string{"commid"})
	s.SetFixedForeignKeys("Assoc", []string{"arid"})
	assert.Equal(t, []string{"arid"}, s.FixedForeignKeysFor("ASSOC"))

	s.SetTables(tables[:1])
	assert.Equal(t, map[string][]string{"ORIGIN": {"orid"}}, s.FixedForeignKeys())
}

func TestSchema_ReadFromLegacyForms(t *testing.T) {
	tests := []struct {
		name   string
		tables string
		fixed  string
		want   []Table
		keys   map[string][]string
	}{
		{
			name:   "blank after comma",
			tables: "kb.origin origin",
			fixed:  "origin orid, evid",
			want:   []Table{{Name: "kb.origin", Type: "origin", Use: true}},
			keys:   map[string][]string{"ORIGIN": {"orid", "evid"}},
		},
		{
			name:   "four word table line",
			tables: "origin true false false\nkb.assoc assoc",
			want: []Table{
				{Type: "origin", Use: true},
				{Name: "kb.assoc", Type: "assoc", Use: true},
			},
			keys: map[string][]string{},
		},
		{
			name:   "null name in any case",
			tables: "NULL origin\nNull assoc",
			want: []Table{
				{Type: "origin", Use: true},
				{Type: "assoc", Use: true},
			},
			keys: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := parinfo.New()
			store.Set("In_Tables", tt.tables)
			if tt.fixed != "" {
				store.Set("In_FixForeignKeys", tt.fixed)
			}

			s := inputSchema(t, parinfo.New())
			require.NoError(t, s.ReadFrom(store))
			assert.Equal(t, tt.want, s.Tables())
			assert.Equal(t, tt.keys, s.FixedForeignKeys())
		})
	}
}
