package accounts

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const devAccounts = `
kb.db.0.name = Development
kb.db.0.type = sql
kb.db.0.sql.driver = pgx
kb.db.0.sql.instance = postgres://localhost/kb
kb.db.0.sql.username = scott
kb.db.0.sql.password = tiger
kb.db.0.sql.tabledefinitiontable = table_defs
kb.ff.0.name = Local files
kb.ff.0.type = flatfile
kb.ff.0.flatfile.path = /data/kb
`

const prodAccounts = `
kb.db.0.name = Development
kb.db.0.type = sql
kb.db.0.sql.instance = postgres://dev-2/kb
kb.db.1.name = Archive
kb.db.1.type = sql
kb.db.1.sql.instance = ${HOME}/archive.db
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCache_Load(t *testing.T) {
	c := NewCache(nil)
	dev := writeFile(t, "dev.properties", devAccounts)

	names := c.Load(dev)
	assert.Equal(t, []string{"Development", "Local files"}, names)

	cfg, ok := c.Get("Development")
	require.True(t, ok)
	assert.Equal(t, Configuration{
		Name:                 "Development",
		Type:                 TypeSQL,
		Driver:               "pgx",
		Instance:             "postgres://localhost/kb",
		Username:             "scott",
		Password:             "tiger",
		TableDefinitionTable: "table_defs",
	}, cfg)

	ff, ok := c.Get("Local files")
	require.True(t, ok)
	assert.Equal(t, "/data/kb", ff.FlatFilePath)

	assert.Equal(t, []string{"Development", CustomItem}, c.Names(TypeSQL))
	assert.Equal(t, []string{"Local files", CustomItem}, c.Names(TypeFlatFile))
}

func TestCache_LaterFileOverwrites(t *testing.T) {
	var logs bytes.Buffer
	c := NewCache(slog.New(slog.NewTextHandler(&logs, nil)))

	names := c.Load(
		writeFile(t, "dev.properties", devAccounts),
		writeFile(t, "prod.properties", prodAccounts),
	)
	assert.Equal(t, []string{"Archive", "Development", "Local files"}, names)

	cfg, _ := c.Get("Development")
	assert.Equal(t, "postgres://dev-2/kb", cfg.Instance)
	assert.Empty(t, cfg.Username)
	assert.Contains(t, logs.String(), "overwrites")

	archive, _ := c.Get("Archive")
	assert.Equal(t, "${HOME}/archive.db", archive.Instance)
}

func TestCache_LoadsEachFileOnce(t *testing.T) {
	c := NewCache(nil)
	path := writeFile(t, "dev.properties", devAccounts)
	c.Load(path)

	c.Add(Configuration{Name: "Development", Type: TypeSQL, Username: "edited"})
	names := c.Load(path)
	assert.Equal(t, []string{"Development", "Local files"}, names)

	cfg, _ := c.Get("Development")
	assert.Equal(t, "edited", cfg.Username)
}

func TestCache_ConcurrentLoad(t *testing.T) {
	c := NewCache(nil)
	path := writeFile(t, "dev.properties", devAccounts)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Load(path)
		}(i)
	}
	wg.Wait()

	for _, names := range results {
		assert.Equal(t, []string{"Development", "Local files"}, names)
	}
	assert.Equal(t, []string{path}, c.Files())
}

func TestCache_UnreadableFile(t *testing.T) {
	var logs bytes.Buffer
	c := NewCache(slog.New(slog.NewTextHandler(&logs, nil)))
	missing := filepath.Join(t.TempDir(), "missing.properties")

	assert.Empty(t, c.Load(missing, ""))
	assert.Contains(t, logs.String(), "unable to load account file")
	assert.Equal(t, []string{missing}, c.Files())
	assert.Equal(t, []string{CustomItem}, c.Names(TypeSQL))
}

func TestCache_EnvironmentItem(t *testing.T) {
	c := NewCache(nil)
	c.Add(Configuration{Name: EnvironmentItem, Type: TypeSQL, Driver: "sqlite"})
	assert.Equal(t, []string{EnvironmentItem, CustomItem}, c.Names(TypeSQL))
}

func TestShared(t *testing.T) {
	assert.Same(t, Shared(), Shared())
}

func TestTypeFor(t *testing.T) {
	typ, err := TypeFor("db")
	require.NoError(t, err)
	assert.Equal(t, TypeSQL, typ)

	typ, err = TypeFor("FF")
	require.NoError(t, err)
	assert.Equal(t, TypeFlatFile, typ)

	_, err = TypeFor("XML")
	assert.Error(t, err)
}
