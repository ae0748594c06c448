package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemaeditor/accounts"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("par-file", "", "")
	fs.StringSlice("accounts", nil, "")
	fs.String("prefix", "", "")
	fs.String("log-level", "", "")
	fs.Int("connect-timeout", 0, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultPrefix, cfg.Prefix)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultDAO, cfg.DefaultDAO)
	assert.Equal(t, Window{Width: DefaultWindowWidth, Height: DefaultWindowHeight}, cfg.Window)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Empty(t, cfg.Accounts)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemaeditor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prefix: Out_
log_level: warn
connect_timeout: 30
accounts:
  - kbdb.properties
window:
  width: 800
environment:
  instance: postgres://localhost/kb
  username: scott
`), 0o600))

	t.Setenv("SCHEMAED_LOG_LEVEL", "debug")
	t.Setenv("SCHEMAED_WINDOW__HEIGHT", "600")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--connect-timeout", "5", "--config", path}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "Out_", cfg.Prefix, "file overrides defaults")
	assert.Equal(t, "debug", cfg.LogLevel, "env overrides file")
	assert.Equal(t, 5, cfg.ConnectTimeout, "flag overrides file")
	assert.Equal(t, Window{Width: 800, Height: 600}, cfg.Window)
	assert.Equal(t, []string{"kbdb.properties"}, cfg.Accounts)
	assert.Equal(t, "scott", cfg.Environment.Username)
}

func TestLoad_AccountsFromEnv(t *testing.T) {
	t.Setenv("SCHEMAED_ACCOUNTS", "a.properties, b.properties")
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.properties", "b.properties"}, cfg.Accounts)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestEnvironmentConfiguration(t *testing.T) {
	var cfg Config
	_, ok := cfg.EnvironmentConfiguration()
	assert.False(t, ok)

	cfg.Environment = Environment{Instance: "postgres://localhost/kb", Username: "scott"}
	got, ok := cfg.EnvironmentConfiguration()
	require.True(t, ok)
	assert.Equal(t, accounts.EnvironmentItem, got.Name)
	assert.Equal(t, accounts.TypeSQL, got.Type)
	assert.Equal(t, "scott", got.Username)

	cfg.Environment = Environment{FlatFilePath: "/data/kb"}
	got, ok = cfg.EnvironmentConfiguration()
	require.True(t, ok)
	assert.Equal(t, accounts.TypeFlatFile, got.Type)
}
