// Package config loads the editor's settings from defaults, an optional YAML
// file, SCHEMAED_ environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"schemaeditor/accounts"
)

// EnvPrefix prefixes every environment variable the loader reads.
// SCHEMAED_WINDOW__WIDTH sets window.width.
const EnvPrefix = "SCHEMAED_"

// Default values.
const (
	DefaultConnectTimeout = 10
	DefaultLogLevel       = "info"
	DefaultPrefix         = "In_"
	DefaultDAO            = "DB"
	DefaultWindowWidth    = 1024
	DefaultWindowHeight   = 768
)

// Window is the initial main window size.
type Window struct {
	Width  int `koanf:"width"`
	Height int `koanf:"height"`
}

// Environment is a connection preset taken from configuration instead of an
// account file.
type Environment struct {
	Type                 string `koanf:"type"`
	Driver               string `koanf:"driver"`
	Instance             string `koanf:"instance"`
	Username             string `koanf:"username"`
	Password             string `koanf:"password"`
	TableDefinitionTable string `koanf:"table_definition_table"`
	FlatFilePath         string `koanf:"flat_file_path"`
}

// Config is the loaded configuration.
type Config struct {
	Accounts       []string    `koanf:"accounts"`
	ParFile        string      `koanf:"par_file"`
	Prefix         string      `koanf:"prefix"`
	ConnectTimeout int         `koanf:"connect_timeout"`
	LogLevel       string      `koanf:"log_level"`
	DefaultDAO     string      `koanf:"default_dao"`
	Window         Window      `koanf:"window"`
	Environment    Environment `koanf:"environment"`
}

// Timeout returns the connection test timeout.
func (c *Config) Timeout() time.Duration {
	if c.ConnectTimeout <= 0 {
		return DefaultConnectTimeout * time.Second
	}
	return time.Duration(c.ConnectTimeout) * time.Second
}

// EnvironmentConfiguration returns the environment preset as an account
// configuration named accounts.EnvironmentItem. ok is false when no
// instance or flat file path is configured.
func (c *Config) EnvironmentConfiguration() (accounts.Configuration, bool) {
	e := c.Environment
	if e.Instance == "" && e.FlatFilePath == "" {
		return accounts.Configuration{}, false
	}
	typ := strings.ToLower(e.Type)
	if typ == "" {
		typ = accounts.TypeSQL
		if e.Instance == "" {
			typ = accounts.TypeFlatFile
		}
	}
	return accounts.Configuration{
		Name:                 accounts.EnvironmentItem,
		Type:                 typ,
		Driver:               e.Driver,
		Instance:             e.Instance,
		Username:             e.Username,
		Password:             e.Password,
		TableDefinitionTable: e.TableDefinitionTable,
		FlatFilePath:         e.FlatFilePath,
	}, true
}

// Load reads the configuration. cfgFile may be empty. Only flags that were
// set explicitly override the other sources; a flag named log-level sets
// log_level.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"prefix":          DefaultPrefix,
		"connect_timeout": DefaultConnectTimeout,
		"log_level":       DefaultLogLevel,
		"default_dao":     DefaultDAO,
		"window.width":    DefaultWindowWidth,
		"window.height":   DefaultWindowHeight,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Accounts = splitList(cfg.Accounts)
	return &cfg, nil
}

// splitList splits comma-separated entries, as an environment variable
// gives them, and drops blanks.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, s := range strings.Split(item, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
