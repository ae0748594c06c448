// Package accounts reads the account files that predefine named database and
// flat-file configurations, and caches them for the life of the process.
//
// An account file is a Java-style properties file. Every key ending in
// ".name" defines a configuration; the rest of its key names the
// configuration's other properties:
//
//	kb.db.0.name                     = Development
//	kb.db.0.type                     = sql
//	kb.db.0.sql.driver               = pgx
//	kb.db.0.sql.instance             = postgres://localhost/kb
//	kb.db.0.sql.username             = scott
//	kb.db.0.sql.password             = tiger
//	kb.db.0.sql.tabledefinitiontable = table_defs
//	kb.ff.0.name                     = Local files
//	kb.ff.0.type                     = flatfile
//	kb.ff.0.flatfile.path            = /data/kb
package accounts

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/magiconair/properties"
	"golang.org/x/sync/singleflight"
)

// Configuration types as written in account files.
const (
	TypeSQL      = "sql"
	TypeFlatFile = "flatfile"
)

// CustomItem is the configuration name offered for settings typed by hand.
const CustomItem = "custom"

// EnvironmentItem names the configuration built from environment settings.
const EnvironmentItem = "<environment>"

// Configuration is one named account.
type Configuration struct {
	Name                 string
	Type                 string
	Driver               string
	Instance             string
	Username             string
	Password             string
	TableDefinitionTable string
	FlatFilePath         string
}

// Cache holds every configuration read so far. Each file is read at most
// once, however many panels ask for it.
type Cache struct {
	logger *slog.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	configs map[string]Configuration
	files   map[string][]string // file name -> configuration names it defined
}

// NewCache returns an empty cache.
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		logger:  logger,
		configs: make(map[string]Configuration),
		files:   make(map[string][]string),
	}
}

var (
	sharedOnce  sync.Once
	sharedCache *Cache
)

// Shared returns the process-wide cache, logging through slog.Default.
func Shared() *Cache {
	sharedOnce.Do(func() {
		sharedCache = NewCache(slog.Default())
	})
	return sharedCache
}

// Load reads every file not yet read and returns the names of the
// configurations the files define, sorted. A file that cannot be read is
// logged and remembered as defining nothing.
func (c *Cache) Load(filenames ...string) []string {
	var names []string
	for _, filename := range filenames {
		if filename == "" {
			continue
		}
		v, _, _ := c.group.Do(filename, func() (any, error) {
			return c.loadFile(filename), nil
		})
		names = append(names, v.([]string)...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func (c *Cache) loadFile(filename string) []string {
	c.mu.RLock()
	names, done := c.files[filename]
	c.mu.RUnlock()
	if done {
		return names
	}

	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadFile(filename)
	if err != nil {
		c.logger.Error("unable to load account file", "file", filename, "error", err)
		c.mu.Lock()
		c.files[filename] = nil
		c.mu.Unlock()
		return nil
	}

	found := parse(props)

	c.mu.Lock()
	defer c.mu.Unlock()
	names = make([]string, 0, len(found))
	for _, cfg := range found {
		if _, exists := c.configs[cfg.Name]; exists {
			c.logger.Warn("account configuration overwrites an earlier one",
				"name", cfg.Name, "file", filename)
		}
		c.configs[cfg.Name] = cfg
		names = append(names, cfg.Name)
	}
	c.files[filename] = names
	c.logger.Debug("loaded account file", "file", filename, "configurations", len(names))
	return names
}

func parse(props *properties.Properties) []Configuration {
	get := func(key string) string {
		v, _ := props.Get(key)
		return strings.TrimSpace(v)
	}

	var out []Configuration
	keys := props.Keys()
	slices.Sort(keys)
	for _, key := range keys {
		if !strings.HasSuffix(key, ".name") {
			continue
		}
		prefix := strings.TrimSuffix(key, "name")
		out = append(out, Configuration{
			Name:                 get(key),
			Type:                 get(prefix + "type"),
			Driver:               get(prefix + "sql.driver"),
			Instance:             get(prefix + "sql.instance"),
			Username:             get(prefix + "sql.username"),
			Password:             get(prefix + "sql.password"),
			TableDefinitionTable: get(prefix + "sql.tabledefinitiontable"),
			FlatFilePath:         get(prefix + "flatfile.path"),
		})
	}
	return out
}

// Add stores cfg, replacing any configuration with the same name.
func (c *Cache) Add(cfg Configuration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs[cfg.Name] = cfg
}

// Get returns the named configuration.
func (c *Cache) Get(name string) (Configuration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.configs[name]
	return cfg, ok
}

// Names returns the names of the configurations of type typ, sorted, with
// CustomItem in its alphabetical place.
func (c *Cache) Names(typ string) []string {
	c.mu.RLock()
	names := []string{CustomItem}
	for _, name := range slices.Sorted(maps.Keys(c.configs)) {
		if c.configs[name].Type == typ && name != CustomItem {
			names = append(names, name)
		}
	}
	c.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Files returns the file names read so far.
func (c *Cache) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.files))
}

// TypeFor maps a DAO type to the configuration type listed for it.
func TypeFor(daoType string) (string, error) {
	switch strings.ToUpper(daoType) {
	case "DB":
		return TypeSQL, nil
	case "FF":
		return TypeFlatFile, nil
	default:
		return "", fmt.Errorf("no account configurations for DAO type %q", daoType)
	}
}
