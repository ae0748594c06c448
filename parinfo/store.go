// Package parinfo is the string-keyed parameter set the editor reads from and
// writes to par files. Names are matched ignoring case and underscores, so
// Index_Tablespace and indextablespace are the same parameter.
package parinfo

import (
	"os"
	"slices"
	"strings"
	"sync"
)

type entry struct {
	name  string // spelling used when the parameter was last set
	value string
}

// Store is a parameter set. The zero value is ready to use and a Store is
// safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	params map[string]entry
}

// New returns an empty store.
func New() *Store {
	return &Store{params: make(map[string]entry)}
}

// reduce maps a parameter name to its lookup key.
func reduce(name string) string {
	return strings.TrimSpace(strings.ToLower(strings.ReplaceAll(name, "_", "")))
}

func (s *Store) setLocked(name, value string) {
	if s.params == nil {
		s.params = make(map[string]entry)
	}
	s.params[reduce(name)] = entry{name: strings.TrimSpace(name), value: value}
}

// Set stores value, trimmed and with {$NAME} references expanded, under name.
func (s *Store) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(name, expand(strings.TrimSpace(value)))
}

// SetNonEmpty is Set, skipped when value is empty.
func (s *Store) SetNonEmpty(name, value string) {
	if value == "" {
		return
	}
	s.Set(name, value)
}

// Append adds value as a new line of a multi-line parameter, creating the
// parameter when it does not exist.
func (s *Store) Append(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value = expand(value)
	if e, ok := s.params[reduce(name)]; ok {
		value = e.value + "\n" + value
	}
	s.setLocked(name, strings.TrimSpace(value))
}

// Get returns the value of name and whether it is set.
func (s *Store) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.params[reduce(name)]
	return e.value, ok
}

// GetOr returns the value of name, or def when it is not set.
func (s *Store) GetOr(name, def string) string {
	if v, ok := s.Get(name); ok {
		return v
	}
	return def
}

// Has reports whether name is set.
func (s *Store) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Remove deletes name.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.params, reduce(name))
}

// Names returns the parameter names as they were spelled when set, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.params))
	for _, e := range s.params {
		names = append(names, e.name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of parameters.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.params)
}

// Clear removes every parameter.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.params)
}

// Merge copies every parameter of other into s, replacing existing values.
func (s *Store) Merge(other *Store) {
	if other == nil || other == s {
		return
	}
	other.mu.RLock()
	entries := make([]entry, 0, len(other.params))
	for _, e := range other.params {
		entries = append(entries, e)
	}
	other.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.setLocked(e.name, e.value)
	}
}

// Clone returns an independent copy of s.
func (s *Store) Clone() *Store {
	c := New()
	c.Merge(s)
	return c
}

// expand replaces {$NAME} references with the environment variable NAME.
// References to unset variables are left as written.
func expand(value string) string {
	var b strings.Builder
	rest := value
	for {
		start := strings.Index(rest, "{$")
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			break
		}
		end += start
		b.WriteString(rest[:start])
		if env, ok := os.LookupEnv(rest[start+2 : end]); ok && env != "" {
			b.WriteString(env)
		} else {
			b.WriteString(rest[start : end+1])
		}
		rest = rest[end+1:]
	}
	if b.Len() == 0 {
		return value
	}
	b.WriteString(rest)
	return b.String()
}
