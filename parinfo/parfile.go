package parinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	delimiter   = "="
	commentMark = "//"
	maskedChar  = "*"
)

// ErrNoFileName is returned when writing a par file without a name.
var ErrNoFileName = errors.New("par file name is empty")

func stripComment(line string) string {
	if i := strings.Index(line, commentMark); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Parse reads par-file text into a new store.
//
// Each "name = value" line sets one parameter. A name with nothing after the
// delimiter starts a multi-line value made of the following lines, up to the
// next blank line. Text after // is a comment.
func Parse(r io.Reader) (*Store, error) {
	s := New()
	if err := s.ReadFrom(r); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadFrom adds the parameters of par-file text to s.
func (s *Store) ReadFrom(r io.Reader) error {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, commentMark) {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading parameters: %w", err)
	}

	for i := 0; i < len(lines); i++ {
		line := stripComment(lines[i])
		delim := strings.Index(line, delimiter)
		if delim <= 0 {
			continue
		}
		name := strings.TrimSpace(line[:delim])
		value := strings.TrimSpace(line[delim+1:])
		if value == "" {
			var block []string
			for i+1 < len(lines) {
				next := stripComment(lines[i+1])
				i++
				if next == "" {
					break
				}
				block = append(block, next)
			}
			value = strings.Join(block, "\n")
		}
		s.Set(name, value)
	}
	return nil
}

// ReadFile adds the parameters of the par file at path to s.
func (s *Store) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open par file: %w", err)
	}
	defer f.Close()
	if err := s.ReadFrom(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Write writes s as par-file text, one parameter per line in name order.
// Multi-line values are written as blocks. Any parameter whose name contains
// "password" is masked unless includePassword is set.
func (s *Store) Write(w io.Writer, includePassword bool) error {
	bw := bufio.NewWriter(w)
	for _, name := range s.Names() {
		value, ok := s.Get(name)
		if !ok {
			continue
		}
		if !includePassword && strings.Contains(reduce(name), "password") {
			value = strings.Repeat(maskedChar, len(value))
		}
		if strings.Contains(value, "\n") {
			value = "\n" + value + "\n"
		}
		if _, err := fmt.Fprintf(bw, "%s %s %s\n", name, delimiter, value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes s to the par file at path.
func (s *Store) WriteFile(path string, includePassword bool) error {
	if path == "" {
		return ErrNoFileName
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create par file: %w", err)
	}
	if err := s.Write(f, includePassword); err != nil {
		f.Close()
		return fmt.Errorf("failed to write par file: %w", err)
	}
	return f.Close()
}

// String returns s as par-file text with passwords masked.
func (s *Store) String() string {
	var b strings.Builder
	_ = s.Write(&b, false)
	return b.String()
}

// Fields splits a line on spaces. A double-quoted item may contain spaces
// and is returned without its quotes.
func Fields(line string) []string {
	if !strings.Contains(line, `"`) {
		return strings.Fields(line)
	}
	var (
		out    []string
		quoted strings.Builder
		inside bool
	)
	for _, word := range strings.Fields(line) {
		switch {
		case !inside && strings.HasPrefix(word, `"`):
			word = word[1:]
			if strings.HasSuffix(word, `"`) {
				out = append(out, strings.TrimSuffix(word, `"`))
				continue
			}
			inside = true
			quoted.Reset()
			quoted.WriteString(word)
		case inside:
			quoted.WriteByte(' ')
			if strings.HasSuffix(word, `"`) {
				quoted.WriteString(strings.TrimSuffix(word, `"`))
				out = append(out, quoted.String())
				inside = false
				continue
			}
			quoted.WriteString(word)
		default:
			out = append(out, word)
		}
	}
	if inside {
		out = append(out, quoted.String())
	}
	return out
}
