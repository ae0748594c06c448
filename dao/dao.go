// Package dao checks that the data source a set of connection parameters
// describes can be reached, and lists the tables it offers.
package dao

import (
	"context"
	"database/sql"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"schemaeditor/parinfo"
)

var (
	ErrUnknownDAOType = errors.New("unknown DAO type")
	ErrUnknownDriver  = errors.New("unknown database driver")
	ErrMissingParam   = errors.New("missing parameter")
	ErrNotDirectory   = errors.New("not a directory")
	ErrMalformedXML   = errors.New("malformed XML")
	ErrUnsupported    = errors.New("operation not supported for DAO type")
)

func requireParam(params *parinfo.Store, name string) (string, error) {
	v, ok := params.Get(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	return strings.TrimSpace(v), nil
}

// Test checks the data source described by params. The DAOType parameter
// selects the check.
func Test(ctx context.Context, params *parinfo.Store) error {
	typ, err := requireParam(params, parinfo.DAOType)
	if err != nil {
		return err
	}
	switch strings.ToUpper(typ) {
	case parinfo.DAOTypeDB:
		db, err := Open(ctx, params)
		if err != nil {
			return err
		}
		return db.Close()
	case parinfo.DAOTypeFF:
		_, err := flatFileDir(params)
		return err
	case parinfo.DAOTypeXML:
		return checkXML(params)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDAOType, typ)
	}
}

// Open connects to the database described by params and pings it. The
// caller closes the returned handle.
func Open(ctx context.Context, params *parinfo.Store) (*sql.DB, error) {
	instance, err := requireParam(params, parinfo.Instance)
	if err != nil {
		return nil, err
	}
	driver := strings.ToLower(params.GetOr(parinfo.Driver, "pgx"))

	var db *sql.DB
	switch driver {
	case "pgx", "postgres", "postgresql":
		cfg, err := pgx.ParseConfig(instance)
		if err != nil {
			return nil, fmt.Errorf("failed to parse postgres instance: %w", err)
		}
		if u := params.GetOr(parinfo.Username, ""); u != "" {
			cfg.User = u
		}
		if p := params.GetOr(parinfo.Password, ""); p != "" {
			cfg.Password = p
		}
		db = stdlib.OpenDB(*cfg)
	case "sqlite", "sqlite3":
		db, err = sql.Open("sqlite", instance)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}
	return db, nil
}

func isSQLite(params *parinfo.Store) bool {
	d := strings.ToLower(params.GetOr(parinfo.Driver, ""))
	return d == "sqlite" || d == "sqlite3"
}

func flatFileDir(params *parinfo.Store) (string, error) {
	dir, err := requireParam(params, parinfo.FlatFilePath)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("flat file path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return dir, nil
}

func checkXML(params *parinfo.Store) error {
	path, err := requireParam(params, parinfo.XMLInputFile)
	if err != nil {
		// an output schema names the file it will write
		out, outErr := requireParam(params, parinfo.XMLOutputFile)
		if outErr != nil {
			return err
		}
		dir := filepath.Dir(out)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		}
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("xml input file: %w", err)
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedXML, path, err)
		}
	}
}

const (
	postgresTablesQuery = `
		SELECT table_schema || '.' || table_name
		FROM information_schema.tables
		WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY 1`
	sqliteTablesQuery = `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`
)

// AvailableTables lists the tables of the data source: schema-qualified
// catalog tables for a database, regular files for a flat file directory.
func AvailableTables(ctx context.Context, params *parinfo.Store) ([]string, error) {
	switch strings.ToUpper(params.GetOr(parinfo.DAOType, "")) {
	case parinfo.DAOTypeDB:
		db, err := Open(ctx, params)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		query := postgresTablesQuery
		if isSQLite(params) {
			query = sqliteTablesQuery
		}
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to list tables: %w", err)
		}
		defer rows.Close()

		var tables []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return nil, fmt.Errorf("failed to scan table name: %w", err)
			}
			tables = append(tables, name)
		}
		return tables, rows.Err()
	case parinfo.DAOTypeFF:
		dir, err := flatFileDir(params)
		if err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}
		var tables []string
		for _, e := range entries {
			if e.Type().IsRegular() {
				tables = append(tables, e.Name())
			}
		}
		slices.Sort(tables)
		return tables, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, params.GetOr(parinfo.DAOType, ""))
	}
}

// TableExists reports whether name is among the available tables. Names
// compare case-insensitively; a database name matches with or without its
// schema qualifier and a flat file name with or without its extension.
func TableExists(ctx context.Context, params *parinfo.Store, name string) (bool, error) {
	missing, err := MissingTables(ctx, params, []string{name})
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

// MissingTables returns the names, in order, that do not match an available
// table, listing the data source once.
func MissingTables(ctx context.Context, params *parinfo.Store, names []string) ([]string, error) {
	tables, err := AvailableTables(ctx, params)
	if err != nil {
		return nil, err
	}
	file := strings.EqualFold(params.GetOr(parinfo.DAOType, ""), parinfo.DAOTypeFF)

	var missing []string
	for _, name := range names {
		if !slices.ContainsFunc(tables, func(t string) bool { return tableMatches(t, name, file) }) {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

func tableMatches(available, name string, file bool) bool {
	name = strings.TrimSpace(name)
	if strings.EqualFold(available, name) {
		return true
	}
	if file {
		return strings.EqualFold(strings.TrimSuffix(available, filepath.Ext(available)), name)
	}
	if strings.Contains(name, ".") {
		return false
	}
	if i := strings.LastIndex(available, "."); i >= 0 {
		return strings.EqualFold(available[i+1:], name)
	}
	return false
}
