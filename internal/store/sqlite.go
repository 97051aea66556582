package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cleared-dev/bankcap/internal/column"
	"github.com/cleared-dev/bankcap/internal/etlerr"
	"github.com/cleared-dev/bankcap/internal/model"
)

// DefaultTable is the table the banks are loaded into.
const DefaultTable = "Largest_banks"

const busyTimeoutMS = 5000

// DB manages the SQLite connection that holds the loaded table.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, etlerr.NewWriteError("create database directory", err)
		}
	}

	// modernc.org/sqlite registers the "sqlite" driver name (not "sqlite3").
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, etlerr.NewWriteError("open database "+path, err)
	}
	// One handle for the whole run.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMS)); err != nil {
		db.Close()
		return nil, etlerr.NewWriteError("open database "+path, err)
	}

	return &DB{db: db, path: path}, nil
}

// DB returns the underlying database handle.
func (d *DB) DB() *sql.DB {
	return d.db
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Ping verifies the connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// ReplaceTable drops the named table if present, recreates it from the
// table's columns and inserts every row in order, in one transaction.
func (d *DB) ReplaceTable(ctx context.Context, name string, t *model.Table) error {
	op := "replace table " + name

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return etlerr.NewWriteError(op, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+column.Quote(name)); err != nil {
		return etlerr.NewWriteError(op, fmt.Errorf("dropping: %w", err))
	}
	if _, err := tx.ExecContext(ctx, CreateStatement(name, t)); err != nil {
		return etlerr.NewWriteError(op, fmt.Errorf("creating: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, InsertStatement(name, t))
	if err != nil {
		return etlerr.NewWriteError(op, fmt.Errorf("preparing insert: %w", err))
	}
	defer stmt.Close()

	for i, b := range t.Banks {
		if _, err := stmt.ExecContext(ctx, rowValues(b)...); err != nil {
			return etlerr.NewWriteError(op, fmt.Errorf("inserting row %d (%s): %w", i, b.Name, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return etlerr.NewWriteError(op, fmt.Errorf("committing: %w", err))
	}
	return nil
}

// CreateStatement returns the CREATE TABLE statement for t.
// Text columns are TEXT and market cap columns are REAL.
func CreateStatement(name string, t *model.Table) string {
	cols := t.Columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		typ := "REAL"
		if c == column.Name {
			typ = "TEXT"
		}
		defs[i] = column.Quote(c) + " " + typ
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", column.Quote(name), strings.Join(defs, ", "))
}

// InsertStatement returns a parameterized INSERT for one row of t.
func InsertStatement(name string, t *model.Table) string {
	cols := t.Columns()
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = column.Quote(c)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		column.Quote(name), strings.Join(quoted, ", "), strings.Join(marks, ", "))
}

func rowValues(b model.Bank) []any {
	vals := make([]any, 0, 2+len(b.Converted))
	vals = append(vals, b.Name, b.MarketCapUSD.InexactFloat64())
	for _, a := range b.Converted {
		vals = append(vals, a.Value.InexactFloat64())
	}
	return vals
}
