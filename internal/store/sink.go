package store

import (
	"context"
	"errors"

	"github.com/cleared-dev/bankcap/internal/model"
)

// Event marks a completed step of Persist.
type Event int

const (
	EventCSVSaved Event = iota
	EventConnected
	EventStoreLoaded
)

// Sink persists a bank table to a CSV file and a SQLite table.
type Sink struct {
	csvPath string
	dbPath  string
	table   string
	notify  func(Event)
}

// NewSink creates a Sink. An empty table name selects DefaultTable.
func NewSink(csvPath, dbPath, table string) *Sink {
	if table == "" {
		table = DefaultTable
	}
	return &Sink{csvPath: csvPath, dbPath: dbPath, table: table}
}

// Table returns the destination table name.
func (s *Sink) Table() string { return s.table }

// OnEvent registers fn to be called after each step that succeeds.
func (s *Sink) OnEvent(fn func(Event)) { s.notify = fn }

func (s *Sink) emit(ev Event) {
	if s.notify != nil {
		s.notify(ev)
	}
}

// Outcome reports the result of each write. A nil error means success.
// DB is the open database when the table was loaded; the caller closes it.
type Outcome struct {
	CSV   error
	Store error
	DB    *DB
}

// Err joins both failures, or returns nil if both writes succeeded.
func (o Outcome) Err() error {
	return errors.Join(o.CSV, o.Store)
}

// Persist writes the CSV file, then opens the database and replaces the
// table. The database is attempted even if the CSV write failed.
func (s *Sink) Persist(ctx context.Context, t *model.Table) Outcome {
	var out Outcome

	out.CSV = SaveCSV(s.csvPath, t)
	if out.CSV == nil {
		s.emit(EventCSVSaved)
	}

	db, err := Open(s.dbPath)
	if err != nil {
		out.Store = err
		return out
	}
	s.emit(EventConnected)

	if err := db.ReplaceTable(ctx, s.table, t); err != nil {
		out.Store = errors.Join(err, db.Close())
		return out
	}
	s.emit(EventStoreLoaded)

	out.DB = db
	return out
}
