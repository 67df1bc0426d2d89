package db

import (
	"database/sql"
	"embed"
	"fmt"
	"strconv"

	"github.com/pressly/goose/v3"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Store owns the contact database: companies, positions, people, their
// position links and the settings table.
//
// A Store returned by Open or New runs every statement directly on the
// connection. Inside WithTx the callback receives a Store bound to the
// transaction instead.
type Store struct {
	conn *sql.DB
	exec DBExecutor
	tx   *sql.Tx
	path string
}

// Open opens (creating if needed) the SQLite database at path, brings the
// schema up to date and seeds default settings.
// Use MemoryPath for a throwaway database.
func Open(path string) (*Store, error) {
	dsn := path + "?_foreign_keys=on"
	if path != MemoryPath {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &PersistenceError{Op: "open database", Err: err}
	}
	// One connection: a single writer, and in-memory databases are per connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, &PersistenceError{Op: "open database", Err: err}
	}

	if err := InitDB(conn); err != nil {
		conn.Close()
		return nil, err
	}

	s := New(conn)
	s.path = path
	return s, nil
}

// New wraps an already-open connection. The schema is assumed to exist.
func New(conn *sql.DB) *Store {
	return &Store{conn: conn, exec: conn}
}

// Path returns the database location given to Open.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s.conn == nil || s.tx != nil {
		return nil
	}
	return s.conn.Close()
}

// InitDB runs the embedded migrations on conn and seeds default settings.
func InitDB(conn *sql.DB) error {
	if err := Migrate(conn); err != nil {
		return err
	}
	return New(conn).seedDefaults()
}

// Migrate applies all pending schema migrations.
func Migrate(conn *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		return &PersistenceError{Op: "migrate schema", Err: err}
	}
	return nil
}

// SchemaVersion returns the applied migration version.
func (s *Store) SchemaVersion() (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	v, err := goose.GetDBVersion(s.conn)
	if err != nil {
		return 0, &PersistenceError{Op: "read schema version", Err: err}
	}
	return v, nil
}

func (s *Store) seedDefaults() error {
	_, ok, err := s.GetSetting(SettingEmployeeThreshold)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.SetSetting(SettingEmployeeThreshold, strconv.Itoa(DefaultEmployeeThreshold))
}

// WithTx runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
// Calling WithTx on a transaction-bound Store reuses the open transaction.
func (s *Store) WithTx(fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return &PersistenceError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback() // No-op after commit

	if err := fn(&Store{conn: s.conn, exec: tx, tx: tx, path: s.path}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit transaction", Err: err}
	}
	return nil
}
