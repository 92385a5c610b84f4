// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure Go port, so no C toolchain is needed and
// ":memory:" databases work out of the box for tests.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool and implements both
// repository.SnippetRepository and repository.UserRepository.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/snippets.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database, one per DB value
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if dbPath != ":memory:" {
		// WAL lets readers proceed while a write is in flight.
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
		}
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// dsn turns a path into a modernc DSN. Foreign keys are a per-connection
// setting in SQLite, so they go in the DSN where every pooled connection
// picks them up; cascade deletes depend on it.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER UNIQUE,
			email         TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title       TEXT NOT NULL DEFAULT '',
			code        TEXT NOT NULL,
			linenos     INTEGER NOT NULL DEFAULT 0,
			language    TEXT NOT NULL DEFAULT 'python',
			style       TEXT NOT NULL DEFAULT 'friendly',
			highlighted TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets(created_at, id);
		CREATE INDEX IF NOT EXISTS idx_snippets_owner_id ON snippets(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	return nil
}

// isConstraintError reports whether err is a SQLite constraint violation
// (UNIQUE, FOREIGN KEY, NOT NULL...).
func isConstraintError(err error) bool {
	var se *moderncsqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

func clampList(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
