// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// We use modernc.org/sqlite rather than mattn/go-sqlite3: it is a pure Go
// translation of SQLite, so no C compiler is needed and cross-compilation
// stays painless. The driver registers itself with database/sql under the
// name "sqlite" via the blank import below.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The per-entity stores returned by
// Users and Files implement the repository interfaces on top of it.
type DB struct {
	conn *sql.DB
}

// Users returns the user store backed by this connection.
func (db *DB) Users() *UserStore {
	return &UserStore{conn: db.conn}
}

// Files returns the file store backed by this connection.
func (db *DB) Files() *FileStore {
	return &FileStore{conn: db.conn}
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Pass ":memory:" for an in-memory database, used by tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces a real connection so a bad path or permissions problem
	// surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets concurrent reads proceed while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// SQLite ships with foreign keys off; the files→users constraint
	// depends on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent, so it is safe to run on every startup.
//
// UNIQUE(email) closes the duplicate-account race: two concurrent first
// logins for the same address cannot both insert; the loser re-reads the
// winner's row (see user.go).
//
// ON DELETE CASCADE on files.user_id guarantees no orphan files, though
// nothing in this codebase ever deletes a user.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			email      TEXT NOT NULL UNIQUE,
			name       TEXT NOT NULL DEFAULT '',
			picture    TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS files (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			content    TEXT NOT NULL DEFAULT '',
			type       TEXT NOT NULL CHECK (type IN ('c', 'rust')),
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_files_user_id ON files(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating files table: %w", err)
	}

	return nil
}
