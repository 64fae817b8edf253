package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool with foreign keys enabled.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
//
// Cascade deletes are declared at the schema level as a backstop; the
// services still remove dependent rows explicitly inside their own
// transactions so the invariant holds regardless of which side fires first.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scientists (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		user_id TEXT UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bugs (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		strength INTEGER NOT NULL,
		type TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scientist_bugs (
		scientist_id TEXT NOT NULL REFERENCES scientists(id) ON DELETE CASCADE,
		bug_id TEXT NOT NULL REFERENCES bugs(id) ON DELETE CASCADE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (scientist_id, bug_id)
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
	CREATE INDEX IF NOT EXISTS idx_scientist_bugs_bug_id ON scientist_bugs(bug_id);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
