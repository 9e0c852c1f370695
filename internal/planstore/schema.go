// Package planstore provides SQL-backed plan storage on SQLite or PostgreSQL.
package planstore

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// The schema is shared by both dialects: timestamps are fixed-width UTC
// text so ordering is lexical everywhere.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS plans (
	plan_id         TEXT PRIMARY KEY,
	revision        TEXT NOT NULL DEFAULT '',
	document        TEXT NOT NULL,
	total_area      DOUBLE PRECISION NOT NULL DEFAULT 0,
	pallet_capacity INTEGER NOT NULL DEFAULT 0,
	item_count      INTEGER NOT NULL DEFAULT 0,
	saved_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plan_revisions (
	plan_id  TEXT NOT NULL,
	revision TEXT NOT NULL,
	document TEXT NOT NULL,
	saved_at TEXT NOT NULL,
	PRIMARY KEY (plan_id, revision)
);

CREATE INDEX IF NOT EXISTS idx_plan_revisions_saved ON plan_revisions(plan_id, saved_at);
`

// DB wraps a sql.DB with plan-specific operations.
type DB struct {
	conn    *sql.DB
	dialect string
}

// Open opens (or creates) the plan database and applies the schema. For
// sqlite, dsn is a file path; for postgres, a connection URL.
func Open(driver, dsn string) (*DB, error) {
	var (
		conn *sql.DB
		err  error
	)
	switch driver {
	case DriverSQLite:
		conn, err = sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	case DriverPostgres:
		conn, err = sql.Open("postgres", dsn)
	default:
		return nil, fmt.Errorf("planstore: unknown driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("planstore: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("planstore: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("planstore: apply schema: %w", err)
	}
	return &DB{conn: conn, dialect: driver}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres.
func (db *DB) rebind(query string) string {
	if db.dialect != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
