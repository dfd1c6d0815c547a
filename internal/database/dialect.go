package database

import (
	"database/sql"
	"strconv"
	"strings"
)

// Dialect abstracts the differences between supported database engines.
// Repositories write queries with ? placeholders; the dialect rewrites
// them where the driver expects another style.
type Dialect interface {
	// DriverName names the driver to pass to sql.Open.
	DriverName() string

	// DSN builds the connection string from the configured path or URL.
	DSN(config DialectConfig) string

	// RewriteQuery adapts placeholder syntax for the engine.
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether Result.LastInsertId works.
	// Engines without it use a RETURNING clause instead.
	SupportsLastInsertId() bool

	// ConfigureConnection applies pool settings and engine pragmas.
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the per-engine migrations directory.
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns DDL for the migrations ledger.
	CreateMigrationsTableQuery() string

	// BoolValue renders a boolean as an SQL literal for the engine.
	BoolValue(b bool) string
}

// DialectConfig carries connection settings. Path is used by SQLite,
// URL by PostgreSQL and MySQL.
type DialectConfig struct {
	Path string
	URL  string
}

// numberPlaceholders replaces each ? with $1, $2 and so on, in order.
func numberPlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
