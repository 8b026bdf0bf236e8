// Package database opens and keeps the bun handle the clinic repositories
// run on.
//
// A Provider opens its connection lazily on first use, pings it, and reopens
// it when a later ping fails. Three drivers are registered:
//
//   - "postgres" through github.com/lib/pq
//   - "pgx" through github.com/jackc/pgx/v5/stdlib
//   - "sqlite3" through github.com/mattn/go-sqlite3
//
// URLs may be given in JDBC form (jdbc:postgresql://host:5432/siga); they are
// translated to the DSN each driver expects.
package database
