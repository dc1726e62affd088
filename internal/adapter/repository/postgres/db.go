package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB is the shared connection pool. Besides backing every repository it
// implements domain.UnitOfWork (see tx.go), so one value is wired into
// both roles at startup.
type DB struct {
	*sql.DB
}

// NewDB opens a connection pool against the given lib/pq DSN (key=value
// form, see config.DatabaseConfig.ConnectionString) and pings it so a
// bad DSN fails at startup rather than on the first query.
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close releases the connection pool
func (db *DB) Close() error {
	return db.DB.Close()
}
