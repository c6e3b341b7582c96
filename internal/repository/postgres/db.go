package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
)

// DB is a shared database handle that is established lazily on first use.
// The handle is owned by the composition root and injected into the
// repositories; racing first callers share a single establishment attempt,
// and a failed attempt is not cached so later calls can retry.
type DB struct {
	mu   sync.Mutex
	conn *sql.DB
	open func() (*sql.DB, error)
}

// NewDB returns an unestablished handle for the given Postgres DSN.
func NewDB(dsn string) *DB {
	return &DB{
		open: func() (*sql.DB, error) {
			return sql.Open("postgres", dsn)
		},
	}
}

// NewDBFromConn wraps an already-open connection. Used by tests and by
// callers that manage the connection themselves.
func NewDBFromConn(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

// Conn returns the shared connection, opening and verifying it on first
// use. The mutex keeps concurrent first callers on the same in-flight
// establishment instead of opening duplicates.
func (d *DB) Conn(ctx context.Context) (*sql.DB, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		return d.conn, nil
	}
	conn, err := d.open()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	d.conn = conn
	return d.conn, nil
}

// Close closes the underlying connection if it was established.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}
