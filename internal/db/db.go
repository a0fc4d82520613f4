package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB for connection management. It is opened once at startup and handed to
// whoever needs it; there is no package-level handle.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// New creates a new DB connection. The parent directory of a file DSN is created if missing.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ensureDir(dsn); err != nil {
		return nil, fmt.Errorf("failed to prepare db dir: %w", err)
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// every connection to :memory: is a separate database
	if strings.Contains(dsn, ":memory:") {
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	logger.Info("db: opened", slog.String("dsn", dsn))
	return &DB{conn: conn, logger: logger}, nil
}

func ensureDir(dsn string) error {
	if dsn == "" || strings.HasPrefix(dsn, "file:") || strings.HasPrefix(dsn, ":") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Close closes the DB connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping runs a trivial query and reports whether the store answered with the expected value.
func (db *DB) Ping(ctx context.Context) error {
	var v int
	if err := db.conn.QueryRowContext(ctx, `SELECT 1 AS health`).Scan(&v); err != nil {
		return fmt.Errorf("health query: %w", err)
	}
	if v != 1 {
		return fmt.Errorf("health query returned %d", v)
	}
	return nil
}

// Exec executes a query
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

// QueryRow executes a query that is expected to return at most one row
func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}

// QueryRows executes a query returning rows; callers close them.
func (db *DB) QueryRows(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, query, args...)
}

// GetConn returns the underlying sql.DB
func (db *DB) GetConn() *sql.DB {
	return db.conn
}
