// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

// Package store provides DuckDB-backed persistence for users, products
// and ratings. A single Store wraps the database/sql connection pool,
// owns the schema, and caches prepared statements for hot queries.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/shopmind/shopmind/internal/config"
	"github.com/shopmind/shopmind/internal/logging"
	"github.com/shopmind/shopmind/internal/metrics"
)

// Store wraps the DuckDB connection and provides data access methods.
type Store struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	// Prepared statement caching
	stmtCache   map[string]*sql.Stmt
	stmtCacheMu sync.RWMutex
}

// New opens (or creates) the DuckDB database and initializes the schema.
// An empty cfg.Path opens an in-memory database.
func New(cfg *config.DatabaseConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	connStr := fmt.Sprintf("?access_mode=read_write&threads=%d&max_memory=%s", numThreads, cfg.MaxMemory)
	if cfg.Path != "" {
		// Ensure parent directory exists for the database file.
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
		connStr = cfg.Path + connStr
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		conn:      conn,
		cfg:       cfg,
		stmtCache: make(map[string]*sql.Stmt),
	}

	s.configureConnectionPool()

	if err := s.createTables(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("path", displayPath(cfg.Path)).
		Int("threads", numThreads).
		Str("max_memory", cfg.MaxMemory).
		Msg("Database opened")

	return s, nil
}

// configureConnectionPool sets connection pool parameters
func (s *Store) configureConnectionPool() {
	maxOpen := runtime.NumCPU()
	s.conn.SetMaxOpenConns(maxOpen)
	s.conn.SetMaxIdleConns(2)
	s.conn.SetConnMaxLifetime(time.Hour)
	s.conn.SetConnMaxIdleTime(5 * time.Minute)
	metrics.DBConnectionPoolSize.Set(float64(maxOpen))
}

// Conn returns the underlying SQL database connection.
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// Path returns the database file path, empty for in-memory databases.
func (s *Store) Path() string {
	return s.cfg.Path
}

// Ping checks if the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// Checkpoint forces a WAL checkpoint so the data file is self-contained.
func (s *Store) Checkpoint(ctx context.Context) error {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	if _, err := s.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// Close closes the database connection and all prepared statements.
// A CHECKPOINT is attempted first to flush the WAL into the data file.
func (s *Store) Close() error {
	s.stmtCacheMu.Lock()
	for _, stmt := range s.stmtCache {
		if stmt != nil {
			closeWithLog(stmt, "prepared statement")
		}
	}
	s.stmtCache = make(map[string]*sql.Stmt)
	s.stmtCacheMu.Unlock()

	if s.conn != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := s.Checkpoint(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()

		return s.conn.Close()
	}
	return nil
}

// ensureContext creates a context with 30-second timeout if none provided
func (s *Store) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}

	return ctx, func() {}
}

// getStmt returns a cached prepared statement, preparing it on first use.
func (s *Store) getStmt(ctx context.Context, query string) (*sql.Stmt, error) {
	s.stmtCacheMu.RLock()
	stmt, ok := s.stmtCache[query]
	s.stmtCacheMu.RUnlock()
	if ok {
		return stmt, nil
	}

	s.stmtCacheMu.Lock()
	defer s.stmtCacheMu.Unlock()

	// Re-check under write lock. Another goroutine may have prepared it.
	if stmt, ok := s.stmtCache[query]; ok {
		return stmt, nil
	}

	stmt, err := s.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	s.stmtCache[query] = stmt
	return stmt, nil
}

// displayPath renders the database location for log lines.
func displayPath(path string) string {
	if path == "" {
		return ":memory:"
	}
	return path
}

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
