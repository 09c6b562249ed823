// Package duckdb provides a DuckDB-backed query backend for local
// analysis runs.
//
// Import this package with a blank identifier to register the backend:
//
//	import _ "github.com/schemalint/schemalint/pkg/backend/duckdb"
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/schemalint/schemalint/pkg/backend"
)

// Backend implements backend.Backend for DuckDB.
type Backend struct {
	backend.BaseSQLBackend
}

// New creates a DuckDB backend. A nil logger selects a discard logger.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{BaseSQLBackend: backend.BaseSQLBackend{Logger: logger}}
}

// Connect opens a DuckDB database. An empty DSN selects an in-memory
// database.
func (b *Backend) Connect(ctx context.Context, cfg backend.Config) error {
	dsn := cfg.DSN
	if dsn == ":memory:" {
		dsn = ""
	}
	b.Logger.Debug("opening duckdb", slog.String("path", dsn))

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return fmt.Errorf("failed to open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	b.DB = db
	b.Cfg = cfg
	return nil
}

func init() {
	backend.Register("duckdb", func(logger *slog.Logger) backend.Backend { return New(logger) })
}
