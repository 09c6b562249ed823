// Package postgres provides a PostgreSQL-backed query backend.
//
// Import this package with a blank identifier to register the backend:
//
//	import _ "github.com/schemalint/schemalint/pkg/backend/postgres"
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/schemalint/schemalint/pkg/backend"
)

// Backend implements backend.Backend for PostgreSQL.
type Backend struct {
	backend.BaseSQLBackend
}

// New creates a PostgreSQL backend. A nil logger selects a discard
// logger.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{BaseSQLBackend: backend.BaseSQLBackend{Logger: logger}}
}

// Connect opens and pings a PostgreSQL connection from cfg.DSN.
func (b *Backend) Connect(ctx context.Context, cfg backend.Config) error {
	b.Logger.Debug("connecting to postgres", slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	b.DB = db
	b.Cfg = cfg
	return nil
}

func init() {
	backend.Register("postgres", func(logger *slog.Logger) backend.Backend { return New(logger) })
}
